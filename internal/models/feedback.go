package models

import "time"

// Feedback представляет отзыв посетителя сайта.
// Создаётся неодобренным; одобрение и публичная видимость — независимые флаги.
type Feedback struct {
	ID         int       `json:"id"`              // Идентификатор отзыва
	SiteSlug   string    `json:"site_slug"`       // Слаг сайта
	AuthorName string    `json:"author_name"`     // Имя автора
	Email      string    `json:"email,omitempty"` // Почта автора (приватное поле)
	Phone      string    `json:"phone,omitempty"` // Телефон автора (приватное поле)
	Rating     int       `json:"rating"`          // Оценка от 1 до 5
	Comment    string    `json:"comment"`         // Текст отзыва
	Approved   bool      `json:"approved"`        // Одобрен ли отзыв
	IsPublic   bool      `json:"is_public"`       // Виден ли отзыв публично
	CreatedAt  time.Time `json:"created_at"`      // Дата создания
}

// DummyFeedback используется для приёма данных из JSON-запроса на создание отзыва.
type DummyFeedback struct {
	AuthorName string `json:"author_name"`                          // Имя автора (опционально)
	Email      string `json:"email" validate:"omitempty,email"`     // Почта автора
	Phone      string `json:"phone"`                                // Телефон автора
	Rating     int    `json:"rating" validate:"required"`           // Оценка от 1 до 5
	Comment    string `json:"comment" validate:"required"`          // Текст отзыва
}

// DummyApprove используется для приёма запроса на одобрение отзыва.
type DummyApprove struct {
	Approved *bool `json:"approved" validate:"required"` // Новое значение флага одобрения
	IsPublic *bool `json:"is_public"`                    // Публичная видимость (опционально)
}

// FeedbackStats агрегирует статистику отзывов сайта.
type FeedbackStats struct {
	Total         int         `json:"total"`          // Всего отзывов
	Approved      int         `json:"approved"`       // Одобренных
	Pending       int         `json:"pending"`        // Ожидающих одобрения
	AverageRating float64     `json:"average_rating"` // Средняя оценка, один знак после запятой
	Histogram     map[int]int `json:"histogram"`      // Распределение оценок 1..5
}
