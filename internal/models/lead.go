package models

import "time"

// Lead представляет заявку посетителя сайта.
type Lead struct {
	ID        int       `json:"id"`         // Идентификатор заявки
	SiteSlug  string    `json:"site_slug"`  // Слаг сайта
	Name      string    `json:"name"`       // Имя посетителя
	Email     string    `json:"email"`      // Электронная почта
	Phone     string    `json:"phone"`      // Телефон
	Message   string    `json:"message"`    // Текст заявки
	CreatedAt time.Time `json:"created_at"` // Дата создания
}

// DummyLead используется для приёма данных из JSON-запроса на создание заявки.
type DummyLead struct {
	Name    string `json:"name" validate:"required"`         // Имя посетителя
	Email   string `json:"email" validate:"omitempty,email"` // Почта (опционально)
	Phone   string `json:"phone"`                            // Телефон (опционально)
	Message string `json:"message"`                          // Текст заявки
}
