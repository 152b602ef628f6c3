// Package models содержит доменные структуры платформы: сайты, пользователи,
// отзывы, настройки, лиды, посещения и файловые ресурсы, а также
// вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Site представляет сайт арендатора платформы.
// Slug хранится в канонической форме (обрезанные пробелы, верхний регистр),
// все операции с хранилищем используют только её.
type Site struct {
	Slug       string    // Канонический идентификатор сайта
	Active     bool      // Активен ли сайт
	VipPinHash *string   // bcrypt-хэш VIP PIN, nil если PIN не установлен
	Notes      string    // Служебные заметки администратора
	CreatedAt  time.Time // Дата создания
}

// DummySite используется для приёма данных из JSON-запроса на создание сайта.
type DummySite struct {
	Slug  string `json:"slug" validate:"required,alphanum"` // Идентификатор сайта
	Notes string `json:"notes"`                             // Заметки (опционально)
}

// DummyToggle используется для приёма запроса на включение/выключение сайта.
type DummyToggle struct {
	Active *bool `json:"active" validate:"required"` // Новое состояние сайта
}

// DummyVipPin используется для приёма запроса на установку VIP PIN.
type DummyVipPin struct {
	Pin string `json:"pin" validate:"required,min=4"` // Новый PIN
}
