package models

import "time"

// SettingsSnapshot представляет одну запись журнала настроек сайта.
// Журнал append-only: каждая запись настроек добавляет новую строку,
// текущие настройки — последняя строка по времени создания.
type SettingsSnapshot struct {
	ID        int            `json:"id"`         // Идентификатор снимка
	SiteSlug  string         `json:"site_slug"`  // Слаг сайта
	Data      map[string]any `json:"data"`       // Полезная нагрузка настроек
	CreatedAt time.Time      `json:"created_at"` // Дата записи
}

// DummySectionDef используется для приёма определения секции сайта.
type DummySectionDef struct {
	Key    string         `json:"key" validate:"required,alphanum"` // Ключ секции
	Schema map[string]any `json:"schema" validate:"required"`       // Описание секции
}
