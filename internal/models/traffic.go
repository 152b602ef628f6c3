package models

import "time"

// TrafficHit представляет одно посещение страницы сайта. Записи append-only.
type TrafficHit struct {
	ID        int       `json:"id"`         // Идентификатор записи
	SiteSlug  string    `json:"site_slug"`  // Слаг сайта
	Path      string    `json:"path"`       // Путь страницы
	Referrer  string    `json:"referrer"`   // Источник перехода
	SessionID string    `json:"session_id"` // Идентификатор сессии посетителя
	CreatedAt time.Time `json:"created_at"` // Время посещения
}

// DummyTrafficHit используется для приёма данных о посещении из JSON-запроса.
type DummyTrafficHit struct {
	Path      string `json:"path" validate:"required"`            // Путь страницы
	Referrer  string `json:"referrer"`                            // Источник перехода
	SessionID string `json:"session_id" validate:"omitempty,uuid"` // Сессия (опционально)
}
