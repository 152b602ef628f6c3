package models

import "time"

// Asset представляет метаданные файлового ресурса сайта.
type Asset struct {
	ID          string    `json:"id"`           // Уникальный идентификатор ресурса
	SiteSlug    string    `json:"site_slug"`    // Слаг сайта
	Filename    string    `json:"filename"`     // Исходное имя файла
	ContentType string    `json:"content_type"` // MIME-тип
	SizeBytes   int64     `json:"size_bytes"`   // Размер файла
	StorageKey  string    `json:"storage_key"`  // Ключ в файловом хранилище
	CreatedAt   time.Time `json:"created_at"`   // Дата загрузки
}

// DummyAsset используется для приёма метаданных загружаемого файла.
type DummyAsset struct {
	Filename    string `json:"filename" validate:"required"`     // Имя файла
	ContentType string `json:"content_type" validate:"required"` // MIME-тип
	SizeBytes   int64  `json:"size_bytes" validate:"gt=0"`       // Размер файла
}
