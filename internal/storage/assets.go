package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

// CreateAsset сохраняет метаданные файлового ресурса.
func (s *Storage) CreateAsset(ctx context.Context, asset models.Asset) error {
	const op = "storage.CreateAsset"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO assets (id, site_slug, filename, content_type, size_bytes, storage_key)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		asset.ID, asset.SiteSlug, asset.Filename, asset.ContentType,
		asset.SizeBytes, asset.StorageKey)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAssets возвращает файловые ресурсы сайта, новые первыми.
func (s *Storage) ListAssets(ctx context.Context, slug string) ([]*models.Asset, error) {
	const op = "storage.ListAssets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, site_slug, filename, content_type, size_bytes, storage_key, created_at
			  FROM assets
			  WHERE site_slug = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Asset
	for rows.Next() {
		var item models.Asset
		if err := rows.Scan(&item.ID, &item.SiteSlug, &item.Filename, &item.ContentType,
			&item.SizeBytes, &item.StorageKey, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	err = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveAsset удаляет метаданные ресурса в пределах сайта
// и возвращает количество удалённых строк.
func (s *Storage) RemoveAsset(ctx context.Context, slug, id string) (int, error) {
	const op = "storage.RemoveAsset"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM assets WHERE id = $1 AND site_slug = $2`
	result, err := s.DB.ExecContext(ctx, query, id, slug)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
