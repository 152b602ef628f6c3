package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

// InsertSettingsSnapshot добавляет новую запись в журнал настроек сайта
// и возвращает её ID. Журнал append-only, существующие строки не изменяются.
func (s *Storage) InsertSettingsSnapshot(ctx context.Context, slug string, data map[string]any) (int, error) {
	const op = "storage.InsertSettingsSnapshot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO settings_snapshots (site_slug, data)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, slug, payload).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLatestSettingsSnapshot возвращает последнюю по времени запись настроек сайта.
func (s *Storage) GetLatestSettingsSnapshot(ctx context.Context, slug string) (*models.SettingsSnapshot, error) {
	const op = "storage.GetLatestSettingsSnapshot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, site_slug, data, created_at
			  FROM settings_snapshots
			  WHERE site_slug = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, slug)

	var snapshot models.SettingsSnapshot
	var payload []byte
	if err := row.Scan(&snapshot.ID, &snapshot.SiteSlug, &payload, &snapshot.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(payload, &snapshot.Data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &snapshot, nil
}
