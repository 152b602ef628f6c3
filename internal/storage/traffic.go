package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

// CreateTrafficHit добавляет запись о посещении и возвращает её ID.
func (s *Storage) CreateTrafficHit(ctx context.Context, hit models.TrafficHit) (int, error) {
	const op = "storage.CreateTrafficHit"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO traffic_hits (site_slug, path, referrer, session_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		hit.SiteSlug, hit.Path, hit.Referrer, hit.SessionID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTrafficHits возвращает посещения сайта с пагинацией, новые первыми.
func (s *Storage) ListTrafficHits(ctx context.Context, slug string, limit, offset int) ([]*models.TrafficHit, error) {
	const op = "storage.ListTrafficHits"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, site_slug, path, referrer, session_id, created_at
			  FROM traffic_hits
			  WHERE site_slug = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, slug, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.TrafficHit
	for rows.Next() {
		var item models.TrafficHit
		if err := rows.Scan(&item.ID, &item.SiteSlug, &item.Path, &item.Referrer,
			&item.SessionID, &item.CreatedAt); err != nil {
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

// CountTrafficHits подсчитывает количество посещений сайта.
func (s *Storage) CountTrafficHits(ctx context.Context, slug string) (int, error) {
	const op = "storage.CountTrafficHits"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM traffic_hits WHERE site_slug = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, slug).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
