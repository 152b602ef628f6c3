package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

// CreateSite вставляет новый сайт. Возвращает ErrAlreadyExists, если слаг занят.
func (s *Storage) CreateSite(ctx context.Context, site models.Site) error {
	const op = "storage.CreateSite"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO sites (slug, active, notes)
			  VALUES ($1, $2, $3)`
	_, err := s.DB.ExecContext(ctx, query, site.Slug, site.Active, site.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSite возвращает сайт по каноническому слагу.
func (s *Storage) GetSite(ctx context.Context, slug string) (*models.Site, error) {
	const op = "storage.GetSite"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT slug, active, vip_pin_hash, notes, created_at
			  FROM sites WHERE slug = $1`
	row := s.DB.QueryRowContext(ctx, query, slug)

	var site models.Site
	var pinHash sql.NullString
	if err := row.Scan(&site.Slug, &site.Active, &pinHash, &site.Notes, &site.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pinHash.Valid {
		site.VipPinHash = &pinHash.String
	}
	return &site, nil
}

// ToggleSite устанавливает флаг активности сайта и возвращает количество изменённых строк.
func (s *Storage) ToggleSite(ctx context.Context, slug string, active bool) (int, error) {
	const op = "storage.ToggleSite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE sites SET active = $1 WHERE slug = $2`
	result, err := s.DB.ExecContext(ctx, query, active, slug)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetSiteVipPin сохраняет хэш VIP PIN сайта и возвращает количество изменённых строк.
func (s *Storage) SetSiteVipPin(ctx context.Context, slug, pinHash string) (int, error) {
	const op = "storage.SetSiteVipPin"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE sites SET vip_pin_hash = $1 WHERE slug = $2`
	result, err := s.DB.ExecContext(ctx, query, pinHash, slug)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
