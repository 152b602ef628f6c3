package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

// CreateLead вставляет новую заявку и возвращает её ID.
func (s *Storage) CreateLead(ctx context.Context, lead models.Lead) (int, error) {
	const op = "storage.CreateLead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO leads (site_slug, name, email, phone, message)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		lead.SiteSlug, lead.Name, lead.Email, lead.Phone, lead.Message).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListLeads возвращает заявки сайта с пагинацией, новые первыми.
func (s *Storage) ListLeads(ctx context.Context, slug string, limit, offset int) ([]*models.Lead, error) {
	const op = "storage.ListLeads"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, site_slug, name, email, phone, message, created_at
			  FROM leads
			  WHERE site_slug = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, slug, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Lead
	for rows.Next() {
		var item models.Lead
		if err := rows.Scan(&item.ID, &item.SiteSlug, &item.Name, &item.Email,
			&item.Phone, &item.Message, &item.CreatedAt); err != nil {
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
