package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

// CreateFeedback вставляет новый отзыв и возвращает его ID.
func (s *Storage) CreateFeedback(ctx context.Context, feedback models.Feedback) (int, error) {
	const op = "storage.CreateFeedback"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO feedbacks (site_slug, author_name, email, phone, rating,
			      comment, approved, is_public)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		feedback.SiteSlug, feedback.AuthorName, feedback.Email, feedback.Phone,
		feedback.Rating, feedback.Comment, feedback.Approved, feedback.IsPublic).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateFeedbackApproval устанавливает флаги одобрения и публичной видимости отзыва
// и возвращает количество изменённых строк.
func (s *Storage) UpdateFeedbackApproval(ctx context.Context, id int, approved, isPublic bool) (int, error) {
	const op = "storage.UpdateFeedbackApproval"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE feedbacks SET approved = $1, is_public = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, approved, isPublic, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListFeedbacks возвращает отзывы сайта. При onlyApproved=true отдаются только
// одобренные и публично видимые отзывы.
func (s *Storage) ListFeedbacks(ctx context.Context, slug string, onlyApproved bool) ([]*models.Feedback, error) {
	const op = "storage.ListFeedbacks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, site_slug, author_name, email, phone, rating, comment,
			      approved, is_public, created_at
			  FROM feedbacks
			  WHERE site_slug = $1
			    AND ($2 = false OR (approved = true AND is_public = true))
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, slug, onlyApproved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Feedback
	for rows.Next() {
		var item models.Feedback
		if err := rows.Scan(&item.ID, &item.SiteSlug, &item.AuthorName, &item.Email,
			&item.Phone, &item.Rating, &item.Comment, &item.Approved, &item.IsPublic,
			&item.CreatedAt); err != nil {
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
