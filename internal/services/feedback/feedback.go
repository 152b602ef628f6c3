// Package services содержит бизнес-логику модерации отзывов: создание,
// одобрение, выборку с учётом уровня доступа и агрегированную статистику.
package services

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// Ошибки уровня бизнес-логики отзывов.
var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidRating    = errors.New("rating must be an integer from 1 to 5")
	ErrMissingFields    = errors.New("comment is required")
)

// FeedbackRepository определяет методы для работы с отзывами в хранилище.
type FeedbackRepository interface {
	// CreateFeedback вставляет новый отзыв и возвращает его ID.
	CreateFeedback(ctx context.Context, feedback models.Feedback) (int, error)
	// UpdateFeedbackApproval устанавливает флаги одобрения и видимости.
	UpdateFeedbackApproval(ctx context.Context, id int, approved, isPublic bool) (int, error)
	// ListFeedbacks возвращает отзывы сайта, при onlyApproved=true — только одобренные публичные.
	ListFeedbacks(ctx context.Context, slug string, onlyApproved bool) ([]*models.Feedback, error)
}

// FeedbackService реализует бизнес-логику модерации отзывов.
type FeedbackService struct {
	repo FeedbackRepository
	log  *slog.Logger
}

// NewFeedbackService создает новый экземпляр FeedbackService.
func NewFeedbackService(repo FeedbackRepository, log *slog.Logger) *FeedbackService {
	return &FeedbackService{
		repo: repo,
		log:  log,
	}
}

// Create валидирует и сохраняет новый отзыв.
// Отзыв всегда вставляется неодобренным, но публично видимым.
func (s *FeedbackService) Create(ctx context.Context, rawSlug string, req models.DummyFeedback) (int, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return 0, ErrInvalidRating
	}
	if req.Comment == "" {
		return 0, ErrMissingFields
	}

	feedback := models.Feedback{
		SiteSlug:   slug.Normalize(rawSlug),
		AuthorName: req.AuthorName,
		Email:      req.Email,
		Phone:      req.Phone,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Approved:   false,
		IsPublic:   true,
	}
	id, err := s.repo.CreateFeedback(ctx, feedback)
	if err != nil {
		return 0, err
	}
	s.log.Info("feedback created", slog.Int("id", id), slog.String("slug", feedback.SiteSlug))
	return id, nil
}

// Approve идемпотентно устанавливает флаги одобрения и публичной видимости.
// Если isPublic не передан, публичная видимость сохраняет значение approved.
func (s *FeedbackService) Approve(ctx context.Context, id int, approved bool, isPublic *bool) error {
	public := approved
	if isPublic != nil {
		public = *isPublic
	}
	count, err := s.repo.UpdateFeedbackApproval(ctx, id, approved, public)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFeedbackNotFound
	}
	s.log.Info("feedback approval updated", slog.Int("id", id), slog.Bool("approved", approved))
	return nil
}

// List возвращает отзывы сайта. Без полного доступа отдаются только
// одобренные публичные отзывы с очищенными контактными полями.
func (s *FeedbackService) List(ctx context.Context, rawSlug string, fullAccess bool) ([]*models.Feedback, error) {
	entries, err := s.repo.ListFeedbacks(ctx, slug.Normalize(rawSlug), !fullAccess)
	if err != nil {
		return nil, err
	}
	if !fullAccess {
		for _, entry := range entries {
			entry.Email = ""
			entry.Phone = ""
		}
	}
	return entries, nil
}

// Stats агрегирует статистику отзывов сайта: количество, разбивку по
// одобрению, среднюю оценку с одним знаком после запятой и гистограмму 1..5.
func (s *FeedbackService) Stats(ctx context.Context, rawSlug string) (*models.FeedbackStats, error) {
	entries, err := s.repo.ListFeedbacks(ctx, slug.Normalize(rawSlug), false)
	if err != nil {
		return nil, err
	}

	stats := &models.FeedbackStats{
		Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, entry := range entries {
		stats.Total++
		if entry.Approved {
			stats.Approved++
		} else {
			stats.Pending++
		}
		if entry.Rating >= 1 && entry.Rating <= 5 {
			stats.Histogram[entry.Rating]++
		}
		sum += entry.Rating
	}
	if stats.Total > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}
	return stats, nil
}
