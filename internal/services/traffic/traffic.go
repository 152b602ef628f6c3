// Package services содержит бизнес-логику журнала посещений сайта.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// defaultTrafficLimit ограничивает размер страницы выборки посещений.
const defaultTrafficLimit = 100

// TrafficRepository определяет методы для работы с журналом посещений.
type TrafficRepository interface {
	CreateTrafficHit(ctx context.Context, hit models.TrafficHit) (int, error)
	ListTrafficHits(ctx context.Context, slug string, limit, offset int) ([]*models.TrafficHit, error)
	CountTrafficHits(ctx context.Context, slug string) (int, error)
}

// TrafficService реализует бизнес-логику журнала посещений.
type TrafficService struct {
	repo TrafficRepository
	log  *slog.Logger
}

// NewTrafficService создает новый экземпляр TrafficService.
func NewTrafficService(repo TrafficRepository, log *slog.Logger) *TrafficService {
	return &TrafficService{
		repo: repo,
		log:  log,
	}
}

// Record добавляет запись о посещении страницы. Журнал append-only.
func (s *TrafficService) Record(ctx context.Context, rawSlug string, req models.DummyTrafficHit) (int, error) {
	hit := models.TrafficHit{
		SiteSlug:  slug.Normalize(rawSlug),
		Path:      req.Path,
		Referrer:  req.Referrer,
		SessionID: req.SessionID,
	}
	return s.repo.CreateTrafficHit(ctx, hit)
}

// List возвращает посещения сайта с пагинацией, новые первыми.
func (s *TrafficService) List(ctx context.Context, rawSlug string, limit, offset int) ([]*models.TrafficHit, error) {
	if limit <= 0 || limit > defaultTrafficLimit {
		limit = defaultTrafficLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTrafficHits(ctx, slug.Normalize(rawSlug), limit, offset)
}

// Count возвращает общее количество посещений сайта.
func (s *TrafficService) Count(ctx context.Context, rawSlug string) (int, error) {
	return s.repo.CountTrafficHits(ctx, slug.Normalize(rawSlug))
}
