// Package services содержит бизнес-логику заявок посетителей.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// ErrMissingContact возвращается, если в заявке нет ни почты, ни телефона.
var ErrMissingContact = errors.New("email or phone is required")

// defaultLeadLimit ограничивает размер страницы выборки заявок.
const defaultLeadLimit = 50

// LeadRepository определяет методы для работы с заявками в хранилище.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead models.Lead) (int, error)
	ListLeads(ctx context.Context, slug string, limit, offset int) ([]*models.Lead, error)
}

// LeadService реализует бизнес-логику заявок.
type LeadService struct {
	repo LeadRepository
	log  *slog.Logger
}

// NewLeadService создает новый экземпляр LeadService.
func NewLeadService(repo LeadRepository, log *slog.Logger) *LeadService {
	return &LeadService{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет новую заявку. Имя обязательное; дополнительно нужен
// хотя бы один контакт — почта или телефон.
func (s *LeadService) Create(ctx context.Context, rawSlug string, req models.DummyLead) (int, error) {
	if req.Email == "" && req.Phone == "" {
		return 0, ErrMissingContact
	}

	lead := models.Lead{
		SiteSlug: slug.Normalize(rawSlug),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Message:  req.Message,
	}
	id, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		return 0, err
	}
	s.log.Info("lead created", slog.Int("id", id), slog.String("slug", lead.SiteSlug))
	return id, nil
}

// List возвращает заявки сайта с пагинацией, новые первыми.
func (s *LeadService) List(ctx context.Context, rawSlug string, limit, offset int) ([]*models.Lead, error) {
	if limit <= 0 || limit > defaultLeadLimit {
		limit = defaultLeadLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListLeads(ctx, slug.Normalize(rawSlug), limit, offset)
}
