// Package services содержит бизнес-логику каталога сайтов: создание,
// включение/выключение, установку и проверку VIP PIN.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/site-platform/internal/lib/password"
	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
	"github.com/magabrotheeeer/site-platform/internal/storage"
)

// Ошибки уровня бизнес-логики каталога сайтов.
var (
	ErrSiteNotFound = errors.New("site not found")
	ErrSlugTaken    = errors.New("slug already taken")
)

// SiteRepository определяет методы для работы с сайтами в хранилище.
type SiteRepository interface {
	// CreateSite вставляет новый сайт.
	CreateSite(ctx context.Context, site models.Site) error
	// GetSite возвращает сайт по каноническому слагу.
	GetSite(ctx context.Context, slug string) (*models.Site, error)
	// ToggleSite устанавливает флаг активности и возвращает количество изменённых строк.
	ToggleSite(ctx context.Context, slug string, active bool) (int, error)
	// SetSiteVipPin сохраняет хэш VIP PIN и возвращает количество изменённых строк.
	SetSiteVipPin(ctx context.Context, slug, pinHash string) (int, error)
}

// SiteService реализует бизнес-логику каталога сайтов.
type SiteService struct {
	repo SiteRepository
	log  *slog.Logger
}

// NewSiteService создает новый экземпляр SiteService.
func NewSiteService(repo SiteRepository, log *slog.Logger) *SiteService {
	return &SiteService{
		repo: repo,
		log:  log,
	}
}

// Create регистрирует новый сайт с канонизированным слагом.
// Сайт создаётся активным; возвращает ErrSlugTaken, если слаг занят.
func (s *SiteService) Create(ctx context.Context, req models.DummySite) (*models.Site, error) {
	site := models.Site{
		Slug:   slug.Normalize(req.Slug),
		Active: true,
		Notes:  req.Notes,
	}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.log.Info("site created", slog.String("slug", site.Slug))
	return &site, nil
}

// Get возвращает сайт по слагу в любой форме записи.
func (s *SiteService) Get(ctx context.Context, rawSlug string) (*models.Site, error) {
	site, err := s.repo.GetSite(ctx, slug.Normalize(rawSlug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return site, nil
}

// Toggle включает или выключает сайт.
func (s *SiteService) Toggle(ctx context.Context, rawSlug string, active bool) error {
	count, err := s.repo.ToggleSite(ctx, slug.Normalize(rawSlug), active)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSiteNotFound
	}
	s.log.Info("site toggled", slog.String("slug", slug.Normalize(rawSlug)), slog.Bool("active", active))
	return nil
}

// SetVipPin хэширует и сохраняет новый VIP PIN сайта.
func (s *SiteService) SetVipPin(ctx context.Context, rawSlug, pin string) error {
	hash, err := password.GetHash(pin)
	if err != nil {
		return err
	}
	count, err := s.repo.SetSiteVipPin(ctx, slug.Normalize(rawSlug), hash)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSiteNotFound
	}
	s.log.Info("vip pin updated", slog.String("slug", slug.Normalize(rawSlug)))
	return nil
}

// ValidateVipPin проверяет PIN сайта. Возвращает false и никогда не ошибку,
// если PIN пуст, сайт не найден или PIN у сайта не установлен; иначе
// сравнивает bcrypt-хэш за постоянное время.
func (s *SiteService) ValidateVipPin(ctx context.Context, rawSlug, pin string) bool {
	if pin == "" {
		return false
	}
	site, err := s.repo.GetSite(ctx, slug.Normalize(rawSlug))
	if err != nil || site.VipPinHash == nil {
		return false
	}
	return password.CompareHash(*site.VipPinHash, pin) == nil
}
