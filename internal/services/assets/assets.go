// Package services содержит бизнес-логику файловых ресурсов сайта.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// ErrAssetNotFound возвращается при операции над несуществующим ресурсом.
var ErrAssetNotFound = errors.New("asset not found")

// AssetRepository определяет методы для работы с метаданными ресурсов.
type AssetRepository interface {
	CreateAsset(ctx context.Context, asset models.Asset) error
	ListAssets(ctx context.Context, slug string) ([]*models.Asset, error)
	RemoveAsset(ctx context.Context, slug, id string) (int, error)
}

// AssetService реализует бизнес-логику файловых ресурсов.
type AssetService struct {
	repo AssetRepository
	log  *slog.Logger
}

// NewAssetService создает новый экземпляр AssetService.
func NewAssetService(repo AssetRepository, log *slog.Logger) *AssetService {
	return &AssetService{
		repo: repo,
		log:  log,
	}
}

// Save регистрирует загружаемый файл: генерирует идентификатор и ключ
// хранилища вида <SLUG>/<uuid><ext>, сохраняет метаданные.
func (s *AssetService) Save(ctx context.Context, rawSlug string, req models.DummyAsset) (*models.Asset, error) {
	canonical := slug.Normalize(rawSlug)
	id := uuid.NewString()

	asset := models.Asset{
		ID:          id,
		SiteSlug:    canonical,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  fmt.Sprintf("%s/%s%s", canonical, id, path.Ext(req.Filename)),
	}
	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	s.log.Info("asset saved", slog.String("id", asset.ID), slog.String("slug", canonical))
	return &asset, nil
}

// List возвращает файловые ресурсы сайта, новые первыми.
func (s *AssetService) List(ctx context.Context, rawSlug string) ([]*models.Asset, error) {
	return s.repo.ListAssets(ctx, slug.Normalize(rawSlug))
}

// Remove удаляет метаданные ресурса по ID в пределах сайта:
// чужой ресурс неотличим от несуществующего.
func (s *AssetService) Remove(ctx context.Context, rawSlug, id string) error {
	canonical := slug.Normalize(rawSlug)
	count, err := s.repo.RemoveAsset(ctx, canonical, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAssetNotFound
	}
	s.log.Info("asset removed", slog.String("id", id), slog.String("slug", canonical))
	return nil
}
