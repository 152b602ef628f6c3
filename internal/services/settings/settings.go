// Package services содержит бизнес-логику настроек сайта: append-only журнал
// снимков с редактированием секрета security.vip_pin и кэшем текущей версии.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// sectionDefsKey — ключ снимка, под которым хранятся определения секций.
const sectionDefsKey = "section_defs"

// settingsCacheTTL ограничивает время жизни кэша текущих настроек.
const settingsCacheTTL = 5 * time.Minute

// ErrSettingsNotFound возвращается, если у сайта ещё нет ни одного снимка.
var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository определяет методы для работы с журналом настроек.
type SettingsRepository interface {
	// InsertSettingsSnapshot добавляет новую запись журнала и возвращает её ID.
	InsertSettingsSnapshot(ctx context.Context, slug string, data map[string]any) (int, error)
	// GetLatestSettingsSnapshot возвращает последнюю по времени запись сайта.
	GetLatestSettingsSnapshot(ctx context.Context, slug string) (*models.SettingsSnapshot, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SettingsService реализует бизнес-логику настроек сайта.
type SettingsService struct {
	repo  SettingsRepository
	cache Cache
	log   *slog.Logger
}

// NewSettingsService создает новый экземпляр SettingsService.
func NewSettingsService(repo SettingsRepository, cache Cache, log *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Save добавляет новый снимок настроек сайта. Секрет security.vip_pin
// вырезается до записи: PIN живёт только в виде bcrypt-хэша у сайта
// и никогда не попадает в журнал.
func (s *SettingsService) Save(ctx context.Context, rawSlug string, data map[string]any) (int, error) {
	canonical := slug.Normalize(rawSlug)
	redactSecrets(data)

	id, err := s.repo.InsertSettingsSnapshot(ctx, canonical, data)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(canonical)
	s.log.Info("settings snapshot saved", slog.String("slug", canonical), slog.Int("id", id))
	return id, nil
}

// Current возвращает последний снимок настроек сайта. Секрет вырезается
// повторно на чтении: журнал мог быть наполнен до появления редактирования.
func (s *SettingsService) Current(ctx context.Context, rawSlug string) (*models.SettingsSnapshot, error) {
	canonical := slug.Normalize(rawSlug)
	cacheKey := settingsCacheKey(canonical)

	var cached models.SettingsSnapshot
	if found, err := s.cache.Get(cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	snapshot, err := s.repo.GetLatestSettingsSnapshot(ctx, canonical)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	redactSecrets(snapshot.Data)

	if err := s.cache.Set(cacheKey, snapshot, settingsCacheTTL); err != nil {
		s.log.Warn("failed to cache settings", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return snapshot, nil
}

// UpsertSectionDef записывает определение секции под выделенным ключом
// журнала. Определения живут в том же append-only журнале: новая запись
// переносит текущие данные и заменяет схему одной секции.
func (s *SettingsService) UpsertSectionDef(ctx context.Context, rawSlug string, def models.DummySectionDef) (int, error) {
	canonical := slug.Normalize(rawSlug)

	data := map[string]any{}
	if snapshot, err := s.repo.GetLatestSettingsSnapshot(ctx, canonical); err == nil {
		data = snapshot.Data
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	defs, _ := data[sectionDefsKey].(map[string]any)
	if defs == nil {
		defs = map[string]any{}
	}
	defs[def.Key] = def.Schema
	data[sectionDefsKey] = defs

	id, err := s.repo.InsertSettingsSnapshot(ctx, canonical, data)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(canonical)
	s.log.Info("section definition upserted", slog.String("slug", canonical), slog.String("key", def.Key))
	return id, nil
}

// redactSecrets удаляет security.vip_pin из полезной нагрузки снимка.
func redactSecrets(data map[string]any) {
	security, ok := data["security"].(map[string]any)
	if !ok {
		return
	}
	delete(security, "vip_pin")
}

func settingsCacheKey(canonical string) string {
	return fmt.Sprintf("settings:site:%s", canonical)
}

func (s *SettingsService) invalidateCache(canonical string) {
	if err := s.cache.Invalidate(settingsCacheKey(canonical)); err != nil {
		s.log.Warn("failed to invalidate settings cache", slog.String("slug", canonical), slog.Any("err", err))
	}
}
