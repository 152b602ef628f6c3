package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) InsertSettingsSnapshot(ctx context.Context, slug string, data map[string]any) (int, error) {
	args := m.Called(ctx, slug, data)
	return args.Int(0), args.Error(1)
}

func (m *MockSettingsRepository) GetLatestSettingsSnapshot(ctx context.Context, slug string) (*models.SettingsSnapshot, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettingsSnapshot), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func permissiveCache() *MockCache {
	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything).Return(false, nil).Maybe()
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	c.On("Invalidate", mock.Anything).Return(nil).Maybe()
	return c
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSave_RedactsVipPinBeforeInsert(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("InsertSettingsSnapshot", mock.Anything, "DEMO", mock.MatchedBy(func(data map[string]any) bool {
		security, ok := data["security"].(map[string]any)
		if !ok {
			return false
		}
		_, pinPresent := security["vip_pin"]
		return !pinPresent && security["other"] == "kept"
	})).Return(1, nil)

	svc := NewSettingsService(repo, permissiveCache(), newNoopLogger())

	id, err := svc.Save(context.Background(), "demo", map[string]any{
		"title": "My shop",
		"security": map[string]any{
			"vip_pin": "1234",
			"other":   "kept",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	repo.AssertExpectations(t)
}

func TestSave_InvalidatesCache(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("InsertSettingsSnapshot", mock.Anything, "DEMO", mock.Anything).Return(1, nil)

	cache := permissiveCache()
	svc := NewSettingsService(repo, cache, newNoopLogger())

	_, err := svc.Save(context.Background(), "demo", map[string]any{"title": "x"})
	require.NoError(t, err)
	cache.AssertCalled(t, "Invalidate", "settings:site:DEMO")
}

func TestCurrent_RedactsVipPinOnRead(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("GetLatestSettingsSnapshot", mock.Anything, "DEMO").Return(&models.SettingsSnapshot{
		ID:       1,
		SiteSlug: "DEMO",
		Data: map[string]any{
			"security": map[string]any{"vip_pin": "legacy", "theme": "dark"},
		},
	}, nil)

	svc := NewSettingsService(repo, permissiveCache(), newNoopLogger())

	snapshot, err := svc.Current(context.Background(), "demo")
	require.NoError(t, err)
	security := snapshot.Data["security"].(map[string]any)
	assert.NotContains(t, security, "vip_pin")
	assert.Equal(t, "dark", security["theme"])
}

func TestCurrent_NotFound(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("GetLatestSettingsSnapshot", mock.Anything, "DEMO").Return(nil, sql.ErrNoRows)

	svc := NewSettingsService(repo, permissiveCache(), newNoopLogger())

	_, err := svc.Current(context.Background(), "demo")
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestCurrent_ServesFromCache(t *testing.T) {
	repo := new(MockSettingsRepository)

	cache := new(MockCache)
	cache.On("Get", "settings:site:DEMO", mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(1).(*models.SettingsSnapshot)
		*out = models.SettingsSnapshot{ID: 9, SiteSlug: "DEMO", Data: map[string]any{"title": "cached"}}
	}).Return(true, nil)

	svc := NewSettingsService(repo, cache, newNoopLogger())

	snapshot, err := svc.Current(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 9, snapshot.ID)
	repo.AssertNotCalled(t, "GetLatestSettingsSnapshot", mock.Anything, mock.Anything)
}

func TestUpsertSectionDef(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("GetLatestSettingsSnapshot", mock.Anything, "DEMO").Return(&models.SettingsSnapshot{
		ID:       1,
		SiteSlug: "DEMO",
		Data: map[string]any{
			"title": "My shop",
			"section_defs": map[string]any{
				"hero": map[string]any{"type": "banner"},
			},
		},
	}, nil)
	repo.On("InsertSettingsSnapshot", mock.Anything, "DEMO", mock.MatchedBy(func(data map[string]any) bool {
		defs, ok := data["section_defs"].(map[string]any)
		if !ok {
			return false
		}
		_, heroKept := defs["hero"]
		_, galleryAdded := defs["gallery"]
		return heroKept && galleryAdded && data["title"] == "My shop"
	})).Return(2, nil)

	svc := NewSettingsService(repo, permissiveCache(), newNoopLogger())

	id, err := svc.UpsertSectionDef(context.Background(), "demo", models.DummySectionDef{
		Key:    "gallery",
		Schema: map[string]any{"type": "grid"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	repo.AssertExpectations(t)
}

func TestUpsertSectionDef_FirstSnapshot(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("GetLatestSettingsSnapshot", mock.Anything, "DEMO").Return(nil, sql.ErrNoRows)
	repo.On("InsertSettingsSnapshot", mock.Anything, "DEMO", mock.MatchedBy(func(data map[string]any) bool {
		defs, ok := data["section_defs"].(map[string]any)
		return ok && defs["hero"] != nil
	})).Return(1, nil)

	svc := NewSettingsService(repo, permissiveCache(), newNoopLogger())

	_, err := svc.UpsertSectionDef(context.Background(), "demo", models.DummySectionDef{
		Key:    "hero",
		Schema: map[string]any{"type": "banner"},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
