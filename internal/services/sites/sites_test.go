package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/site-platform/internal/lib/password"
	"github.com/magabrotheeeer/site-platform/internal/models"
	"github.com/magabrotheeeer/site-platform/internal/storage"
)

type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) CreateSite(ctx context.Context, site models.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) GetSite(ctx context.Context, slug string) (*models.Site, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Site), args.Error(1)
}

func (m *MockSiteRepository) ToggleSite(ctx context.Context, slug string, active bool) (int, error) {
	args := m.Called(ctx, slug, active)
	return args.Int(0), args.Error(1)
}

func (m *MockSiteRepository) SetSiteVipPin(ctx context.Context, slug, pinHash string) (int, error) {
	args := m.Called(ctx, slug, pinHash)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreate_NormalizesSlug(t *testing.T) {
	repo := new(MockSiteRepository)
	repo.On("CreateSite", mock.Anything, mock.MatchedBy(func(site models.Site) bool {
		return site.Slug == "DEMO" && site.Active
	})).Return(nil)

	svc := NewSiteService(repo, newNoopLogger())

	site, err := svc.Create(context.Background(), models.DummySite{Slug: " demo "})
	require.NoError(t, err)
	assert.Equal(t, "DEMO", site.Slug)
	repo.AssertExpectations(t)
}

func TestCreate_SlugTaken(t *testing.T) {
	repo := new(MockSiteRepository)
	repo.On("CreateSite", mock.Anything, mock.Anything).Return(storage.ErrAlreadyExists)

	svc := NewSiteService(repo, newNoopLogger())

	_, err := svc.Create(context.Background(), models.DummySite{Slug: "demo"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		wantErr error
	}{
		{name: "existing site", rows: 1, wantErr: nil},
		{name: "missing site", rows: 0, wantErr: ErrSiteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSiteRepository)
			repo.On("ToggleSite", mock.Anything, "DEMO", false).Return(tt.rows, nil)

			svc := NewSiteService(repo, newNoopLogger())

			err := svc.Toggle(context.Background(), "Demo", false)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetVipPin(t *testing.T) {
	repo := new(MockSiteRepository)
	repo.On("SetSiteVipPin", mock.Anything, "DEMO", mock.AnythingOfType("string")).Return(1, nil)

	svc := NewSiteService(repo, newNoopLogger())

	err := svc.SetVipPin(context.Background(), "demo", "1234")
	require.NoError(t, err)

	// Сохранённое значение — bcrypt-хэш, а не сырой PIN.
	storedHash := repo.Calls[0].Arguments.String(2)
	assert.NotEqual(t, "1234", storedHash)
	assert.NoError(t, password.CompareHash(storedHash, "1234"))
}

func TestSetVipPin_SiteMissing(t *testing.T) {
	repo := new(MockSiteRepository)
	repo.On("SetSiteVipPin", mock.Anything, "GHOST", mock.Anything).Return(0, nil)

	svc := NewSiteService(repo, newNoopLogger())

	err := svc.SetVipPin(context.Background(), "ghost", "1234")
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func TestValidateVipPin(t *testing.T) {
	hash, err := password.GetHash("1234")
	require.NoError(t, err)

	tests := []struct {
		name  string
		pin   string
		setup func(*MockSiteRepository)
		want  bool
	}{
		{
			name: "correct pin",
			pin:  "1234",
			setup: func(m *MockSiteRepository) {
				m.On("GetSite", mock.Anything, "DEMO").Return(&models.Site{Slug: "DEMO", VipPinHash: &hash}, nil)
			},
			want: true,
		},
		{
			name: "wrong pin",
			pin:  "9999",
			setup: func(m *MockSiteRepository) {
				m.On("GetSite", mock.Anything, "DEMO").Return(&models.Site{Slug: "DEMO", VipPinHash: &hash}, nil)
			},
			want: false,
		},
		{
			name:  "empty pin short-circuits",
			pin:   "",
			setup: func(_ *MockSiteRepository) {},
			want:  false,
		},
		{
			name: "site has no pin",
			pin:  "1234",
			setup: func(m *MockSiteRepository) {
				m.On("GetSite", mock.Anything, "DEMO").Return(&models.Site{Slug: "DEMO"}, nil)
			},
			want: false,
		},
		{
			name: "site missing",
			pin:  "1234",
			setup: func(m *MockSiteRepository) {
				m.On("GetSite", mock.Anything, "DEMO").Return(nil, sql.ErrNoRows)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSiteRepository)
			tt.setup(repo)

			svc := NewSiteService(repo, newNoopLogger())

			assert.Equal(t, tt.want, svc.ValidateVipPin(context.Background(), "demo", tt.pin))
		})
	}
}
