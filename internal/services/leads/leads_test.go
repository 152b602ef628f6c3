package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateLead(ctx context.Context, lead models.Lead) (int, error) {
	args := m.Called(ctx, lead)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) ListLeads(ctx context.Context, slug string, limit, offset int) ([]*models.Lead, error) {
	args := m.Called(ctx, slug, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lead), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreate(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("CreateLead", mock.Anything, mock.MatchedBy(func(lead models.Lead) bool {
		return lead.SiteSlug == "DEMO" && lead.Name == "Ivan"
	})).Return(1, nil)

	svc := NewLeadService(repo, newNoopLogger())

	id, err := svc.Create(context.Background(), " demo ", models.DummyLead{
		Name:  "Ivan",
		Email: "ivan@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	repo.AssertExpectations(t)
}

func TestCreate_RequiresContact(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo, newNoopLogger())

	_, err := svc.Create(context.Background(), "demo", models.DummyLead{Name: "Ivan"})
	assert.ErrorIs(t, err, ErrMissingContact)
	repo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestList_ClampsPagination(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ListLeads", mock.Anything, "DEMO", 50, 0).Return([]*models.Lead{}, nil)

	svc := NewLeadService(repo, newNoopLogger())

	_, err := svc.List(context.Background(), "demo", 1000, -5)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
