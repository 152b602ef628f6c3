package list

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, slug string, fullAccess bool) ([]*models.Feedback, error) {
	args := m.Called(ctx, slug, fullAccess)
	if res := args.Get(0); res != nil {
		return res.([]*models.Feedback), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubPins struct {
	valid bool
}

func (s stubPins) ValidateVipPin(_ context.Context, _, _ string) bool {
	return s.valid
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	admin := authz.Actor{Authenticated: true, Role: "admin"}

	tests := []struct {
		name           string
		actor          *authz.Actor
		pinValid       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "анонимный запрос получает публичный список",
			actor:    nil,
			pinValid: true,
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "demo", false).Return([]*models.Feedback{
					{ID: 1, Rating: 5, Comment: "great", Approved: true, IsPublic: true},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"full_access":false`,
		},
		{
			name:     "админ получает полный список",
			actor:    &admin,
			pinValid: false,
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "demo", true).Return([]*models.Feedback{
					{ID: 1, Rating: 5, Comment: "great", Email: "a@b.c"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"full_access":true`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, authz.NewGate(stubPins{valid: tt.pinValid}))

			req := httptest.NewRequest(http.MethodGet, "/sites/demo/feedback", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slug", "demo")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.actor != nil {
				ctx = context.WithValue(ctx, middlewarectx.ActorKey, *tt.actor)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
