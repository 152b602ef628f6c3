package remove

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
	assetservice "github.com/magabrotheeeer/site-platform/internal/services/assets"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, slug, id string) error {
	args := m.Called(ctx, slug, id)
	return args.Error(0)
}

type stubPins struct{}

func (stubPins) ValidateVipPin(_ context.Context, _, _ string) bool {
	return true
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	admin := authz.Actor{Authenticated: true, Role: "admin"}
	owner := authz.Actor{Authenticated: true, Role: "client", Plan: "vip", SiteSlug: "DEMO"}
	foreign := authz.Actor{Authenticated: true, Role: "client", Plan: "vip", SiteSlug: "OTHER"}
	essential := authz.Actor{Authenticated: true, Role: "client", Plan: "essential", SiteSlug: "DEMO"}

	tests := []struct {
		name           string
		actor          *authz.Actor
		slug           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "владелец удаляет ресурс своего сайта",
			actor: &owner,
			slug:  "demo",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "demo", "abc").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "vip чужого сайта получает отказ",
			actor:          &foreign,
			slug:           "demo",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `access denied`,
		},
		{
			name:  "админ удаляет на любом сайте",
			actor: &admin,
			slug:  "demo",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "demo", "abc").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "essential без активного биллинга",
			actor:          &essential,
			slug:           "demo",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `vip plan or admin role required`,
		},
		{
			name:           "анонимный запрос",
			actor:          nil,
			slug:           "demo",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `authentication required`,
		},
		{
			name:  "несуществующий ресурс",
			actor: &owner,
			slug:  "demo",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "demo", "abc").Return(assetservice.ErrAssetNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `asset not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, authz.NewGate(stubPins{}))

			req := httptest.NewRequest(http.MethodDelete, "/sites/"+tt.slug+"/assets/abc", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slug", tt.slug)
			rctx.URLParams.Add("id", "abc")
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
