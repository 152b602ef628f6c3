package toggle

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
	siteservice "github.com/magabrotheeeer/site-platform/internal/services/sites"
)

// MockService реализует интерфейс toggle.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Toggle(ctx context.Context, slug string, active bool) error {
	args := m.Called(ctx, slug, active)
	return args.Error(0)
}

func TestToggleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	admin := authz.Actor{Authenticated: true, Role: "admin"}
	client := authz.Actor{Authenticated: true, Role: "client", Plan: "vip", SiteSlug: "DEMO"}

	tests := []struct {
		name           string
		actor          authz.Actor
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "админ выключает сайт",
			actor: admin,
			body:  `{"active":false}`,
			setupMock: func(m *MockService) {
				m.On("Toggle", mock.Anything, "demo", false).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "клиент не может переключать сайт",
			actor:          client,
			body:           `{"active":false}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `admin role required`,
		},
		{
			name:  "сайт не найден",
			actor: admin,
			body:  `{"active":true}`,
			setupMock: func(m *MockService) {
				m.On("Toggle", mock.Anything, "demo", true).Return(siteservice.ErrSiteNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `site not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/sites/demo/toggle", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slug", "demo")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.ActorKey, tt.actor)
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
