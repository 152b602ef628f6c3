package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/site-platform/internal/models"

	"io"
	"log/slog"
)

// TokenServiceMock реализует интерфейс middlewarectx.Service
type TokenServiceMock struct {
	mock.Mock
}

func (m *TokenServiceMock) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

// UserProviderMock реализует интерфейс middlewarectx.UserProvider
type UserProviderMock struct {
	mock.Mock
}

func (m *UserProviderMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tokensMock := new(TokenServiceMock)
	usersMock := new(UserProviderMock)
	logger := newNoopLogger()

	handlerCalled := false

	slug := "DEMO"
	freshUser := &models.User{
		UID:           "uid-1",
		Role:          "client",
		Plan:          "vip",
		BillingStatus: "approved",
		SiteSlug:      &slug,
	}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		actor := middlewarectx.ActorFromContext(r.Context())
		assert.True(t, actor.Authenticated)
		assert.Equal(t, "uid-1", actor.UserUID)
		// План и статус оплаты перечитываются из хранилища, а не из токена.
		assert.Equal(t, "vip", actor.Plan)
		assert.Equal(t, "approved", actor.BillingStatus)
		assert.Equal(t, "DEMO", actor.SiteSlug)
		w.WriteHeader(http.StatusOK)
	})

	handler := middlewarectx.JWTMiddleware(tokensMock, usersMock, logger)(nextHandler)

	validClaims := &jwt.CustomClaims{UserUID: "uid-1", Role: "client", Plan: "essential"}

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *jwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "нет заголовка Authorization",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "неверный префикс заголовка",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "ошибка валидации токена",
			authHeader:     "Bearer token",
			mockClaims:     nil,
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "валидный токен",
			authHeader:     "Bearer validtoken",
			mockClaims:     validClaims,
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			tokensMock.ExpectedCalls = nil
			tokensMock.Calls = nil
			usersMock.ExpectedCalls = nil
			usersMock.Calls = nil
			if tt.mockClaims != nil || tt.mockErr != nil {
				tokensMock.On("ValidateToken", strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockClaims, tt.mockErr).Once()
			}
			if tt.mockClaims != nil {
				usersMock.On("GetUser", mock.Anything, "uid-1").Return(freshUser, nil).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			tokensMock.AssertExpectations(t)
			usersMock.AssertExpectations(t)
		})
	}
}

func TestMaybeAuthMiddleware(t *testing.T) {
	tokensMock := new(TokenServiceMock)
	usersMock := new(UserProviderMock)
	logger := newNoopLogger()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := middlewarectx.ActorFromContext(r.Context())
		assert.False(t, actor.Authenticated)
		w.WriteHeader(http.StatusOK)
	})

	handler := middlewarectx.MaybeAuthMiddleware(tokensMock, usersMock, logger)(nextHandler)

	t.Run("без токена пропускает анонимно", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sites/demo/feedback", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("битый токен тоже пропускает анонимно", func(t *testing.T) {
		tokensMock.On("ValidateToken", "broken").Return(nil, errors.New("bad token")).Once()

		req := httptest.NewRequest(http.MethodGet, "/sites/demo/feedback", nil)
		req.Header.Set("Authorization", "Bearer broken")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		tokensMock.AssertExpectations(t)
	})
}
