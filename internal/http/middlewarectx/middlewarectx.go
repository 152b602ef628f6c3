// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization,
// строит по нему контекст актора (роль, план, статус оплаты, сайт) и кладёт его
// в контекст запроса для дальнейших решений о доступе.
//
// MaybeAuthMiddleware делает то же самое, но пропускает запрос без токена
// с анонимным актором: публичные страницы не требуют входа.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ActorKey — ключ для контекста актора в контексте запроса.
const ActorKey Key = "actor"

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserProvider возвращает учётную запись по UID. Используется для чтения
// актуальных плана и статуса оплаты: токен мог быть выдан до их изменения.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ActorFromContext возвращает актора запроса; для запросов без токена —
// анонимного актора.
func ActorFromContext(ctx context.Context) authz.Actor {
	actor, ok := ctx.Value(ActorKey).(authz.Actor)
	if !ok {
		return authz.Actor{}
	}
	return actor
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, кладёт актора в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(tokens Service, users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			actor, err := resolveActor(r, tokens, users, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MaybeAuthMiddleware разрешает актора, если токен передан и валиден,
// и пропускает запрос с анонимным актором в остальных случаях.
func MaybeAuthMiddleware(tokens Service, users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolveActor(r, tokens, users, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("ignoring invalid token on public route", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveActor строит актора по токену, перечитывая план и статус оплаты
// из хранилища. Claims используются как запасной вариант, если учётная
// запись недоступна.
func resolveActor(r *http.Request, tokens Service, users UserProvider, tokenStr string) (authz.Actor, error) {
	claims, err := tokens.ValidateToken(tokenStr)
	if err != nil {
		return authz.Actor{}, err
	}

	actor := authz.Actor{
		Authenticated: true,
		UserUID:       claims.UserUID,
		Role:          claims.Role,
		Plan:          claims.Plan,
		SiteSlug:      claims.SiteSlug,
	}
	if user, uerr := users.GetUser(r.Context(), claims.UserUID); uerr == nil {
		actor.Role = user.Role
		actor.Plan = user.Plan
		actor.BillingStatus = user.BillingStatus
		if user.SiteSlug != nil {
			actor.SiteSlug = *user.SiteSlug
		}
	}
	return actor, nil
}
