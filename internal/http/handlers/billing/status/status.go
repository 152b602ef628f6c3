// Package status реализует HTTP-обработчик чтения эффективного статуса подписки.
//
// Администратор может искать по любому слагу или почте; клиент видит
// только статус собственного сайта.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	subservice "github.com/magabrotheeeer/site-platform/internal/services/subscription"
)

// Handler управляет HTTP-запросами на чтение статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статуса подписки.
type Service interface {
	GetSubscriptionStatus(ctx context.Context, siteSlug, email string) (*models.SubscriptionStatus, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает эффективный статус подписки по слагу сайта или почте.
// @Tags Billing
// @Produce  json
// @Param site query string false "Слаг сайта"
// @Param email query string false "Почта пользователя"
// @Success 200 {object} map[string]any "Статус подписки"
// @Failure 403 {object} response.ErrorResponse "Чужой сайт"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Не передан ключ поиска"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	siteSlug := r.URL.Query().Get("site")
	email := r.URL.Query().Get("email")

	// Клиент всегда смотрит статус собственного сайта.
	if !actor.IsAdmin() {
		if actor.SiteSlug == "" {
			log.Error("client has no site attached")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
			return
		}
		siteSlug = actor.SiteSlug
		email = ""
	}

	status, err := h.service.GetSubscriptionStatus(r.Context(), siteSlug, email)
	if err != nil {
		switch {
		case errors.Is(err, subservice.ErrUserNotFound):
			log.Error("user not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, subservice.ErrMissingLookupKey):
			log.Error("missing lookup key")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("site slug or email is required"))
		default:
			log.Error("failed to read subscription status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read subscription status"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(status))
}
