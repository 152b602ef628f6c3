// Package stats реализует HTTP-обработчик статистики отзывов сайта.
// Доступно администратору и владельцу сайта.
package stats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// Handler управляет HTTP-запросами на чтение статистики отзывов.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    *authz.Gate
}

// Service описывает интерфейс бизнес-логики статистики отзывов.
type Service interface {
	Stats(ctx context.Context, slug string) (*models.FeedbackStats, error)
}

// New создает новый Handler с переданными логгером, сервисом и гейтом доступа.
func New(log *slog.Logger, service Service, gate *authz.Gate) *Handler {
	return &Handler{
		log:     log,
		service: service,
		gate:    gate,
	}
}

// ServeHTTP godoc
// @Summary Статистика отзывов сайта
// @Description Возвращает количество, среднюю оценку и гистограмму оценок.
// @Tags Feedback
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Success 200 {object} map[string]any "Статистика отзывов"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Чужой сайт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/feedback/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	if err := h.gate.CanReadSiteData(actor, siteSlug); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, authz.ErrAuthRequired) {
			status = http.StatusUnauthorized
		}
		log.Error("stats access denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	stats, err := h.service.Stats(r.Context(), siteSlug)
	if err != nil {
		log.Error("failed to read feedback stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read feedback stats"))
		return
	}

	render.JSON(w, r, response.OKWithData(stats))
}
