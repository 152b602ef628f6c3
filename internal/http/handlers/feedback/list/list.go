// Package list реализует HTTP-обработчик выборки отзывов сайта.
//
// По умолчанию ответ публично-безопасный: только одобренные отзывы без
// контактных полей. Администратор или vip-актор с корректным PIN из
// заголовка X-Vip-Pin получает полный список, включая неодобренные
// строки и контакты.
package list

import (
	"context"
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

// VipPinHeader — заголовок, в котором клиент передаёт VIP PIN.
const VipPinHeader = "X-Vip-Pin"

// Handler управляет HTTP-запросами на выборку отзывов.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    *authz.Gate
}

// Service описывает интерфейс бизнес-логики выборки отзывов.
type Service interface {
	List(ctx context.Context, slug string, fullAccess bool) ([]*models.Feedback, error)
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
// @Summary Отзывы сайта
// @Description Возвращает одобренные публичные отзывы; с полным доступом — все.
// @Tags Feedback
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param X-Vip-Pin header string false "VIP PIN сайта"
// @Success 200 {object} map[string]any "Список отзывов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/feedback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	pin := r.Header.Get(VipPinHeader)

	fullAccess := h.gate.FeedbackFullAccess(r.Context(), actor, siteSlug, pin)

	entries, err := h.service.List(r.Context(), siteSlug, fullAccess)
	if err != nil {
		log.Error("failed to list feedback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list feedback"))
		return
	}

	log.Info("feedback listed", slog.String("slug", siteSlug),
		slog.Int("count", len(entries)), slog.Bool("full_access", fullAccess))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items":       entries,
		"full_access": fullAccess,
	}))
}
