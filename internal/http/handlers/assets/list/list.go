// Package list реализует HTTP-обработчик выборки файловых ресурсов сайта.
// Доступно администратору и владельцу сайта.
package list

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

// Handler управляет HTTP-запросами на выборку файловых ресурсов.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    *authz.Gate
}

// Service описывает интерфейс бизнес-логики файловых ресурсов.
type Service interface {
	List(ctx context.Context, slug string) ([]*models.Asset, error)
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
// @Summary Файловые ресурсы сайта
// @Description Возвращает метаданные ресурсов, новые первыми.
// @Tags Assets
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Success 200 {object} map[string]any "Список ресурсов"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Чужой сайт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/assets [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assets.list"
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
		log.Error("assets access denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	assets, err := h.service.List(r.Context(), siteSlug)
	if err != nil {
		log.Error("failed to list assets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list assets"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": assets,
	}))
}
