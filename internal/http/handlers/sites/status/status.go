// Package status реализует HTTP-обработчик чтения состояния сайта.
// Доступно администратору и владельцу сайта.
package status

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
	siteservice "github.com/magabrotheeeer/site-platform/internal/services/sites"
)

// Handler управляет HTTP-запросами на чтение состояния сайта.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    *authz.Gate
}

// Service описывает интерфейс каталога сайтов.
type Service interface {
	Get(ctx context.Context, slug string) (*models.Site, error)
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
// @Summary Состояние сайта
// @Description Возвращает флаг активности и наличие VIP PIN.
// @Tags Sites
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Success 200 {object} map[string]any "Состояние сайта"
// @Failure 403 {object} response.ErrorResponse "Чужой сайт"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sites.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	if err := h.gate.CanReadSiteData(actor, siteSlug); err != nil {
		log.Error("access denied", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

	site, err := h.service.Get(r.Context(), siteSlug)
	if err != nil {
		if errors.Is(err, siteservice.ErrSiteNotFound) {
			log.Error("site not found", slog.String("slug", siteSlug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("site not found"))
			return
		}
		log.Error("failed to read site", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read site"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"slug":    site.Slug,
		"active":  site.Active,
		"has_pin": site.VipPinHash != nil,
		"notes":   site.Notes,
	}))
}
