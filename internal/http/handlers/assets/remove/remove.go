// Package remove реализует HTTP-обработчик удаления файлового ресурса.
// Как и загрузка, удаление требует vip-эквивалент без проверки PIN;
// не-админ может удалять ресурсы только собственного сайта.
package remove

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
	assetservice "github.com/magabrotheeeer/site-platform/internal/services/assets"
)

// Handler управляет HTTP-запросами на удаление файловых ресурсов.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    *authz.Gate
}

// Service описывает интерфейс бизнес-логики удаления ресурсов.
type Service interface {
	Remove(ctx context.Context, slug, id string) error
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
// @Summary Удалить файловый ресурс
// @Description Удаляет метаданные ресурса сайта по его идентификатору.
// @Tags Assets
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param id path string true "ID ресурса"
// @Success 200 {object} response.Response "Ресурс удалён"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав или чужой сайт"
// @Failure 404 {object} response.ErrorResponse "Ресурс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/assets/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assets.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	if err := h.gate.CanWriteAssets(actor); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, authz.ErrAuthRequired) {
			status = http.StatusUnauthorized
		}
		log.Error("asset remove denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	// Права на запись не дают доступ к чужому сайту.
	if err := h.gate.CanReadSiteData(actor, siteSlug); err != nil {
		log.Error("asset remove denied for foreign site", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), siteSlug, id); err != nil {
		if errors.Is(err, assetservice.ErrAssetNotFound) {
			log.Error("asset not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("asset not found"))
			return
		}
		log.Error("failed to remove asset", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove asset"))
		return
	}

	log.Info("asset removed", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
