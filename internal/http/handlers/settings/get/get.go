// Package get реализует HTTP-обработчик чтения текущих настроек сайта.
// Настройки публичны: сайт рендерится по ним без входа. Секрет
// security.vip_pin никогда не попадает в ответ.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	settingsservice "github.com/magabrotheeeer/site-platform/internal/services/settings"
)

// Handler управляет HTTP-запросами на чтение настроек.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения настроек.
type Service interface {
	Current(ctx context.Context, slug string) (*models.SettingsSnapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущие настройки сайта
// @Description Возвращает последний снимок настроек без секретов.
// @Tags Settings
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Success 200 {object} map[string]any "Снимок настроек"
// @Failure 404 {object} response.ErrorResponse "Настройки не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	snapshot, err := h.service.Current(r.Context(), siteSlug)
	if err != nil {
		if errors.Is(err, settingsservice.ErrSettingsNotFound) {
			log.Error("settings not found", slog.String("slug", siteSlug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("settings not found"))
			return
		}
		log.Error("failed to read settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read settings"))
		return
	}

	render.JSON(w, r, response.OKWithData(snapshot))
}
