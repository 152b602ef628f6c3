// Package toggle реализует HTTP-обработчик включения и выключения сайта.
// Операция доступна только администратору.
package toggle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	siteservice "github.com/magabrotheeeer/site-platform/internal/services/sites"
)

// Handler управляет HTTP-запросами на переключение активности сайта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики переключения сайта.
type Service interface {
	Toggle(ctx context.Context, slug string, active bool) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Включить или выключить сайт
// @Description Устанавливает флаг активности сайта. Только для администратора.
// @Tags Sites
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param request body models.DummyToggle true "Новое состояние"
// @Success 200 {object} response.Response "Состояние обновлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sites.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		log.Error("site toggle requires admin role")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	var req models.DummyToggle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	siteSlug := chi.URLParam(r, "slug")
	if err := h.service.Toggle(r.Context(), siteSlug, *req.Active); err != nil {
		if errors.Is(err, siteservice.ErrSiteNotFound) {
			log.Error("site not found", slog.String("slug", siteSlug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("site not found"))
			return
		}
		log.Error("failed to toggle site", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle site"))
		return
	}

	log.Info("site toggled", slog.String("slug", siteSlug), slog.Bool("active", *req.Active))
	render.JSON(w, r, response.OK())
}
