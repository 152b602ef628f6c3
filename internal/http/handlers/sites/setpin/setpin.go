// Package setpin реализует HTTP-обработчик установки VIP PIN сайта.
// Операция доступна только администратору; PIN хранится в виде bcrypt-хэша.
package setpin

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

// Handler управляет HTTP-запросами на установку VIP PIN.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики установки PIN.
type Service interface {
	SetVipPin(ctx context.Context, slug, pin string) error
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
// @Summary Установить VIP PIN сайта
// @Description Перезаписывает VIP PIN сайта. Только для администратора.
// @Tags Sites
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param request body models.DummyVipPin true "Новый PIN"
// @Success 200 {object} response.Response "PIN установлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/pin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sites.setpin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		log.Error("pin update requires admin role")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	var req models.DummyVipPin
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
	if err := h.service.SetVipPin(r.Context(), siteSlug, req.Pin); err != nil {
		if errors.Is(err, siteservice.ErrSiteNotFound) {
			log.Error("site not found", slog.String("slug", siteSlug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("site not found"))
			return
		}
		log.Error("failed to set vip pin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not set vip pin"))
		return
	}

	log.Info("vip pin updated", slog.String("slug", siteSlug))
	render.JSON(w, r, response.OK())
}
