// Package create реализует HTTP-обработчик создания сайта.
//
// Handler принимает JSON-запрос со слагом и заметками, валидирует их
// и создаёт сайт через сервис каталога сайтов. Операция доступна
// только администратору.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	siteservice "github.com/magabrotheeeer/site-platform/internal/services/sites"
)

// Handler управляет HTTP-запросами на создание сайтов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания сайта.
type Service interface {
	Create(ctx context.Context, req models.DummySite) (*models.Site, error)
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
// @Summary Создать сайт
// @Description Создает сайт с каноническим слагом. Только для администратора.
// @Tags Sites
// @Accept  json
// @Produce  json
// @Param request body models.DummySite true "Данные сайта"
// @Success 200 {object} map[string]any "Созданный сайт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 409 {object} response.ErrorResponse "Слаг уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sites.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		log.Error("site creation requires admin role")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	var req models.DummySite
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

	site, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, siteservice.ErrSlugTaken) {
			log.Error("slug already taken", slog.String("slug", req.Slug))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("slug already taken"))
			return
		}
		log.Error("failed to create site", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create site"))
		return
	}

	log.Info("site created", slog.String("slug", site.Slug))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"slug":   site.Slug,
		"active": site.Active,
	}))
}
