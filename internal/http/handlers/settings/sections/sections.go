// Package sections реализует HTTP-обработчик изменения определений секций сайта.
//
// В отличие от записи настроек, план здесь не проверяется: администратор
// проходит без PIN, любому другому аутентифицированному актору нужен
// корректный PIN из заголовка X-Vip-Pin.
package sections

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

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// VipPinHeader — заголовок, в котором клиент передаёт VIP PIN.
const VipPinHeader = "X-Vip-Pin"

// Handler управляет HTTP-запросами на изменение определений секций.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     *authz.Gate
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики определений секций.
type Service interface {
	UpsertSectionDef(ctx context.Context, slug string, def models.DummySectionDef) (int, error)
}

// New создает новый Handler с переданными логгером, сервисом и гейтом доступа.
func New(log *slog.Logger, service Service, gate *authz.Gate) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gate:     gate,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить определение секции
// @Description Записывает схему секции сайта. Администратор — без PIN, остальные — с PIN.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param X-Vip-Pin header string false "VIP PIN сайта"
// @Param request body models.DummySectionDef true "Определение секции"
// @Success 200 {object} map[string]any "ID нового снимка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Неверный PIN"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/sections [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.sections"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	pin := r.Header.Get(VipPinHeader)

	if err := h.gate.CanUpsertSectionDef(r.Context(), actor, siteSlug, pin); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, authz.ErrAuthRequired) {
			status = http.StatusUnauthorized
		}
		log.Error("section def upsert denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	var req models.DummySectionDef
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

	id, err := h.service.UpsertSectionDef(r.Context(), siteSlug, req)
	if err != nil {
		log.Error("failed to upsert section def", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not upsert section definition"))
		return
	}

	log.Info("section definition upserted", slog.String("slug", siteSlug), slog.String("key", req.Key))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"snapshot_id": id,
	}))
}
