// Package update реализует HTTP-обработчик обновления биллинга пользователя.
//
// Обновление приходит от платёжной интеграции и принимается только
// администратором. Активный статус оплаты реактивирует сайт пользователя.
package update

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
	subservice "github.com/magabrotheeeer/site-platform/internal/services/subscription"
)

// Handler управляет HTTP-запросами на обновление биллинга.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления биллинга.
type Service interface {
	UpdateBillingStatus(ctx context.Context, userUID string, req models.DummyBilling) error
}

// request объединяет идентификатор пользователя и биллинговые поля.
type request struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`
	models.DummyBilling
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
// @Summary Обновить биллинг пользователя
// @Description Сохраняет статус и дату следующего списания. Только для администратора.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body object true "UID пользователя и биллинговые поля"
// @Success 200 {object} response.Response "Биллинг обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/update [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := middlewarectx.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		log.Error("billing update requires admin role")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	var req request
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

	if err := h.service.UpdateBillingStatus(r.Context(), req.UserUID, req.DummyBilling); err != nil {
		if errors.Is(err, subservice.ErrUserNotFound) {
			log.Error("user not found", slog.String("user_uid", req.UserUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update billing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not update billing"))
		return
	}

	log.Info("billing updated", slog.String("user_uid", req.UserUID), slog.String("status", req.Status))
	render.JSON(w, r, response.OK())
}
