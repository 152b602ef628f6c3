// Package upgrade реализует HTTP-обработчик смены тарифного плана.
// Пользователь меняет собственный план; администратор может указать чужой UID.
package upgrade

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
	subservice "github.com/magabrotheeeer/site-platform/internal/services/subscription"
)

// Handler управляет HTTP-запросами на смену плана.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены плана.
type Service interface {
	UpgradePlan(ctx context.Context, userUID, plan string) error
}

// request — тело запроса на смену плана.
type request struct {
	Plan    string `json:"plan" validate:"required"`
	UserUID string `json:"user_uid" validate:"omitempty,uuid"`
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
// @Summary Сменить тарифный план
// @Description Устанавливает план essential или vip.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body object true "Новый план"
// @Success 200 {object} response.Response "План обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Чужой UID без прав администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Некорректный план"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.upgrade"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	actor := middlewarectx.ActorFromContext(r.Context())
	userUID := actor.UserUID
	if req.UserUID != "" && req.UserUID != actor.UserUID {
		if !actor.IsAdmin() {
			log.Error("plan change for another user requires admin role")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin role required"))
			return
		}
		userUID = req.UserUID
	}

	if err := h.service.UpgradePlan(r.Context(), userUID, req.Plan); err != nil {
		switch {
		case errors.Is(err, subservice.ErrInvalidPlan):
			log.Error("invalid plan", slog.String("plan", req.Plan))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid plan"))
		case errors.Is(err, subservice.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to change plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not change plan"))
		}
		return
	}

	log.Info("plan changed", slog.String("user_uid", userUID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.OK())
}
