// Package approve реализует HTTP-обработчик одобрения отзыва.
// Одобрять может администратор или vip-актор с корректным PIN.
package approve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	feedbackservice "github.com/magabrotheeeer/site-platform/internal/services/feedback"
)

// VipPinHeader — заголовок, в котором клиент передаёт VIP PIN.
const VipPinHeader = "X-Vip-Pin"

// Handler управляет HTTP-запросами на одобрение отзывов.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     *authz.Gate
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики одобрения отзывов.
type Service interface {
	Approve(ctx context.Context, id int, approved bool, isPublic *bool) error
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
// @Summary Одобрить отзыв
// @Description Устанавливает флаги одобрения и публичной видимости отзыва.
// @Tags Feedback
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param id path int true "ID отзыва"
// @Param X-Vip-Pin header string false "VIP PIN сайта"
// @Param request body models.DummyApprove true "Новые флаги"
// @Success 200 {object} response.Response "Флаги обновлены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав или неверный PIN"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/feedback/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.approve"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	pin := r.Header.Get(VipPinHeader)

	if err := h.gate.CanApproveFeedback(r.Context(), actor, siteSlug, pin); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, authz.ErrAuthRequired) {
			status = http.StatusUnauthorized
		}
		log.Error("feedback approval denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid feedback id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid feedback id"))
		return
	}

	var req models.DummyApprove
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

	if err := h.service.Approve(r.Context(), id, *req.Approved, req.IsPublic); err != nil {
		if errors.Is(err, feedbackservice.ErrFeedbackNotFound) {
			log.Error("feedback not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("feedback not found"))
			return
		}
		log.Error("failed to approve feedback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve feedback"))
		return
	}

	log.Info("feedback approval updated", slog.Int("id", id), slog.Bool("approved", *req.Approved))
	render.JSON(w, r, response.OK())
}
