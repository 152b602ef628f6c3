// Package create реализует HTTP-обработчик создания отзыва посетителем.
// Отзыв создаётся без входа, попадает в очередь модерации неодобренным.
package create

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

	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	feedbackservice "github.com/magabrotheeeer/site-platform/internal/services/feedback"
)

// Handler управляет HTTP-запросами на создание отзыва.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания отзыва.
type Service interface {
	Create(ctx context.Context, slug string, req models.DummyFeedback) (int, error)
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
// @Summary Оставить отзыв
// @Description Создает отзыв с оценкой 1..5; отзыв появляется публично после одобрения.
// @Tags Feedback
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param request body models.DummyFeedback true "Данные отзыва"
// @Success 200 {object} map[string]any "ID созданного отзыва"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/feedback [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyFeedback
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
	id, err := h.service.Create(r.Context(), siteSlug, req)
	if err != nil {
		if errors.Is(err, feedbackservice.ErrInvalidRating) ||
			errors.Is(err, feedbackservice.ErrMissingFields) {
			log.Error("invalid feedback", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to create feedback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create feedback"))
		return
	}

	log.Info("feedback created", slog.Int("id", id), slog.String("slug", siteSlug))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
