// Package upload реализует HTTP-обработчик регистрации файлового ресурса.
//
// Требуется vip-эквивалент: админ, план vip или активный биллинг.
// PIN здесь не участвует, в отличие от записи настроек.
package upload

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

// Handler управляет HTTP-запросами на регистрацию файловых ресурсов.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     *authz.Gate
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики файловых ресурсов.
type Service interface {
	Save(ctx context.Context, slug string, req models.DummyAsset) (*models.Asset, error)
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
// @Summary Зарегистрировать файловый ресурс
// @Description Сохраняет метаданные загружаемого файла и выдаёт ключ хранилища.
// @Tags Assets
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param request body models.DummyAsset true "Метаданные файла"
// @Success 200 {object} map[string]any "Зарегистрированный ресурс"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав или чужой сайт"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/assets [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assets.upload"
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
		log.Error("asset write denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	// Права на запись не дают доступ к чужому сайту.
	if err := h.gate.CanReadSiteData(actor, siteSlug); err != nil {
		log.Error("asset write denied for foreign site", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	var req models.DummyAsset
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

	asset, err := h.service.Save(r.Context(), siteSlug, req)
	if err != nil {
		log.Error("failed to save asset", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save asset"))
		return
	}

	log.Info("asset saved", slog.String("id", asset.ID), slog.String("slug", siteSlug))
	render.JSON(w, r, response.OKWithData(asset))
}
