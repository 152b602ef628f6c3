// Package update реализует HTTP-обработчик записи настроек сайта.
//
// Запись настроек — привилегированная операция: администратор проходит
// безусловно, остальным нужен vip-план и корректный PIN из заголовка
// X-Vip-Pin. Каждый успешный запрос добавляет новый снимок в журнал.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
)

// VipPinHeader — заголовок, в котором клиент передаёт VIP PIN.
const VipPinHeader = "X-Vip-Pin"

// Handler управляет HTTP-запросами на запись настроек.
type Handler struct {
	log     *slog.Logger
	service Service
	gate    *authz.Gate
}

// Service описывает интерфейс бизнес-логики записи настроек.
type Service interface {
	Save(ctx context.Context, slug string, data map[string]any) (int, error)
}

// New создает новый Handler с переданными логгером, сервисом и гейтом доступа.
func New(log *slog.Logger, service Service, gate *authz.Gate) *Handler {
	return &Handler{
		log:     log,
		service: service,
		gate:    gate,
	}
}

// ServeHTTP godoc
// @Summary Записать настройки сайта
// @Description Добавляет новый снимок настроек. Требует vip-план и PIN либо права администратора.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param slug path string true "Слаг сайта"
// @Param X-Vip-Pin header string false "VIP PIN сайта"
// @Param request body map[string]any true "Полезная нагрузка настроек"
// @Success 200 {object} map[string]any "ID нового снимка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет аутентификации"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав или неверный PIN"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/{slug}/settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	siteSlug := chi.URLParam(r, "slug")
	actor := middlewarectx.ActorFromContext(r.Context())
	pin := r.Header.Get(VipPinHeader)

	if err := h.gate.CanWriteSettings(r.Context(), actor, siteSlug, pin); err != nil {
		status := http.StatusForbidden
		if errors.Is(err, authz.ErrAuthRequired) {
			status = http.StatusUnauthorized
		}
		log.Error("settings write denied", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id, err := h.service.Save(r.Context(), siteSlug, data)
	if err != nil {
		log.Error("failed to save settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save settings"))
		return
	}

	log.Info("settings saved", slog.String("slug", siteSlug), slog.Int("snapshot_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"snapshot_id": id,
	}))
}
