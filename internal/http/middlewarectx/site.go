package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/site-platform/internal/http/response"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
	siteservice "github.com/magabrotheeeer/site-platform/internal/services/sites"
)

// SiteProvider возвращает сайт по слагу в любой форме записи.
type SiteProvider interface {
	Get(ctx context.Context, rawSlug string) (*models.Site, error)
}

// ActiveSiteMiddleware разрешает сайт из параметра {slug} до вызова
// обработчика: несуществующий или выключенный сайт не обслуживается.
// Выключенный сайт неотличим от несуществующего для публичных запросов.
func ActiveSiteMiddleware(sites SiteProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ActiveSiteMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			siteSlug := chi.URLParam(r, "slug")
			site, err := sites.Get(r.Context(), siteSlug)
			if err != nil {
				if errors.Is(err, siteservice.ErrSiteNotFound) {
					log.Info("unknown site requested", slog.String("slug", siteSlug))
					render.Status(r, http.StatusNotFound)
					render.JSON(w, r, response.Error("site not found"))
					return
				}
				log.Error("failed to resolve site", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("could not resolve site"))
				return
			}
			if !site.Active {
				log.Info("inactive site requested", slog.String("slug", site.Slug))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("site not found"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
