// Package siteplatform предоставляет маршруты для основного приложения.
package siteplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	assetlist "github.com/magabrotheeeer/site-platform/internal/http/handlers/assets/list"
	assetremove "github.com/magabrotheeeer/site-platform/internal/http/handlers/assets/remove"
	assetupload "github.com/magabrotheeeer/site-platform/internal/http/handlers/assets/upload"
	"github.com/magabrotheeeer/site-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/site-platform/internal/http/handlers/auth/register"
	billingstatus "github.com/magabrotheeeer/site-platform/internal/http/handlers/billing/status"
	billingupdate "github.com/magabrotheeeer/site-platform/internal/http/handlers/billing/update"
	billingupgrade "github.com/magabrotheeeer/site-platform/internal/http/handlers/billing/upgrade"
	feedbackapprove "github.com/magabrotheeeer/site-platform/internal/http/handlers/feedback/approve"
	feedbackcreate "github.com/magabrotheeeer/site-platform/internal/http/handlers/feedback/create"
	feedbacklist "github.com/magabrotheeeer/site-platform/internal/http/handlers/feedback/list"
	feedbackstats "github.com/magabrotheeeer/site-platform/internal/http/handlers/feedback/stats"
	leadcreate "github.com/magabrotheeeer/site-platform/internal/http/handlers/leads/create"
	leadlist "github.com/magabrotheeeer/site-platform/internal/http/handlers/leads/list"
	settingsget "github.com/magabrotheeeer/site-platform/internal/http/handlers/settings/get"
	"github.com/magabrotheeeer/site-platform/internal/http/handlers/settings/sections"
	settingsupdate "github.com/magabrotheeeer/site-platform/internal/http/handlers/settings/update"
	sitecreate "github.com/magabrotheeeer/site-platform/internal/http/handlers/sites/create"
	"github.com/magabrotheeeer/site-platform/internal/http/handlers/sites/setpin"
	sitestatus "github.com/magabrotheeeer/site-platform/internal/http/handlers/sites/status"
	"github.com/magabrotheeeer/site-platform/internal/http/handlers/sites/toggle"
	trafficlist "github.com/magabrotheeeer/site-platform/internal/http/handlers/traffic/list"
	trafficrecord "github.com/magabrotheeeer/site-platform/internal/http/handlers/traffic/record"
	"github.com/magabrotheeeer/site-platform/internal/http/middlewarectx"
	assetservice "github.com/magabrotheeeer/site-platform/internal/services/assets"
	authservice "github.com/magabrotheeeer/site-platform/internal/services/auth"
	feedbackservice "github.com/magabrotheeeer/site-platform/internal/services/feedback"
	leadservice "github.com/magabrotheeeer/site-platform/internal/services/leads"
	settingsservice "github.com/magabrotheeeer/site-platform/internal/services/settings"
	siteservice "github.com/magabrotheeeer/site-platform/internal/services/sites"
	subservice "github.com/magabrotheeeer/site-platform/internal/services/subscription"
	trafficservice "github.com/magabrotheeeer/site-platform/internal/services/traffic"
	"github.com/magabrotheeeer/site-platform/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, gate *authz.Gate, db *storage.Storage,
	authService *authservice.AuthService,
	siteService *siteservice.SiteService,
	subscriptionService *subservice.SubscriptionService,
	settingsService *settingsservice.SettingsService,
	feedbackService *feedbackservice.FeedbackService,
	leadService *leadservice.LeadService,
	trafficService *trafficservice.TrafficService,
	assetService *assetservice.AssetService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Публичная витрина сайта: токен не обязателен, но если он есть,
		// актор попадает в контекст и расширяет доступ. Несуществующие
		// и выключенные сайты не обслуживаются.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.ActiveSiteMiddleware(siteService, logger))
			r.Use(middlewarectx.MaybeAuthMiddleware(authService, db, logger))
			r.Get("/sites/{slug}/settings", settingsget.New(logger, settingsService).ServeHTTP)
			r.Get("/sites/{slug}/feedback", feedbacklist.New(logger, feedbackService, gate).ServeHTTP)
			r.Post("/sites/{slug}/feedback", feedbackcreate.New(logger, feedbackService).ServeHTTP)
			r.Post("/sites/{slug}/leads", leadcreate.New(logger, leadService).ServeHTTP)
			r.Post("/sites/{slug}/traffic", trafficrecord.New(logger, trafficService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, db, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/sites", sitecreate.New(logger, siteService).ServeHTTP)
			r.Post("/sites/{slug}/toggle", toggle.New(logger, siteService).ServeHTTP)
			r.Post("/sites/{slug}/pin", setpin.New(logger, siteService).ServeHTTP)
			r.Get("/sites/{slug}/status", sitestatus.New(logger, siteService, gate).ServeHTTP)
			r.Put("/sites/{slug}/settings", settingsupdate.New(logger, settingsService, gate).ServeHTTP)
			r.Put("/sites/{slug}/sections", sections.New(logger, settingsService, gate).ServeHTTP)
			r.Post("/sites/{slug}/feedback/{id}/approve", feedbackapprove.New(logger, feedbackService, gate).ServeHTTP)
			r.Get("/sites/{slug}/feedback/stats", feedbackstats.New(logger, feedbackService, gate).ServeHTTP)
			r.Get("/sites/{slug}/leads", leadlist.New(logger, leadService, gate).ServeHTTP)
			r.Get("/sites/{slug}/traffic", trafficlist.New(logger, trafficService, gate).ServeHTTP)
			r.Post("/sites/{slug}/assets", assetupload.New(logger, assetService, gate).ServeHTTP)
			r.Get("/sites/{slug}/assets", assetlist.New(logger, assetService, gate).ServeHTTP)
			r.Delete("/sites/{slug}/assets/{id}", assetremove.New(logger, assetService, gate).ServeHTTP)
			r.Get("/billing/status", billingstatus.New(logger, subscriptionService).ServeHTTP)
			r.Post("/billing/update", billingupdate.New(logger, subscriptionService).ServeHTTP)
			r.Post("/billing/upgrade", billingupgrade.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
