// Package siteplatform собирает основное HTTP-приложение платформы:
// хранилище, кеш, сервисы, маршруты и сервер.
package siteplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/site-platform/internal/authz"
	"github.com/magabrotheeeer/site-platform/internal/cache"
	"github.com/magabrotheeeer/site-platform/internal/config"
	"github.com/magabrotheeeer/site-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/site-platform/internal/migrations"
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

// App хранит зависимости запущенного HTTP-приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New создаёт приложение: подключает базу и кеш, применяет миграции,
// собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	siteService := siteservice.NewSiteService(db, logger)
	gate := authz.NewGate(siteService)

	authService := authservice.NewAuthService(db, tokens, logger)
	subscriptionService := subservice.NewSubscriptionService(db, db, cacheRedis, logger)
	settingsService := settingsservice.NewSettingsService(db, cacheRedis, logger)
	feedbackService := feedbackservice.NewFeedbackService(db, logger)
	leadService := leadservice.NewLeadService(db, logger)
	trafficService := trafficservice.NewTrafficService(db, logger)
	assetService := assetservice.NewAssetService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, gate, db,
		authService,
		siteService,
		subscriptionService,
		settingsService,
		feedbackService,
		leadService,
		trafficService,
		assetService,
	)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
