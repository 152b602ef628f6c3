// Package services содержит фоновую проверку льготного периода:
// периодический запуск отмены просроченных аккаунтов и публикацию
// событий деактивации сайтов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/site-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// GraceChecker выполняет одну проверку льготного периода.
type GraceChecker interface {
	ProcessGracePeriodCheck(ctx context.Context) (*models.GraceSweepResult, error)
}

// SiteDeactivatedEvent — полезная нагрузка события деактивации сайта.
type SiteDeactivatedEvent struct {
	SiteSlug      string    `json:"site_slug"`      // Слаг деактивированного сайта
	DeactivatedAt time.Time `json:"deactivated_at"` // Время деактивации
	Reason        string    `json:"reason"`         // Причина деактивации
}

// SweeperService периодически запускает проверку льготного периода.
type SweeperService struct {
	checker  GraceChecker
	log      *slog.Logger
	interval time.Duration
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(checker GraceChecker, log *slog.Logger, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SweeperService{
		checker:  checker,
		log:      log,
		interval: interval,
	}
}

// Run выполняет проверку сразу при старте и далее по тикеру до отмены контекста.
// Проходы строго последовательные, параллельные проверки не запускаются.
func (s *SweeperService) Run(ctx context.Context, channel *amqp.Channel) {
	s.runGracePeriodCheck(ctx, channel)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("grace period sweeper stopped")
			return
		case <-ticker.C:
			s.runGracePeriodCheck(ctx, channel)
		}
	}
}

func (s *SweeperService) runGracePeriodCheck(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting grace period check")
	result, err := s.checker.ProcessGracePeriodCheck(ctx)
	if err != nil {
		s.log.Error("grace period check failed", sl.Err(err))
		return
	}
	if result.Processed == 0 {
		s.log.Info("no overdue accounts found")
		return
	}
	s.log.Info("grace period check done",
		slog.Int("processed", result.Processed),
		slog.Int("deactivated_sites", len(result.DeactivatedSites)))

	if channel == nil {
		return
	}
	for _, siteSlug := range result.DeactivatedSites {
		event := SiteDeactivatedEvent{
			SiteSlug:      siteSlug,
			DeactivatedAt: time.Now(),
			Reason:        "grace_period_expired",
		}
		err := rabbitmq.PublishMessage(channel, rabbitmq.SiteEventsExchange, rabbitmq.RoutingKeySiteDeactivated, event)
		if err != nil {
			s.log.Error("failed to publish site deactivation event",
				slog.String("slug", siteSlug), sl.Err(err))
		}
	}
}
