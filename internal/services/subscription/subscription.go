// Package services содержит бизнес-логику состояния подписки и биллинга:
// вычисление эффективного статуса, обновление биллинговых полей,
// смену тарифного плана и проверку льготного периода.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/site-platform/internal/lib/sl"
	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
)

// GracePeriod — фиксированное окно после пропущенной даты списания,
// по истечении которого аккаунт отменяется, а его сайт деактивируется.
const GracePeriod = 72 * time.Hour

// Ошибки уровня бизнес-логики подписки.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPlan      = errors.New("invalid plan")
	ErrMissingLookupKey = errors.New("site slug or email is required")
)

// activeBillingStatuses — фиксированный список статусов, считающихся активной оплатой.
var activeBillingStatuses = map[string]struct{}{
	"approved":          {},
	"authorized":        {},
	"accredited":        {},
	"recurring_charges": {},
}

// IsActiveBillingStatus сообщает, означает ли статус оплаты активный биллинг.
// Любая строка вне фиксированного списка (включая pending, cancelled,
// suspended и пустую) считается неактивной.
func IsActiveBillingStatus(status string) bool {
	_, ok := activeBillingStatuses[status]
	return ok
}

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя по почте, поиск регистронезависимый.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserBySiteSlug возвращает владельца сайта по слагу.
	GetUserBySiteSlug(ctx context.Context, slug string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUserBilling обновляет биллинговые поля и возвращает количество изменённых строк.
	UpdateUserBilling(ctx context.Context, userUID, status string, next *time.Time,
		amount float64, currency, provider string) (int, error)
	// SetUserBillingStatus обновляет только статус оплаты.
	SetUserBillingStatus(ctx context.Context, userUID, status string) (int, error)
	// UpdateUserPlan обновляет тарифный план.
	UpdateUserPlan(ctx context.Context, userUID, plan string) (int, error)
	// ListOverdueUsers возвращает пользователей с датой списания раньше границы.
	ListOverdueUsers(ctx context.Context, cutoff time.Time) ([]*models.User, error)
}

// SiteRepository определяет операции с сайтами, нужные биллингу.
type SiteRepository interface {
	// ToggleSite устанавливает флаг активности сайта.
	ToggleSite(ctx context.Context, slug string, active bool) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику состояния подписки.
type SubscriptionService struct {
	users UserRepository
	sites SiteRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(users UserRepository, sites SiteRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		users: users,
		sites: sites,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// GetSubscriptionStatus вычисляет эффективный статус подписки пользователя,
// найденного по слагу сайта или по почте (нужен хотя бы один ключ).
//
// IsVip — логическое ИЛИ плана и активного биллинга: клиент с просроченным
// vip-планом остаётся VIP, essential-клиент с активной оплатой — тоже VIP.
func (s *SubscriptionService) GetSubscriptionStatus(ctx context.Context, siteSlug, email string) (*models.SubscriptionStatus, error) {
	var user *models.User
	var err error
	var cacheKey string

	switch {
	case siteSlug != "":
		cacheKey = fmt.Sprintf("substatus:site:%s", slug.Normalize(siteSlug))
		var cached models.SubscriptionStatus
		if found, cerr := s.cache.Get(cacheKey, &cached); cerr == nil && found {
			return &cached, nil
		}
		user, err = s.users.GetUserBySiteSlug(ctx, slug.Normalize(siteSlug))
	case email != "":
		user, err = s.users.GetUserByEmail(ctx, email)
	default:
		return nil, ErrMissingLookupKey
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	isActive := IsActiveBillingStatus(user.BillingStatus)
	status := &models.SubscriptionStatus{
		Plan:          user.Plan,
		BillingStatus: user.BillingStatus,
		IsActive:      isActive,
		IsVip:         user.Plan == models.PlanVip || isActive,
		BillingNext:   user.BillingNext,
		LastPayment: models.LastPayment{
			Amount:   user.BillingAmount,
			Currency: user.BillingCurrency,
			Status:   user.BillingStatus,
			Provider: user.BillingProvider,
		},
	}
	if user.BillingNext != nil {
		status.IsOverdue = user.BillingNext.Before(now)
		graceEnd := user.BillingNext.Add(GracePeriod)
		status.GracePeriodEnd = &graceEnd
	}

	if cacheKey != "" {
		if err := s.cache.Set(cacheKey, status, 5*time.Minute); err != nil {
			s.log.Warn("failed to cache subscription status", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return status, nil
}

// UpdateBillingStatus сохраняет биллинговые поля пользователя.
// Если новый статус активен и у пользователя есть сайт, сайт принудительно
// активируется (повторная активация безвредна).
func (s *SubscriptionService) UpdateBillingStatus(ctx context.Context, userUID string, req models.DummyBilling) error {
	var next *time.Time
	if req.NextDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.NextDate)
		if err != nil {
			return fmt.Errorf("invalid next date: %w", err)
		}
		next = &parsed
	}

	count, err := s.users.UpdateUserBilling(ctx, userUID, req.Status, next, req.Amount, req.Currency, req.Provider)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	s.log.Info("updated billing status", slog.String("user_uid", userUID), slog.String("status", req.Status))

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if IsActiveBillingStatus(req.Status) && user.SiteSlug != nil {
		if _, err := s.sites.ToggleSite(ctx, *user.SiteSlug, true); err != nil {
			return err
		}
		s.log.Info("site reactivated after billing update", slog.String("slug", *user.SiteSlug))
	}
	s.invalidateStatusCache(user)
	return nil
}

// UpgradePlan меняет тарифный план пользователя на essential или vip.
func (s *SubscriptionService) UpgradePlan(ctx context.Context, userUID, plan string) error {
	if plan != models.PlanEssential && plan != models.PlanVip {
		return ErrInvalidPlan
	}
	count, err := s.users.UpdateUserPlan(ctx, userUID, plan)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	s.log.Info("plan upgraded", slog.String("user_uid", userUID), slog.String("plan", plan))

	if user, err := s.users.GetUser(ctx, userUID); err == nil {
		s.invalidateStatusCache(user)
	}
	return nil
}

// ProcessGracePeriodCheck отменяет пользователей, чья дата списания прошла
// больше, чем на длину льготного периода, и деактивирует их сайты.
// Сбой на одной строке логируется и не прерывает обработку остальных.
func (s *SubscriptionService) ProcessGracePeriodCheck(ctx context.Context) (*models.GraceSweepResult, error) {
	cutoff := s.now().Add(-GracePeriod)
	users, err := s.users.ListOverdueUsers(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &models.GraceSweepResult{}
	for _, user := range users {
		if _, err := s.users.SetUserBillingStatus(ctx, user.UID, "cancelled"); err != nil {
			s.log.Error("failed to cancel overdue user", slog.String("user_uid", user.UID), sl.Err(err))
			continue
		}
		result.Processed++

		if user.SiteSlug != nil {
			if _, err := s.sites.ToggleSite(ctx, *user.SiteSlug, false); err != nil {
				s.log.Error("failed to deactivate site", slog.String("slug", *user.SiteSlug), sl.Err(err))
			} else {
				result.DeactivatedSites = append(result.DeactivatedSites, *user.SiteSlug)
			}
		}
		s.invalidateStatusCache(user)
	}

	s.log.Info("grace period check finished",
		slog.Int("processed", result.Processed),
		slog.Int("deactivated_sites", len(result.DeactivatedSites)))
	return result, nil
}

func (s *SubscriptionService) invalidateStatusCache(user *models.User) {
	if user == nil || user.SiteSlug == nil {
		return
	}
	key := fmt.Sprintf("substatus:site:%s", *user.SiteSlug)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate status cache", slog.String("key", key), slog.Any("err", err))
	}
}
