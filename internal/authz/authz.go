// Package authz реализует решения о доступе к ресурсам платформы.
//
// Контекст актора (роль, план, статус оплаты, сайт) разрешается один раз
// на запрос middleware-слоем и передаётся сюда как значение; сами решения —
// чистые функции над актором и результатом проверки PIN. Правила для разных
// ресурсов намеренно неоднородны (настройки требуют vip-план и PIN, секции —
// только PIN, файлы — vip-эквивалент без PIN) и воспроизводятся как есть.
package authz

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
	subservice "github.com/magabrotheeeer/site-platform/internal/services/subscription"
)

// Ошибки авторизации.
var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrVipOrAdminRequired = errors.New("vip plan or admin role required")
	ErrInvalidPin         = errors.New("invalid vip pin")
	ErrAccessDenied       = errors.New("access denied")
)

// Actor описывает разрешённый контекст вызывающей стороны запроса.
type Actor struct {
	Authenticated bool   // Прошёл ли актор аутентификацию
	UserUID       string // Идентификатор пользователя
	Role          string // Роль: admin или client
	Plan          string // Тарифный план
	BillingStatus string // Статус оплаты
	SiteSlug      string // Канонический слаг сайта актора, пустой если сайта нет
}

// IsAdmin сообщает, является ли актор администратором.
func (a Actor) IsAdmin() bool {
	return a.Authenticated && a.Role == models.RoleAdmin
}

// PinValidator проверяет VIP PIN сайта.
type PinValidator interface {
	ValidateVipPin(ctx context.Context, slug, pin string) bool
}

// Gate принимает решения о доступе на основе актора и проверки PIN.
type Gate struct {
	pins PinValidator
}

// NewGate создает новый экземпляр Gate.
func NewGate(pins PinValidator) *Gate {
	return &Gate{pins: pins}
}

// CanWriteSettings решает, может ли актор записывать настройки сайта.
// Админ — безусловно. Остальным нужен vip-план (иначе ErrVipOrAdminRequired,
// PIN при этом даже не проверяется) и корректный PIN (иначе ErrInvalidPin).
func (g *Gate) CanWriteSettings(ctx context.Context, actor Actor, siteSlug, pin string) error {
	if !actor.Authenticated {
		return ErrAuthRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Plan != models.PlanVip {
		return ErrVipOrAdminRequired
	}
	if !g.pins.ValidateVipPin(ctx, siteSlug, pin) {
		return ErrInvalidPin
	}
	return nil
}

// CanUpsertSectionDef решает, может ли актор изменять определения секций.
// Админ обходит PIN; любому другому аутентифицированному актору нужен
// корректный PIN — план здесь не проверяется, в отличие от записи настроек.
func (g *Gate) CanUpsertSectionDef(ctx context.Context, actor Actor, siteSlug, pin string) error {
	if !actor.Authenticated {
		return ErrAuthRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	if !g.pins.ValidateVipPin(ctx, siteSlug, pin) {
		return ErrInvalidPin
	}
	return nil
}

// FeedbackFullAccess сообщает, видит ли актор отзывы целиком: неодобренные
// строки и приватные контактные поля. По умолчанию доступ публичный;
// полный доступ получает админ или vip-актор с корректным PIN.
func (g *Gate) FeedbackFullAccess(ctx context.Context, actor Actor, siteSlug, pin string) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Authenticated && actor.Plan == models.PlanVip &&
		g.pins.ValidateVipPin(ctx, siteSlug, pin)
}

// CanApproveFeedback решает, может ли актор одобрять отзывы сайта.
// Только админ или vip-актор с корректным PIN.
func (g *Gate) CanApproveFeedback(ctx context.Context, actor Actor, siteSlug, pin string) error {
	if !actor.Authenticated {
		return ErrAuthRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Plan != models.PlanVip {
		return ErrVipOrAdminRequired
	}
	if !g.pins.ValidateVipPin(ctx, siteSlug, pin) {
		return ErrInvalidPin
	}
	return nil
}

// CanWriteAssets решает, может ли актор загружать и удалять файловые ресурсы.
// Требуется админ или vip-эквивалент: план vip ИЛИ активный биллинг.
// PIN здесь не участвует, в отличие от записи настроек.
func (g *Gate) CanWriteAssets(actor Actor) error {
	if !actor.Authenticated {
		return ErrAuthRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Plan == models.PlanVip || subservice.IsActiveBillingStatus(actor.BillingStatus) {
		return nil
	}
	return ErrVipOrAdminRequired
}

// CanReadSiteData решает, может ли актор читать заявки, трафик и статус сайта.
// Доступ есть у админа и у владельца этого же сайта; сравнение слагов
// регистронезависимое через каноническую форму.
func (g *Gate) CanReadSiteData(actor Actor, siteSlug string) error {
	if !actor.Authenticated {
		return ErrAuthRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.SiteSlug != "" && slug.Normalize(actor.SiteSlug) == slug.Normalize(siteSlug) {
		return nil
	}
	return ErrAccessDenied
}
