package models

import "time"

// LastPayment содержит срез последнего платежа пользователя.
// Отдельного журнала платежей нет, значения берутся из строки пользователя.
type LastPayment struct {
	Amount   float64 `json:"amount"`   // Сумма платежа
	Currency string  `json:"currency"` // Валюта
	Status   string  `json:"status"`   // Статус оплаты
	Provider string  `json:"provider"` // Платёжный провайдер
}

// SubscriptionStatus описывает эффективное состояние подписки пользователя.
// IsVip считается как plan == "vip" ИЛИ активный биллинг: клиент с просроченным
// vip-планом остаётся VIP, клиент essential с активной оплатой тоже VIP.
type SubscriptionStatus struct {
	Plan           string      `json:"plan"`                       // Тарифный план
	BillingStatus  string      `json:"billing_status"`             // Статус оплаты
	IsActive       bool        `json:"is_active"`                  // Активен ли биллинг
	IsVip          bool        `json:"is_vip"`                     // Эффективное VIP-право
	IsOverdue      bool        `json:"is_overdue"`                 // Просрочена ли оплата
	BillingNext    *time.Time  `json:"billing_next,omitempty"`     // Дата следующего списания
	GracePeriodEnd *time.Time  `json:"grace_period_end,omitempty"` // Конец льготного периода
	LastPayment    LastPayment `json:"last_payment"`               // Срез последнего платежа
}

// DummyBilling используется для приёма данных об обновлении биллинга.
type DummyBilling struct {
	Status   string  `json:"status" validate:"required"`             // Новый статус оплаты
	NextDate string  `json:"next_date" validate:"omitempty"`         // Дата следующего списания, RFC3339
	Amount   float64 `json:"amount" validate:"omitempty,gt=0"`       // Сумма платежа
	Currency string  `json:"currency" validate:"omitempty,len=3"`    // Валюта
	Provider string  `json:"provider" validate:"omitempty,alphanum"` // Провайдер
}

// DummyPlan используется для приёма запроса на смену тарифного плана.
type DummyPlan struct {
	Plan string `json:"plan" validate:"required"` // Новый план: essential или vip
}

// GraceSweepResult агрегирует результат одного прохода проверки льготного периода.
type GraceSweepResult struct {
	Processed        int      `json:"processed"`         // Количество отменённых пользователей
	DeactivatedSites []string `json:"deactivated_sites"` // Слаги деактивированных сайтов
}
