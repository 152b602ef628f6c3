package models

import "time"

// Роли пользователей платформы.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Тарифные планы.
const (
	PlanEssential = "essential"
	PlanVip       = "vip"
)

// User представляет учётную запись платформы.
// Email хранится в нижнем регистре, поиск по нему регистронезависимый.
// Эффективные права клиента выводятся из пары (Plan, BillingStatus),
// а не из одного только Plan.
type User struct {
	UID             string     // Уникальный идентификатор пользователя
	Email           string     // Электронная почта (уникальная)
	PasswordHash    string     // bcrypt-хэш пароля
	Role            string     // Роль: admin или client
	SiteSlug        *string    // Слаг сайта пользователя, nil если сайта нет
	Plan            string     // Тарифный план: essential или vip
	BillingStatus   string     // Статус оплаты от платёжного провайдера
	BillingNext     *time.Time // Дата следующего списания
	BillingAmount   float64    // Сумма последнего платежа
	BillingCurrency string     // Валюта последнего платежа
	BillingProvider string     // Платёжный провайдер
	CreatedAt       time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных из JSON-запроса на регистрацию.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`      // Электронная почта
	Password string `json:"password" validate:"required,min=8"`   // Пароль
	SiteSlug string `json:"site_slug" validate:"omitempty,alphanum"` // Слаг сайта (опционально)
}

// DummyLogin используется для приёма данных из JSON-запроса на вход.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`    // Электронная почта
	Password string `json:"password" validate:"required"`       // Пароль
}
