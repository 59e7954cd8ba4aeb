package models

import "github.com/mrwasif-dev/telegram-subs-bot/internal/lib/dates"

// User представляет зарегистрированного пользователя бота.
// Ключ записи — идентификатор чата Telegram, он приходит извне и
// не хранится внутри структуры.
//
// PlanName и DeviceLimit — денормализованные копии полей тарифа на
// момент выбора: последующие правки или удаление тарифа не меняют
// условия уже оформленной подписки.
type User struct {
	Name            string     `json:"name"`                     // Имя, введённое при регистрации
	WhatsAppNumber  string     `json:"whatsappNumber,omitempty"` // Номер WhatsApp, опционален
	PasswordHash    string     `json:"passwordHash,omitempty"`   // bcrypt-хеш пароля
	PlanName        string     `json:"plan"`                     // Название выбранного тарифа, пусто без тарифа
	DeviceLimit     int        `json:"devices"`                  // Лимит устройств, скопирован из тарифа
	PaymentVerified bool       `json:"paymentVerified"`          // Подтверждена ли оплата администратором
	RegisterDate    dates.Date `json:"registerDate"`             // Дата регистрации
	PaymentDate     dates.Date `json:"paymentDate"`              // Дата заявки на оплату
	VerifiedDate    dates.Date `json:"verifiedDate"`             // Дата подтверждения оплаты
	ExpiryDate      dates.Date `json:"expiryDate"`               // Дата окончания подписки
}

// HasPlan сообщает, выбран ли у пользователя тариф.
func (u User) HasPlan() bool {
	return u.PlanName != ""
}

// SubscriptionState перечисляет вычисляемые состояния подписки.
// Состояние не хранится: оно выводится из полей записи и текущей даты.
type SubscriptionState string

const (
	// StateNoPlan — зарегистрирован, тариф не выбран.
	StateNoPlan SubscriptionState = "no_plan"
	// StatePendingPayment — тариф выбран, оплата не подтверждена.
	StatePendingPayment SubscriptionState = "pending_payment"
	// StateActive — оплата подтверждена, срок не истёк.
	StateActive SubscriptionState = "active"
	// StateExpired — срок подписки истёк.
	StateExpired SubscriptionState = "expired"
)

// UserView — данные пользователя для отображения во фронтенде
// вместе с вычисленным состоянием подписки.
type UserView struct {
	ID      string
	User    User
	State   SubscriptionState
	Expired bool
}
