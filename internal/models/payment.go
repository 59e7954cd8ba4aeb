package models

// PaymentClaim описывает заявку на ручную оплату, созданную при выборе
// тарифа. Идентификатор транзакции пользователь указывает при отправке
// скриншота оплаты администратору.
type PaymentClaim struct {
	TransactionID string
	UserID        string
	UserName      string
	Plan          Plan
}

// Stats — сводка для административной панели.
type Stats struct {
	TotalUsers      int
	ActiveSubs      int
	PendingPayments int
	Revenue         int // Оценка выручки по подтверждённым подпискам, PKR
	PlanCount       int
}
