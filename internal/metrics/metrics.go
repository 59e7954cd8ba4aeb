// Package metrics объявляет счётчики Prometheus для жизненного цикла
// подписки. Отдаются служебным HTTP-сервером на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations — количество регистраций пользователей.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_registrations_total",
		Help: "Number of registered users.",
	})

	// PaymentClaims — количество заявок на ручную оплату.
	PaymentClaims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_payment_claims_total",
		Help: "Number of submitted payment claims.",
	})

	// PaymentsVerified — количество подтверждённых оплат.
	PaymentsVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_payments_verified_total",
		Help: "Number of payments verified by the administrator.",
	})

	// PaymentsRejected — количество отклонённых оплат.
	PaymentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_payments_rejected_total",
		Help: "Number of payments rejected by the administrator.",
	})
)
