package services

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/dates"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/password"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/storage"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func defaultPlans() []models.Plan {
	return []models.Plan{
		{ID: "plan_350", Name: "Basic Plan", Price: 350, DurationDays: 15, Features: "1 WhatsApp link device", DeviceLimit: 1, Active: true},
		{ID: "plan_500", Name: "Standard Plan", Price: 500, DurationDays: 30, Features: "1 WhatsApp link device", DeviceLimit: 1, Active: true},
		{ID: "plan_old", Name: "Legacy Plan", Price: 200, DurationDays: 30, DeviceLimit: 1, Active: false},
	}
}

// newTestService поднимает сервис над хранилищем в памяти с
// фиксированной "сегодняшней" датой.
func newTestService(t *testing.T, today dates.Date) (*SubscriptionService, *storage.Store) {
	t.Helper()
	store := storage.Open(storage.NewMemorySource(nil), defaultPlans(), newNoopLogger())
	svc := NewSubscriptionService(store, newNoopLogger(), 5)
	svc.today = func() dates.Date { return today }
	return svc, store
}

func TestRegister(t *testing.T) {
	today := dates.Date{Day: 1, Month: 1, Year: 2025}

	tests := []struct {
		name     string
		userName string
		whatsapp string
		password string
		wantErr  error
	}{
		{name: "success", userName: "Wasif", whatsapp: "0300-1234567", password: "Abc12345"},
		{name: "success without whatsapp", userName: "Ali", password: "Abc12345"},
		{name: "weak password", userName: "Wasif", password: "abc12345", wantErr: ErrValidationFailed},
		{name: "bad whatsapp", userName: "Wasif", whatsapp: "12345", password: "Abc12345", wantErr: ErrValidationFailed},
		{name: "empty name", userName: "", password: "Abc12345", wantErr: ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, today)

			view, err := svc.Register("42", tt.userName, tt.whatsapp, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userName, view.User.Name)
			assert.Equal(t, today, view.User.RegisterDate)
			assert.Equal(t, models.StateNoPlan, view.State)
			// свежезарегистрированный пользователь без тарифа считается истёкшим
			assert.True(t, view.Expired)
			assert.False(t, view.User.PaymentVerified)
			// пароль хранится хешем и проверяется
			assert.NoError(t, password.Verify(view.User.PasswordHash, tt.password))
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})

	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)

	_, err = svc.Register("42", "Wasif", "", "Abc12345")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSelectPlan(t *testing.T) {
	today := dates.Date{Day: 1, Month: 1, Year: 2025}
	svc, _ := newTestService(t, today)
	_, err := svc.Register("42", "Wasif", "0300-1234567", "Abc12345")
	require.NoError(t, err)

	claim, err := svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(claim.TransactionID, "TXN-"))
	assert.Equal(t, "Standard Plan", claim.Plan.Name)
	assert.Equal(t, 500, claim.Plan.Price)

	view, err := svc.View("42")
	require.NoError(t, err)
	assert.Equal(t, "Standard Plan", view.User.PlanName)
	assert.Equal(t, 1, view.User.DeviceLimit)
	assert.False(t, view.User.PaymentVerified)
	assert.Equal(t, today, view.User.PaymentDate)
	assert.True(t, view.User.ExpiryDate.IsZero())
	assert.Equal(t, models.StatePendingPayment, view.State)
}

func TestSelectPlan_NotFound(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)

	_, err = svc.SelectPlan("missing", "plan_500")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.SelectPlan("42", "missing_plan")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestVerifyPayment_ExpiryAnchoredToSelectionDay(t *testing.T) {
	// тариф на 30 дней выбран 01-01-2025, админ подтверждает 02-01-2025:
	// дата окончания 31-01-2025 независимо от момента подтверждения
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)

	svc.today = func() dates.Date { return dates.Date{Day: 2, Month: 1, Year: 2025} }

	view, err := svc.VerifyPayment("42")
	require.NoError(t, err)

	assert.True(t, view.User.PaymentVerified)
	assert.Equal(t, dates.Date{Day: 31, Month: 1, Year: 2025}, view.User.ExpiryDate)
	assert.Equal(t, dates.Date{Day: 2, Month: 1, Year: 2025}, view.User.VerifiedDate)
	assert.Equal(t, models.StateActive, view.State)
	assert.False(t, view.Expired)
	// инвариант: дата окончания не раньше даты подтверждения
	assert.False(t, view.User.ExpiryDate.Before(view.User.VerifiedDate))
}

func TestVerifyPayment_LateVerificationCountsFromToday(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)

	// подтверждение через 40 дней после заявки
	svc.today = func() dates.Date { return dates.Date{Day: 10, Month: 2, Year: 2025} }

	view, err := svc.VerifyPayment("42")
	require.NoError(t, err)

	assert.Equal(t, dates.Date{Day: 12, Month: 3, Year: 2025}, view.User.ExpiryDate)
	assert.False(t, view.User.ExpiryDate.Before(view.User.VerifiedDate))
}

func TestVerifyPayment_InvalidState(t *testing.T) {
	svc, store := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)

	// без выбранного тарифа
	_, err = svc.VerifyPayment("42")
	assert.ErrorIs(t, err, ErrInvalidState)

	// тариф выбран, но затем удалён из списка
	_, err = svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)
	require.True(t, store.DeletePlan("plan_500"))

	_, err = svc.VerifyPayment("42")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestVerifyPayment_UserNotFound(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})

	_, err := svc.VerifyPayment("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRejectPayment_ClearsFieldsRegardlessOfState(t *testing.T) {
	today := dates.Date{Day: 1, Month: 1, Year: 2025}

	tests := []struct {
		name  string
		setup func(t *testing.T, svc *SubscriptionService)
	}{
		{
			name: "pending payment",
			setup: func(t *testing.T, svc *SubscriptionService) {
				_, err := svc.SelectPlan("42", "plan_500")
				require.NoError(t, err)
			},
		},
		{
			name: "already verified",
			setup: func(t *testing.T, svc *SubscriptionService) {
				_, err := svc.SelectPlan("42", "plan_500")
				require.NoError(t, err)
				_, err = svc.VerifyPayment("42")
				require.NoError(t, err)
			},
		},
		{
			name:  "no plan at all",
			setup: func(_ *testing.T, _ *SubscriptionService) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, today)
			_, err := svc.Register("42", "Wasif", "", "Abc12345")
			require.NoError(t, err)
			tt.setup(t, svc)

			result, err := svc.RejectPayment("42", "screenshot unreadable")
			require.NoError(t, err)
			assert.Equal(t, "screenshot unreadable", result.Reason)

			view, err := svc.View("42")
			require.NoError(t, err)
			assert.Empty(t, view.User.PlanName)
			assert.False(t, view.User.PaymentVerified)
			assert.True(t, view.User.ExpiryDate.IsZero())
			assert.Zero(t, view.User.DeviceLimit)
			assert.Equal(t, models.StateNoPlan, view.State)
		})
	}
}

func TestRejectPayment_CapturesPlanNameBeforeClearing(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)

	result, err := svc.RejectPayment("42", "wrong amount")
	require.NoError(t, err)

	// уведомление называет тариф, который был до очистки
	assert.Equal(t, "Standard Plan", result.PriorPlanName)
	assert.Equal(t, "Wasif", result.UserName)
}

func TestRejectionFlow_TwoStep(t *testing.T) {
	svc, store := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)

	require.NoError(t, svc.StartRejection("42"))

	target, ok := svc.PendingRejectionTarget()
	require.True(t, ok)
	assert.Equal(t, "42", target)

	_, err = svc.RejectPayment("42", "fake receipt")
	require.NoError(t, err)

	// черновик снят после применения причины
	_, ok = svc.PendingRejectionTarget()
	assert.False(t, ok)
	_, ok = store.PendingRejection("42")
	assert.False(t, ok)
}

func TestStartRejection_UserNotFound(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})

	assert.ErrorIs(t, svc.StartRejection("missing"), ErrUserNotFound)
}

func TestIsExpired(t *testing.T) {
	today := dates.Date{Day: 15, Month: 6, Year: 2025}
	svc, _ := newTestService(t, today)

	tests := []struct {
		name   string
		expiry dates.Date
		want   bool
	}{
		{name: "never subscribed", expiry: dates.Date{}, want: true},
		{name: "expired yesterday", expiry: dates.Date{Day: 14, Month: 6, Year: 2025}, want: true},
		{name: "expires today", expiry: today, want: false},
		{name: "expires tomorrow", expiry: dates.Date{Day: 16, Month: 6, Year: 2025}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsExpired(models.User{ExpiryDate: tt.expiry}))
		})
	}
}

func TestListPlans(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})

	active := svc.ListPlans(true)
	require.Len(t, active, 2)
	for _, p := range active {
		assert.True(t, p.Active)
	}

	all := svc.ListPlans(false)
	assert.Len(t, all, 3)
}

func TestPlanCRUD(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})

	err := svc.AddPlan(models.DummyPlan{
		ID: "plan_2000", Name: "Ultra Plan", Price: 2000, DurationDays: 180,
		Features: "5 WhatsApp link devices", DeviceLimit: 5, Active: true,
	})
	require.NoError(t, err)

	plan, err := svc.GetPlan("plan_2000")
	require.NoError(t, err)
	assert.Equal(t, "Ultra Plan", plan.Name)

	// дубликат идентификатора
	err = svc.AddPlan(models.DummyPlan{
		ID: "plan_2000", Name: "Copy", Price: 10, DurationDays: 1, DeviceLimit: 1, Active: true,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// невалидные поля
	err = svc.AddPlan(models.DummyPlan{
		ID: "plan_bad", Name: "Bad", Price: -1, DurationDays: 1, DeviceLimit: 1, Active: true,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// частичное обновление сохраняет незаданные поля
	newPrice := 2500
	require.NoError(t, svc.UpdatePlan("plan_2000", models.PlanPatch{Price: &newPrice}))
	plan, err = svc.GetPlan("plan_2000")
	require.NoError(t, err)
	assert.Equal(t, 2500, plan.Price)
	assert.Equal(t, "Ultra Plan", plan.Name)

	badPrice := 0
	assert.ErrorIs(t, svc.UpdatePlan("plan_2000", models.PlanPatch{Price: &badPrice}), ErrValidationFailed)
	assert.ErrorIs(t, svc.UpdatePlan("missing", models.PlanPatch{}), ErrPlanNotFound)

	require.NoError(t, svc.RemovePlan("plan_2000"))
	assert.ErrorIs(t, svc.RemovePlan("plan_2000"), ErrPlanNotFound)
}

func TestPlanDeletionDoesNotTouchSubscribers(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("42", "plan_500")
	require.NoError(t, err)
	_, err = svc.VerifyPayment("42")
	require.NoError(t, err)

	require.NoError(t, svc.RemovePlan("plan_500"))

	view, err := svc.View("42")
	require.NoError(t, err)
	// условия подписки — копия на момент выбора
	assert.Equal(t, "Standard Plan", view.User.PlanName)
	assert.Equal(t, 1, view.User.DeviceLimit)
	assert.True(t, view.User.PaymentVerified)
}

func TestProfileUpdates(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateName("42", "Muhammad Wasif"))
	require.NoError(t, svc.UpdateWhatsApp("42", "+92-300-1234567"))
	require.NoError(t, svc.UpdatePassword("42", "NewPass123"))

	view, err := svc.View("42")
	require.NoError(t, err)
	assert.Equal(t, "Muhammad Wasif", view.User.Name)
	assert.Equal(t, "+92-300-1234567", view.User.WhatsAppNumber)
	assert.NoError(t, password.Verify(view.User.PasswordHash, "NewPass123"))

	assert.ErrorIs(t, svc.UpdateWhatsApp("42", "123"), ErrValidationFailed)
	assert.ErrorIs(t, svc.UpdatePassword("42", "short"), ErrValidationFailed)
	assert.ErrorIs(t, svc.UpdateName("missing", "X"), ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})
	_, err := svc.Register("42", "Wasif", "", "Abc12345")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser("42"))

	_, err = svc.View("42")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser("42"), ErrUserNotFound)
}

func TestStatsAndPendingPayments(t *testing.T) {
	svc, _ := newTestService(t, dates.Date{Day: 1, Month: 1, Year: 2025})

	_, err := svc.Register("1", "Active User", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("1", "plan_500")
	require.NoError(t, err)
	_, err = svc.VerifyPayment("1")
	require.NoError(t, err)

	_, err = svc.Register("2", "Pending User", "", "Abc12345")
	require.NoError(t, err)
	_, err = svc.SelectPlan("2", "plan_350")
	require.NoError(t, err)

	_, err = svc.Register("3", "Idle User", "", "Abc12345")
	require.NoError(t, err)

	stats := svc.Stats()
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveSubs)
	assert.Equal(t, 1, stats.PendingPayments)
	assert.Equal(t, 500, stats.Revenue)
	assert.Equal(t, 3, stats.PlanCount)

	pending := svc.PendingPayments()
	require.Len(t, pending, 1)
	assert.Equal(t, "2", pending[0].ID)
	assert.Equal(t, models.StatePendingPayment, pending[0].State)
}
