package storage

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/dates"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testPlans() []models.Plan {
	return []models.Plan{
		{ID: "plan_350", Name: "Basic Plan", Price: 350, DurationDays: 15, DeviceLimit: 1, Active: true},
		{ID: "plan_500", Name: "Standard Plan", Price: 500, DurationDays: 30, DeviceLimit: 1, Active: true},
		{ID: "plan_old", Name: "Legacy Plan", Price: 200, DurationDays: 30, DeviceLimit: 1, Active: false},
	}
}

func TestOpen_FirstRunInitializesAndPersists(t *testing.T) {
	src := NewMemorySource(nil)

	store := Open(src, testPlans(), newNoopLogger())

	assert.Len(t, store.Plans(), 3)
	assert.Empty(t, store.Users())
	require.NotNil(t, src.Snapshot(), "first run should persist immediately")
	assert.Len(t, src.Snapshot().Plans, 3)
}

func TestOpen_LoadErrorFallsBackToDefaults(t *testing.T) {
	src := NewMemorySource(nil)
	src.FailLoad(errors.New("corrupted file"))

	store := Open(src, testPlans(), newNoopLogger())

	assert.Len(t, store.Plans(), 3)
	assert.Empty(t, store.Users())
}

func TestOpen_ExistingSnapshotKept(t *testing.T) {
	snap := models.NewSnapshot(testPlans())
	snap.Users["42"] = models.User{Name: "Wasif"}
	src := NewMemorySource(snap)

	store := Open(src, nil, newNoopLogger())

	u, ok := store.User("42")
	require.True(t, ok)
	assert.Equal(t, "Wasif", u.Name)
}

func TestOpen_EmptyPlanListReplacedWithDefaults(t *testing.T) {
	snap := &models.Snapshot{Users: map[string]models.User{"42": {Name: "Wasif"}}}
	src := NewMemorySource(snap)

	store := Open(src, testPlans(), newNoopLogger())

	assert.Len(t, store.Plans(), 3)
	_, ok := store.User("42")
	assert.True(t, ok)
}

func TestStore_EveryMutationPersists(t *testing.T) {
	src := NewMemorySource(models.NewSnapshot(testPlans()))
	store := Open(src, nil, newNoopLogger())
	base := src.Saves()

	store.SaveUser("42", models.User{Name: "Wasif"})
	store.AddPlan(models.Plan{ID: "plan_x", Name: "X", Price: 100, DurationDays: 7, DeviceLimit: 1, Active: true})
	active := true
	store.UpdatePlan("plan_x", models.PlanPatch{Active: &active})
	store.DeletePlan("plan_x")
	store.DeleteUser("42")

	assert.Equal(t, base+5, src.Saves())
}

func TestStore_SaveErrorKeepsMemoryAuthoritative(t *testing.T) {
	src := NewMemorySource(models.NewSnapshot(testPlans()))
	store := Open(src, nil, newNoopLogger())
	src.FailSave(errors.New("disk full"))

	store.SaveUser("42", models.User{Name: "Wasif"})

	u, ok := store.User("42")
	require.True(t, ok)
	assert.Equal(t, "Wasif", u.Name)
}

func TestStore_ActivePlansExcludesInactive(t *testing.T) {
	store := Open(NewMemorySource(models.NewSnapshot(testPlans())), nil, newNoopLogger())

	active := store.ActivePlans()

	require.Len(t, active, 2)
	for _, p := range active {
		assert.True(t, p.Active)
	}
	assert.Equal(t, "plan_350", active[0].ID)
	assert.Equal(t, "plan_500", active[1].ID)
}

func TestStore_InactivePlanStillResolvable(t *testing.T) {
	store := Open(NewMemorySource(models.NewSnapshot(testPlans())), nil, newNoopLogger())

	p, ok := store.Plan("plan_old")
	require.True(t, ok)
	assert.False(t, p.Active)

	byName, ok := store.PlanByName("Legacy Plan")
	require.True(t, ok)
	assert.Equal(t, "plan_old", byName.ID)
}

func TestStore_UpdatePlanMergeSemantics(t *testing.T) {
	store := Open(NewMemorySource(models.NewSnapshot(testPlans())), nil, newNoopLogger())

	price := 600
	ok := store.UpdatePlan("plan_500", models.PlanPatch{Price: &price})
	require.True(t, ok)

	p, found := store.Plan("plan_500")
	require.True(t, found)
	assert.Equal(t, 600, p.Price)
	// незаданные поля сохраняются
	assert.Equal(t, "Standard Plan", p.Name)
	assert.Equal(t, 30, p.DurationDays)
	assert.True(t, p.Active)
}

func TestStore_UpdateDeleteMissingPlan(t *testing.T) {
	store := Open(NewMemorySource(models.NewSnapshot(testPlans())), nil, newNoopLogger())

	assert.False(t, store.UpdatePlan("missing", models.PlanPatch{}))
	assert.False(t, store.DeletePlan("missing"))
}

func TestStore_PendingRejectionsNotPersisted(t *testing.T) {
	src := NewMemorySource(models.NewSnapshot(testPlans()))
	store := Open(src, nil, newNoopLogger())

	store.SetPendingRejection("42", RejectionPending)

	reason, ok := store.PendingRejection("42")
	require.True(t, ok)
	assert.Equal(t, RejectionPending, reason)

	// черновики не попадают в снимок и не переживают рестарт
	store.SaveUser("42", models.User{Name: "Wasif"})
	reopened := Open(NewMemorySource(src.Snapshot()), nil, newNoopLogger())
	_, ok = reopened.PendingRejection("42")
	assert.False(t, ok)

	store.DeletePendingRejection("42")
	_, ok = store.PendingRejection("42")
	assert.False(t, ok)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	src := NewMemorySource(nil)
	store := Open(src, testPlans(), newNoopLogger())

	store.SaveUser("42", models.User{
		Name:            "Wasif",
		WhatsAppNumber:  "0300-1234567",
		PlanName:        "Standard Plan",
		DeviceLimit:     1,
		PaymentVerified: true,
		RegisterDate:    dates.Date{Day: 1, Month: 1, Year: 2025},
		PaymentDate:     dates.Date{Day: 1, Month: 1, Year: 2025},
		VerifiedDate:    dates.Date{Day: 2, Month: 1, Year: 2025},
		ExpiryDate:      dates.Date{Day: 31, Month: 1, Year: 2025},
	})
	store.SaveUser("43", models.User{Name: "Ali", RegisterDate: dates.Date{Day: 5, Month: 2, Year: 2025}})

	reopened := Open(NewMemorySource(src.Snapshot()), nil, newNoopLogger())

	assert.Equal(t, store.Users(), reopened.Users())
	assert.Equal(t, store.Plans(), reopened.Plans())
}
