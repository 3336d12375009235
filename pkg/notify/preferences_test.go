package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/notify"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

func TestLoadPreferences_Defaults(t *testing.T) {
	store := storage.NewMemory()
	prefs := notify.LoadPreferences(context.Background(), store, testLogger())

	assert.Equal(t, notify.Preferences{
		EmailNotifications: true,
		DebtReminders:      true,
		DebtDaysBefore:     7,
		BudgetAlerts:       true,
	}, prefs)
}

func TestLoadPreferences_PartialOverlay(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	// Stored overrides carry only some fields; the rest keep defaults.
	require.NoError(t, store.Set(ctx, storage.KeyPreferences, `{"debtDaysBefore":3,"budgetAlerts":false}`))

	prefs := notify.LoadPreferences(ctx, store, testLogger())
	assert.Equal(t, 3, prefs.DebtDaysBefore)
	assert.False(t, prefs.BudgetAlerts)
	assert.True(t, prefs.EmailNotifications)
	assert.True(t, prefs.DebtReminders)
}

func TestLoadPreferences_Corrupt(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyPreferences, "{broken"))

	prefs := notify.LoadPreferences(ctx, store, testLogger())
	assert.Equal(t, notify.DefaultPreferences(), prefs)
}

func TestSavePreferences_RoundTrip(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	want := notify.Preferences{
		EmailNotifications: false,
		DebtReminders:      true,
		DebtDaysBefore:     14,
		BudgetAlerts:       false,
	}
	require.NoError(t, notify.SavePreferences(ctx, store, want))

	assert.Equal(t, want, notify.LoadPreferences(ctx, store, testLogger()))
}
