package notify

import (
	"context"
	"log/slog"

	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

// Preferences are the user's notification toggles. Persisted as JSON;
// stored partial overrides overlay the defaults.
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	DebtReminders      bool `json:"debtReminders"`
	DebtDaysBefore     int  `json:"debtDaysBefore"`
	BudgetAlerts       bool `json:"budgetAlerts"`
}

// DefaultPreferences returns the out-of-the-box toggles.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		DebtReminders:      true,
		DebtDaysBefore:     7,
		BudgetAlerts:       true,
	}
}

// LoadPreferences reads persisted preferences, overlaying them on the
// defaults. Missing or corrupt data yields the defaults.
func LoadPreferences(ctx context.Context, store storage.Store, logger *slog.Logger) Preferences {
	prefs := DefaultPreferences()
	if _, err := storage.GetJSON(ctx, store, storage.KeyPreferences, &prefs); err != nil {
		logger.Warn("load notification preferences", "error", err)
		return DefaultPreferences()
	}
	return prefs
}

// SavePreferences persists the full preference set.
func SavePreferences(ctx context.Context, store storage.Store, prefs Preferences) error {
	return storage.SetJSON(ctx, store, storage.KeyPreferences, prefs)
}
