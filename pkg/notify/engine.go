// Package notify evaluates client-local alerts over the debt and budget
// collections, deduplicated against persisted dismiss/read markers, and
// triggers throttled email for fresh unread alerts.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

// DefaultDismissHours is how long a dismissal suppresses an alert.
const DefaultDismissHours = 24

// DebtSource yields the full debt collection.
type DebtSource interface {
	Debts(ctx context.Context) ([]model.Debt, error)
}

// BudgetSource yields the full budget collection.
type BudgetSource interface {
	Budgets(ctx context.Context) ([]model.Budget, error)
}

// Mailer dispatches alert email. Implementations fold failures into the
// Result instead of returning errors.
type Mailer interface {
	SendDebtReminder(ctx context.Context, email, name string, debt model.Debt, daysRemaining int) mail.Result
	SendBudgetAlert(ctx context.Context, email, name string, budget model.Budget, alertType string) mail.Result
}

// ContactFunc resolves the email recipient for the current user. An empty
// email means nobody to notify.
type ContactFunc func() (email, name string)

// Filter selects which alerts the pending view shows.
type Filter string

const (
	FilterUnread Filter = "unread"
	FilterRead   Filter = "read"
)

// Engine rebuilds the alert list on every Evaluate and keeps the
// persisted dismiss/read markers consistent. The mutex serializes the
// read-modify-write cycles on those markers; views are plain filters over
// the in-memory list.
type Engine struct {
	debts   DebtSource
	budgets BudgetSource
	mailer  Mailer
	store   storage.Store
	contact ContactFunc
	logger  *slog.Logger
	now     func() time.Time

	manualEmail bool

	mu      sync.Mutex
	alerts  []Alert
	prefs   Preferences
	filter  Filter
	loading bool

	sends sync.WaitGroup
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithManualEmail keeps the mailer for explicit SendAllPending calls but
// turns off the dispatch Evaluate triggers for fresh alerts.
func WithManualEmail() Option {
	return func(e *Engine) { e.manualEmail = true }
}

// New creates an engine. Preferences are loaded from the store at
// construction time.
func New(ctx context.Context, debts DebtSource, budgets BudgetSource, mailer Mailer, store storage.Store, contact ContactFunc, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		debts:   debts,
		budgets: budgets,
		mailer:  mailer,
		store:   store,
		contact: contact,
		logger:  logger,
		now:     time.Now,
		filter:  FilterUnread,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.prefs = LoadPreferences(ctx, store, logger)
	return e
}

// Evaluate clears the alert list and rebuilds it from both sources. The
// two checks run concurrently; a failure in one source is logged and does
// not stop the other. Email dispatches happen on detached goroutines and
// never surface errors here.
func (e *Engine) Evaluate(ctx context.Context) {
	e.mu.Lock()
	e.alerts = nil
	e.loading = true
	prefs := e.prefs
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.checkDebtAlerts(gctx, prefs)
		return nil
	})
	g.Go(func() error {
		e.checkBudgetAlerts(gctx, prefs)
		return nil
	})
	_ = g.Wait()
}

// Wait blocks until in-flight email dispatches finish. Tests and shutdown
// paths use it; Evaluate never does.
func (e *Engine) Wait() {
	e.sends.Wait()
}

// Loading reports whether an evaluation cycle is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

func (e *Engine) checkDebtAlerts(ctx context.Context, prefs Preferences) {
	if !prefs.DebtReminders {
		return
	}

	debts, err := e.debts.Debts(ctx)
	if err != nil {
		e.logger.Error("check debt alerts", "error", err)
		return
	}

	now := e.now()
	for _, debt := range debts {
		if debt.IsPaid {
			continue
		}
		days, ok := debt.DaysUntilDue(now)
		if !ok {
			continue
		}

		title := func(owed, lent string) string {
			if debt.DebtType == model.DebtOwed {
				return owed
			}
			return lent
		}

		switch {
		case days >= 0 && days <= prefs.DebtDaysBefore:
			severity := SeverityWarning
			if days <= 3 {
				severity = SeverityDanger
			}
			d := debt
			e.emit(ctx, Alert{
				ID:            debtAlertID(debt.ID),
				Type:          TypeDebt,
				Severity:      severity,
				Title:         title("Deuda próxima a vencer", "Préstamo próximo a vencer"),
				Message:       fmt.Sprintf("\"%s\" vence en %d %s", debt.Name, days, dayWord(days)),
				Debt:          &d,
				DaysRemaining: days,
			}, prefs.EmailNotifications && prefs.DebtReminders)

		case days < 0:
			overdue := -days
			d := debt
			e.emit(ctx, Alert{
				ID:            debtOverdueAlertID(debt.ID),
				Type:          TypeDebt,
				Severity:      SeverityDanger,
				Title:         title("Deuda vencida", "Préstamo vencido"),
				Message:       fmt.Sprintf("\"%s\" venció hace %d %s", debt.Name, overdue, dayWord(overdue)),
				Debt:          &d,
				DaysRemaining: days,
			}, prefs.EmailNotifications && prefs.DebtReminders)
		}
	}
}

func (e *Engine) checkBudgetAlerts(ctx context.Context, prefs Preferences) {
	if !prefs.BudgetAlerts {
		return
	}

	budgets, err := e.budgets.Budgets(ctx)
	if err != nil {
		e.logger.Error("check budget alerts", "error", err)
		return
	}

	for _, budget := range budgets {
		if !budget.IsActive || !budget.AmountLimit.IsPositive() {
			continue
		}

		pct := budget.SpentPercentage()
		category := budget.CategoryName
		if category == "" {
			category = "General"
		}

		// Exceeded wins over low: a budget at exactly 100% never fires both.
		switch {
		case pct >= 100:
			b := budget
			e.emit(ctx, Alert{
				ID:              budgetExceededAlertID(budget.ID),
				Type:            TypeBudget,
				Severity:        SeverityDanger,
				Title:           "Presupuesto excedido",
				Message:         fmt.Sprintf("%s: Gastaste %.1f%% del presupuesto", category, pct),
				Budget:          &b,
				BudgetAlertType: BudgetExceeded,
			}, prefs.EmailNotifications && prefs.BudgetAlerts)

		case pct >= budget.EffectiveThreshold():
			b := budget
			e.emit(ctx, Alert{
				ID:              budgetLowAlertID(budget.ID),
				Type:            TypeBudget,
				Severity:        SeverityWarning,
				Title:           "Presupuesto bajo",
				Message:         fmt.Sprintf("%s: Has usado %.1f%% del presupuesto", category, pct),
				Budget:          &b,
				BudgetAlertType: BudgetLow,
			}, prefs.EmailNotifications && prefs.BudgetAlerts)
		}
	}
}

// emit attaches persisted dismiss/read state, appends the alert and
// kicks off a detached email dispatch for fresh unread alerts.
func (e *Engine) emit(ctx context.Context, alert Alert, emailEnabled bool) {
	alert.Dismissed = e.isDismissed(ctx, alert.ID)
	alert.Read = e.isRead(ctx, alert.ID)

	e.mu.Lock()
	e.alerts = append(e.alerts, alert)
	e.mu.Unlock()

	if e.mailer == nil || e.manualEmail || !emailEnabled || alert.Read || e.contact == nil {
		return
	}
	email, name := e.contact()
	if email == "" {
		return
	}

	e.sends.Add(1)
	go func() {
		defer e.sends.Done()
		// Detached from the evaluation cycle: errors are logged, never
		// propagated.
		res := e.sendAlertEmail(context.Background(), alert, email, name)
		if res.Err != nil {
			e.logger.Error("send alert email", "alert", alert.ID, "error", res.Err)
		}
	}()
}

func (e *Engine) sendAlertEmail(ctx context.Context, alert Alert, email, name string) mail.Result {
	if e.mailer == nil {
		return mail.Result{Success: false, Reason: "email_disabled"}
	}
	switch alert.Type {
	case TypeDebt:
		return e.mailer.SendDebtReminder(ctx, email, name, *alert.Debt, alert.DaysRemaining)
	case TypeBudget:
		return e.mailer.SendBudgetAlert(ctx, email, name, *alert.Budget, alert.BudgetAlertType)
	}
	return mail.Result{Success: false, Reason: "unknown_type"}
}

// SendOutcome pairs an alert with its dispatch result.
type SendOutcome struct {
	Alert  Alert
	Result mail.Result
}

// SendAllPending dispatches email for every alert in the current pending
// view, one at a time. A per-alert failure does not stop the loop.
func (e *Engine) SendAllPending(ctx context.Context, email, name string) []SendOutcome {
	var out []SendOutcome
	for _, alert := range e.Pending() {
		out = append(out, SendOutcome{Alert: alert, Result: e.sendAlertEmail(ctx, alert, email, name)})
	}
	return out
}

// Dismiss suppresses an alert until now + hours (default 24). The alert
// stays in the raw list but drops out of the derived views immediately.
func (e *Engine) Dismiss(ctx context.Context, alertID string, hours int) error {
	if hours <= 0 {
		hours = DefaultDismissHours
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dismissed := map[string]int64{}
	if _, err := storage.GetJSON(ctx, e.store, storage.KeyDismissed, &dismissed); err != nil {
		e.logger.Warn("load dismissed alerts", "error", err)
		dismissed = map[string]int64{}
	}
	dismissed[alertID] = e.now().Add(time.Duration(hours) * time.Hour).UnixMilli()
	if err := storage.SetJSON(ctx, e.store, storage.KeyDismissed, dismissed); err != nil {
		return fmt.Errorf("persist dismissal: %w", err)
	}

	for i := range e.alerts {
		if e.alerts[i].ID == alertID {
			e.alerts[i].Dismissed = true
		}
	}
	return nil
}

// DismissAll dismisses every alert in the current pending view. With the
// filter on "read" this only touches read alerts.
func (e *Engine) DismissAll(ctx context.Context, hours int) error {
	for _, alert := range e.Pending() {
		if err := e.Dismiss(ctx, alert.ID, hours); err != nil {
			return err
		}
	}
	return nil
}

// MarkRead permanently marks an alert as seen. There is no unread
// operation.
func (e *Engine) MarkRead(ctx context.Context, alertID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	read := map[string]bool{}
	if _, err := storage.GetJSON(ctx, e.store, storage.KeyRead, &read); err != nil {
		e.logger.Warn("load read alerts", "error", err)
		read = map[string]bool{}
	}
	read[alertID] = true
	if err := storage.SetJSON(ctx, e.store, storage.KeyRead, read); err != nil {
		return fmt.Errorf("persist read marker: %w", err)
	}

	for i := range e.alerts {
		if e.alerts[i].ID == alertID {
			e.alerts[i].Read = true
		}
	}
	return nil
}

func (e *Engine) isDismissed(ctx context.Context, alertID string) bool {
	dismissed := map[string]int64{}
	if _, err := storage.GetJSON(ctx, e.store, storage.KeyDismissed, &dismissed); err != nil {
		e.logger.Warn("load dismissed alerts", "error", err)
		return false
	}
	expiry, ok := dismissed[alertID]
	return ok && e.now().UnixMilli() < expiry
}

func (e *Engine) isRead(ctx context.Context, alertID string) bool {
	read := map[string]bool{}
	if _, err := storage.GetJSON(ctx, e.store, storage.KeyRead, &read); err != nil {
		e.logger.Warn("load read alerts", "error", err)
		return false
	}
	return read[alertID]
}

// SetFilter switches the pending view between unread and read.
func (e *Engine) SetFilter(f Filter) {
	e.mu.Lock()
	e.filter = f
	e.mu.Unlock()
}

// Filter returns the current pending-view mode.
func (e *Engine) Filter() Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Preferences returns the current toggles.
func (e *Engine) Preferences() Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

// UpdatePreferences persists and swaps in new toggles.
func (e *Engine) UpdatePreferences(ctx context.Context, prefs Preferences) error {
	if err := SavePreferences(ctx, e.store, prefs); err != nil {
		return err
	}
	e.mu.Lock()
	e.prefs = prefs
	e.mu.Unlock()
	return nil
}

// Alerts returns the raw list, dismissed ones included.
func (e *Engine) Alerts() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Alert(nil), e.alerts...)
}

// All returns alerts excluding dismissed ones.
func (e *Engine) All() []Alert {
	return e.filtered(func(a Alert) bool { return !a.Dismissed })
}

// Unread returns non-dismissed alerts not yet read.
func (e *Engine) Unread() []Alert {
	return e.filtered(func(a Alert) bool { return !a.Dismissed && !a.Read })
}

// Read returns non-dismissed alerts already read.
func (e *Engine) Read() []Alert {
	return e.filtered(func(a Alert) bool { return !a.Dismissed && a.Read })
}

// Pending returns the view selected by the current filter.
func (e *Engine) Pending() []Alert {
	if e.Filter() == FilterRead {
		return e.Read()
	}
	return e.Unread()
}

// Count is the badge count: unread alerts, regardless of the filter.
func (e *Engine) Count() int {
	return len(e.Unread())
}

// DebtAlerts returns the debt partition of the pending view.
func (e *Engine) DebtAlerts() []Alert {
	return partition(e.Pending(), TypeDebt)
}

// BudgetAlerts returns the budget partition of the pending view.
func (e *Engine) BudgetAlerts() []Alert {
	return partition(e.Pending(), TypeBudget)
}

func (e *Engine) filtered(keep func(Alert) bool) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Alert
	for _, a := range e.alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func partition(alerts []Alert, t AlertType) []Alert {
	var out []Alert
	for _, a := range alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}
