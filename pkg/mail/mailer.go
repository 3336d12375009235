// Package mail dispatches templated transactional email through an
// EmailJS-compatible REST endpoint. Public send functions never return an
// error: failures are folded into the Result so callers can log and move
// on. A per-notification throttle stops the same email from going out
// twice inside a rolling window.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// DefaultThrottle is the minimum interval between resends of the same
// notification.
const DefaultThrottle = 24 * time.Hour

// ReasonAlreadySent marks a send short-circuited by the throttle.
const ReasonAlreadySent = "already_sent"

// Result is the uniform outcome of a send attempt.
type Result struct {
	Success bool
	Reason  string
	Err     error
}

// Config identifies the transactional email service and templates.
type Config struct {
	Endpoint         string
	ServiceID        string
	UserID           string
	DebtTemplateID   string
	BudgetTemplateID string
}

// Client sends debt reminders and budget alerts.
type Client struct {
	cfg      Config
	http     *http.Client
	store    storage.Store
	logger   *slog.Logger
	throttle time.Duration
	now      func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithThrottle overrides the resend window.
func WithThrottle(d time.Duration) Option {
	return func(c *Client) { c.throttle = d }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a mail client. Throttle stamps are persisted through the
// given store.
func New(cfg Config, store storage.Store, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		store:    store,
		logger:   logger,
		throttle: DefaultThrottle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendDebtReminder emails an upcoming/overdue debt notice. Throttled per
// debt.
func (c *Client) SendDebtReminder(ctx context.Context, email, name string, debt model.Debt, daysRemaining int) Result {
	emailID := fmt.Sprintf("debt_%d", debt.ID)
	if !c.canSend(ctx, "debt", emailID) {
		c.logger.Debug("debt reminder throttled", "debt", debt.ID)
		return Result{Success: false, Reason: ReasonAlreadySent}
	}

	debtType := "te deben"
	if debt.DebtType == model.DebtOwed {
		debtType = "debes"
	}
	counterparty := debt.CreditorDebtor
	if counterparty == "" {
		counterparty = "No especificado"
	}

	params := map[string]any{
		"to_email":        email,
		"to_name":         orDefault(name, "Usuario"),
		"debt_name":       debt.Name,
		"amount":          FormatCurrency(debt.RemainingAmount),
		"due_date":        FormatDate(debt.DueDate),
		"days_remaining":  daysRemaining,
		"debt_type":       debtType,
		"creditor_debtor": counterparty,
	}

	if err := c.send(ctx, c.cfg.DebtTemplateID, params); err != nil {
		c.logger.Error("send debt reminder", "debt", debt.ID, "error", err)
		return Result{Success: false, Err: err}
	}
	c.markSent(ctx, "debt", emailID)
	return Result{Success: true}
}

// SendBudgetAlert emails a budget warning or exceeded notice. Throttled
// per budget and alert type.
func (c *Client) SendBudgetAlert(ctx context.Context, email, name string, budget model.Budget, alertType string) Result {
	emailID := fmt.Sprintf("budget_%d_%s", budget.ID, alertType)
	if !c.canSend(ctx, "budget", emailID) {
		c.logger.Debug("budget alert throttled", "budget", budget.ID, "type", alertType)
		return Result{Success: false, Reason: ReasonAlreadySent}
	}

	pct := fmt.Sprintf("%.0f", budget.SpentPercentage())
	message := fmt.Sprintf("Tu presupuesto está al %s%%", pct)
	if alertType == "exceeded" {
		message = "¡Has excedido tu presupuesto!"
	}

	params := map[string]any{
		"to_email":      email,
		"to_name":       orDefault(name, "Usuario"),
		"category":      orDefault(budget.CategoryName, "General"),
		"budget_amount": FormatCurrency(budget.AmountLimit),
		"spent":         FormatCurrency(budget.Spent),
		"remaining":     FormatCurrency(budget.AmountLimit.Sub(budget.Spent)),
		"percentage":    pct,
		"alert_type":    alertType,
		"alert_message": message,
	}

	if err := c.send(ctx, c.cfg.BudgetTemplateID, params); err != nil {
		c.logger.Error("send budget alert", "budget", budget.ID, "error", err)
		return Result{Success: false, Err: err}
	}
	c.markSent(ctx, "budget", emailID)
	return Result{Success: true}
}

func (c *Client) send(ctx context.Context, templateID string, params map[string]any) error {
	payload := map[string]any{
		"service_id":      c.cfg.ServiceID,
		"template_id":     templateID,
		"user_id":         c.cfg.UserID,
		"template_params": params,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}
	return nil
}

func lastSentKey(kind, id string) string {
	return "email_last_sent_" + kind + "_" + id
}

// canSend checks the rolling throttle window for a notification key.
func (c *Client) canSend(ctx context.Context, kind, id string) bool {
	raw, ok, err := c.store.Get(ctx, lastSentKey(kind, id))
	if err != nil {
		c.logger.Error("read throttle stamp", "key", lastSentKey(kind, id), "error", err)
		return true
	}
	if !ok {
		return true
	}

	lastMs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	elapsed := c.now().Sub(time.UnixMilli(lastMs))
	return elapsed >= c.throttle
}

func (c *Client) markSent(ctx context.Context, kind, id string) {
	stamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.store.Set(ctx, lastSentKey(kind, id), stamp); err != nil {
		c.logger.Error("write throttle stamp", "key", lastSentKey(kind, id), "error", err)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
