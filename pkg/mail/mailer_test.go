package mail_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDebt() model.Debt {
	return model.Debt{
		ID:              5,
		Name:            "Tarjeta de crédito",
		DebtType:        model.DebtOwed,
		RemainingAmount: decimal.NewFromInt(1234568),
		DueDate:         model.NewDate(2025, 6, 20),
	}
}

func newTestMailer(t *testing.T, handler http.Handler, opts ...mail.Option) (*mail.Client, *storage.Memory) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewMemory()
	client := mail.New(mail.Config{
		Endpoint:         server.URL,
		ServiceID:        "svc",
		UserID:           "usr",
		DebtTemplateID:   "tpl-debt",
		BudgetTemplateID: "tpl-budget",
	}, store, testLogger(), opts...)
	return client, store
}

func TestSendDebtReminder_Payload(t *testing.T) {
	var payload map[string]any
	client, _ := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))

	res := client.SendDebtReminder(context.Background(), "ana@example.com", "Ana", testDebt(), 5)
	require.True(t, res.Success)

	assert.Equal(t, "svc", payload["service_id"])
	assert.Equal(t, "tpl-debt", payload["template_id"])
	assert.Equal(t, "usr", payload["user_id"])

	params := payload["template_params"].(map[string]any)
	assert.Equal(t, "ana@example.com", params["to_email"])
	assert.Equal(t, "Ana", params["to_name"])
	assert.Equal(t, "Tarjeta de crédito", params["debt_name"])
	assert.Equal(t, "$1.234.568", params["amount"])
	assert.Equal(t, "20/06/2025", params["due_date"])
	assert.Equal(t, float64(5), params["days_remaining"])
	assert.Equal(t, "debes", params["debt_type"])
	assert.Equal(t, "No especificado", params["creditor_debtor"])
}

func TestSendDebtReminder_Fallbacks(t *testing.T) {
	var params map[string]any
	client, _ := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		params = payload["template_params"].(map[string]any)
		w.WriteHeader(http.StatusOK)
	}))

	debt := testDebt()
	debt.DebtType = model.DebtLent
	res := client.SendDebtReminder(context.Background(), "ana@example.com", "", debt, 2)
	require.True(t, res.Success)

	assert.Equal(t, "Usuario", params["to_name"])
	assert.Equal(t, "te deben", params["debt_type"])
}

func TestSendBudgetAlert_Messages(t *testing.T) {
	var params map[string]any
	client, _ := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		params = payload["template_params"].(map[string]any)
		w.WriteHeader(http.StatusOK)
	}))

	pct := 85.0
	budget := model.Budget{
		ID:           3,
		CategoryName: "Comida",
		AmountLimit:  decimal.NewFromInt(100000),
		Spent:        decimal.NewFromInt(85000),
		Percentage:   &pct,
	}

	res := client.SendBudgetAlert(context.Background(), "ana@example.com", "Ana", budget, "low")
	require.True(t, res.Success)
	assert.Equal(t, "Tu presupuesto está al 85%", params["alert_message"])
	assert.Equal(t, "$15.000", params["remaining"])

	exceeded := 120.0
	budget.ID = 4
	budget.Percentage = &exceeded
	res = client.SendBudgetAlert(context.Background(), "ana@example.com", "Ana", budget, "exceeded")
	require.True(t, res.Success)
	assert.Equal(t, "¡Has excedido tu presupuesto!", params["alert_message"])
}

func TestSend_Throttled(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	res := client.SendDebtReminder(ctx, "ana@example.com", "Ana", testDebt(), 5)
	require.True(t, res.Success)

	// Second send inside the window never reaches the transport.
	res = client.SendDebtReminder(ctx, "ana@example.com", "Ana", testDebt(), 5)
	assert.False(t, res.Success)
	assert.Equal(t, mail.ReasonAlreadySent, res.Reason)
	assert.NoError(t, res.Err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSend_ThrottleExpires(t *testing.T) {
	var hits atomic.Int32
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	client, _ := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}), mail.WithClock(func() time.Time { return now }))

	ctx := context.Background()
	require.True(t, client.SendDebtReminder(ctx, "ana@example.com", "Ana", testDebt(), 5).Success)

	now = now.Add(25 * time.Hour)
	require.True(t, client.SendDebtReminder(ctx, "ana@example.com", "Ana", testDebt(), 5).Success)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSend_ThrottleIsPerNotification(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	budget := model.Budget{ID: 3, AmountLimit: decimal.NewFromInt(100)}

	// Different alert types of the same budget throttle independently.
	require.True(t, client.SendBudgetAlert(ctx, "a@x.com", "A", budget, "low").Success)
	require.True(t, client.SendBudgetAlert(ctx, "a@x.com", "A", budget, "exceeded").Success)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSend_ServerError(t *testing.T) {
	client, store := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx := context.Background()
	res := client.SendDebtReminder(ctx, "ana@example.com", "Ana", testDebt(), 5)
	assert.False(t, res.Success)
	assert.Error(t, res.Err)

	// Failed sends leave no throttle stamp.
	_, ok, _ := store.Get(ctx, "email_last_sent_debt_debt_5")
	assert.False(t, ok)
}

func TestSend_ThrottleStampKey(t *testing.T) {
	client, store := newTestMailer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.True(t, client.SendDebtReminder(ctx, "ana@example.com", "Ana", testDebt(), 5).Success)

	_, ok, err := store.Get(ctx, "email_last_sent_debt_debt_5")
	require.NoError(t, err)
	assert.True(t, ok)
}
