package stores_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
	"github.com/jpmoralesv/finanzas-cli/pkg/stores"
)

func TestDebts_Views(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debts/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[
			{"id":1,"name":"Tarjeta","debt_type":"deuda","total_amount":"100000","start_date":"2025-01-01","due_date":"2025-06-10","is_paid":false},
			{"id":2,"name":"Préstamo a Juan","debt_type":"prestamo","total_amount":"50000","start_date":"2025-01-01","due_date":"2025-06-20","is_paid":false},
			{"id":3,"name":"Auto","debt_type":"deuda","total_amount":"2000000","start_date":"2024-01-01","due_date":"2025-01-01","is_paid":true},
			{"id":4,"name":"Sin fecha","debt_type":"deuda","total_amount":"9000","start_date":"2025-01-01","is_paid":false}
		]`)
	})

	s := stores.NewDebts(newTestAPI(t, mux), testLogger())
	require.NoError(t, s.Fetch(context.Background()))

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Len(t, s.All(), 4)
	assert.Len(t, s.Active(), 3)

	overdue := s.Overdue(now)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Tarjeta", overdue[0].Name)

	upcoming := s.Upcoming(now, 7)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Préstamo a Juan", upcoming[0].Name)
}

func TestDebts_DebtsSource_RefetchesEachCall(t *testing.T) {
	var gets int
	mux := http.NewServeMux()
	mux.HandleFunc("/debts/", func(w http.ResponseWriter, _ *http.Request) {
		gets++
		io.WriteString(w, `[{"id":1,"name":"Tarjeta","debt_type":"deuda","total_amount":"100","start_date":"2025-01-01","is_paid":false}]`)
	})

	s := stores.NewDebts(newTestAPI(t, mux), testLogger())
	ctx := context.Background()

	debts, err := s.Debts(ctx)
	require.NoError(t, err)
	assert.Len(t, debts, 1)

	_, err = s.Debts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gets)
}

func TestDebts_AddPayment_ReplacesWithServerDebt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debts/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"id":1,"name":"Tarjeta","debt_type":"deuda","total_amount":"100000","paid_amount":"0","remaining_amount":"100000","start_date":"2025-01-01","is_paid":false}]`)
	})
	mux.HandleFunc("/debts/1/add_payment/", func(w http.ResponseWriter, r *http.Request) {
		var payment model.DebtPayment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payment))
		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(40000)))

		io.WriteString(w, `{"id":1,"name":"Tarjeta","debt_type":"deuda","total_amount":"100000","paid_amount":"40000","remaining_amount":"60000","progress_percentage":40,"start_date":"2025-01-01","is_paid":false}`)
	})

	s := stores.NewDebts(newTestAPI(t, mux), testLogger())
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx))

	updated, err := s.AddPayment(ctx, 1, model.DebtPayment{
		Amount:      decimal.NewFromInt(40000),
		PaymentDate: model.NewDate(2025, 6, 15),
	})
	require.NoError(t, err)
	assert.True(t, updated.RemainingAmount.Equal(decimal.NewFromInt(60000)))

	// The server-recomputed debt replaced the cached one.
	got, ok := s.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, 40.0, got.ProgressPercentage)
}

func TestDebts_Summary_SwallowsErrors(t *testing.T) {
	s := stores.NewDebts(newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})), testLogger())

	assert.Equal(t, model.DebtSummary{}, s.Summary(context.Background()))
	assert.Nil(t, s.Payments(context.Background(), 1))
}
