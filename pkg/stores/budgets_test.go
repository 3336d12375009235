package stores_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/stores"
)

func TestBudgets_Views(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/budgets/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"count":3,"next":null,"previous":null,"results":[
			{"id":1,"category":1,"category_name":"Comida","amount_limit":"100000","period":"monthly","start_date":"2025-06-01","is_active":true,"spent":"95000","percentage":95,"is_warning":true,"is_exceeded":false},
			{"id":2,"category":2,"category_name":"Transporte","amount_limit":"50000","period":"monthly","start_date":"2025-06-01","is_active":true,"spent":"10000","percentage":20,"is_warning":false,"is_exceeded":false},
			{"id":3,"category":3,"category_name":"Ocio","amount_limit":"30000","period":"monthly","start_date":"2025-06-01","is_active":false,"spent":"40000","percentage":133,"is_warning":false,"is_exceeded":true}
		]}`)
	})

	s := stores.NewBudgets(newTestAPI(t, mux), testLogger())
	require.NoError(t, s.Fetch(context.Background()))

	assert.Len(t, s.All(), 3)
	assert.Len(t, s.Active(), 2)

	// Inactive budgets never alert, even when exceeded.
	inAlert := s.InAlert()
	require.Len(t, inAlert, 1)
	assert.Equal(t, "Comida", inAlert[0].CategoryName)
}

func TestBudgets_BudgetsSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/budgets/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"id":1,"category":1,"amount_limit":"1000","period":"monthly","start_date":"2025-06-01","is_active":true}]`)
	})

	s := stores.NewBudgets(newTestAPI(t, mux), testLogger())
	budgets, err := s.Budgets(context.Background())
	require.NoError(t, err)
	assert.Len(t, budgets, 1)
}

func TestBudgets_Alerts_SwallowsErrors(t *testing.T) {
	s := stores.NewBudgets(newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})), testLogger())

	assert.Nil(t, s.Alerts(context.Background()))
}
