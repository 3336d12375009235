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

func TestGoals_Views(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/goals/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[
			{"id":1,"name":"Vacaciones","goal_type":"savings","target_amount":"500000","target_date":"2025-12-01","is_active":true},
			{"id":2,"name":"Menos delivery","goal_type":"category_reduction","target_amount":"0","target_date":"2025-09-01","is_active":true,"is_completed":true},
			{"id":3,"name":"Vieja","goal_type":"savings","target_amount":"100","target_date":"2024-01-01","is_active":false}
		]`)
	})

	s := stores.NewGoals(newTestAPI(t, mux), testLogger())
	require.NoError(t, s.Fetch(context.Background()))

	assert.Len(t, s.All(), 3)
	assert.Len(t, s.Active(), 2)
	assert.Len(t, s.Completed(), 1)
	assert.Len(t, s.Savings(), 1)
	assert.Len(t, s.CategoryReduction(), 1)
}

func TestGoals_FetchActive_KeepsInactive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/goals/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[
			{"id":1,"name":"Activa","goal_type":"savings","target_amount":"100","target_date":"2025-12-01","is_active":true},
			{"id":2,"name":"Inactiva","goal_type":"savings","target_amount":"100","target_date":"2025-12-01","is_active":false}
		]`)
	})
	mux.HandleFunc("/goals/active/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[
			{"id":1,"name":"Activa renombrada","goal_type":"savings","target_amount":"100","target_date":"2025-12-01","is_active":true}
		]`)
	})

	s := stores.NewGoals(newTestAPI(t, mux), testLogger())
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx))
	require.NoError(t, s.FetchActive(ctx))

	// Inactive goals survive a partial refresh.
	all := s.All()
	require.Len(t, all, 2)
	assert.Len(t, s.Active(), 1)
	assert.Equal(t, "Activa renombrada", s.Active()[0].Name)
}

func TestGoals_ToggleActive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/goals/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"id":1,"name":"Meta","goal_type":"savings","target_amount":"100","target_date":"2025-12-01","is_active":true}]`)
	})
	mux.HandleFunc("/goals/1/toggle_active/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		io.WriteString(w, `{"id":1,"name":"Meta","goal_type":"savings","target_amount":"100","target_date":"2025-12-01","is_active":false}`)
	})

	s := stores.NewGoals(newTestAPI(t, mux), testLogger())
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx))

	updated, err := s.ToggleActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Empty(t, s.Active())
}

func TestGoals_Progress_SwallowsErrors(t *testing.T) {
	s := stores.NewGoals(newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})), testLogger())

	assert.Nil(t, s.Progress(context.Background(), 1))
}
