package stores_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
	"github.com/jpmoralesv/finanzas-cli/pkg/stores"
)

func betsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `[
				{"id":1,"bet_type":"simple","event_name":"Final","bet_amount":"10000","result":"pendiente","date":"2025-06-10"},
				{"id":2,"bet_type":"simple","event_name":"Semifinal","bet_amount":"5000","result":"ganó","payout_amount":"9000","date":"2025-06-01"}
			]`)
			return
		}
		io.WriteString(w, `{"id":3,"bet_type":"simple","event_name":"Nueva","bet_amount":"2000","result":"pendiente","date":"2025-06-12"}`)
	})
	mux.HandleFunc("/bets/statistics/", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"total_bet":"15000","total_won":"9000","total_lost":"0","net_result":"-6000","roi":-40,"total_bets":2,"won_count":1,"lost_count":0,"pending_count":1,"win_rate":50}`)
	})
	return mux
}

func TestBets_FetchAndViews(t *testing.T) {
	s := stores.NewBets(newTestAPI(t, betsMux()), testLogger())
	require.NoError(t, s.Fetch(context.Background(), nil))

	assert.Len(t, s.All(), 2)
	pending := s.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "Final", pending[0].EventName)
}

func TestBets_Create_PrependsAndRefreshesStats(t *testing.T) {
	s := stores.NewBets(newTestAPI(t, betsMux()), testLogger())
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx, nil))

	created, err := s.Create(ctx, model.Bet{
		BetType:   "simple",
		EventName: "Nueva",
		BetAmount: decimal.NewFromInt(2000),
		Result:    model.BetPending,
		Date:      model.NewDate(2025, 6, 12),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].ID)

	stats := s.Statistics()
	assert.Equal(t, 2, stats.TotalBets)
	assert.InDelta(t, -40.0, stats.ROI, 0.001)
}

func TestBets_Statistics_SwallowsErrors(t *testing.T) {
	s := stores.NewBets(newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})), testLogger())

	stats := s.FetchStatistics(context.Background())
	assert.Equal(t, model.BetStatistics{}, stats)
}
