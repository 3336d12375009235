package stores

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// Bets mirrors the /bets/ resource. The collection is time-ordered, so
// creates prepend. Statistics are refreshed after every mutation.
type Bets struct {
	base
	items []model.Bet
	stats model.BetStatistics
}

// NewBets creates an empty bets store.
func NewBets(client *api.Client, logger *slog.Logger) *Bets {
	return &Bets{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection, honoring filter parameters
// (bet_type, result, account).
func (s *Bets) Fetch(ctx context.Context, params url.Values) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Bet]
	if err := s.client.Get(ctx, "/bets/", params, &page); err != nil {
		return s.fail(err, "Error al cargar apuestas")
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// Create posts a new bet, prepends the canonical server object and
// refreshes statistics.
func (s *Bets) Create(ctx context.Context, bet model.Bet) (model.Bet, error) {
	s.begin()
	defer s.end()

	var created model.Bet
	if err := s.client.Post(ctx, "/bets/", bet, &created); err != nil {
		return model.Bet{}, s.fail(err, "Error al crear apuesta")
	}
	s.mu.Lock()
	s.items = append([]model.Bet{created}, s.items...)
	s.mu.Unlock()

	s.FetchStatistics(ctx)
	return created, nil
}

// Update patches fields, replaces the local entry and refreshes
// statistics.
func (s *Bets) Update(ctx context.Context, id int, fields map[string]any) (model.Bet, error) {
	s.begin()
	defer s.end()

	var updated model.Bet
	if err := s.client.Patch(ctx, fmt.Sprintf("/bets/%d/", id), fields, &updated); err != nil {
		return model.Bet{}, s.fail(err, "Error al actualizar apuesta")
	}
	s.mu.Lock()
	for i, b := range s.items {
		if b.ID == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.FetchStatistics(ctx)
	return updated, nil
}

// Delete removes the bet after server confirmation and refreshes
// statistics.
func (s *Bets) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/bets/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar apuesta")
	}
	s.mu.Lock()
	for i, b := range s.items {
		if b.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.FetchStatistics(ctx)
	return nil
}

// FetchStatistics reloads the server-computed betting summary. Errors are
// logged and swallowed; the cached statistics fall back to zero values.
func (s *Bets) FetchStatistics(ctx context.Context) model.BetStatistics {
	var stats model.BetStatistics
	if err := s.client.Get(ctx, "/bets/statistics/", nil, &stats); err != nil {
		s.logger.Warn("fetch bet statistics", "error", err)
		stats = model.BetStatistics{}
	}
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	return stats
}

// Statistics returns the cached betting summary.
func (s *Bets) Statistics() model.BetStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// GetByID looks up a cached bet without touching the network.
func (s *Bets) GetByID(id int) (model.Bet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.ID == id {
			return b, true
		}
	}
	return model.Bet{}, false
}

// All returns a copy of the cached collection.
func (s *Bets) All() []model.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Bet(nil), s.items...)
}

// Pending returns bets whose result is not settled yet.
func (s *Bets) Pending() []model.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Bet
	for _, b := range s.items {
		if b.Result == model.BetPending {
			out = append(out, b)
		}
	}
	return out
}
