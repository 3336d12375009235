package stores

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// Budgets mirrors the /budgets/ resource.
type Budgets struct {
	base
	items []model.Budget
}

// NewBudgets creates an empty budgets store.
func NewBudgets(client *api.Client, logger *slog.Logger) *Budgets {
	return &Budgets{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection with the server state.
func (s *Budgets) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Budget]
	if err := s.client.Get(ctx, "/budgets/", nil, &page); err != nil {
		return s.fail(err, "Error al cargar presupuestos")
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// Budgets fetches and returns the full collection. This is the source
// consumed by the notification engine.
func (s *Budgets) Budgets(ctx context.Context) ([]model.Budget, error) {
	if err := s.Fetch(ctx); err != nil {
		return nil, err
	}
	return s.All(), nil
}

// Create posts a new budget and appends the canonical server object.
func (s *Budgets) Create(ctx context.Context, budget model.Budget) (model.Budget, error) {
	s.begin()
	defer s.end()

	var created model.Budget
	if err := s.client.Post(ctx, "/budgets/", budget, &created); err != nil {
		return model.Budget{}, s.fail(err, "Error al crear presupuesto")
	}
	s.mu.Lock()
	s.items = append(s.items, created)
	s.mu.Unlock()
	return created, nil
}

// Update patches fields and replaces the local entry by id.
func (s *Budgets) Update(ctx context.Context, id int, fields map[string]any) (model.Budget, error) {
	s.begin()
	defer s.end()

	var updated model.Budget
	if err := s.client.Patch(ctx, fmt.Sprintf("/budgets/%d/", id), fields, &updated); err != nil {
		return model.Budget{}, s.fail(err, "Error al actualizar presupuesto")
	}
	s.mu.Lock()
	for i, b := range s.items {
		if b.ID == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the budget after server confirmation.
func (s *Budgets) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/budgets/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar presupuesto")
	}
	s.mu.Lock()
	for i, b := range s.items {
		if b.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// GetByID looks up a cached budget without touching the network.
func (s *Budgets) GetByID(id int) (model.Budget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.items {
		if b.ID == id {
			return b, true
		}
	}
	return model.Budget{}, false
}

// All returns a copy of the cached collection.
func (s *Budgets) All() []model.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Budget(nil), s.items...)
}

// Active returns active budgets.
func (s *Budgets) Active() []model.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Budget
	for _, b := range s.items {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out
}

// InAlert returns active budgets the server flagged as warning or
// exceeded.
func (s *Budgets) InAlert() []model.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Budget
	for _, b := range s.items {
		if b.IsActive && (b.IsWarning || b.IsExceeded) {
			out = append(out, b)
		}
	}
	return out
}

// Alerts fetches the server-side alert list. Read helper: errors are
// logged and swallowed, returning an empty slice.
func (s *Budgets) Alerts(ctx context.Context) []model.Budget {
	var out []model.Budget
	if err := s.client.Get(ctx, "/budgets/alerts/", nil, &out); err != nil {
		s.logger.Warn("fetch budget alerts", "error", err)
		return nil
	}
	return out
}
