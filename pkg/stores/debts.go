package stores

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// Debts mirrors the /debts/ resource.
type Debts struct {
	base
	items []model.Debt
}

// NewDebts creates an empty debts store.
func NewDebts(client *api.Client, logger *slog.Logger) *Debts {
	return &Debts{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection with the server state.
func (s *Debts) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Debt]
	if err := s.client.Get(ctx, "/debts/", nil, &page); err != nil {
		return s.fail(err, "Error al cargar deudas")
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// Debts fetches and returns the full collection. This is the source
// consumed by the notification engine.
func (s *Debts) Debts(ctx context.Context) ([]model.Debt, error) {
	if err := s.Fetch(ctx); err != nil {
		return nil, err
	}
	return s.All(), nil
}

// Create posts a new debt and appends the canonical server object.
func (s *Debts) Create(ctx context.Context, debt model.Debt) (model.Debt, error) {
	s.begin()
	defer s.end()

	var created model.Debt
	if err := s.client.Post(ctx, "/debts/", debt, &created); err != nil {
		return model.Debt{}, s.fail(err, "Error al crear deuda")
	}
	s.mu.Lock()
	s.items = append(s.items, created)
	s.mu.Unlock()
	return created, nil
}

// Update patches fields and replaces the local entry by id.
func (s *Debts) Update(ctx context.Context, id int, fields map[string]any) (model.Debt, error) {
	s.begin()
	defer s.end()

	var updated model.Debt
	if err := s.client.Patch(ctx, fmt.Sprintf("/debts/%d/", id), fields, &updated); err != nil {
		return model.Debt{}, s.fail(err, "Error al actualizar deuda")
	}
	s.replace(updated)
	return updated, nil
}

// Delete removes the debt after server confirmation.
func (s *Debts) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/debts/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar deuda")
	}
	s.mu.Lock()
	for i, d := range s.items {
		if d.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// AddPayment registers a partial payment; the server answers with the
// recomputed debt, which replaces the local entry.
func (s *Debts) AddPayment(ctx context.Context, debtID int, payment model.DebtPayment) (model.Debt, error) {
	s.begin()
	defer s.end()

	var updated model.Debt
	if err := s.client.Post(ctx, fmt.Sprintf("/debts/%d/add_payment/", debtID), payment, &updated); err != nil {
		return model.Debt{}, s.fail(err, "Error al registrar pago")
	}
	s.replace(updated)
	return updated, nil
}

// Payments fetches the payment history of a debt. Read helper: errors are
// logged and swallowed, returning an empty slice.
func (s *Debts) Payments(ctx context.Context, debtID int) []model.DebtPayment {
	var out []model.DebtPayment
	if err := s.client.Get(ctx, fmt.Sprintf("/debts/%d/payments/", debtID), nil, &out); err != nil {
		s.logger.Warn("fetch debt payments", "debt", debtID, "error", err)
		return nil
	}
	return out
}

// Summary fetches the owed/lent aggregate over unpaid debts. Errors yield
// a zero summary.
func (s *Debts) Summary(ctx context.Context) model.DebtSummary {
	var out model.DebtSummary
	if err := s.client.Get(ctx, "/debts/summary/", nil, &out); err != nil {
		s.logger.Warn("fetch debt summary", "error", err)
		return model.DebtSummary{}
	}
	return out
}

// GetByID looks up a cached debt without touching the network.
func (s *Debts) GetByID(id int) (model.Debt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.ID == id {
			return d, true
		}
	}
	return model.Debt{}, false
}

// All returns a copy of the cached collection.
func (s *Debts) All() []model.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Debt(nil), s.items...)
}

// Active returns unpaid debts.
func (s *Debts) Active() []model.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Debt
	for _, d := range s.items {
		if !d.IsPaid {
			out = append(out, d)
		}
	}
	return out
}

// Overdue returns unpaid debts whose due date has passed.
func (s *Debts) Overdue(now time.Time) []model.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Debt
	for _, d := range s.items {
		if d.IsPaid {
			continue
		}
		if days, ok := d.DaysUntilDue(now); ok && days < 0 {
			out = append(out, d)
		}
	}
	return out
}

// Upcoming returns unpaid debts due within the next `days` calendar days
// (today included).
func (s *Debts) Upcoming(now time.Time, days int) []model.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Debt
	for _, d := range s.items {
		if d.IsPaid {
			continue
		}
		if remaining, ok := d.DaysUntilDue(now); ok && remaining >= 0 && remaining <= days {
			out = append(out, d)
		}
	}
	return out
}

func (s *Debts) replace(updated model.Debt) {
	s.mu.Lock()
	for i, d := range s.items {
		if d.ID == updated.ID {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
}
