package stores

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// Accounts mirrors the /accounts/ resource.
type Accounts struct {
	base
	items []model.Account
}

// NewAccounts creates an empty accounts store.
func NewAccounts(client *api.Client, logger *slog.Logger) *Accounts {
	return &Accounts{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection with the server state.
func (s *Accounts) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Account]
	if err := s.client.Get(ctx, "/accounts/", nil, &page); err != nil {
		return s.fail(err, "Error al cargar cuentas")
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// Create posts a new account and appends the canonical server object.
func (s *Accounts) Create(ctx context.Context, account model.Account) (model.Account, error) {
	s.begin()
	defer s.end()

	var created model.Account
	if err := s.client.Post(ctx, "/accounts/", account, &created); err != nil {
		return model.Account{}, s.fail(err, "Error al crear cuenta")
	}
	s.mu.Lock()
	s.items = append(s.items, created)
	s.mu.Unlock()
	return created, nil
}

// Update patches fields and replaces the local entry; a no-op locally when
// the id is not cached.
func (s *Accounts) Update(ctx context.Context, id int, fields map[string]any) (model.Account, error) {
	s.begin()
	defer s.end()

	var updated model.Account
	if err := s.client.Patch(ctx, fmt.Sprintf("/accounts/%d/", id), fields, &updated); err != nil {
		return model.Account{}, s.fail(err, "Error al actualizar cuenta")
	}
	s.replace(updated)
	return updated, nil
}

// Delete removes the account after server confirmation.
func (s *Accounts) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/accounts/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar cuenta")
	}
	s.mu.Lock()
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// SetInitialBalance invokes the custom action that rewrites the opening
// balance and returns the recomputed account.
func (s *Accounts) SetInitialBalance(ctx context.Context, id int, balance decimal.Decimal) (model.Account, error) {
	var updated model.Account
	err := s.client.Post(ctx, fmt.Sprintf("/accounts/%d/set_initial_balance/", id), map[string]any{
		"initial_balance": balance,
	}, &updated)
	if err != nil {
		return model.Account{}, s.fail(err, "Error al establecer saldo")
	}
	s.replace(updated)
	return updated, nil
}

// GetByID looks up a cached account without touching the network.
func (s *Accounts) GetByID(id int) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return model.Account{}, false
}

// All returns a copy of the cached collection.
func (s *Accounts) All() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Account(nil), s.items...)
}

// Active returns active accounts.
func (s *Accounts) Active() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.items {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out
}

// TotalBalance sums active accounts flagged include_in_total.
func (s *Accounts) TotalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, a := range s.items {
		if a.IsActive && a.IncludeInTotal {
			total = total.Add(a.Balance)
		}
	}
	return total
}

func (s *Accounts) replace(updated model.Account) {
	s.mu.Lock()
	for i, a := range s.items {
		if a.ID == updated.ID {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
}
