package stores

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// Transactions mirrors the /transactions/ resource. The collection is
// time-ordered, so creates prepend. Pagination metadata is captured when
// the server answers with the paginated envelope.
type Transactions struct {
	base
	items      []model.Transaction
	pagination model.Pagination
}

// NewTransactions creates an empty transactions store.
func NewTransactions(client *api.Client, logger *slog.Logger) *Transactions {
	return &Transactions{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection, honoring filter parameters
// (page, transaction_type, date_from, date_to, category, account).
func (s *Transactions) Fetch(ctx context.Context, params url.Values) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Transaction]
	if err := s.client.Get(ctx, "/transactions/", params, &page); err != nil {
		return s.fail(err, "Error al cargar transacciones")
	}

	s.mu.Lock()
	s.items = page.Results
	if page.Paginated {
		current := 1
		if p, err := strconv.Atoi(params.Get("page")); err == nil && p > 0 {
			current = p
		}
		s.pagination = model.Pagination{
			Count:    page.Count,
			Next:     page.Next,
			Previous: page.Previous,
			Page:     current,
		}
	}
	s.mu.Unlock()
	return nil
}

// Create posts a new transaction and prepends the canonical server object.
func (s *Transactions) Create(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	s.begin()
	defer s.end()

	var created model.Transaction
	if err := s.client.Post(ctx, "/transactions/", tx, &created); err != nil {
		return model.Transaction{}, s.fail(err, "Error al crear transacción")
	}
	s.mu.Lock()
	s.items = append([]model.Transaction{created}, s.items...)
	s.mu.Unlock()
	return created, nil
}

// Update patches fields and replaces the local entry by id.
func (s *Transactions) Update(ctx context.Context, id int, fields map[string]any) (model.Transaction, error) {
	s.begin()
	defer s.end()

	var updated model.Transaction
	if err := s.client.Patch(ctx, fmt.Sprintf("/transactions/%d/", id), fields, &updated); err != nil {
		return model.Transaction{}, s.fail(err, "Error al actualizar transacción")
	}
	s.mu.Lock()
	for i, t := range s.items {
		if t.ID == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the transaction after server confirmation.
func (s *Transactions) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/transactions/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar transacción")
	}
	s.mu.Lock()
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// GetByID looks up a cached transaction without touching the network.
func (s *Transactions) GetByID(id int) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// All returns a copy of the cached collection.
func (s *Transactions) All() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.items...)
}

// Pagination returns the metadata of the last paginated fetch.
func (s *Transactions) Pagination() model.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Recent fetches the latest transactions. Read helper: errors are logged
// and swallowed, returning an empty slice.
func (s *Transactions) Recent(ctx context.Context, limit int) []model.Transaction {
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []model.Transaction
	if err := s.client.Get(ctx, "/transactions/recent/", params, &out); err != nil {
		s.logger.Warn("fetch recent transactions", "error", err)
		return nil
	}
	return out
}

// Summary fetches the income/expense aggregate for a date range. Errors
// yield a zero summary.
func (s *Transactions) Summary(ctx context.Context, dateFrom, dateTo string) model.TransactionSummary {
	params := url.Values{}
	if dateFrom != "" {
		params.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		params.Set("date_to", dateTo)
	}

	var out model.TransactionSummary
	if err := s.client.Get(ctx, "/transactions/summary/", params, &out); err != nil {
		s.logger.Warn("fetch transaction summary", "error", err)
		return model.TransactionSummary{}
	}
	return out
}

// ByCategory fetches the per-category spending breakdown. Errors yield an
// empty slice.
func (s *Transactions) ByCategory(ctx context.Context, dateFrom, dateTo string) []model.CategoryBreakdown {
	params := url.Values{}
	if dateFrom != "" {
		params.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		params.Set("date_to", dateTo)
	}

	var out []model.CategoryBreakdown
	if err := s.client.Get(ctx, "/transactions/by_category/", params, &out); err != nil {
		s.logger.Warn("fetch category breakdown", "error", err)
		return nil
	}
	return out
}
