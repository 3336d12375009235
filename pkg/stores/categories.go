package stores

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// ErrInvalidCategoryType is raised client-side before any network call
// when a category payload has a missing or unknown type.
var ErrInvalidCategoryType = errors.New(`El tipo de categoría es requerido y debe ser "ingreso" o "gasto"`)

// Categories mirrors the /categories/ resource. Writes refetch the full
// collection afterwards so server-computed fields stay consistent.
type Categories struct {
	base
	items []model.Category
}

// NewCategories creates an empty categories store.
func NewCategories(client *api.Client, logger *slog.Logger) *Categories {
	return &Categories{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection with the server state.
func (s *Categories) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Category]
	if err := s.client.Get(ctx, "/categories/", nil, &page); err != nil {
		return s.fail(err, "Error al cargar categorías")
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// Create validates the type client-side, posts, then refetches.
func (s *Categories) Create(ctx context.Context, category model.Category) (model.Category, error) {
	s.begin()
	defer s.end()

	if category.CategoryType != model.TransactionIncome && category.CategoryType != model.TransactionExpense {
		return model.Category{}, s.fail(ErrInvalidCategoryType, ErrInvalidCategoryType.Error())
	}

	var created model.Category
	if err := s.client.Post(ctx, "/categories/", category, &created); err != nil {
		return model.Category{}, s.fail(err, "Error al crear categoría")
	}
	if err := s.refetch(ctx); err != nil {
		return created, s.fail(err, "Error al cargar categorías")
	}
	return created, nil
}

// Update patches fields, then refetches.
func (s *Categories) Update(ctx context.Context, id int, fields map[string]any) (model.Category, error) {
	s.begin()
	defer s.end()

	var updated model.Category
	if err := s.client.Patch(ctx, fmt.Sprintf("/categories/%d/", id), fields, &updated); err != nil {
		return model.Category{}, s.fail(err, "Error al actualizar categoría")
	}
	if err := s.refetch(ctx); err != nil {
		return updated, s.fail(err, "Error al cargar categorías")
	}
	return updated, nil
}

// Delete removes the category server-side, then refetches.
func (s *Categories) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/categories/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar categoría")
	}
	if err := s.refetch(ctx); err != nil {
		return s.fail(err, "Error al cargar categorías")
	}
	return nil
}

// GetByID looks up a cached category without touching the network.
func (s *Categories) GetByID(id int) (model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// All returns a copy of the cached collection.
func (s *Categories) All() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.items...)
}

// Expense returns top-level expense categories.
func (s *Categories) Expense() []model.Category {
	return s.filter(model.TransactionExpense)
}

// Income returns top-level income categories.
func (s *Categories) Income() []model.Category {
	return s.filter(model.TransactionIncome)
}

func (s *Categories) filter(categoryType string) []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Category
	for _, c := range s.items {
		if c.CategoryType == categoryType && c.Parent == nil {
			out = append(out, c)
		}
	}
	return out
}

func (s *Categories) refetch(ctx context.Context) error {
	var page api.Page[model.Category]
	if err := s.client.Get(ctx, "/categories/", nil, &page); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}
