package stores

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// SecondaryCategories mirrors the nested /categories/secondary/ resource.
// Same refetch-after-write contract as Categories.
type SecondaryCategories struct {
	base
	items []model.SecondaryCategory
}

// NewSecondaryCategories creates an empty secondary categories store.
func NewSecondaryCategories(client *api.Client, logger *slog.Logger) *SecondaryCategories {
	return &SecondaryCategories{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection with the server state.
func (s *SecondaryCategories) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	if err := s.refetch(ctx); err != nil {
		return s.fail(err, "Error al cargar categorías secundarias")
	}
	return nil
}

// Create posts a new secondary category, then refetches.
func (s *SecondaryCategories) Create(ctx context.Context, category model.SecondaryCategory) (model.SecondaryCategory, error) {
	s.begin()
	defer s.end()

	var created model.SecondaryCategory
	if err := s.client.Post(ctx, "/categories/secondary/", category, &created); err != nil {
		return model.SecondaryCategory{}, s.fail(err, "Error al crear categoría secundaria")
	}
	if err := s.refetch(ctx); err != nil {
		return created, s.fail(err, "Error al cargar categorías secundarias")
	}
	return created, nil
}

// Update patches fields, then refetches.
func (s *SecondaryCategories) Update(ctx context.Context, id int, fields map[string]any) (model.SecondaryCategory, error) {
	s.begin()
	defer s.end()

	var updated model.SecondaryCategory
	if err := s.client.Patch(ctx, fmt.Sprintf("/categories/secondary/%d/", id), fields, &updated); err != nil {
		return model.SecondaryCategory{}, s.fail(err, "Error al actualizar categoría secundaria")
	}
	if err := s.refetch(ctx); err != nil {
		return updated, s.fail(err, "Error al cargar categorías secundarias")
	}
	return updated, nil
}

// Delete removes the secondary category server-side, then refetches.
func (s *SecondaryCategories) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/categories/secondary/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar categoría secundaria")
	}
	if err := s.refetch(ctx); err != nil {
		return s.fail(err, "Error al cargar categorías secundarias")
	}
	return nil
}

// All returns a copy of the cached collection.
func (s *SecondaryCategories) All() []model.SecondaryCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SecondaryCategory(nil), s.items...)
}

// ByCategory returns the secondary categories under a primary category.
func (s *SecondaryCategories) ByCategory(categoryID int) []model.SecondaryCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SecondaryCategory
	for _, c := range s.items {
		if c.Category == categoryID {
			out = append(out, c)
		}
	}
	return out
}

func (s *SecondaryCategories) refetch(ctx context.Context) error {
	var page api.Page[model.SecondaryCategory]
	if err := s.client.Get(ctx, "/categories/secondary/", nil, &page); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}
