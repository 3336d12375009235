package stores

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// Goals mirrors the /goals/ resource.
type Goals struct {
	base
	items []model.Goal
}

// NewGoals creates an empty goals store.
func NewGoals(client *api.Client, logger *slog.Logger) *Goals {
	return &Goals{base: base{client: client, logger: logger}}
}

// Fetch replaces the local collection with the server state.
func (s *Goals) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	var page api.Page[model.Goal]
	if err := s.client.Get(ctx, "/goals/", nil, &page); err != nil {
		return s.fail(err, "Error al cargar metas")
	}
	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// FetchActive reloads only the active goals, keeping cached inactive ones.
func (s *Goals) FetchActive(ctx context.Context) error {
	s.begin()
	defer s.end()

	var active []model.Goal
	if err := s.client.Get(ctx, "/goals/active/", nil, &active); err != nil {
		return s.fail(err, "Error al cargar metas activas")
	}
	s.mu.Lock()
	var kept []model.Goal
	for _, g := range s.items {
		if !g.IsActive {
			kept = append(kept, g)
		}
	}
	s.items = append(kept, active...)
	s.mu.Unlock()
	return nil
}

// Create posts a new goal and appends the canonical server object.
func (s *Goals) Create(ctx context.Context, goal model.Goal) (model.Goal, error) {
	s.begin()
	defer s.end()

	var created model.Goal
	if err := s.client.Post(ctx, "/goals/", goal, &created); err != nil {
		return model.Goal{}, s.fail(err, "Error al crear meta")
	}
	s.mu.Lock()
	s.items = append(s.items, created)
	s.mu.Unlock()
	return created, nil
}

// Update patches fields and replaces the local entry by id.
func (s *Goals) Update(ctx context.Context, id int, fields map[string]any) (model.Goal, error) {
	s.begin()
	defer s.end()

	var updated model.Goal
	if err := s.client.Patch(ctx, fmt.Sprintf("/goals/%d/", id), fields, &updated); err != nil {
		return model.Goal{}, s.fail(err, "Error al actualizar meta")
	}
	s.replace(updated)
	return updated, nil
}

// Delete removes the goal after server confirmation.
func (s *Goals) Delete(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, fmt.Sprintf("/goals/%d/", id)); err != nil {
		return s.fail(err, "Error al eliminar meta")
	}
	s.mu.Lock()
	for i, g := range s.items {
		if g.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ToggleActive flips the goal's active state via the custom action.
func (s *Goals) ToggleActive(ctx context.Context, id int) (model.Goal, error) {
	s.begin()
	defer s.end()

	var updated model.Goal
	if err := s.client.Post(ctx, fmt.Sprintf("/goals/%d/toggle_active/", id), nil, &updated); err != nil {
		return model.Goal{}, s.fail(err, "Error al cambiar estado de meta")
	}
	s.replace(updated)
	return updated, nil
}

// Progress fetches the server-computed progress report. Read helper:
// errors are logged and swallowed, returning nil.
func (s *Goals) Progress(ctx context.Context, id int) *model.GoalProgress {
	var out model.GoalProgress
	if err := s.client.Get(ctx, fmt.Sprintf("/goals/%d/progress/", id), nil, &out); err != nil {
		s.logger.Warn("fetch goal progress", "goal", id, "error", err)
		return nil
	}
	return &out
}

// All returns a copy of the cached collection.
func (s *Goals) All() []model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Goal(nil), s.items...)
}

// Active returns active goals.
func (s *Goals) Active() []model.Goal {
	return s.filter(func(g model.Goal) bool { return g.IsActive })
}

// Completed returns active goals already completed.
func (s *Goals) Completed() []model.Goal {
	return s.filter(func(g model.Goal) bool { return g.IsActive && g.IsCompleted })
}

// Savings returns active savings goals.
func (s *Goals) Savings() []model.Goal {
	return s.filter(func(g model.Goal) bool { return g.GoalType == model.GoalSavings && g.IsActive })
}

// CategoryReduction returns active category-reduction goals.
func (s *Goals) CategoryReduction() []model.Goal {
	return s.filter(func(g model.Goal) bool { return g.GoalType == model.GoalCategoryReduction && g.IsActive })
}

func (s *Goals) filter(keep func(model.Goal) bool) []model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Goal
	for _, g := range s.items {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

func (s *Goals) replace(updated model.Goal) {
	s.mu.Lock()
	for i, g := range s.items {
		if g.ID == updated.ID {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
}
