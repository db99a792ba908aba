package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Service provides status catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register adds a new status to the catalog. The identifier must not already
// exist; collisions fail with ErrDuplicateStatus and nothing is written.
func (s *Service) Register(ctx context.Context, st *Status) error {
	if err := st.Validate(); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, st.ID)
	if err != nil && !errors.Is(err, ErrUnknownStatus) {
		return fmt.Errorf("check status %s: %w", st.ID, err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateStatus, st.ID)
	}
	st.Active = true
	if err := s.repo.Insert(ctx, st); err != nil {
		return fmt.Errorf("insert status %s: %w", st.ID, err)
	}
	return nil
}

// Resolve returns the status for an identifier, or ErrUnknownStatus.
func (s *Service) Resolve(ctx context.Context, id string) (*Status, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrUnknownStatus)
	}
	return s.repo.GetByID(ctx, id)
}

// Deactivate soft-disables a status. History entries that already reference
// the identifier are unaffected.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Reactivate re-enables a previously deactivated status.
func (s *Service) Reactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id string, active bool) error {
	ok, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return fmt.Errorf("set active %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, id)
	}
	return nil
}

// List returns statuses matching the filter, ordered by (sort_order, display).
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Status, error) {
	if filter.Category != nil && !ValidCategory(*filter.Category) {
		return nil, fmt.Errorf("invalid status category: %q", *filter.Category)
	}
	return s.repo.List(ctx, filter)
}

// Search returns statuses whose identifier or display name contains term.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]*Status, error) {
	if term == "" {
		return nil, fmt.Errorf("search term is required")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.Search(ctx, term, limit)
}

// GroupedByCategory returns all active statuses grouped for picker UIs,
// each group ordered by (sort_order, display).
func (s *Service) GroupedByCategory(ctx context.Context) (map[string][]*Status, error) {
	active := true
	all, err := s.repo.List(ctx, ListFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]*Status)
	for _, st := range all {
		groups[st.Category] = append(groups[st.Category], st)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].SortOrder != g[j].SortOrder {
				return g[i].SortOrder < g[j].SortOrder
			}
			return g[i].Display < g[j].Display
		})
	}
	return groups, nil
}

// Seed registers the predefined status set. Identifiers that already exist
// are skipped silently so seeding is safe to repeat. Returns the number of
// statuses created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, st := range PredefinedStatuses() {
		err := s.Register(ctx, st)
		if errors.Is(err, ErrDuplicateStatus) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed status %s: %w", st.ID, err)
		}
		created++
	}
	return created, nil
}
