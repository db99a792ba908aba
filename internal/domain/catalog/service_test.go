package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
)

// -- Mock Repository --

type mockRepo struct {
	statuses map[string]*Status
	order    []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{statuses: make(map[string]*Status)}
}

func (m *mockRepo) Insert(_ context.Context, s *Status) error {
	if _, ok := m.statuses[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStatus, s.ID)
	}
	cp := *s
	m.statuses[s.ID] = &cp
	m.order = append(m.order, s.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Status, error) {
	st, ok := m.statuses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, id)
	}
	cp := *st
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter) ([]*Status, error) {
	var result []*Status
	for _, id := range m.order {
		st := m.statuses[id]
		if filter.Category != nil && st.Category != *filter.Category {
			continue
		}
		if filter.Active != nil && st.Active != *filter.Active {
			continue
		}
		cp := *st
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Display < result[j].Display
	})
	return result, nil
}

func (m *mockRepo) Search(_ context.Context, term string, limit int) ([]*Status, error) {
	term = strings.ToLower(term)
	var result []*Status
	for _, id := range m.order {
		st := m.statuses[id]
		if strings.Contains(strings.ToLower(st.ID), term) ||
			strings.Contains(strings.ToLower(st.Display), term) ||
			strings.Contains(strings.ToLower(st.Code), term) {
			cp := *st
			result = append(result, &cp)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *mockRepo) SetActive(_ context.Context, id string, active bool) (bool, error) {
	st, ok := m.statuses[id]
	if !ok {
		return false, nil
	}
	st.Active = active
	return true, nil
}

// -- Register --

func TestRegister(t *testing.T) {
	svc := NewService(newMockRepo())
	st := &Status{ID: "gold_inlay", Display: "Gold Inlay", Category: CategoryRestoration}
	if err := svc.Register(context.Background(), st); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !st.Active {
		t.Error("registered statuses start active")
	}
	got, err := svc.Resolve(context.Background(), "gold_inlay")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Display != "Gold Inlay" {
		t.Errorf("unexpected status: %+v", got)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	st := &Status{ID: "gold_inlay", Display: "Gold Inlay"}
	if err := svc.Register(ctx, st); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := svc.Register(ctx, &Status{ID: "gold_inlay", Display: "Another"})
	if !errors.Is(err, ErrDuplicateStatus) {
		t.Fatalf("expected ErrDuplicateStatus, got %v", err)
	}
}

// raceRepo misses every existence check, so a colliding insert is the
// only place the duplicate can be caught.
type raceRepo struct{ *mockRepo }

func (r *raceRepo) GetByID(_ context.Context, id string) (*Status, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, id)
}

func TestRegister_ConcurrentDuplicateSurfacesAsDuplicate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(&raceRepo{repo})
	ctx := context.Background()

	if err := svc.Register(ctx, &Status{ID: "gold_inlay", Display: "Gold Inlay"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := svc.Register(ctx, &Status{ID: "gold_inlay", Display: "Another"})
	if !errors.Is(err, ErrDuplicateStatus) {
		t.Fatalf("insert-level collision must map to ErrDuplicateStatus, got %v", err)
	}
}

func TestRegister_DefaultsCategoryToCustom(t *testing.T) {
	svc := NewService(newMockRepo())
	st := &Status{ID: "odd_one", Display: "Odd One"}
	if err := svc.Register(context.Background(), st); err != nil {
		t.Fatalf("register: %v", err)
	}
	if st.Category != CategoryCustom {
		t.Errorf("expected custom category, got %q", st.Category)
	}
}

func TestRegister_MissingDisplay(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Register(context.Background(), &Status{ID: "x"}); err == nil {
		t.Fatal("expected validation error")
	}
}

// -- Resolve --

func TestResolve_Unknown(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Resolve(context.Background(), "nothing")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestResolve_Empty(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Resolve(context.Background(), "")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

// -- Deactivate / Reactivate --

func TestDeactivateReactivate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	svc.Register(ctx, &Status{ID: "sealant", Display: "Sealant"})

	if err := svc.Deactivate(ctx, "sealant"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	st, _ := svc.Resolve(ctx, "sealant")
	if st.Active {
		t.Error("expected inactive")
	}
	// Deactivated statuses still resolve so old history remains readable.

	if err := svc.Reactivate(ctx, "sealant"); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	st, _ = svc.Resolve(ctx, "sealant")
	if !st.Active {
		t.Error("expected active again")
	}
}

func TestDeactivate_Unknown(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Deactivate(context.Background(), "ghost")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

// -- List / Search / Grouped --

func TestList_InvalidCategory(t *testing.T) {
	svc := NewService(newMockRepo())
	bad := "dragons"
	if _, err := svc.List(context.Background(), ListFilter{Category: &bad}); err == nil {
		t.Fatal("expected invalid category error")
	}
}

func TestSearch_RequiresTerm(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Search(context.Background(), "", 10); err == nil {
		t.Fatal("expected error for empty term")
	}
}

func TestGroupedByCategory(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc.Deactivate(ctx, "extracted")

	groups, err := svc.GroupedByCategory(ctx)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(groups[CategoryHealthy]) == 0 {
		t.Error("expected healthy group")
	}
	for _, st := range groups[CategoryMissing] {
		if st.ID == "extracted" {
			t.Error("deactivated status leaked into picker groups")
		}
	}
	for cat, g := range groups {
		for i := 1; i < len(g); i++ {
			if g[i].SortOrder < g[i-1].SortOrder {
				t.Errorf("group %s out of order at %d", cat, i)
			}
		}
	}
}

// -- Seed --

func TestSeed(t *testing.T) {
	svc := NewService(newMockRepo())
	created, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created != len(PredefinedStatuses()) {
		t.Errorf("expected %d created, got %d", len(PredefinedStatuses()), created)
	}
	if created != 54 {
		t.Errorf("predefined set must have 54 statuses, got %d", created)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	created, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if created != 0 {
		t.Errorf("second seed must create nothing, got %d", created)
	}
}

func TestPredefinedStatuses_UniqueIdentifiers(t *testing.T) {
	ids := make(map[string]bool)
	codes := make(map[string]bool)
	for _, st := range PredefinedStatuses() {
		if ids[st.ID] {
			t.Errorf("duplicate id %s", st.ID)
		}
		ids[st.ID] = true
		if st.Code != "" {
			if codes[st.Code] {
				t.Errorf("duplicate code %s", st.Code)
			}
			codes[st.Code] = true
		}
		if !ValidCategory(st.Category) {
			t.Errorf("status %s has invalid category %q", st.ID, st.Category)
		}
	}
	if !ids[DefaultStatus] {
		t.Errorf("predefined set must include the default status %q", DefaultStatus)
	}
}
