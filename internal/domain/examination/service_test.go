package examination

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock Repository --

type mockRepo struct {
	exams map[uuid.UUID]*Examination
}

func newMockRepo() *mockRepo {
	return &mockRepo{exams: make(map[uuid.UUID]*Examination)}
}

func (m *mockRepo) Create(_ context.Context, e *Examination) error {
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Examination, error) {
	e, ok := m.exams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExaminationNotFound, id)
	}
	cp := *e
	return &cp, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patient uuid.UUID) ([]*Examination, error) {
	var result []*Examination
	for _, e := range m.exams {
		if e.PatientID == patient {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

func (m *mockRepo) Update(_ context.Context, e *Examination) error {
	m.exams[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.exams, id)
	return nil
}

// -- Mock Chart --

type mockCharts struct {
	initialized map[uuid.UUID]uuid.UUID
	fail        bool
}

func (m *mockCharts) Initialize(_ context.Context, patient, exam uuid.UUID) (bool, error) {
	if m.fail {
		return false, fmt.Errorf("chart storage down")
	}
	if m.initialized == nil {
		m.initialized = make(map[uuid.UUID]uuid.UUID)
	}
	m.initialized[exam] = patient
	return true, nil
}

func newTestService() (*Service, *mockRepo, *mockCharts) {
	repo := newMockRepo()
	charts := &mockCharts{}
	return NewService(repo, charts, zerolog.Nop()), repo, charts
}

// -- Create --

func TestCreate(t *testing.T) {
	svc, repo, charts := newTestService()
	e := &Examination{PatientID: uuid.New(), ChiefComplaint: "toothache"}

	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if e.Date.IsZero() {
		t.Error("expected defaulted date")
	}
	if _, ok := repo.exams[e.ID]; !ok {
		t.Error("examination not persisted")
	}
	if charts.initialized[e.ID] != e.PatientID {
		t.Error("chart must be initialized for the new examination")
	}
}

func TestCreate_RequiresPatient(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Create(context.Background(), &Examination{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreate_SurvivesChartFailure(t *testing.T) {
	svc, repo, charts := newTestService()
	charts.fail = true
	e := &Examination{PatientID: uuid.New()}

	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("create must not fail on chart init: %v", err)
	}
	if _, ok := repo.exams[e.ID]; !ok {
		t.Error("examination must persist even when chart init fails")
	}
}

// -- Latest --

func TestLatest(t *testing.T) {
	svc, _, _ := newTestService()
	patient := uuid.New()
	older := &Examination{PatientID: patient, Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	newer := &Examination{PatientID: patient, Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}
	svc.Create(context.Background(), older)
	svc.Create(context.Background(), newer)

	got, err := svc.Latest(context.Background(), patient)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("expected most recent examination %s, got %s", newer.ID, got.ID)
	}
}

func TestLatest_NoExaminations(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Latest(context.Background(), uuid.New())
	if !errors.Is(err, ErrExaminationNotFound) {
		t.Fatalf("expected ErrExaminationNotFound, got %v", err)
	}
}

// -- Update / Delete --

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Update(context.Background(), &Examination{ID: uuid.New(), PatientID: uuid.New()})
	if !errors.Is(err, ErrExaminationNotFound) {
		t.Fatalf("expected ErrExaminationNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	e := &Examination{PatientID: uuid.New()}
	svc.Create(context.Background(), e)

	if err := svc.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.exams[e.ID]; ok {
		t.Error("examination not deleted")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrExaminationNotFound) {
		t.Fatalf("expected ErrExaminationNotFound, got %v", err)
	}
}
