package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestResolver(statusIDs ...string) (*Resolver, *Service) {
	repo := newMockRepo()
	cat := newMockCatalog(statusIDs...)
	svc := NewService(repo, cat)
	svc.SetClock(fixedClock{today: day(2026, time.March, 15)})
	return NewResolver(repo, cat), svc
}

func TestCurrentStatus_DoctorOutranksPatient(t *testing.T) {
	resolver, svc := newTestResolver("pain", "caries")
	patient := uuid.New()
	ctx := context.Background()

	// The patient report is newer, but the doctor opinion still wins.
	svc.Append(ctx, patient, 21, "doctor_diagnosed", "caries", "", day(2026, time.March, 1))
	svc.Append(ctx, patient, 21, "patient_reported", "pain", "", day(2026, time.March, 10))

	state, err := resolver.CurrentStatus(ctx, patient, 21)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Status != "caries" {
		t.Errorf("expected caries, got %q", state.Status)
	}
	if state.Source != "doctor_diagnosed" {
		t.Errorf("expected doctor source, got %q", state.Source)
	}
}

func TestCurrentStatus_CarriesBothStreamSummaries(t *testing.T) {
	resolver, svc := newTestResolver("pain", "caries")
	patient := uuid.New()
	ctx := context.Background()

	svc.Append(ctx, patient, 21, "patient_reported", "pain", "throbbing", day(2026, time.March, 1))
	svc.Append(ctx, patient, 21, "doctor_diagnosed", "caries", "distal surface", day(2026, time.March, 2))

	state, err := resolver.CurrentStatus(ctx, patient, 21)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Status != "caries" {
		t.Fatalf("expected caries to win, got %q", state.Status)
	}
	if state.PatientReported == nil {
		t.Fatal("outranked patient report must stay visible")
	}
	if state.PatientReported.Status != "pain" || state.PatientReported.Entries != 1 {
		t.Errorf("unexpected patient summary: %+v", state.PatientReported)
	}
	if state.DoctorDiagnosed == nil || state.DoctorDiagnosed.Status != "caries" {
		t.Errorf("unexpected doctor summary: %+v", state.DoctorDiagnosed)
	}
	if !state.PatientReported.Date.Equal(day(2026, time.March, 1)) {
		t.Errorf("patient summary date = %v", state.PatientReported.Date)
	}
}

func TestCurrentStatus_NoHistoryHasNoSummaries(t *testing.T) {
	resolver, _ := newTestResolver()
	state, err := resolver.CurrentStatus(context.Background(), uuid.New(), 11)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.PatientReported != nil || state.DoctorDiagnosed != nil {
		t.Errorf("expected nil summaries for an untouched tooth, got %+v / %+v",
			state.PatientReported, state.DoctorDiagnosed)
	}
}

func TestCurrentStatus_PatientOnly(t *testing.T) {
	resolver, svc := newTestResolver("pain")
	patient := uuid.New()
	ctx := context.Background()

	svc.Append(ctx, patient, 21, "patient_reported", "pain", "aches at night", time.Time{})

	state, err := resolver.CurrentStatus(ctx, patient, 21)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Status != "pain" || state.Description != "aches at night" {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestCurrentStatus_NoHistoryDefaultsToNormal(t *testing.T) {
	resolver, _ := newTestResolver()
	state, err := resolver.CurrentStatus(context.Background(), uuid.New(), 21)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Status != "normal" {
		t.Errorf("expected normal, got %q", state.Status)
	}
	if state.Date != nil {
		t.Error("default state must carry no date")
	}
}

func TestCurrentStatus_RemovedCatalogStatusStillResolves(t *testing.T) {
	// "sealant" resolves at append time but is then removed from the
	// catalog; reads must degrade to the raw identifier, not fail.
	repo := newMockRepo()
	cat := newMockCatalog("sealant")
	svc := NewService(repo, cat)
	resolver := NewResolver(repo, cat)
	patient := uuid.New()
	ctx := context.Background()

	if _, err := svc.Append(ctx, patient, 21, "doctor_diagnosed", "sealant", "", time.Time{}); err != nil {
		t.Fatalf("append: %v", err)
	}
	delete(cat.known, "sealant")

	state, err := resolver.CurrentStatus(ctx, patient, 21)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Status != "sealant" || state.Display != "sealant" {
		t.Errorf("expected raw identifier fallback, got %+v", state)
	}
}

func TestMouthSummary_Always32Teeth(t *testing.T) {
	resolver, svc := newTestResolver("caries")
	patient := uuid.New()
	ctx := context.Background()

	svc.Append(ctx, patient, 36, "doctor_diagnosed", "caries", "", time.Time{})

	summary, err := resolver.MouthSummary(ctx, patient)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 32 {
		t.Fatalf("expected 32 teeth, got %d", len(summary))
	}

	normal, caries := 0, 0
	for _, s := range summary {
		switch s.Status {
		case "normal":
			normal++
		case "caries":
			caries++
			if int(s.Tooth) != 36 {
				t.Errorf("caries on wrong tooth %d", s.Tooth)
			}
		}
	}
	if normal != 31 || caries != 1 {
		t.Errorf("expected 31 normal + 1 caries, got %d/%d", normal, caries)
	}
}

func TestMouthSummary_EmptyPatient(t *testing.T) {
	resolver, _ := newTestResolver()
	summary, err := resolver.MouthSummary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 32 {
		t.Fatalf("expected 32 teeth for a patient with no history, got %d", len(summary))
	}
	for _, s := range summary {
		if s.Status != "normal" {
			t.Errorf("tooth %d: expected normal, got %q", s.Tooth, s.Status)
		}
	}
}
