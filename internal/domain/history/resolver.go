package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/tooth"
)

// ToothState is the resolved current condition of a single tooth. Both
// per-source tails are carried alongside the winner so a patient report
// stays visible even when a doctor diagnosis outranks it.
type ToothState struct {
	Tooth           tooth.Number `json:"tooth_number"`
	Status          string       `json:"status"`
	Display         string       `json:"display"`
	Color           string       `json:"color"`
	Source          tooth.Source `json:"source,omitempty"`
	Description     string       `json:"description,omitempty"`
	Date            *time.Time   `json:"date,omitempty"`
	Entries         int          `json:"entries"`
	PatientReported *Summary     `json:"patient_reported,omitempty"`
	DoctorDiagnosed *Summary     `json:"doctor_diagnosed,omitempty"`
}

// Resolver derives current tooth state from the ledger. It never stores the
// result: the tail of the streams is the single source of truth, so resolution
// is recomputed on every call.
type Resolver struct {
	repo     Repository
	statuses StatusResolver
}

// NewResolver creates a resolver over the given ledger storage.
func NewResolver(repo Repository, statuses StatusResolver) *Resolver {
	return &Resolver{repo: repo, statuses: statuses}
}

// CurrentStatus resolves the present condition of one tooth. A doctor
// diagnosis always outranks a patient report: the precedence is by source,
// not by date, so an older doctor entry still wins over a newer patient one.
// Teeth with no history resolve to the catalog default status.
func (r *Resolver) CurrentStatus(ctx context.Context, patient uuid.UUID, toothNumber int) (*ToothState, error) {
	n, err := tooth.ParseNumber(toothNumber)
	if err != nil {
		return nil, err
	}
	streams, err := r.repo.GetByTooth(ctx, patient, n)
	if err != nil {
		return nil, fmt.Errorf("load streams: %w", err)
	}
	return r.resolve(ctx, n, streams), nil
}

// MouthSummary resolves all 32 permanent teeth in FDI order. Every tooth is
// present in the result even when the patient has no history at all.
func (r *Resolver) MouthSummary(ctx context.Context, patient uuid.UUID) ([]*ToothState, error) {
	streams, err := r.repo.ListByPatient(ctx, patient)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	byTooth := make(map[tooth.Number][]*Stream, len(streams))
	for _, st := range streams {
		byTooth[st.Tooth] = append(byTooth[st.Tooth], st)
	}

	out := make([]*ToothState, 0, 32)
	for _, n := range tooth.AllNumbers() {
		out = append(out, r.resolve(ctx, n, byTooth[n]))
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, n tooth.Number, streams []*Stream) *ToothState {
	var patient, doctor *Stream
	entries := 0
	for _, st := range streams {
		entries += st.Len()
		switch st.Source {
		case tooth.PatientReported:
			patient = st
		case tooth.DoctorDiagnosed:
			doctor = st
		}
	}

	state := &ToothState{
		Tooth:           n,
		Status:          catalog.DefaultStatus,
		Entries:         entries,
		PatientReported: patient.Summarize(),
		DoctorDiagnosed: doctor.Summarize(),
	}

	winner := doctor
	if winner == nil || winner.Len() == 0 {
		winner = patient
	}
	if winner != nil && winner.Len() > 0 {
		state.Status = winner.CurrentStatus()
		state.Description = winner.CurrentDescription()
		state.Source = winner.Source
		d := winner.CurrentDate()
		state.Date = &d
	}

	// Display metadata is best effort: a status that has since been removed
	// from the catalog still resolves, falling back to its raw identifier.
	if def, err := r.statuses.Resolve(ctx, state.Status); err == nil {
		state.Display = def.Display
		state.Color = def.Color
	} else {
		state.Display = state.Status
	}
	return state
}
