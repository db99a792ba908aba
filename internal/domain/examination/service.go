package examination

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChartInitializer lays out the dental chart for a new examination.
// Satisfied by *chart.Service.
type ChartInitializer interface {
	Initialize(ctx context.Context, patient, exam uuid.UUID) (bool, error)
}

// Service provides examination operations.
type Service struct {
	repo   Repository
	charts ChartInitializer
	logger zerolog.Logger
}

// NewService creates a new examination service.
func NewService(repo Repository, charts ChartInitializer, logger zerolog.Logger) *Service {
	return &Service{repo: repo, charts: charts, logger: logger}
}

// Create records a new examination and initializes its chart. Chart layout
// failure does not fail the visit: the chart layer recreates missing cells
// on first update, so the error is only logged.
func (s *Service) Create(ctx context.Context, e *Examination) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("create examination: %w", err)
	}

	if _, err := s.charts.Initialize(ctx, e.PatientID, e.ID); err != nil {
		s.logger.Warn().Err(err).
			Str("examination_id", e.ID.String()).
			Msg("chart initialization failed, cells will be created lazily")
	}
	return nil
}

// Get returns one examination.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Examination, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByPatient returns a patient's examinations, newest first.
func (s *Service) ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Examination, error) {
	return s.repo.ListByPatient(ctx, patient)
}

// Latest returns the patient's most recent examination.
func (s *Service) Latest(ctx context.Context, patient uuid.UUID) (*Examination, error) {
	exams, err := s.repo.ListByPatient(ctx, patient)
	if err != nil {
		return nil, err
	}
	if len(exams) == 0 {
		return nil, ErrExaminationNotFound
	}
	return exams[0], nil
}

// Update edits the complaint and notes of an examination.
func (s *Service) Update(ctx context.Context, e *Examination) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, e.ID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return fmt.Errorf("update examination: %w", err)
	}
	return nil
}

// Delete removes an examination. Its chart cells are kept: findings already
// recorded stay auditable.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
