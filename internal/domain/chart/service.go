package chart

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/tooth"
)

// StatusResolver validates cell statuses against the catalog. Satisfied by
// *catalog.Service.
type StatusResolver interface {
	Resolve(ctx context.Context, id string) (*catalog.Status, error)
}

// Service manages examination chart snapshots.
type Service struct {
	repo     Repository
	statuses StatusResolver
}

// NewService creates a new chart service.
func NewService(repo Repository, statuses StatusResolver) *Service {
	return &Service{repo: repo, statuses: statuses}
}

// Initialize creates the full 32-cell grid for an examination, every cell
// starting at the default status. All cells land in one transaction, so a
// chart is never observable half-built. Any existing cell, including one
// auto-created by UpdateCell, makes this a no-op returning false.
func (s *Service) Initialize(ctx context.Context, patient, exam uuid.UUID) (bool, error) {
	existing, err := s.repo.ListByExamination(ctx, patient, exam)
	if err != nil {
		return false, fmt.Errorf("check chart: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	cells := make([]*Cell, 0, 32)
	for q := tooth.UpperRight; q <= tooth.LowerRight; q++ {
		for p := 1; p <= 8; p++ {
			cells = append(cells, newDefaultCell(patient, exam, q, p))
		}
	}
	created, err := s.repo.InitializeCells(ctx, cells)
	if err != nil {
		return false, fmt.Errorf("initialize chart: %w", err)
	}
	return created > 0, nil
}

// UpdateCell edits one cell of the chart. A missing cell is created on the
// fly with default values before the update is applied; pass strict to get
// ErrChartNotInitialized instead. A non-nil status must resolve in the
// catalog.
func (s *Service) UpdateCell(ctx context.Context, patient, exam uuid.UUID, quadrant, position int, update CellUpdate, strict bool) (*Cell, error) {
	q, err := validatePlacement(quadrant, position)
	if err != nil {
		return nil, err
	}
	if update.Status != nil {
		if _, err := s.statuses.Resolve(ctx, *update.Status); err != nil {
			return nil, err
		}
	}

	cell, err := s.repo.Get(ctx, patient, exam, q, position)
	if errors.Is(err, ErrCellNotFound) {
		if strict {
			return nil, fmt.Errorf("%w: examination %s", ErrChartNotInitialized, exam)
		}
		cell = newDefaultCell(patient, exam, q, position)
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cell: %w", err)
	}

	if update.Diagnosis != nil {
		cell.Diagnosis = *update.Diagnosis
	}
	if update.Treatment != nil {
		cell.Treatment = *update.Treatment
	}
	if update.Status != nil {
		cell.Status = *update.Status
	}

	if err := s.repo.Save(ctx, cell); err != nil {
		return nil, fmt.Errorf("save cell: %w", err)
	}
	return cell, nil
}

// GetCell returns one cell, or ErrCellNotFound.
func (s *Service) GetCell(ctx context.Context, patient, exam uuid.UUID, quadrant, position int) (*Cell, error) {
	q, err := validatePlacement(quadrant, position)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, patient, exam, q, position)
}

// GetChart returns the examination chart grouped by quadrant name, cells in
// position order, or ErrChartNotInitialized when no cells exist yet.
func (s *Service) GetChart(ctx context.Context, patient, exam uuid.UUID) (map[string][]*Cell, error) {
	cells, err := s.repo.ListByExamination(ctx, patient, exam)
	if err != nil {
		return nil, fmt.Errorf("load chart: %w", err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: examination %s", ErrChartNotInitialized, exam)
	}
	grouped := make(map[string][]*Cell, 4)
	for _, c := range cells {
		key := c.Quadrant.String()
		grouped[key] = append(grouped[key], c)
	}
	for _, g := range grouped {
		sort.Slice(g, func(i, j int) bool { return g[i].Position < g[j].Position })
	}
	return grouped, nil
}
