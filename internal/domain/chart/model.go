// Package chart manages the per-examination dental chart snapshot: a fixed
// grid of 32 cells, one per permanent tooth, created together when an
// examination opens and edited cell by cell afterwards.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/tooth"
)

var (
	// ErrChartNotInitialized is returned when a chart is read, or strictly
	// updated, before its cells were created for the examination.
	ErrChartNotInitialized = errors.New("chart not initialized")

	// ErrCellNotFound is returned for a missing single cell.
	ErrCellNotFound = errors.New("chart cell not found")
)

// Cell is one tooth position in an examination chart. Quadrant and position
// follow the FDI layout: four quadrants of eight teeth each.
type Cell struct {
	PatientID     uuid.UUID      `db:"patient_id" json:"patient_id"`
	ExaminationID uuid.UUID      `db:"examination_id" json:"examination_id"`
	Quadrant      tooth.Quadrant `db:"quadrant" json:"quadrant"`
	Position      int            `db:"position" json:"position"`
	Diagnosis     string         `db:"diagnosis" json:"diagnosis"`
	Treatment     string         `db:"treatment" json:"treatment"`
	Status        string         `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Tooth returns the FDI number this cell maps to.
func (c *Cell) Tooth() (tooth.Number, error) {
	return c.Quadrant.Number(c.Position)
}

// CellUpdate carries the editable fields of a cell. Nil fields are left
// unchanged.
type CellUpdate struct {
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
	Status    *string `json:"status"`
}

func validatePlacement(quadrant, position int) (tooth.Quadrant, error) {
	q, err := tooth.ParseQuadrant(quadrant)
	if err != nil {
		return 0, err
	}
	if position < 1 || position > 8 {
		return 0, fmt.Errorf("%w: position %d", tooth.ErrInvalidToothNumber, position)
	}
	return q, nil
}

// newDefaultCell builds the blank cell written during chart initialization.
func newDefaultCell(patient, exam uuid.UUID, q tooth.Quadrant, position int) *Cell {
	return &Cell{
		PatientID:     patient,
		ExaminationID: exam,
		Quadrant:      q,
		Position:      position,
		Status:        catalog.DefaultStatus,
	}
}
