package chart

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/tooth"
)

// Repository persists chart cells. InitializeCells inserts the full grid in
// one transaction, skipping cells that already exist, and reports how many
// rows it actually created; repeating it is therefore safe and a second run
// creates nothing.
type Repository interface {
	InitializeCells(ctx context.Context, cells []*Cell) (int, error)
	Get(ctx context.Context, patient, exam uuid.UUID, q tooth.Quadrant, position int) (*Cell, error)
	ListByExamination(ctx context.Context, patient, exam uuid.UUID) ([]*Cell, error)
	Save(ctx context.Context, cell *Cell) error
}
