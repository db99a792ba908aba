package examination

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists examinations.
type Repository interface {
	Create(ctx context.Context, e *Examination) error
	GetByID(ctx context.Context, id uuid.UUID) (*Examination, error)
	ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Examination, error)
	Update(ctx context.Context, e *Examination) error
	Delete(ctx context.Context, id uuid.UUID) error
}
