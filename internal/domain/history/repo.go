package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/tooth"
)

// Repository provides storage for history streams keyed by
// (patient, tooth number, source). Save upserts the whole stream so the
// three parallel sequences are always written together; there is no
// per-element mutation at the storage boundary.
type Repository interface {
	Get(ctx context.Context, patient uuid.UUID, n tooth.Number, src tooth.Source) (*Stream, error)
	GetByTooth(ctx context.Context, patient uuid.UUID, n tooth.Number) ([]*Stream, error)
	ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Stream, error)
	ListAll(ctx context.Context) ([]*Stream, error)
	Save(ctx context.Context, s *Stream) error
	Delete(ctx context.Context, patient uuid.UUID, n tooth.Number, src tooth.Source) error
}
