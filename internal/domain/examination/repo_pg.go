package examination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/dentio/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a PostgreSQL-backed examination repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if q := db.QueryableFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const examColumns = `id, patient_id, examination_date, chief_complaint, notes, created_at, updated_at`

func scanExam(row pgx.Row) (*Examination, error) {
	var e Examination
	err := row.Scan(&e.ID, &e.PatientID, &e.Date, &e.ChiefComplaint, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) Create(ctx context.Context, e *Examination) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO examinations (id, patient_id, examination_date, chief_complaint, notes)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.PatientID, e.Date, e.ChiefComplaint, e.Notes)
	if err != nil {
		return fmt.Errorf("examination insert: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Examination, error) {
	e, err := scanExam(r.conn(ctx).QueryRow(ctx,
		`SELECT `+examColumns+` FROM examinations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrExaminationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("examination get: %w", err)
	}
	return e, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Examination, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+examColumns+` FROM examinations
		 WHERE patient_id = $1 ORDER BY examination_date DESC, created_at DESC`, patient)
	if err != nil {
		return nil, fmt.Errorf("examination list: %w", err)
	}
	defer rows.Close()
	var results []*Examination
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, e *Examination) error {
	now := time.Now().UTC()
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE examinations
		 SET examination_date = $2, chief_complaint = $3, notes = $4, updated_at = $5
		 WHERE id = $1`,
		e.ID, e.Date, e.ChiefComplaint, e.Notes, now)
	if err != nil {
		return fmt.Errorf("examination update: %w", err)
	}
	e.UpdatedAt = now
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM examinations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("examination delete: %w", err)
	}
	return nil
}
