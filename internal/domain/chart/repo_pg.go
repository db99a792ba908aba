package chart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/dentio/internal/domain/tooth"
	"github.com/dentio/dentio/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a PostgreSQL-backed chart repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if q := db.QueryableFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const cellColumns = `patient_id, examination_id, quadrant, position, diagnosis, treatment, status, created_at, updated_at`

func scanCell(row pgx.Row) (*Cell, error) {
	var (
		c        Cell
		quadrant int
	)
	err := row.Scan(&c.PatientID, &c.ExaminationID, &quadrant, &c.Position,
		&c.Diagnosis, &c.Treatment, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Quadrant, err = tooth.ParseQuadrant(quadrant); err != nil {
		return nil, fmt.Errorf("stored cell: %w", err)
	}
	return &c, nil
}

// InitializeCells runs inside one transaction so either the whole grid
// exists afterwards or none of it does. ON CONFLICT DO NOTHING makes a
// repeated call a no-op that reports zero created rows.
func (r *repoPG) InitializeCells(ctx context.Context, cells []*Cell) (int, error) {
	created := 0
	err := db.InTx(ctx, r.pool, func(txCtx context.Context) error {
		for _, c := range cells {
			tag, err := r.conn(txCtx).Exec(txCtx,
				`INSERT INTO chart_cells (patient_id, examination_id, quadrant, position, diagnosis, treatment, status)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (patient_id, examination_id, quadrant, position) DO NOTHING`,
				c.PatientID, c.ExaminationID, int(c.Quadrant), c.Position,
				c.Diagnosis, c.Treatment, c.Status)
			if err != nil {
				return fmt.Errorf("insert cell %d/%d: %w", c.Quadrant, c.Position, err)
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *repoPG) Get(ctx context.Context, patient, exam uuid.UUID, q tooth.Quadrant, position int) (*Cell, error) {
	c, err := scanCell(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cellColumns+` FROM chart_cells
		 WHERE patient_id = $1 AND examination_id = $2 AND quadrant = $3 AND position = $4`,
		patient, exam, int(q), position))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d/%d", ErrCellNotFound, q, position)
	}
	if err != nil {
		return nil, fmt.Errorf("cell get: %w", err)
	}
	return c, nil
}

func (r *repoPG) ListByExamination(ctx context.Context, patient, exam uuid.UUID) ([]*Cell, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cellColumns+` FROM chart_cells
		 WHERE patient_id = $1 AND examination_id = $2
		 ORDER BY quadrant, position`, patient, exam)
	if err != nil {
		return nil, fmt.Errorf("cell list: %w", err)
	}
	defer rows.Close()
	var results []*Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *repoPG) Save(ctx context.Context, c *Cell) error {
	now := time.Now().UTC()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO chart_cells (patient_id, examination_id, quadrant, position, diagnosis, treatment, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 ON CONFLICT (patient_id, examination_id, quadrant, position) DO UPDATE SET
		   diagnosis = EXCLUDED.diagnosis,
		   treatment = EXCLUDED.treatment,
		   status = EXCLUDED.status,
		   updated_at = EXCLUDED.updated_at`,
		c.PatientID, c.ExaminationID, int(c.Quadrant), c.Position,
		c.Diagnosis, c.Treatment, c.Status, now)
	if err != nil {
		return fmt.Errorf("cell save: %w", err)
	}
	c.UpdatedAt = now
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	return nil
}
