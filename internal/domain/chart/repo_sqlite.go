package chart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/tooth"
)

type repoSQLite struct{ db *sql.DB }

// NewRepoSQLite creates a chart repository over the embedded sqlite database.
func NewRepoSQLite(sqldb *sql.DB) Repository { return &repoSQLite{db: sqldb} }

func (r *repoSQLite) InitializeCells(ctx context.Context, cells []*Cell) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := 0
	for _, c := range cells {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO chart_cells (patient_id, examination_id, quadrant, position, diagnosis, treatment, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (patient_id, examination_id, quadrant, position) DO NOTHING`,
			c.PatientID.String(), c.ExaminationID.String(), int(c.Quadrant), c.Position,
			c.Diagnosis, c.Treatment, c.Status)
		if err != nil {
			return 0, fmt.Errorf("insert cell %d/%d: %w", c.Quadrant, c.Position, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert cell %d/%d: %w", c.Quadrant, c.Position, err)
		}
		created += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return created, nil
}

func (r *repoSQLite) Get(ctx context.Context, patient, exam uuid.UUID, q tooth.Quadrant, position int) (*Cell, error) {
	c, err := scanCellSQL(r.db.QueryRowContext(ctx,
		`SELECT patient_id, examination_id, quadrant, position, diagnosis, treatment, status, created_at, updated_at
		 FROM chart_cells
		 WHERE patient_id = ? AND examination_id = ? AND quadrant = ? AND position = ?`,
		patient.String(), exam.String(), int(q), position))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d/%d", ErrCellNotFound, q, position)
	}
	if err != nil {
		return nil, fmt.Errorf("cell get: %w", err)
	}
	return c, nil
}

func (r *repoSQLite) ListByExamination(ctx context.Context, patient, exam uuid.UUID) ([]*Cell, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT patient_id, examination_id, quadrant, position, diagnosis, treatment, status, created_at, updated_at
		 FROM chart_cells
		 WHERE patient_id = ? AND examination_id = ?
		 ORDER BY quadrant, position`, patient.String(), exam.String())
	if err != nil {
		return nil, fmt.Errorf("cell list: %w", err)
	}
	defer rows.Close()
	var results []*Cell
	for rows.Next() {
		c, err := scanCellSQL(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *repoSQLite) Save(ctx context.Context, c *Cell) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chart_cells (patient_id, examination_id, quadrant, position, diagnosis, treatment, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (patient_id, examination_id, quadrant, position) DO UPDATE SET
		   diagnosis = excluded.diagnosis,
		   treatment = excluded.treatment,
		   status = excluded.status,
		   updated_at = excluded.updated_at`,
		c.PatientID.String(), c.ExaminationID.String(), int(c.Quadrant), c.Position,
		c.Diagnosis, c.Treatment, c.Status, now, now)
	if err != nil {
		return fmt.Errorf("cell save: %w", err)
	}
	c.UpdatedAt = now
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	return nil
}

type cellScanner interface {
	Scan(dest ...interface{}) error
}

func scanCellSQL(row cellScanner) (*Cell, error) {
	var (
		c                   Cell
		rawPatient, rawExam string
		quadrant            int
	)
	err := row.Scan(&rawPatient, &rawExam, &quadrant, &c.Position,
		&c.Diagnosis, &c.Treatment, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.PatientID, err = uuid.Parse(rawPatient); err != nil {
		return nil, fmt.Errorf("stored cell: %w", err)
	}
	if c.ExaminationID, err = uuid.Parse(rawExam); err != nil {
		return nil, fmt.Errorf("stored cell: %w", err)
	}
	if c.Quadrant, err = tooth.ParseQuadrant(quadrant); err != nil {
		return nil, fmt.Errorf("stored cell: %w", err)
	}
	return &c, nil
}
