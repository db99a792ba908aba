package examination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type repoSQLite struct{ db *sql.DB }

// NewRepoSQLite creates an examination repository over the embedded sqlite
// database.
func NewRepoSQLite(sqldb *sql.DB) Repository { return &repoSQLite{db: sqldb} }

func (r *repoSQLite) Create(ctx context.Context, e *Examination) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO examinations (id, patient_id, examination_date, chief_complaint, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.PatientID.String(), e.Date.UTC().Format(time.RFC3339),
		e.ChiefComplaint, e.Notes)
	if err != nil {
		return fmt.Errorf("examination insert: %w", err)
	}
	return nil
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Examination, error) {
	e, err := scanExamSQL(r.db.QueryRowContext(ctx,
		`SELECT id, patient_id, examination_date, chief_complaint, notes, created_at, updated_at
		 FROM examinations WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrExaminationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("examination get: %w", err)
	}
	return e, nil
}

func (r *repoSQLite) ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Examination, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, patient_id, examination_date, chief_complaint, notes, created_at, updated_at
		 FROM examinations
		 WHERE patient_id = ? ORDER BY examination_date DESC, created_at DESC`, patient.String())
	if err != nil {
		return nil, fmt.Errorf("examination list: %w", err)
	}
	defer rows.Close()
	var results []*Examination
	for rows.Next() {
		e, err := scanExamSQL(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

func (r *repoSQLite) Update(ctx context.Context, e *Examination) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE examinations
		 SET examination_date = ?, chief_complaint = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		e.Date.UTC().Format(time.RFC3339), e.ChiefComplaint, e.Notes, now, e.ID.String())
	if err != nil {
		return fmt.Errorf("examination update: %w", err)
	}
	e.UpdatedAt = now
	return nil
}

func (r *repoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM examinations WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("examination delete: %w", err)
	}
	return nil
}

type examScanner interface {
	Scan(dest ...interface{}) error
}

func scanExamSQL(row examScanner) (*Examination, error) {
	var (
		e                      Examination
		rawID, rawPat, rawDate string
	)
	err := row.Scan(&rawID, &rawPat, &rawDate, &e.ChiefComplaint, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("stored examination: %w", err)
	}
	if e.PatientID, err = uuid.Parse(rawPat); err != nil {
		return nil, fmt.Errorf("stored examination: %w", err)
	}
	if e.Date, err = time.Parse(time.RFC3339, rawDate); err != nil {
		return nil, fmt.Errorf("stored examination date: %w", err)
	}
	return &e, nil
}
