package history

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

// NewRepoSQLite creates a stream repository over the embedded sqlite
// database used in single-workstation deployments. Sequences are stored as
// JSON text, same logical shape as the JSONB columns on PostgreSQL.
func NewRepoSQLite(sqldb *sql.DB) Repository { return &repoSQLite{db: sqldb} }

func (r *repoSQLite) Get(ctx context.Context, patient uuid.UUID, n tooth.Number, src tooth.Source) (*Stream, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at
		 FROM tooth_history_streams
		 WHERE patient_id = ? AND tooth_number = ? AND source = ?`,
		patient.String(), int(n), string(src))
	st, err := scanStreamSQL(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tooth %d %s", ErrStreamNotFound, n, src)
	}
	if err != nil {
		return nil, fmt.Errorf("stream get: %w", err)
	}
	return st, nil
}

func (r *repoSQLite) GetByTooth(ctx context.Context, patient uuid.UUID, n tooth.Number) ([]*Stream, error) {
	return r.query(ctx,
		`SELECT patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at
		 FROM tooth_history_streams
		 WHERE patient_id = ? AND tooth_number = ? ORDER BY source`,
		patient.String(), int(n))
}

func (r *repoSQLite) ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Stream, error) {
	return r.query(ctx,
		`SELECT patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at
		 FROM tooth_history_streams
		 WHERE patient_id = ? ORDER BY tooth_number, source`, patient.String())
}

func (r *repoSQLite) ListAll(ctx context.Context) ([]*Stream, error) {
	return r.query(ctx,
		`SELECT patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at
		 FROM tooth_history_streams
		 ORDER BY patient_id, tooth_number, source`)
}

func (r *repoSQLite) query(ctx context.Context, q string, args ...interface{}) ([]*Stream, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("stream query: %w", err)
	}
	defer rows.Close()
	var results []*Stream
	for rows.Next() {
		st, err := scanStreamSQL(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}

func (r *repoSQLite) Save(ctx context.Context, s *Stream) error {
	statuses, descriptions, dates, err := encodeSequences(s)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tooth_history_streams
		   (patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (patient_id, tooth_number, source) DO UPDATE SET
		   statuses = excluded.statuses,
		   descriptions = excluded.descriptions,
		   dates = excluded.dates,
		   updated_at = excluded.updated_at`,
		s.PatientID.String(), int(s.Tooth), string(s.Source),
		string(statuses), string(descriptions), string(dates), now, now)
	if err != nil {
		return fmt.Errorf("stream save: %w", err)
	}
	s.UpdatedAt = now
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	return nil
}

func (r *repoSQLite) Delete(ctx context.Context, patient uuid.UUID, n tooth.Number, src tooth.Source) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tooth_history_streams
		 WHERE patient_id = ? AND tooth_number = ? AND source = ?`,
		patient.String(), int(n), string(src))
	if err != nil {
		return fmt.Errorf("stream delete: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStreamSQL(row scanner) (*Stream, error) {
	var (
		st                            Stream
		rawPatient, rawSource         string
		toothNumber                   int
		statuses, descriptions, dates string
	)
	err := row.Scan(&rawPatient, &toothNumber, &rawSource,
		&statuses, &descriptions, &dates, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if st.PatientID, err = uuid.Parse(rawPatient); err != nil {
		return nil, fmt.Errorf("stored stream: %w", err)
	}
	if st.Tooth, err = tooth.ParseNumber(toothNumber); err != nil {
		return nil, fmt.Errorf("stored stream: %w", err)
	}
	if st.Source, err = tooth.ParseSource(rawSource); err != nil {
		return nil, fmt.Errorf("stored stream: %w", err)
	}
	if err := decodeSequences(&st, []byte(statuses), []byte(descriptions), []byte(dates)); err != nil {
		return nil, err
	}
	return &st, st.CheckInvariant()
}
