package history

import (
	"context"
	"encoding/json"
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

// NewRepoPG creates a PostgreSQL-backed stream repository. The three parallel
// sequences are stored as JSONB columns so one row is always one whole stream
// and the arrays can never drift apart under concurrent writers.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if q := db.QueryableFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const streamColumns = `patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at`

func scanStream(row pgx.Row) (*Stream, error) {
	var (
		st                            Stream
		toothNumber                   int
		source                        string
		statuses, descriptions, dates []byte
	)
	err := row.Scan(&st.PatientID, &toothNumber, &source,
		&statuses, &descriptions, &dates, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if st.Tooth, err = tooth.ParseNumber(toothNumber); err != nil {
		return nil, fmt.Errorf("stored stream: %w", err)
	}
	if st.Source, err = tooth.ParseSource(source); err != nil {
		return nil, fmt.Errorf("stored stream: %w", err)
	}
	if err := decodeSequences(&st, statuses, descriptions, dates); err != nil {
		return nil, err
	}
	return &st, st.CheckInvariant()
}

func decodeSequences(s *Stream, statuses, descriptions, dates []byte) error {
	if err := json.Unmarshal(statuses, &s.Statuses); err != nil {
		return fmt.Errorf("decode statuses: %w", err)
	}
	if err := json.Unmarshal(descriptions, &s.Descriptions); err != nil {
		return fmt.Errorf("decode descriptions: %w", err)
	}
	if err := json.Unmarshal(dates, &s.Dates); err != nil {
		return fmt.Errorf("decode dates: %w", err)
	}
	return nil
}

func encodeSequences(s *Stream) (statuses, descriptions, dates []byte, err error) {
	if statuses, err = json.Marshal(s.Statuses); err != nil {
		return nil, nil, nil, fmt.Errorf("encode statuses: %w", err)
	}
	if descriptions, err = json.Marshal(s.Descriptions); err != nil {
		return nil, nil, nil, fmt.Errorf("encode descriptions: %w", err)
	}
	if dates, err = json.Marshal(s.Dates); err != nil {
		return nil, nil, nil, fmt.Errorf("encode dates: %w", err)
	}
	return statuses, descriptions, dates, nil
}

func (r *repoPG) Get(ctx context.Context, patient uuid.UUID, n tooth.Number, src tooth.Source) (*Stream, error) {
	st, err := scanStream(r.conn(ctx).QueryRow(ctx,
		`SELECT `+streamColumns+` FROM tooth_history_streams
		 WHERE patient_id = $1 AND tooth_number = $2 AND source = $3`,
		patient, int(n), string(src)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: tooth %d %s", ErrStreamNotFound, n, src)
	}
	if err != nil {
		return nil, fmt.Errorf("stream get: %w", err)
	}
	return st, nil
}

func (r *repoPG) GetByTooth(ctx context.Context, patient uuid.UUID, n tooth.Number) ([]*Stream, error) {
	return r.query(ctx,
		`SELECT `+streamColumns+` FROM tooth_history_streams
		 WHERE patient_id = $1 AND tooth_number = $2 ORDER BY source`,
		patient, int(n))
}

func (r *repoPG) ListByPatient(ctx context.Context, patient uuid.UUID) ([]*Stream, error) {
	return r.query(ctx,
		`SELECT `+streamColumns+` FROM tooth_history_streams
		 WHERE patient_id = $1 ORDER BY tooth_number, source`, patient)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Stream, error) {
	return r.query(ctx,
		`SELECT `+streamColumns+` FROM tooth_history_streams
		 ORDER BY patient_id, tooth_number, source`)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Stream, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("stream query: %w", err)
	}
	defer rows.Close()
	var results []*Stream
	for rows.Next() {
		st, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}

func (r *repoPG) Save(ctx context.Context, s *Stream) error {
	statuses, descriptions, dates, err := encodeSequences(s)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.conn(ctx).Exec(ctx,
		`INSERT INTO tooth_history_streams
		   (patient_id, tooth_number, source, statuses, descriptions, dates, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (patient_id, tooth_number, source) DO UPDATE SET
		   statuses = EXCLUDED.statuses,
		   descriptions = EXCLUDED.descriptions,
		   dates = EXCLUDED.dates,
		   updated_at = EXCLUDED.updated_at`,
		s.PatientID, int(s.Tooth), string(s.Source), statuses, descriptions, dates, now)
	if err != nil {
		return fmt.Errorf("stream save: %w", err)
	}
	s.UpdatedAt = now
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, patient uuid.UUID, n tooth.Number, src tooth.Source) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM tooth_history_streams
		 WHERE patient_id = $1 AND tooth_number = $2 AND source = $3`,
		patient, int(n), string(src))
	if err != nil {
		return fmt.Errorf("stream delete: %w", err)
	}
	return nil
}
