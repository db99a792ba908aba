package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type repoSQLite struct{ db *sql.DB }

// NewRepoSQLite creates a catalog repository over the embedded sqlite
// database.
func NewRepoSQLite(sqldb *sql.DB) Repository { return &repoSQLite{db: sqldb} }

const statusColumnsSQL = `id, code, display, category, color, active, sort_order, created_by, created_at, updated_at`

type sqlScanner interface {
	Scan(dest ...interface{}) error
}

func scanStatusSQL(row sqlScanner) (*Status, error) {
	var st Status
	err := row.Scan(&st.ID, &st.Code, &st.Display, &st.Category, &st.Color,
		&st.Active, &st.SortOrder, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// isConstraintViolation matches the modernc driver's primary-key and unique
// constraint failures, which surface only as error text.
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

func (r *repoSQLite) Insert(ctx context.Context, s *Status) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO statuses (id, code, display, category, color, active, sort_order, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Code, s.Display, s.Category, s.Color, s.Active, s.SortOrder, s.CreatedBy, now, now)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateStatus, s.ID)
	}
	if err != nil {
		return fmt.Errorf("status insert: %w", err)
	}
	return nil
}

func (r *repoSQLite) GetByID(ctx context.Context, id string) (*Status, error) {
	st, err := scanStatusSQL(r.db.QueryRowContext(ctx,
		`SELECT `+statusColumnsSQL+` FROM statuses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, id)
	}
	if err != nil {
		return nil, fmt.Errorf("status get: %w", err)
	}
	return st, nil
}

func (r *repoSQLite) List(ctx context.Context, filter ListFilter) ([]*Status, error) {
	query := `SELECT ` + statusColumnsSQL + ` FROM statuses WHERE 1=1`
	args := []interface{}{}
	if filter.Category != nil {
		query += ` AND category = ?`
		args = append(args, *filter.Category)
	}
	if filter.Active != nil {
		query += ` AND active = ?`
		args = append(args, *filter.Active)
	}
	query += ` ORDER BY sort_order, display`
	return r.query(ctx, query, args...)
}

func (r *repoSQLite) Search(ctx context.Context, term string, limit int) ([]*Status, error) {
	if limit <= 0 {
		limit = 20
	}
	// sqlite LIKE is already case-insensitive for ASCII.
	pattern := "%" + strings.ToLower(term) + "%"
	return r.query(ctx,
		`SELECT `+statusColumnsSQL+` FROM statuses
		 WHERE lower(id) LIKE ? OR lower(display) LIKE ? OR lower(code) LIKE ?
		 ORDER BY sort_order, display LIMIT ?`, pattern, pattern, pattern, limit)
}

func (r *repoSQLite) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE statuses SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("status set active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("status set active: %w", err)
	}
	return n > 0, nil
}

func (r *repoSQLite) query(ctx context.Context, q string, args ...interface{}) ([]*Status, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("status query: %w", err)
	}
	defer rows.Close()
	var results []*Status
	for rows.Next() {
		st, err := scanStatusSQL(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}
