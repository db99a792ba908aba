package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/dentio/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a PostgreSQL-backed catalog repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if q := db.QueryableFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const statusColumns = `id, COALESCE(code,''), display, category, COALESCE(color,''),
	        active, sort_order, COALESCE(created_by,''), created_at, updated_at`

func scanStatus(row pgx.Row) (*Status, error) {
	var st Status
	err := row.Scan(&st.ID, &st.Code, &st.Display, &st.Category, &st.Color,
		&st.Active, &st.SortOrder, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// isUniqueViolation reports whether err is a primary-key or unique-index
// collision (SQLSTATE 23505). Two racing Registers both pass the existence
// check; the loser's insert must still surface as a duplicate.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repoPG) Insert(ctx context.Context, s *Status) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO statuses (id, code, display, category, color, active, sort_order, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Code, s.Display, s.Category, s.Color, s.Active, s.SortOrder, s.CreatedBy)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateStatus, s.ID)
	}
	if err != nil {
		return fmt.Errorf("status insert: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Status, error) {
	st, err := scanStatus(r.conn(ctx).QueryRow(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, id)
	}
	if err != nil {
		return nil, fmt.Errorf("status get: %w", err)
	}
	return st, nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter) ([]*Status, error) {
	query := `SELECT ` + statusColumns + ` FROM statuses WHERE 1=1`
	args := []interface{}{}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	query += " ORDER BY sort_order, display"

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("status list: %w", err)
	}
	defer rows.Close()
	var results []*Status
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}

func (r *repoPG) Search(ctx context.Context, term string, limit int) ([]*Status, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + term + "%"
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+statusColumns+` FROM statuses
		 WHERE id ILIKE $1 OR display ILIKE $1 OR code ILIKE $1
		 ORDER BY sort_order, display LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("status search: %w", err)
	}
	defer rows.Close()
	var results []*Status
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}

func (r *repoPG) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE statuses SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return false, fmt.Errorf("status set active: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
