package catalog

import "context"

// Repository provides storage for catalog statuses keyed by identifier.
type Repository interface {
	Insert(ctx context.Context, s *Status) error
	GetByID(ctx context.Context, id string) (*Status, error)
	List(ctx context.Context, filter ListFilter) ([]*Status, error)
	Search(ctx context.Context, term string, limit int) ([]*Status, error)
	SetActive(ctx context.Context, id string, active bool) (bool, error)
}
