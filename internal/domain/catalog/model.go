// Package catalog is the registry of tooth status identifiers: the predefined
// clinical seed set plus user-defined statuses. The ledger validates status
// codes against it at write time; the resolver consults it for display
// metadata at read time.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateStatus is returned when registering an identifier that already
// exists (case-sensitive exact match).
var ErrDuplicateStatus = errors.New("duplicate status identifier")

// ErrUnknownStatus is returned when resolving an identifier the catalog does
// not contain.
var ErrUnknownStatus = errors.New("unknown status identifier")

// DefaultStatus is the status assumed for any tooth with no recorded history.
const DefaultStatus = "normal"

// Status categories. User-defined statuses default to CategoryCustom.
const (
	CategoryHealthy     = "healthy"
	CategoryDecay       = "decay"
	CategoryRestoration = "restoration"
	CategoryProsthetic  = "prosthetic"
	CategoryEndodontic  = "endodontic"
	CategoryPeriodontal = "periodontal"
	CategoryMissing     = "missing"
	CategoryOrthodontic = "orthodontic"
	CategoryTrauma      = "trauma"
	CategoryAnomaly     = "anomaly"
	CategoryPlanned     = "planned"
	CategoryOther       = "other"
	CategoryCustom      = "custom"
)

var categories = map[string]bool{
	CategoryHealthy:     true,
	CategoryDecay:       true,
	CategoryRestoration: true,
	CategoryProsthetic:  true,
	CategoryEndodontic:  true,
	CategoryPeriodontal: true,
	CategoryMissing:     true,
	CategoryOrthodontic: true,
	CategoryTrauma:      true,
	CategoryAnomaly:     true,
	CategoryPlanned:     true,
	CategoryOther:       true,
	CategoryCustom:      true,
}

// ValidCategory reports whether c is one of the fixed category values.
func ValidCategory(c string) bool { return categories[c] }

// Status is one entry in the catalog. The identifier is the unique key other
// records reference; it is immutable once history entries point at it, so
// statuses are deactivated rather than deleted.
type Status struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code,omitempty"`
	Display   string    `db:"display" json:"display"`
	Category  string    `db:"category" json:"category"`
	Color     string    `db:"color" json:"color,omitempty"`
	Active    bool      `db:"active" json:"active"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedBy string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Validate checks the fields a caller controls before registration.
func (s *Status) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("status identifier is required")
	}
	if s.Display == "" {
		return fmt.Errorf("status display name is required")
	}
	if s.Category == "" {
		s.Category = CategoryCustom
	}
	if !ValidCategory(s.Category) {
		return fmt.Errorf("invalid status category: %q", s.Category)
	}
	return nil
}

// ListFilter narrows List results. Nil fields mean no constraint.
type ListFilter struct {
	Category *string
	Active   *bool
}
