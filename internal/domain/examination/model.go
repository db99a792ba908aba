// Package examination records clinic visits. Creating an examination also
// lays out its dental chart, so the chart is ready before the first finding
// is entered.
package examination

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrExaminationNotFound is returned when no examination matches the id.
var ErrExaminationNotFound = errors.New("examination not found")

// Examination is one clinic visit of a patient.
type Examination struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Date           time.Time `db:"examination_date" json:"examination_date"`
	ChiefComplaint string    `db:"chief_complaint" json:"chief_complaint"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Validate checks the fields a caller must supply.
func (e *Examination) Validate() error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	return nil
}
