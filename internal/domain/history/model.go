// Package history is the tooth history ledger: per (patient, tooth, source)
// append-only logs of status observations, the precedence-based current
// status derived from them, and the merged chronological timeline.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/tooth"
)

// ErrStreamNotFound is returned when no history stream exists for a
// (patient, tooth, source) key.
var ErrStreamNotFound = errors.New("history stream not found")

// Stream is one source's ordered log of status changes for one tooth. The
// three sequences are parallel: index i of each describes the same
// observation, oldest first. A stream never persists empty; it is created on
// the first append and removed when a rollback drains it. The "current"
// values are always the tails of the sequences, never stored separately.
type Stream struct {
	PatientID    uuid.UUID     `json:"patient_id"`
	Tooth        tooth.Number  `json:"tooth_number"`
	Source       tooth.Source  `json:"source"`
	Statuses     []string      `json:"statuses"`
	Descriptions []string      `json:"descriptions"`
	Dates        []time.Time   `json:"dates"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Len returns the number of recorded observations.
func (s *Stream) Len() int { return len(s.Statuses) }

// CurrentStatus returns the tail status, or "" for an empty stream.
func (s *Stream) CurrentStatus() string {
	if len(s.Statuses) == 0 {
		return ""
	}
	return s.Statuses[len(s.Statuses)-1]
}

// CurrentDescription returns the tail description, or "" for an empty stream.
func (s *Stream) CurrentDescription() string {
	if len(s.Descriptions) == 0 {
		return ""
	}
	return s.Descriptions[len(s.Descriptions)-1]
}

// CurrentDate returns the tail observation date, or the zero time for an
// empty stream.
func (s *Stream) CurrentDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// CheckInvariant verifies the three sequences are index-aligned.
func (s *Stream) CheckInvariant() error {
	if len(s.Statuses) != len(s.Descriptions) || len(s.Statuses) != len(s.Dates) {
		return fmt.Errorf("parallel sequences out of alignment: statuses=%d descriptions=%d dates=%d",
			len(s.Statuses), len(s.Descriptions), len(s.Dates))
	}
	return nil
}

// Summary condenses a stream for current-status views.
type Summary struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Entries     int       `json:"entries"`
}

// Summarize returns the stream's tail view, or nil for a nil stream.
func (s *Stream) Summarize() *Summary {
	if s == nil || s.Len() == 0 {
		return nil
	}
	return &Summary{
		Status:      s.CurrentStatus(),
		Description: s.CurrentDescription(),
		Date:        s.CurrentDate(),
		Entries:     s.Len(),
	}
}

// FullHistory holds both opinion streams for one tooth. Either side may be
// nil when that source has never recorded anything.
type FullHistory struct {
	PatientReported *Stream `json:"patient_reported,omitempty"`
	DoctorDiagnosed *Stream `json:"doctor_diagnosed,omitempty"`
}

// TimelineEntry is one event in the merged chronological view. It is derived
// on every read from the authoritative sequences and never stored. Index is
// the entry's position in its originating stream, so (Source, Index)
// identifies the underlying observation.
type TimelineEntry struct {
	Date        time.Time    `json:"date"`
	Source      tooth.Source `json:"source"`
	Status      string       `json:"status"`
	Description string       `json:"description"`
	Index       int          `json:"index"`
}

// Stats aggregates ledger contents for dashboards.
type Stats struct {
	TotalEntries    int `json:"total_entries"`
	PatientReported int `json:"patient_reported"`
	DoctorDiagnosed int `json:"doctor_diagnosed"`
	RecentEntries   int `json:"recent_entries"` // last 30 days
}
