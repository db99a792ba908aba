// Package tooth defines the anatomical value types shared by the chart and
// history domains: FDI two-digit tooth numbers, quadrants, and the source of
// a recorded observation.
package tooth

import (
	"errors"
	"fmt"
)

// ErrInvalidToothNumber is returned when a tooth code falls outside the
// 32 valid FDI codes (11-18, 21-28, 31-38, 41-48).
var ErrInvalidToothNumber = errors.New("invalid tooth number")

// ErrInvalidSource is returned when an observation source is neither
// patient_reported nor doctor_diagnosed.
var ErrInvalidSource = errors.New("invalid observation source")

// Number is an FDI two-digit tooth code: quadrant (1-4) x 10 + position (1-8).
// Quadrant and position are always derived from the code, never stored
// separately.
type Number int

// ParseNumber validates a raw tooth code.
func ParseNumber(n int) (Number, error) {
	q := n / 10
	p := n % 10
	if q < 1 || q > 4 || p < 1 || p > 8 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidToothNumber, n)
	}
	return Number(n), nil
}

// Quadrant returns the quadrant digit (1-4).
func (n Number) Quadrant() Quadrant { return Quadrant(int(n) / 10) }

// Position returns the position within the quadrant (1-8), counted from the
// midline.
func (n Number) Position() int { return int(n) % 10 }

// Valid reports whether the code is one of the 32 standard teeth.
func (n Number) Valid() bool {
	_, err := ParseNumber(int(n))
	return err == nil
}

func (n Number) String() string { return fmt.Sprintf("%d", int(n)) }

// AllNumbers returns the fixed anatomical set of 32 tooth codes in quadrant
// order: 11-18, 21-28, 31-38, 41-48.
func AllNumbers() []Number {
	out := make([]Number, 0, 32)
	for q := 1; q <= 4; q++ {
		for p := 1; p <= 8; p++ {
			out = append(out, Number(q*10+p))
		}
	}
	return out
}

// Quadrant identifies one of the four mouth quadrants.
type Quadrant int

const (
	UpperRight Quadrant = 1
	UpperLeft  Quadrant = 2
	LowerLeft  Quadrant = 3
	LowerRight Quadrant = 4
)

// ParseQuadrant validates a raw quadrant digit.
func ParseQuadrant(q int) (Quadrant, error) {
	if q < 1 || q > 4 {
		return 0, fmt.Errorf("%w: quadrant %d", ErrInvalidToothNumber, q)
	}
	return Quadrant(q), nil
}

// Number combines the quadrant with a position (1-8) into a tooth code.
func (q Quadrant) Number(position int) (Number, error) {
	return ParseNumber(int(q)*10 + position)
}

func (q Quadrant) String() string {
	switch q {
	case UpperRight:
		return "upper_right"
	case UpperLeft:
		return "upper_left"
	case LowerLeft:
		return "lower_left"
	case LowerRight:
		return "lower_right"
	}
	return fmt.Sprintf("quadrant_%d", int(q))
}

// Source distinguishes the two independent opinion streams kept per tooth.
type Source string

const (
	// PatientReported marks an entry the patient described themselves.
	PatientReported Source = "patient_reported"
	// DoctorDiagnosed marks a clinical finding recorded by the doctor.
	DoctorDiagnosed Source = "doctor_diagnosed"
)

// ParseSource validates a raw source value.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case PatientReported, DoctorDiagnosed:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, s)
}

// Valid reports whether the source is one of the two known streams.
func (s Source) Valid() bool {
	_, err := ParseSource(string(s))
	return err == nil
}

// Sources returns both observation sources in declaration order.
func Sources() []Source {
	return []Source{PatientReported, DoctorDiagnosed}
}
