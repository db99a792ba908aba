package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/tooth"
)

// StatusResolver validates status identifiers on write and supplies display
// metadata on read. Satisfied by *catalog.Service.
type StatusResolver interface {
	Resolve(ctx context.Context, id string) (*catalog.Status, error)
}

// Clock supplies the default observation date for appends. Injected so tests
// control time; §production uses the wall clock at day granularity.
type Clock interface {
	Today() time.Time
}

type wallClock struct{}

func (wallClock) Today() time.Time { return DateOf(time.Now()) }

// DateOf truncates a timestamp to its UTC calendar day. Observation dates
// carry day granularity only.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type streamKey struct {
	patient uuid.UUID
	tooth   tooth.Number
	source  tooth.Source
}

// Service is the tooth history ledger. Appends and rollbacks for the same
// (patient, tooth, source) key are serialized through a per-key lock so the
// read-modify-write of the parallel sequences keeps one consistent tail;
// operations on different keys proceed independently.
type Service struct {
	repo     Repository
	statuses StatusResolver
	clock    Clock

	mu    sync.Mutex
	locks map[streamKey]*sync.Mutex
}

// NewService creates a new ledger service.
func NewService(repo Repository, statuses StatusResolver) *Service {
	return &Service{
		repo:     repo,
		statuses: statuses,
		clock:    wallClock{},
		locks:    make(map[streamKey]*sync.Mutex),
	}
}

// SetClock replaces the date source, primarily for tests.
func (s *Service) SetClock(c Clock) { s.clock = c }

func (s *Service) lock(k streamKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[k]
	if !ok {
		l = &sync.Mutex{}
		s.locks[k] = l
	}
	return l
}

// Append records one observation on the (patient, tooth, source) stream,
// creating the stream on first use. The status must resolve in the catalog;
// validation happens before any write. A zero date defaults to today. The
// operation is deliberately not idempotent: the ledger records observations,
// not a set, so identical calls produce distinct entries.
func (s *Service) Append(ctx context.Context, patient uuid.UUID, toothNumber int, source string, status, description string, date time.Time) (*Stream, error) {
	n, err := tooth.ParseNumber(toothNumber)
	if err != nil {
		return nil, err
	}
	src, err := tooth.ParseSource(source)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return nil, fmt.Errorf("%w: empty status", catalog.ErrUnknownStatus)
	}
	if _, err := s.statuses.Resolve(ctx, status); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.clock.Today()
	} else {
		date = DateOf(date)
	}

	key := streamKey{patient, n, src}
	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	stream, err := s.repo.Get(ctx, patient, n, src)
	if errors.Is(err, ErrStreamNotFound) {
		stream = &Stream{PatientID: patient, Tooth: n, Source: src}
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stream: %w", err)
	}

	stream.Statuses = append(stream.Statuses, status)
	stream.Descriptions = append(stream.Descriptions, description)
	stream.Dates = append(stream.Dates, date)

	if err := stream.CheckInvariant(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, stream); err != nil {
		return nil, fmt.Errorf("save stream: %w", err)
	}
	return stream, nil
}

// RollbackLast removes the most recent observation from the stream, deleting
// the stream entirely when that was its only entry. Returns false without
// error when the stream does not exist. Only the tail is removable: the log
// stays gapless.
func (s *Service) RollbackLast(ctx context.Context, patient uuid.UUID, toothNumber int, source string) (bool, error) {
	n, err := tooth.ParseNumber(toothNumber)
	if err != nil {
		return false, err
	}
	src, err := tooth.ParseSource(source)
	if err != nil {
		return false, err
	}

	key := streamKey{patient, n, src}
	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	stream, err := s.repo.Get(ctx, patient, n, src)
	if errors.Is(err, ErrStreamNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load stream: %w", err)
	}

	if stream.Len() <= 1 {
		if err := s.repo.Delete(ctx, patient, n, src); err != nil {
			return false, fmt.Errorf("delete drained stream: %w", err)
		}
		return true, nil
	}

	last := stream.Len() - 1
	stream.Statuses = stream.Statuses[:last]
	stream.Descriptions = stream.Descriptions[:last]
	stream.Dates = stream.Dates[:last]

	if err := stream.CheckInvariant(); err != nil {
		return false, err
	}
	if err := s.repo.Save(ctx, stream); err != nil {
		return false, fmt.Errorf("save stream: %w", err)
	}
	return true, nil
}

// Read returns the streams for a tooth. With an empty source both streams
// are returned when present; with a concrete source, exactly that stream or
// ErrStreamNotFound.
func (s *Service) Read(ctx context.Context, patient uuid.UUID, toothNumber int, source string) ([]*Stream, error) {
	n, err := tooth.ParseNumber(toothNumber)
	if err != nil {
		return nil, err
	}
	if source == "" {
		return s.repo.GetByTooth(ctx, patient, n)
	}
	src, err := tooth.ParseSource(source)
	if err != nil {
		return nil, err
	}
	stream, err := s.repo.Get(ctx, patient, n, src)
	if err != nil {
		return nil, err
	}
	return []*Stream{stream}, nil
}

// FullHistory returns both opinion streams for a tooth, either possibly nil.
func (s *Service) FullHistory(ctx context.Context, patient uuid.UUID, toothNumber int) (*FullHistory, error) {
	n, err := tooth.ParseNumber(toothNumber)
	if err != nil {
		return nil, err
	}
	streams, err := s.repo.GetByTooth(ctx, patient, n)
	if err != nil {
		return nil, fmt.Errorf("load streams: %w", err)
	}
	fh := &FullHistory{}
	for _, st := range streams {
		switch st.Source {
		case tooth.PatientReported:
			fh.PatientReported = st
		case tooth.DoctorDiagnosed:
			fh.DoctorDiagnosed = st
		}
	}
	return fh, nil
}

// Statistics aggregates ledger totals, scoped to one patient when patient is
// non-nil. Recent means within the last 30 days of the service clock.
func (s *Service) Statistics(ctx context.Context, patient *uuid.UUID) (*Stats, error) {
	var (
		streams []*Stream
		err     error
	)
	if patient != nil {
		streams, err = s.repo.ListByPatient(ctx, *patient)
	} else {
		streams, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}

	cutoff := s.clock.Today().AddDate(0, 0, -30)
	stats := &Stats{}
	for _, st := range streams {
		stats.TotalEntries += st.Len()
		switch st.Source {
		case tooth.PatientReported:
			stats.PatientReported += st.Len()
		case tooth.DoctorDiagnosed:
			stats.DoctorDiagnosed += st.Len()
		}
		for _, d := range st.Dates {
			if !d.Before(cutoff) {
				stats.RecentEntries++
			}
		}
	}
	return stats, nil
}
