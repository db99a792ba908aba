package history

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/tooth"
)

// Timeline flattens both opinion streams of a tooth into one chronological
// view, newest first. Entries sharing a date keep patient-reported before
// doctor-diagnosed. The view is derived on every call and never persisted.
func (s *Service) Timeline(ctx context.Context, patient uuid.UUID, toothNumber int) ([]TimelineEntry, error) {
	n, err := tooth.ParseNumber(toothNumber)
	if err != nil {
		return nil, err
	}
	streams, err := s.repo.GetByTooth(ctx, patient, n)
	if err != nil {
		return nil, fmt.Errorf("load streams: %w", err)
	}

	// Patient entries are collected first so the stable sort keeps them
	// ahead of doctor entries on equal dates.
	var entries []TimelineEntry
	for _, src := range []tooth.Source{tooth.PatientReported, tooth.DoctorDiagnosed} {
		for _, st := range streams {
			if st.Source != src {
				continue
			}
			for i := 0; i < st.Len(); i++ {
				entries = append(entries, TimelineEntry{
					Date:        st.Dates[i],
					Source:      st.Source,
					Status:      st.Statuses[i],
					Description: st.Descriptions[i],
					Index:       i,
				})
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if entries == nil {
		entries = []TimelineEntry{}
	}
	return entries, nil
}
