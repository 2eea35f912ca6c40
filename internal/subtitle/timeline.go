package subtitle

import (
	"fmt"
	"sort"
	"time"
)

// ActiveAt returns the entry visible at time t, selecting by predicate: the
// first entry in iteration order with StartTime <= t <= EndTime. Entries are
// conventionally sorted and non-overlapping, but neither is required; callers
// that need deterministic overlap resolution should pre-sort.
func ActiveAt(entries []Entry, t time.Duration) (*Entry, bool) {
	for i := range entries {
		if t >= entries[i].StartTime && t <= entries[i].EndTime {
			return &entries[i], true
		}
	}
	return nil, false
}

// SortByStart returns a copy of entries sorted by StartTime, with indices
// renumbered from 1. The input is not modified.
func SortByStart(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	for i := range sorted {
		sorted[i].Index = i + 1
	}
	return sorted
}

// ValidateEntries rejects timelines that can never render correctly. It is the
// input check run before any resource-intensive work starts.
func ValidateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("timeline contains no entries")
	}
	for i, e := range entries {
		if e.StartTime < 0 {
			return fmt.Errorf("entry %d: negative start time %v", i, e.StartTime)
		}
		if e.EndTime <= e.StartTime {
			return fmt.Errorf(
				"entry %d: end %v is not after start %v",
				i,
				e.EndTime,
				e.StartTime,
			)
		}
	}
	return nil
}

// FromSegments converts transcription segments to timeline entries without
// any splitting or wrapping. Empty-text segments are dropped.
func FromSegments(segments []Segment) []Entry {
	entries := make([]Entry, 0, len(segments))
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		entries = append(entries, Entry{
			Index:     len(entries) + 1,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Text:      seg.Text,
		})
	}
	return entries
}
