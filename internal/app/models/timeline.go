package models

import (
	"fmt"
	"sort"
	"time"
)

// EntitlementSegment is one slice of the externally computed target state:
// what should be paid to a payee, for a classification, over a date range.
type EntitlementSegment struct {
	Payee          Payee          `json:"payee"`
	Classification Classification `json:"classification"`
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	DailyAmount    int64          `json:"daily_amount"`
}

// Timeline is the authoritative target state for a case, produced by the
// upstream benefit calculation and treated as read-only here.
type Timeline struct {
	CaseID   string               `json:"case_id"`
	Segments []EntitlementSegment `json:"segments"`
}

// Validate checks the reconciliation preconditions: valid payees, known
// classifications, well-formed ranges, non-negative amounts and no overlap
// between segments of the same (payee, classification). A violation here is
// fatal and must be rejected before any side effect.
func (t Timeline) Validate() error {
	byKey := make(map[string][]EntitlementSegment)
	for i, s := range t.Segments {
		if err := s.Payee.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if !s.Classification.Valid() {
			return fmt.Errorf("segment %d: unknown classification %q", i, s.Classification)
		}
		if s.From.After(s.To) {
			return fmt.Errorf("segment %d: range start %s after end %s", i, s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
		}
		if s.DailyAmount < 0 {
			return fmt.Errorf("segment %d: negative amount %d", i, s.DailyAmount)
		}
		k := s.Payee.Key() + "/" + string(s.Classification)
		byKey[k] = append(byKey[k], s)
	}

	for k, segs := range byKey {
		sort.Slice(segs, func(i, j int) bool { return segs[i].From.Before(segs[j].From) })
		for i := 1; i < len(segs); i++ {
			if !segs[i].From.After(segs[i-1].To) {
				return fmt.Errorf("overlapping segments for %s around %s", k, segs[i].From.Format("2006-01-02"))
			}
		}
	}
	return nil
}

// Payees returns the distinct payees on the timeline, sorted by key.
func (t Timeline) Payees() []Payee {
	seen := make(map[string]Payee)
	for _, s := range t.Segments {
		seen[s.Payee.Key()] = s.Payee
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Payee, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// SegmentsFor returns the segments for one (payee, classification) in date
// order.
func (t Timeline) SegmentsFor(p Payee, c Classification) []EntitlementSegment {
	var out []EntitlementSegment
	for _, s := range t.Segments {
		if s.Payee.Key() == p.Key() && s.Classification == c {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From.Before(out[j].From) })
	return out
}

// ClassificationsFor returns the classifications present for a payee, in
// priority order.
func (t Timeline) ClassificationsFor(p Payee) []Classification {
	seen := make(map[Classification]struct{})
	for _, s := range t.Segments {
		if s.Payee.Key() == p.Key() {
			seen[s.Classification] = struct{}{}
		}
	}
	var out []Classification
	for _, c := range AllClassifications {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
