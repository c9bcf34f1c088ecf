package models

import "time"

type LineStatus string

const (
	LineStatusNew        LineStatus = "NEW"
	LineStatusChanged    LineStatus = "CHANGED"
	LineStatusUnchanged  LineStatus = "UNCHANGED"
	LineStatusTerminated LineStatus = "TERMINATED"
)

// OrderLine is one transmitted (or about-to-be-transmitted) payment-order
// line inside a chain. Lines are immutable once transmitted; a correction is
// always a new line appended to the same chain.
type OrderLine struct {
	Classification Classification `json:"classification"`
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	Amount         int64          `json:"amount"`
	Status         LineStatus     `json:"status"`
	// Position is the creation order within the chain. History is a log:
	// when lines overlap in time, the highest position wins.
	Position int `json:"position"`
}

// OverlapsOrAbuts reports whether the line's date range overlaps the given
// range or touches it with no gap (day precision, inclusive bounds).
func (l OrderLine) OverlapsOrAbuts(from, to time.Time) bool {
	return !l.From.After(to.AddDate(0, 0, 1)) && !l.To.Before(from.AddDate(0, 0, -1))
}

// ChainHistory is the durable record of one payee's chain within a case:
// the case-scoped sequence number, the explicit-cessation flag, and every
// line ever transmitted, in creation order.
type ChainHistory struct {
	Payee      Payee
	Sequence   int64
	Terminated bool
	Lines      []OrderLine
}

// LinesFor returns the transmitted lines for one classification, in
// creation order.
func (h ChainHistory) LinesFor(c Classification) []OrderLine {
	var out []OrderLine
	for _, l := range h.Lines {
		if l.Classification == c {
			out = append(out, l)
		}
	}
	return out
}

// LastLine returns the most recently created line on the chain, or nil when
// nothing has been transmitted.
func (h ChainHistory) LastLine() *OrderLine {
	if len(h.Lines) == 0 {
		return nil
	}
	last := h.Lines[len(h.Lines)-1]
	return &last
}

// Classifications returns the distinct classifications present on the chain,
// in priority order.
func (h ChainHistory) Classifications() []Classification {
	seen := make(map[Classification]struct{})
	for _, l := range h.Lines {
		seen[l.Classification] = struct{}{}
	}
	var out []Classification
	for _, c := range AllClassifications {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// FirstCoveredDate returns the earliest From among transmitted content lines.
func (h ChainHistory) FirstCoveredDate() (time.Time, bool) {
	var first time.Time
	found := false
	for _, l := range h.Lines {
		if l.Status == LineStatusTerminated {
			continue
		}
		if !found || l.From.Before(first) {
			first = l.From
			found = true
		}
	}
	return first, found
}

// LatestEnd returns the latest To among transmitted content lines.
func (h ChainHistory) LatestEnd() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, l := range h.Lines {
		if l.Status == LineStatusTerminated {
			continue
		}
		if !found || l.To.After(latest) {
			latest = l.To
			found = true
		}
	}
	return latest, found
}
