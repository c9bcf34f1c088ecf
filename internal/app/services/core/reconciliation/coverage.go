package reconciliation

import (
	"sort"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/utils"
)

// span is an inclusive date range at day precision.
type span struct {
	from time.Time
	to   time.Time
}

func (s span) valid() bool {
	return !s.from.After(s.to)
}

// overlay replaces the covered dates of cov that fall inside s with s.
// History is a log: a later write supersedes the overlapping part of every
// earlier one.
func overlay(cov []span, s span) []span {
	out := subtractSpan(cov, s)
	out = append(out, s)
	return normalize(out)
}

// removeFrom drops all coverage from the given date onward. This is how a
// termination line encodes "nothing is paid from this date".
func removeFrom(cov []span, from time.Time) []span {
	var out []span
	for _, c := range cov {
		if c.to.Before(from) {
			out = append(out, c)
			continue
		}
		if c.from.Before(from) {
			out = append(out, span{from: c.from, to: utils.PrevDay(from)})
		}
	}
	return normalize(out)
}

// subtractSpan removes s from every element of cov.
func subtractSpan(cov []span, s span) []span {
	var out []span
	for _, c := range cov {
		if c.to.Before(s.from) || c.from.After(s.to) {
			out = append(out, c)
			continue
		}
		if c.from.Before(s.from) {
			out = append(out, span{from: c.from, to: utils.PrevDay(s.from)})
		}
		if c.to.After(s.to) {
			out = append(out, span{from: utils.NextDay(s.to), to: c.to})
		}
	}
	return out
}

// subtract returns the dates covered by a but not by b.
func subtract(a, b []span) []span {
	out := a
	for _, s := range b {
		out = subtractSpan(out, s)
	}
	return normalize(out)
}

// normalize sorts spans and merges adjacent or overlapping ones.
func normalize(cov []span) []span {
	var in []span
	for _, c := range cov {
		if c.valid() {
			in = append(in, c)
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].from.Before(in[j].from) })
	out := []span{in[0]}
	for _, c := range in[1:] {
		last := &out[len(out)-1]
		if !c.from.After(utils.NextDay(last.to)) {
			if c.to.After(last.to) {
				last.to = c.to
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// effectiveCoverage folds a chain's transmitted lines for one classification
// into the set of dates currently considered paid. Lines apply in creation
// order: content lines overlay earlier coverage, termination lines cut all
// coverage from their effective date.
func effectiveCoverage(lines []models.OrderLine) []span {
	var cov []span
	for _, l := range lines {
		if l.Status == models.LineStatusTerminated {
			cov = removeFrom(cov, utils.TruncateToDay(l.From))
			continue
		}
		cov = overlay(cov, span{from: utils.TruncateToDay(l.From), to: utils.TruncateToDay(l.To)})
	}
	return cov
}

// targetCoverage is the set of dates the timeline wants paid for one
// (payee, classification).
func targetCoverage(segments []models.EntitlementSegment) []span {
	var cov []span
	for _, s := range segments {
		cov = append(cov, span{from: utils.TruncateToDay(s.From), to: utils.TruncateToDay(s.To)})
	}
	return normalize(cov)
}

// earliestDivergence returns the first date paid by history but absent from
// the target, or nil when target coverage fully contains history coverage.
func earliestDivergence(hist, target []span) *time.Time {
	gone := subtract(hist, target)
	if len(gone) == 0 {
		return nil
	}
	d := gone[0].from
	return &d
}
