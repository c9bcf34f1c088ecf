package reconciliation

import (
	"sort"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"
)

// SequenceLines orders the lines of one transmission unit the way the
// downstream ledger requires: ascending classification priority, then by
// date range. The priority table is exhaustive over the closed
// classification set; an unknown code is a programmer error and fails before
// any side effect.
func SequenceLines(lines []models.OrderLine) ([]models.OrderLine, error) {
	for _, l := range lines {
		if !l.Classification.Valid() {
			return nil, exceptions.ErrUnknownClassification(string(l.Classification))
		}
	}

	out := make([]models.OrderLine, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool {
		pi, _ := out[i].Classification.Priority()
		pj, _ := out[j].Classification.Priority()
		if pi != pj {
			return pi < pj
		}
		if !out[i].From.Equal(out[j].From) {
			return out[i].From.Before(out[j].From)
		}
		return out[i].To.Before(out[j].To)
	})
	return out, nil
}
