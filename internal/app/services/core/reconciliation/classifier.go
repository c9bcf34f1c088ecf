package reconciliation

import (
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/utils"
)

// Classify determines the status of one candidate line against the prior
// lines transmitted for the same (payee, classification), given in creation
// order.
//
// The comparison predecessor is the most recently created content line that
// overlaps or abuts the candidate in time. History is a log: when time-travel
// corrections make several lines plausible predecessors, the newest write
// wins regardless of the dates it covers. Termination lines never act as
// content comparators.
func Classify(candidate models.OrderLine, prior []models.OrderLine) models.LineStatus {
	if len(prior) == 0 {
		return models.LineStatusNew
	}

	comparison := latestContentLine(candidate, prior)
	if comparison == nil {
		// Prior lines exist but none pays content near the candidate's
		// range: the chain continues with a corrected period.
		return models.LineStatusChanged
	}

	if utils.SameDay(comparison.From, candidate.From) &&
		utils.SameDay(comparison.To, candidate.To) &&
		comparison.Amount == candidate.Amount {
		return models.LineStatusUnchanged
	}
	return models.LineStatusChanged
}

func latestContentLine(candidate models.OrderLine, prior []models.OrderLine) *models.OrderLine {
	// Walk backwards: creation order breaks ties, newest first.
	for i := len(prior) - 1; i >= 0; i-- {
		l := prior[i]
		if l.Status == models.LineStatusTerminated {
			continue
		}
		if l.OverlapsOrAbuts(candidate.From, candidate.To) {
			return &l
		}
	}
	return nil
}
