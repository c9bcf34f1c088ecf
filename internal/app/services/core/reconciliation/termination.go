package reconciliation

import (
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/utils"
)

// TerminationDecision is the outcome of evaluating whether a payee's chain
// must be explicitly closed.
type TerminationDecision struct {
	Terminate     bool
	EffectiveFrom time.Time
}

// EvaluateTermination decides whether the chain must be closed from the
// given change date. The changeDate is the first date from which the target
// timeline diverges from transmitted history; nil when no such date exists.
// cessation is true when the upstream signal itself is a cessation.
//
// The rule branches on whether the chain's newest transmitted line is a
// termination line or a content line. The two encode "last known effective
// date" differently: a termination line's From is the date the chain stops
// paying, a content line's To is the last date it pays through. The
// asymmetry below follows from that and must not be "simplified".
func EvaluateTermination(hist models.ChainHistory, changeDate *time.Time, cessation bool) TerminationDecision {
	// Nothing transmitted, nothing to close.
	if len(hist.Lines) == 0 {
		return TerminationDecision{}
	}

	if changeDate == nil {
		if !cessation {
			return TerminationDecision{}
		}
		// Ceasing without a divergence date: close forward from the day
		// after the last paid date.
		if end, ok := hist.LatestEnd(); ok {
			return TerminationDecision{Terminate: true, EffectiveFrom: utils.NextDay(end)}
		}
		first, _ := hist.FirstCoveredDate()
		return TerminationDecision{Terminate: true, EffectiveFrom: utils.TruncateToDay(first)}
	}

	date := utils.TruncateToDay(*changeDate)

	// An explicitly ceased chain stays ceased: re-affirm idempotently.
	if hist.Terminated {
		return TerminationDecision{Terminate: true, EffectiveFrom: date}
	}

	last := hist.LastLine()
	if last.Status == models.LineStatusTerminated {
		// Already closed: close again only when the new change reaches
		// further back than the existing closure.
		if date.Before(utils.TruncateToDay(last.From)) {
			return TerminationDecision{Terminate: true, EffectiveFrom: date}
		}
		return TerminationDecision{}
	}

	// Tail is a content line: terminate only when the change invalidates
	// something already paid through that line's end date. A change strictly
	// after the last paid date undoes nothing.
	if !utils.DayAfter(date, last.To) {
		return TerminationDecision{Terminate: true, EffectiveFrom: date}
	}
	return TerminationDecision{}
}
