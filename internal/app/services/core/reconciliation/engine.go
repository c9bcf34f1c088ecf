package reconciliation

import (
	"context"
	"sort"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/utils"

	"go.uber.org/zap"
)

// Config carries the engine's behavior toggles explicitly; the engine reads
// no ambient configuration.
type Config struct {
	// EmptyTimelineIsCessation treats a target timeline with no segments
	// for a previously paid payee as an upstream cessation signal for that
	// payee's chain.
	EmptyTimelineIsCessation bool
}

// ChainAllocator hands out chain sequence numbers. Allocation is
// side-effecting and at-most-once per (case, payee): re-running
// reconciliation for an unchanged case must not allocate new chains.
type ChainAllocator interface {
	EnsureChain(ctx context.Context, caseID string, payee models.Payee) (int64, error)
}

// Engine turns (history, target timeline) into the minimal list of
// transmission units that bring the external ledger in line with the target.
type Engine struct {
	log *zap.Logger
	cfg Config
}

func NewEngine(log *zap.Logger, cfg Config) *Engine {
	return &Engine{log: log, cfg: cfg}
}

// Reconcile diffs the target timeline against transmitted history and
// returns one transmission unit per payee with at least one resulting line.
// It is deterministic: identical inputs yield identical line sets and
// identical relative chain ordering. When target equals history it emits
// nothing.
//
// The timeline is validated before any chain is allocated, so a
// precondition violation leaves no partial side effects.
func (e *Engine) Reconcile(ctx context.Context, caseID string, history map[string]models.ChainHistory, timeline models.Timeline, cessation bool, alloc ChainAllocator) ([]models.TransmissionUnit, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	e.log.Info("reconciliation.Engine.Reconcile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCaseIDKey, caseID),
	)

	if err := timeline.Validate(); err != nil {
		return nil, exceptions.ErrTimelinePrecondition(err)
	}

	payees := e.unionPayees(history, timeline)

	var units []models.TransmissionUnit
	for _, payee := range payees {
		hist := history[payee.Key()]
		lines := e.diffPayee(hist, timeline, payee, cessation)
		if len(lines) == 0 {
			continue
		}

		sequence, err := alloc.EnsureChain(ctx, caseID, payee)
		if err != nil {
			return nil, err
		}

		ordered, err := SequenceLines(lines)
		if err != nil {
			return nil, err
		}
		for i := range ordered {
			ordered[i].Position = len(hist.Lines) + i + 1
		}

		e.log.Info("reconciliation.Engine.Reconcile emitting unit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCaseIDKey, caseID),
			zap.String(constvars.LoggingPayeeKey, payee.Key()),
			zap.Int64(constvars.LoggingChainSequenceKey, sequence),
			zap.Int(constvars.LoggingLineCountKey, len(ordered)),
		)

		units = append(units, models.TransmissionUnit{
			ID:            utils.GenerateTransmissionID(),
			CaseID:        caseID,
			Payee:         payee,
			ChainSequence: sequence,
			Lines:         ordered,
		})
	}

	e.log.Info("reconciliation.Engine.Reconcile finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCaseIDKey, caseID),
		zap.Int(constvars.LoggingUnitCountKey, len(units)),
	)
	return units, nil
}

// unionPayees collects every payee appearing in either history or the
// timeline, sorted by key for deterministic iteration.
func (e *Engine) unionPayees(history map[string]models.ChainHistory, timeline models.Timeline) []models.Payee {
	byKey := make(map[string]models.Payee)
	for k, h := range history {
		byKey[k] = h.Payee
	}
	for _, p := range timeline.Payees() {
		byKey[p.Key()] = p
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Payee, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

// diffPayee walks target segments against the payee's chain and produces
// the lines to transmit: NEW/CHANGED content lines for segments that differ
// from history, plus a TERMINATED line when the termination rule fires.
func (e *Engine) diffPayee(hist models.ChainHistory, timeline models.Timeline, payee models.Payee, cessation bool) []models.OrderLine {
	var out []models.OrderLine

	for _, c := range e.unionClassifications(hist, timeline, payee) {
		prior := hist.LinesFor(c)
		for _, seg := range timeline.SegmentsFor(payee, c) {
			candidate := models.OrderLine{
				Classification: c,
				From:           utils.TruncateToDay(seg.From),
				To:             utils.TruncateToDay(seg.To),
				Amount:         seg.DailyAmount,
			}
			switch Classify(candidate, prior) {
			case models.LineStatusNew:
				candidate.Status = models.LineStatusNew
				out = append(out, candidate)
			case models.LineStatusChanged:
				candidate.Status = models.LineStatusChanged
				out = append(out, candidate)
			}
		}
	}

	changeDate := e.changeDate(hist, timeline, payee)
	payeeCessation := cessation ||
		(e.cfg.EmptyTimelineIsCessation && len(hist.Lines) > 0 && len(timeline.ClassificationsFor(payee)) == 0)

	decision := EvaluateTermination(hist, changeDate, payeeCessation)
	if decision.Terminate {
		out = append(out, e.terminationLine(hist, decision.EffectiveFrom))
	}
	return out
}

// changeDate is the earliest date paid by transmitted history but absent
// from the target, across the payee's classifications; nil when target
// coverage fully contains history coverage.
func (e *Engine) changeDate(hist models.ChainHistory, timeline models.Timeline, payee models.Payee) *time.Time {
	var earliest *time.Time
	for _, c := range hist.Classifications() {
		histCov := effectiveCoverage(hist.LinesFor(c))
		targetCov := targetCoverage(timeline.SegmentsFor(payee, c))
		d := earliestDivergence(histCov, targetCov)
		if d == nil {
			continue
		}
		if earliest == nil || d.Before(*earliest) {
			earliest = d
		}
	}
	return earliest
}

// terminationLine closes the chain from the effective date. The line carries
// the classification of the newest content line and runs to the chain's last
// paid date; only the effective-from date is significant downstream.
func (e *Engine) terminationLine(hist models.ChainHistory, effectiveFrom time.Time) models.OrderLine {
	classification := hist.Lines[len(hist.Lines)-1].Classification
	for i := len(hist.Lines) - 1; i >= 0; i-- {
		if hist.Lines[i].Status != models.LineStatusTerminated {
			classification = hist.Lines[i].Classification
			break
		}
	}
	to := effectiveFrom
	if end, ok := hist.LatestEnd(); ok && end.After(to) {
		to = utils.TruncateToDay(end)
	}
	return models.OrderLine{
		Classification: classification,
		From:           effectiveFrom,
		To:             to,
		Amount:         0,
		Status:         models.LineStatusTerminated,
	}
}

func (e *Engine) unionClassifications(hist models.ChainHistory, timeline models.Timeline, payee models.Payee) []models.Classification {
	seen := make(map[models.Classification]struct{})
	for _, c := range hist.Classifications() {
		seen[c] = struct{}{}
	}
	for _, c := range timeline.ClassificationsFor(payee) {
		seen[c] = struct{}{}
	}
	var out []models.Classification
	for _, c := range models.AllClassifications {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
