package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/config"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/reconciliation"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type memHistoryRepo struct {
	chains map[string]models.ChainHistory
	next   int64
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{chains: make(map[string]models.ChainHistory)}
}

func (r *memHistoryRepo) HistoryFor(_ context.Context, _ string) (map[string]models.ChainHistory, error) {
	out := make(map[string]models.ChainHistory, len(r.chains))
	for k, v := range r.chains {
		v.Lines = append([]models.OrderLine(nil), v.Lines...)
		out[k] = v
	}
	return out, nil
}

func (r *memHistoryRepo) EnsureChain(_ context.Context, _ string, payee models.Payee) (int64, error) {
	if h, ok := r.chains[payee.Key()]; ok {
		return h.Sequence, nil
	}
	r.next++
	r.chains[payee.Key()] = models.ChainHistory{Payee: payee, Sequence: r.next}
	return r.next, nil
}

func (r *memHistoryRepo) Append(_ context.Context, _ string, payee models.Payee, _ int64, lines []models.OrderLine) error {
	h := r.chains[payee.Key()]
	h.Payee = payee
	h.Lines = append(h.Lines, lines...)
	r.chains[payee.Key()] = h
	return nil
}

func (r *memHistoryRepo) MarkTerminated(_ context.Context, _ string, payee models.Payee) error {
	h := r.chains[payee.Key()]
	h.Terminated = true
	r.chains[payee.Key()] = h
	return nil
}

type memStateRepo struct {
	states map[string]models.CaseSettlementState
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{states: make(map[string]models.CaseSettlementState)}
}

func (r *memStateRepo) FindByCaseID(_ context.Context, caseID string) (*models.CaseSettlementState, error) {
	s, ok := r.states[caseID]
	if !ok {
		return nil, nil
	}
	cp := s
	cp.Outstanding = append([]string(nil), s.Outstanding...)
	cp.Outcomes = append([]models.UnitOutcome(nil), s.Outcomes...)
	return &cp, nil
}

func (r *memStateRepo) FindByTransmissionID(_ context.Context, transmissionID string) (*models.CaseSettlementState, error) {
	for caseID, s := range r.states {
		if s.IsOutstanding(transmissionID) {
			return r.FindByCaseID(context.Background(), caseID)
		}
		for _, o := range s.Outcomes {
			if o.TransmissionID == transmissionID {
				return r.FindByCaseID(context.Background(), caseID)
			}
		}
	}
	return nil, nil
}

func (r *memStateRepo) Upsert(_ context.Context, state *models.CaseSettlementState) error {
	r.states[state.CaseID] = *state
	return nil
}

func (r *memStateRepo) Delete(_ context.Context, caseID string) error {
	delete(r.states, caseID)
	return nil
}

type fakeTimelineProvider struct {
	timeline models.Timeline
}

func (f *fakeTimelineProvider) GetTargetTimeline(_ context.Context, _ string) (*models.Timeline, error) {
	cp := f.timeline
	return &cp, nil
}

type fakeWorkflow struct {
	notified []models.SettlementStatus
}

func (f *fakeWorkflow) NotifySettlementOutcome(_ context.Context, _ string, status models.SettlementStatus) error {
	f.notified = append(f.notified, status)
	return nil
}

type fakePublisher struct {
	published []models.TransmissionUnit
	fail      bool
}

func (f *fakePublisher) PublishTransmission(_ context.Context, unit models.TransmissionUnit) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, unit)
	return nil
}

type fakeArchive struct {
	archived []string
}

func (f *fakeArchive) ArchiveTransmission(_ context.Context, unit models.TransmissionUnit, _ []byte) error {
	f.archived = append(f.archived, unit.ID)
	return nil
}

type fakeLocker struct {
	held map[string]string
	deny bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (f *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, string, error) {
	if f.deny {
		return false, "", nil
	}
	if _, ok := f.held[key]; ok {
		return false, "", nil
	}
	f.held[key] = "lock-" + key
	return true, f.held[key], nil
}

func (f *fakeLocker) Unlock(_ context.Context, key, _ string) error {
	delete(f.held, key)
	return nil
}

type fixture struct {
	uc       Usecase
	history  *memHistoryRepo
	states   *memStateRepo
	timeline *fakeTimelineProvider
	workflow *fakeWorkflow
	pub      *fakePublisher
	archive  *fakeArchive
	locker   *fakeLocker
}

func newFixture(timeline models.Timeline) *fixture {
	f := &fixture{
		history:  newMemHistoryRepo(),
		states:   newMemStateRepo(),
		timeline: &fakeTimelineProvider{timeline: timeline},
		workflow: &fakeWorkflow{},
		pub:      &fakePublisher{},
		archive:  &fakeArchive{},
		locker:   newFakeLocker(),
	}
	cfg := &config.InternalConfig{
		Settlement: config.Settlement{LockTTLInSeconds: 5},
	}
	engine := reconciliation.NewEngine(zap.NewNop(), reconciliation.Config{EmptyTimelineIsCessation: true})
	f.uc = NewSettlementUsecase(zap.NewNop(), cfg, engine, f.history, f.states, f.timeline, f.workflow, f.pub, f.archive, f.locker)
	return f
}

func singleSegmentTimeline(caseID string) models.Timeline {
	return models.Timeline{
		CaseID: caseID,
		Segments: []models.EntitlementSegment{
			{
				Payee:          models.ClaimantPayee(),
				Classification: models.ClassificationOrdinary,
				From:           day(2024, 1, 1),
				To:             day(2024, 3, 31),
				DailyAmount:    500,
			},
		},
	}
}

func TestSettleFirstAttempt(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	out, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)

	assert.Equal(t, models.SettlementStatusPending, out.Status)
	require.Len(t, out.TransmissionIDs, 1)
	require.Len(t, f.pub.published, 1)
	assert.Equal(t, out.TransmissionIDs[0], f.pub.published[0].ID)
	assert.Equal(t, f.pub.published[0].ID, f.archive.archived[0])

	state, err := f.states.FindByCaseID(context.Background(), "case-1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SettlementStatusPending, state.Status)
	assert.Equal(t, out.TransmissionIDs, state.Outstanding)

	// The emitted lines are part of durable history before anything is
	// published.
	hist, err := f.history.HistoryFor(context.Background(), "case-1")
	require.NoError(t, err)
	require.Len(t, hist[models.ClaimantPayee().Key()].Lines, 1)

	// The case lock is released afterwards.
	assert.Empty(t, f.locker.held)
}

func TestSettleRejectedWhileCaseLocked(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))
	f.locker.deny = true

	_, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	assert.Empty(t, f.pub.published)
}

func TestSettleRejectedWhileAttemptPending(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	_, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)

	_, err = f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	assert.Len(t, f.pub.published, 1)
}

func TestSettleNoDivergenceResolvesImmediately(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	// First attempt transmits and its receipt resolves positively.
	out, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)
	require.NoError(t, f.uc.OnReceipt(context.Background(), models.Receipt{
		TransmissionID: out.TransmissionIDs[0],
		Outcome:        models.ReceiptOutcomePositive,
	}))

	// Second attempt against unchanged history emits nothing and resolves
	// without waiting for any receipt.
	out, err = f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusPositive, out.Status)
	assert.Empty(t, out.TransmissionIDs)
	assert.Len(t, f.pub.published, 1)
	assert.Equal(t, []models.SettlementStatus{
		models.SettlementStatusPositive,
		models.SettlementStatusPositive,
	}, f.workflow.notified)
}

func TestOnReceiptResolvesWhenAllUnitsConfirmed(t *testing.T) {
	timeline := singleSegmentTimeline("case-1")
	timeline.Segments = append(timeline.Segments, models.EntitlementSegment{
		Payee:          models.EmployerPayee("999888777"),
		Classification: models.ClassificationEmployerRefund,
		From:           day(2024, 1, 1),
		To:             day(2024, 3, 31),
		DailyAmount:    300,
	})
	f := newFixture(timeline)

	out, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)
	require.Len(t, out.TransmissionIDs, 2)

	require.NoError(t, f.uc.OnReceipt(context.Background(), models.Receipt{
		TransmissionID: out.TransmissionIDs[0],
		Outcome:        models.ReceiptOutcomePositive,
	}))

	state, err := f.uc.GetSettlementState(context.Background(), "case-1")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusPending, state.Status)
	assert.Len(t, state.Outstanding, 1)
	assert.Empty(t, f.workflow.notified)

	// A warning still counts as accepted.
	require.NoError(t, f.uc.OnReceipt(context.Background(), models.Receipt{
		TransmissionID: out.TransmissionIDs[1],
		Outcome:        models.ReceiptOutcomeWarning,
		Code:           "W-042",
	}))

	state, err = f.uc.GetSettlementState(context.Background(), "case-1")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusPositive, state.Status)
	assert.Empty(t, state.Outstanding)
	assert.Equal(t, []models.SettlementStatus{models.SettlementStatusPositive}, f.workflow.notified)
}

func TestOnReceiptDuplicateIsNoOp(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	out, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)

	receipt := models.Receipt{
		TransmissionID: out.TransmissionIDs[0],
		Outcome:        models.ReceiptOutcomePositive,
	}
	require.NoError(t, f.uc.OnReceipt(context.Background(), receipt))
	require.NoError(t, f.uc.OnReceipt(context.Background(), receipt))

	state, err := f.uc.GetSettlementState(context.Background(), "case-1")
	require.NoError(t, err)
	assert.Len(t, state.Outcomes, 1)
	assert.Equal(t, []models.SettlementStatus{models.SettlementStatusPositive}, f.workflow.notified)
}

func TestOnReceiptUnknownTransmission(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	err := f.uc.OnReceipt(context.Background(), models.Receipt{
		TransmissionID: "no-such-transmission",
		Outcome:        models.ReceiptOutcomePositive,
	})
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
}

func TestOnReceiptInvalidOutcome(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	err := f.uc.OnReceipt(context.Background(), models.Receipt{
		TransmissionID: "whatever",
		Outcome:        "maybe",
	})
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
}

func TestNegativeReceiptThenResettle(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	out, err := f.uc.Settle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)

	require.NoError(t, f.uc.OnReceipt(context.Background(), models.Receipt{
		TransmissionID: out.TransmissionIDs[0],
		Outcome:        models.ReceiptOutcomeNegative,
		Code:           "E-101",
		Message:        "unknown classification on receiving side",
	}))

	state, err := f.uc.GetSettlementState(context.Background(), "case-1")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusNegative, state.Status)
	assert.Equal(t, []models.SettlementStatus{models.SettlementStatusNegative}, f.workflow.notified)

	// Resettle discards the failed attempt. The lines already in history
	// match the target, so the fresh attempt resolves immediately.
	reOut, err := f.uc.RequestResettle(context.Background(), &SettleInput{CaseID: "case-1"})
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusPositive, reOut.Status)
	assert.NotEqual(t, out.AttemptID, reOut.AttemptID)
}

func TestGetSettlementStateNotFound(t *testing.T) {
	f := newFixture(singleSegmentTimeline("case-1"))

	_, err := f.uc.GetSettlementState(context.Background(), "case-1")
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
}
