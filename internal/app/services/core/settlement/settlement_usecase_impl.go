package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/config"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/reconciliation"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Usecase coordinates one settlement attempt per case: reconcile, persist,
// transmit, then collect asynchronous receipts until the attempt resolves.
type Usecase interface {
	// Settle runs a settlement attempt for a case. It is rejected while
	// another attempt for the same case is in flight.
	Settle(ctx context.Context, in *SettleInput) (*SettleOutput, error)
	// OnReceipt records one receipt. Receipts are delivered at-least-once;
	// duplicates and receipts for already resolved units are no-ops.
	OnReceipt(ctx context.Context, receipt models.Receipt) error
	// RequestResettle discards the case's settlement state and runs a fresh
	// attempt against current history.
	RequestResettle(ctx context.Context, in *SettleInput) (*SettleOutput, error)
	// GetSettlementState returns the case's current settlement aggregate.
	GetSettlementState(ctx context.Context, caseID string) (*models.CaseSettlementState, error)
}

type usecase struct {
	log         *zap.Logger
	cfg         *config.InternalConfig
	engine      *reconciliation.Engine
	historyRepo contracts.OrderHistoryRepository
	stateRepo   contracts.SettlementStateRepository
	timeline    contracts.TimelineProvider
	workflow    contracts.WorkflowNotifier
	publisher   contracts.LedgerPublisher
	archive     contracts.TransmissionArchive
	locker      contracts.LockerService
}

func NewSettlementUsecase(
	log *zap.Logger,
	cfg *config.InternalConfig,
	engine *reconciliation.Engine,
	historyRepo contracts.OrderHistoryRepository,
	stateRepo contracts.SettlementStateRepository,
	timelineProvider contracts.TimelineProvider,
	workflowNotifier contracts.WorkflowNotifier,
	publisher contracts.LedgerPublisher,
	archive contracts.TransmissionArchive,
	lockerSvc contracts.LockerService,
) Usecase {
	return &usecase{
		log:         log,
		cfg:         cfg,
		engine:      engine,
		historyRepo: historyRepo,
		stateRepo:   stateRepo,
		timeline:    timelineProvider,
		workflow:    workflowNotifier,
		publisher:   publisher,
		archive:     archive,
		locker:      lockerSvc,
	}
}

// SettleInput identifies the case and whether the benefit was explicitly
// ceased upstream.
type SettleInput struct {
	CaseID    string `validate:"required"`
	Cessation bool
}

// SettleOutput reports the attempt created by a settlement run.
type SettleOutput struct {
	CaseID          string                  `json:"case_id"`
	AttemptID       string                  `json:"attempt_id"`
	Status          models.SettlementStatus `json:"status"`
	TransmissionIDs []string                `json:"transmission_ids"`
}

func (u *usecase) Settle(ctx context.Context, in *SettleInput) (*SettleOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.log.Info("SettlementUsecase.Settle called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCaseIDKey, in.CaseID),
	)

	lockValue, err := u.lockCase(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}
	defer u.unlockCase(ctx, in.CaseID, lockValue)

	return u.settleLocked(ctx, in)
}

func (u *usecase) RequestResettle(ctx context.Context, in *SettleInput) (*SettleOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.log.Info("SettlementUsecase.RequestResettle called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCaseIDKey, in.CaseID),
	)

	lockValue, err := u.lockCase(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}
	defer u.unlockCase(ctx, in.CaseID, lockValue)

	// The previous attempt's aggregate is abandoned wholesale; late receipts
	// for its units will no longer resolve against anything.
	if err := u.stateRepo.Delete(ctx, in.CaseID); err != nil {
		return nil, err
	}

	return u.settleLocked(ctx, in)
}

// settleLocked runs one reconciliation attempt. The caller holds the case
// lock.
func (u *usecase) settleLocked(ctx context.Context, in *SettleInput) (*SettleOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	existing, err := u.stateRepo.FindByCaseID(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.SettlementStatusPending {
		return nil, exceptions.ErrSettlementConflict(
			fmt.Errorf("case %s has attempt %s with %d outstanding units", in.CaseID, existing.AttemptID, len(existing.Outstanding)),
		)
	}

	history, err := u.historyRepo.HistoryFor(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}

	timeline, err := u.timeline.GetTargetTimeline(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}

	units, err := u.engine.Reconcile(ctx, in.CaseID, history, *timeline, in.Cessation, u.historyRepo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	state := &models.CaseSettlementState{
		CaseID:       in.CaseID,
		AttemptID:    uuid.NewString(),
		UpdatedAt:    now,
		PendingSince: now,
	}

	if len(units) == 0 {
		// Nothing diverged, so there is nothing to confirm.
		state.Status = models.SettlementStatusPositive
		if err := u.stateRepo.Upsert(ctx, state); err != nil {
			return nil, err
		}
		if err := u.workflow.NotifySettlementOutcome(ctx, in.CaseID, state.Status); err != nil {
			return nil, err
		}
		u.log.Info("SettlementUsecase.Settle resolved without transmission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCaseIDKey, in.CaseID),
		)
		return &SettleOutput{CaseID: in.CaseID, AttemptID: state.AttemptID, Status: state.Status}, nil
	}

	for _, unit := range units {
		if err := u.historyRepo.Append(ctx, in.CaseID, unit.Payee, unit.ChainSequence, unit.Lines); err != nil {
			return nil, err
		}
		if in.Cessation && hasTerminationLine(unit.Lines) {
			if err := u.historyRepo.MarkTerminated(ctx, in.CaseID, unit.Payee); err != nil {
				return nil, err
			}
		}
		state.Outstanding = append(state.Outstanding, unit.ID)
	}

	// Persist the pending aggregate before publishing so a receipt that
	// arrives immediately still finds its attempt.
	state.Status = models.SettlementStatusPending
	if err := u.stateRepo.Upsert(ctx, state); err != nil {
		return nil, err
	}

	for _, unit := range units {
		if err := u.publisher.PublishTransmission(ctx, unit); err != nil {
			return nil, err
		}
		u.archiveBestEffort(ctx, unit)
	}

	u.log.Info("SettlementUsecase.Settle attempt pending",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCaseIDKey, in.CaseID),
		zap.Int(constvars.LoggingUnitCountKey, len(units)),
	)
	return &SettleOutput{
		CaseID:          in.CaseID,
		AttemptID:       state.AttemptID,
		Status:          state.Status,
		TransmissionIDs: append([]string(nil), state.Outstanding...),
	}, nil
}

func (u *usecase) OnReceipt(ctx context.Context, receipt models.Receipt) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.log.Info("SettlementUsecase.OnReceipt called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTransmissionIDKey, receipt.TransmissionID),
		zap.String(constvars.LoggingOutcomeKey, string(receipt.Outcome)),
	)

	if !receipt.Outcome.Valid() {
		return exceptions.ErrInputValidation(fmt.Errorf("unknown receipt outcome %q", receipt.Outcome))
	}

	state, err := u.stateRepo.FindByTransmissionID(ctx, receipt.TransmissionID)
	if err != nil {
		return err
	}
	if state == nil {
		return exceptions.ErrSettlementStateNotFound(
			fmt.Errorf("no settlement attempt references transmission %s", receipt.TransmissionID),
		)
	}

	lockValue, err := u.lockCase(ctx, state.CaseID)
	if err != nil {
		return err
	}
	defer u.unlockCase(ctx, state.CaseID, lockValue)

	// Reload under the lock; a concurrent receipt may already have resolved
	// this unit.
	state, err = u.stateRepo.FindByCaseID(ctx, state.CaseID)
	if err != nil {
		return err
	}
	if state == nil || !state.IsOutstanding(receipt.TransmissionID) {
		u.log.Info("SettlementUsecase.OnReceipt duplicate or stale receipt ignored",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTransmissionIDKey, receipt.TransmissionID),
		)
		return nil
	}

	outstanding := make([]string, 0, len(state.Outstanding))
	for _, id := range state.Outstanding {
		if id != receipt.TransmissionID {
			outstanding = append(outstanding, id)
		}
	}
	state.Outstanding = outstanding
	state.Outcomes = append(state.Outcomes, models.UnitOutcome{
		TransmissionID: receipt.TransmissionID,
		Outcome:        receipt.Outcome,
		Code:           receipt.Code,
		Message:        receipt.Message,
	})
	state.UpdatedAt = time.Now().UTC()

	if len(state.Outstanding) == 0 {
		if state.HasNegativeOutcome() {
			state.Status = models.SettlementStatusNegative
		} else {
			state.Status = models.SettlementStatusPositive
		}
	}

	if err := u.stateRepo.Upsert(ctx, state); err != nil {
		return err
	}

	if state.Status != models.SettlementStatusPending {
		if err := u.workflow.NotifySettlementOutcome(ctx, state.CaseID, state.Status); err != nil {
			return err
		}
		u.log.Info("SettlementUsecase.OnReceipt attempt resolved",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCaseIDKey, state.CaseID),
			zap.String(constvars.LoggingOutcomeKey, string(state.Status)),
		)
	} else {
		u.log.Info("SettlementUsecase.OnReceipt recorded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCaseIDKey, state.CaseID),
			zap.Int(constvars.LoggingOutstandingCountKey, len(state.Outstanding)),
		)
	}
	return nil
}

func (u *usecase) GetSettlementState(ctx context.Context, caseID string) (*models.CaseSettlementState, error) {
	state, err := u.stateRepo.FindByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, exceptions.ErrSettlementStateNotFound(fmt.Errorf("case %s has no settlement state", caseID))
	}
	return state, nil
}

func (u *usecase) lockCase(ctx context.Context, caseID string) (string, error) {
	key := fmt.Sprintf(constvars.SettlementLockKeyFormat, caseID)
	ttl := time.Duration(u.cfg.Settlement.LockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	acquired, lockValue, err := u.locker.TryLock(ctx, key, ttl)
	if err != nil {
		return "", err
	}
	if !acquired {
		return "", exceptions.ErrSettlementConflict(fmt.Errorf("case %s is locked by another operation", caseID))
	}
	return lockValue, nil
}

func (u *usecase) unlockCase(ctx context.Context, caseID, lockValue string) {
	key := fmt.Sprintf(constvars.SettlementLockKeyFormat, caseID)
	if err := u.locker.Unlock(ctx, key, lockValue); err != nil {
		u.log.Error("SettlementUsecase failed to release case lock",
			zap.String(constvars.LoggingCaseIDKey, caseID),
			zap.Error(err),
		)
	}
}

func (u *usecase) archiveBestEffort(ctx context.Context, unit models.TransmissionUnit) {
	payload, err := json.Marshal(unit)
	if err != nil {
		u.log.Error("SettlementUsecase cannot marshal unit for archive",
			zap.String(constvars.LoggingTransmissionIDKey, unit.ID),
			zap.Error(err),
		)
		return
	}
	if err := u.archive.ArchiveTransmission(ctx, unit, payload); err != nil {
		u.log.Error("SettlementUsecase archive write failed",
			zap.String(constvars.LoggingTransmissionIDKey, unit.ID),
			zap.Error(err),
		)
	}
}

func hasTerminationLine(lines []models.OrderLine) bool {
	for _, l := range lines {
		if l.Status == models.LineStatusTerminated {
			return true
		}
	}
	return false
}
