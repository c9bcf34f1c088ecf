package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/config"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/shared/ledgerqueue"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// Worker drains the receipt queue and feeds receipts into the coordinator
// with at-least-once semantics. A receipt is acked only after OnReceipt
// returns; a crash in between redelivers it, which OnReceipt absorbs.
type Worker struct {
	log    *zap.Logger
	cfg    *config.InternalConfig
	locker contracts.LockerService
	queue  *ledgerqueue.Service
	uc     Usecase
	stop   chan struct{}
}

// NewWorker creates a new receipt worker instance.
func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, queue *ledgerqueue.Service, uc Usecase) *Worker {
	return &Worker{
		log:    log,
		cfg:    cfg,
		locker: lockerSvc,
		queue:  queue,
		uc:     uc,
		stop:   make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	interval := time.Duration(w.cfg.Settlement.WorkerIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	stopped := make(chan struct{})

	w.log.Info("settlement receipt worker started")

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case now := <-ticker.C:
				w.runOnce(ctx, now, interval)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context, now time.Time, interval time.Duration) {
	w.log.Info("settlement.worker.runOnce tick", zap.Time("now", now))

	// Only one instance drains receipts at a time.
	ttl := interval - time.Second
	if ttl < time.Second {
		ttl = time.Second
	}
	acquired, lockVal, err := w.locker.TryLock(ctx, constvars.ReceiptWorkerLockKey, ttl)
	if err != nil {
		w.log.Info("worker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Warn("worker lock not acquired; another instance is running")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.ReceiptWorkerLockKey, lockVal); err != nil {
			w.log.Error("worker unlock failed", zap.Error(err))
		}
	}()

	max := w.cfg.Settlement.ReceiptMaxBatch
	if max <= 0 {
		max = 1
	}
	out, err := w.queue.FetchReceipts(ctx, &ledgerqueue.FetchReceiptsInput{Max: max})
	if err != nil {
		w.log.Info("queue.FetchReceipts error", zap.Error(err))
		return
	}

	w.log.Info("queue.FetchReceipts success", zap.Int("fetched_count", len(out.Items)))

	for _, item := range out.Items {
		w.processReceipt(ctx, item)
	}
}

func (w *Worker) processReceipt(ctx context.Context, item ledgerqueue.QueuedReceipt) {
	err := w.uc.OnReceipt(ctx, item.Receipt)
	if err == nil {
		if _, ackErr := w.queue.AckReceipt(ctx, &ledgerqueue.AckReceiptInput{DeliveryTag: item.DeliveryTag}); ackErr != nil {
			w.log.Info("ack failed after success",
				zap.String(constvars.LoggingTransmissionIDKey, item.Receipt.TransmissionID),
				zap.Error(ackErr),
			)
		}
		return
	}

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) && customErr.StatusCode != constvars.StatusInternalServerError && customErr.StatusCode != constvars.StatusConflict {
		// Unresolvable receipt: unknown transmission or malformed outcome.
		// Redelivery cannot fix it, so park it for inspection.
		w.log.Warn("receipt unresolvable; moving to DLQ",
			zap.String(constvars.LoggingTransmissionIDKey, item.Receipt.TransmissionID),
			zap.Error(err),
		)
		if _, dlqErr := w.queue.EnqueueReceiptToDeadQueue(ctx, &ledgerqueue.EnqueueReceiptToDeadQueueInput{Receipt: item.Receipt}); dlqErr != nil {
			w.log.Info("enqueue to DLQ failed", zap.Error(dlqErr))
			return
		}
		_, _ = w.queue.AckReceipt(ctx, &ledgerqueue.AckReceiptInput{DeliveryTag: item.DeliveryTag})
		return
	}

	// Transient failure (case lock held, storage error): leave unacked so
	// the broker redelivers on the next pass.
	w.log.Info("receipt processing failed; will retry",
		zap.String(constvars.LoggingTransmissionIDKey, item.Receipt.TransmissionID),
		zap.Error(err),
	)
}
