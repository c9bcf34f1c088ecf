package contracts

import (
	"context"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
)

// WorkflowNotifier reports the settlement outcome back to the case workflow,
// once per settlement attempt.
type WorkflowNotifier interface {
	NotifySettlementOutcome(ctx context.Context, caseID string, status models.SettlementStatus) error
}
