package contracts

import (
	"context"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
)

// SettlementStateRepository persists the per-case settlement aggregate.
// The coordinator is its only writer.
type SettlementStateRepository interface {
	FindByCaseID(ctx context.Context, caseID string) (*models.CaseSettlementState, error)
	FindByTransmissionID(ctx context.Context, transmissionID string) (*models.CaseSettlementState, error)
	Upsert(ctx context.Context, state *models.CaseSettlementState) error
	Delete(ctx context.Context, caseID string) error
}
