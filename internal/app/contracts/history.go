package contracts

import (
	"context"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
)

// OrderHistoryRepository is the sole owner of chain and order-line state.
// History is append-only: there is no delete, and transmitted lines are
// never mutated.
type OrderHistoryRepository interface {
	// HistoryFor returns an immutable snapshot of every chain in the case,
	// keyed by payee key.
	HistoryFor(ctx context.Context, caseID string) (map[string]models.ChainHistory, error)
	// EnsureChain returns the existing chain sequence for (case, payee) or
	// allocates the next unused case-scoped sequence number. Sequence
	// numbers are strictly increasing across all payees of the case and
	// never reused.
	EnsureChain(ctx context.Context, caseID string, payee models.Payee) (int64, error)
	// Append persists new order lines transactionally and advances the
	// chain. Concurrent appends for the same case are serialized by the
	// store.
	Append(ctx context.Context, caseID string, payee models.Payee, chainSequence int64, lines []models.OrderLine) error
	// MarkTerminated records the chain's explicit-cessation flag.
	MarkTerminated(ctx context.Context, caseID string, payee models.Payee) error
}
