package contracts

import (
	"context"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
)

// LedgerPublisher sends transmission units to the external disbursement
// ledger. Delivery guarantees beyond publish confirmation are owned by the
// transport.
type LedgerPublisher interface {
	PublishTransmission(ctx context.Context, unit models.TransmissionUnit) error
}

// TransmissionArchive stores an audit copy of each outbound payload.
// Archiving is best-effort and must never block settlement.
type TransmissionArchive interface {
	ArchiveTransmission(ctx context.Context, unit models.TransmissionUnit, payload []byte) error
}
