package contracts

import (
	"context"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
)

// TimelineProvider hands out the externally computed, already validated
// entitlement timeline for a case.
type TimelineProvider interface {
	GetTargetTimeline(ctx context.Context, caseID string) (*models.Timeline, error)
}
