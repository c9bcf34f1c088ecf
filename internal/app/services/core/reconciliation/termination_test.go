package reconciliation

import (
	"testing"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"

	"github.com/stretchr/testify/assert"
)

func chainWith(terminated bool, lines ...models.OrderLine) models.ChainHistory {
	return models.ChainHistory{
		Payee:      models.ClaimantPayee(),
		Sequence:   1,
		Terminated: terminated,
		Lines:      lines,
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestEvaluateTermination(t *testing.T) {
	content := contentLine(day(2024, 1, 1), day(2024, 3, 31), 500, models.LineStatusNew, 1)
	terminationTail := models.OrderLine{
		Classification: models.ClassificationOrdinary,
		From:           day(2024, 3, 1),
		To:             day(2024, 3, 31),
		Status:         models.LineStatusTerminated,
		Position:       2,
	}

	t.Run("empty chain never terminates", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false), datePtr(day(2024, 2, 1)), true)
		assert.False(t, dec.Terminate)
	})

	t.Run("no change date without cessation does nothing", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content), nil, false)
		assert.False(t, dec.Terminate)
	})

	t.Run("no change date with cessation closes after last paid date", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content), nil, true)
		assert.True(t, dec.Terminate)
		assert.Equal(t, day(2024, 4, 1), dec.EffectiveFrom)
	})

	t.Run("ceased chain re-affirms termination", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(true, content), datePtr(day(2024, 6, 1)), false)
		assert.True(t, dec.Terminate)
		assert.Equal(t, day(2024, 6, 1), dec.EffectiveFrom)
	})

	t.Run("termination tail, earlier change date wins", func(t *testing.T) {
		// Scenario: chain closed from 2024-03-01, new change reaches back
		// to 2024-02-15. The earlier boundary must be transmitted.
		dec := EvaluateTermination(chainWith(false, content, terminationTail), datePtr(day(2024, 2, 15)), false)
		assert.True(t, dec.Terminate)
		assert.Equal(t, day(2024, 2, 15), dec.EffectiveFrom)
	})

	t.Run("termination tail, later change date does nothing", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content, terminationTail), datePtr(day(2024, 3, 15)), false)
		assert.False(t, dec.Terminate)
	})

	t.Run("termination tail, equal change date does nothing", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content, terminationTail), datePtr(day(2024, 3, 1)), false)
		assert.False(t, dec.Terminate)
	})

	t.Run("content tail, change date inside paid period terminates", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content), datePtr(day(2024, 3, 1)), false)
		assert.True(t, dec.Terminate)
		assert.Equal(t, day(2024, 3, 1), dec.EffectiveFrom)
	})

	t.Run("content tail, change date on last paid day terminates", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content), datePtr(day(2024, 3, 31)), false)
		assert.True(t, dec.Terminate)
	})

	t.Run("content tail, change date after last paid day does nothing", func(t *testing.T) {
		dec := EvaluateTermination(chainWith(false, content), datePtr(day(2024, 4, 1)), false)
		assert.False(t, dec.Terminate)
	})
}
