package reconciliation

import (
	"testing"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func contentLine(from, to time.Time, amount int64, status models.LineStatus, pos int) models.OrderLine {
	return models.OrderLine{
		Classification: models.ClassificationOrdinary,
		From:           from,
		To:             to,
		Amount:         amount,
		Status:         status,
		Position:       pos,
	}
}

func TestClassify(t *testing.T) {
	candidate := contentLine(day(2024, 1, 1), day(2024, 3, 31), 500, "", 0)

	t.Run("no prior line at all is NEW", func(t *testing.T) {
		assert.Equal(t, models.LineStatusNew, Classify(candidate, nil))
	})

	t.Run("identical range and amount is UNCHANGED", func(t *testing.T) {
		prior := []models.OrderLine{contentLine(day(2024, 1, 1), day(2024, 3, 31), 500, models.LineStatusNew, 1)}
		assert.Equal(t, models.LineStatusUnchanged, Classify(candidate, prior))
	})

	t.Run("same range different amount is CHANGED", func(t *testing.T) {
		prior := []models.OrderLine{contentLine(day(2024, 1, 1), day(2024, 3, 31), 400, models.LineStatusNew, 1)}
		assert.Equal(t, models.LineStatusChanged, Classify(candidate, prior))
	})

	t.Run("overlapping but shorter range is CHANGED", func(t *testing.T) {
		prior := []models.OrderLine{contentLine(day(2024, 1, 1), day(2024, 2, 29), 500, models.LineStatusNew, 1)}
		assert.Equal(t, models.LineStatusChanged, Classify(candidate, prior))
	})

	t.Run("disjoint prior lines still make the chain a continuation", func(t *testing.T) {
		prior := []models.OrderLine{contentLine(day(2023, 1, 1), day(2023, 3, 31), 500, models.LineStatusNew, 1)}
		assert.Equal(t, models.LineStatusChanged, Classify(candidate, prior))
	})

	t.Run("newest write wins over later-dated older write", func(t *testing.T) {
		// A time-travel correction: the second line was created later but
		// covers earlier dates. Creation order decides the comparator.
		prior := []models.OrderLine{
			contentLine(day(2024, 1, 1), day(2024, 3, 31), 400, models.LineStatusNew, 1),
			contentLine(day(2024, 1, 1), day(2024, 3, 31), 500, models.LineStatusChanged, 2),
		}
		assert.Equal(t, models.LineStatusUnchanged, Classify(candidate, prior))
	})

	t.Run("termination lines never act as comparators", func(t *testing.T) {
		prior := []models.OrderLine{
			contentLine(day(2024, 1, 1), day(2024, 3, 31), 500, models.LineStatusNew, 1),
			{
				Classification: models.ClassificationOrdinary,
				From:           day(2024, 3, 1),
				To:             day(2024, 3, 31),
				Status:         models.LineStatusTerminated,
				Position:       2,
			},
		}
		assert.Equal(t, models.LineStatusUnchanged, Classify(candidate, prior))
	})
}
