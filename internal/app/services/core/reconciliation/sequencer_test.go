package reconciliation

import (
	"testing"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceLines(t *testing.T) {
	t.Run("orders by classification priority then date", func(t *testing.T) {
		lines := []models.OrderLine{
			{Classification: models.ClassificationHolidayPay, From: day(2024, 1, 1), To: day(2024, 1, 31)},
			{Classification: models.ClassificationOrdinary, From: day(2024, 2, 1), To: day(2024, 2, 29)},
			{Classification: models.ClassificationOrdinary, From: day(2024, 1, 1), To: day(2024, 1, 31)},
			{Classification: models.ClassificationEmployerRefund, From: day(2024, 1, 1), To: day(2024, 1, 31)},
		}

		out, err := SequenceLines(lines)
		require.NoError(t, err)

		require.Len(t, out, 4)
		assert.Equal(t, models.ClassificationOrdinary, out[0].Classification)
		assert.Equal(t, day(2024, 1, 1), out[0].From)
		assert.Equal(t, models.ClassificationOrdinary, out[1].Classification)
		assert.Equal(t, day(2024, 2, 1), out[1].From)
		assert.Equal(t, models.ClassificationEmployerRefund, out[2].Classification)
		assert.Equal(t, models.ClassificationHolidayPay, out[3].Classification)
	})

	t.Run("unknown classification is fatal", func(t *testing.T) {
		lines := []models.OrderLine{
			{Classification: "BOGUS", From: day(2024, 1, 1), To: day(2024, 1, 31)},
		}
		_, err := SequenceLines(lines)
		assert.Error(t, err)
	})

	t.Run("priority table is exhaustive over the closed set", func(t *testing.T) {
		for _, c := range models.AllClassifications {
			_, ok := c.Priority()
			assert.True(t, ok, "classification %s missing from priority table", c)
		}
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		lines := []models.OrderLine{
			{Classification: models.ClassificationHolidayPay, From: day(2024, 1, 1), To: day(2024, 1, 31)},
			{Classification: models.ClassificationOrdinary, From: day(2024, 1, 1), To: day(2024, 1, 31)},
		}
		_, err := SequenceLines(lines)
		require.NoError(t, err)
		assert.Equal(t, models.ClassificationHolidayPay, lines[0].Classification)
	})
}
