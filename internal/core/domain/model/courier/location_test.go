package courier_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	coords := kernel.MustCoordinates(51.5, -0.12)

	t.Run("should keep an independent copy of speed", func(t *testing.T) {
		speed := 4.2
		l, err := courier.NewLocation(coords, fixAt, 10, &speed)
		require.NoError(t, err)

		speed = 99
		require.NotNil(t, l.Speed())
		assert.InDelta(t, 4.2, *l.Speed(), 1e-9)
		assert.InDelta(t, 10.0, l.Accuracy(), 1e-9)
	})

	t.Run("should allow missing speed", func(t *testing.T) {
		l, err := courier.NewLocation(coords, fixAt, 0, nil)
		require.NoError(t, err)
		assert.Nil(t, l.Speed())
	})

	t.Run("should reject negative accuracy and speed", func(t *testing.T) {
		speed := -1.0
		_, err := courier.NewLocation(coords, fixAt, -3, &speed)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "accuracy")
		assert.Contains(t, err.Error(), "speed")
	})

	t.Run("should require timestamp and coordinates", func(t *testing.T) {
		_, err := courier.NewLocation(kernel.Coordinates{}, time.Time{}, 0, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrCoordinatesAreNotConstructed)
		assert.Contains(t, err.Error(), "timestamp")
	})
}
