package kernel_test

import (
	"testing"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinates(t *testing.T) {
	t.Run("accepts bounds", func(t *testing.T) {
		for _, tc := range []struct{ lat, lon float64 }{
			{-90, -180}, {90, 180}, {0, 0}, {40.7128, -74.006},
		} {
			c, err := kernel.NewCoordinates(tc.lat, tc.lon)
			require.NoError(t, err)
			assert.Equal(t, tc.lat, c.Latitude())
			assert.Equal(t, tc.lon, c.Longitude())
			require.NoError(t, c.Validate())
		}
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		_, err := kernel.NewCoordinates(90.01, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.NewCoordinates(0, -180.5)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("reports both errors", func(t *testing.T) {
		_, err := kernel.NewCoordinates(100, 200)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var c kernel.Coordinates
		require.ErrorIs(t, c.Validate(), errs.ErrValueIsRequired)
	})
}

func TestNewAddress(t *testing.T) {
	coords := kernel.MustCoordinates(40.0, -73.0)

	t.Run("trims fields", func(t *testing.T) {
		a, err := kernel.NewAddress("  1 Main St ", "Springfield", "NY", "10001", coords)
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", a.Street)
	})

	t.Run("requires street and coordinates", func(t *testing.T) {
		_, err := kernel.NewAddress(" ", "", "", "", kernel.Coordinates{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "street")
		assert.Contains(t, err.Error(), "coordinates")
	})
}
