package services_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courierAt(t *testing.T, id string, lat, lon float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.MustParseUUID(id), "courier "+id[:4])
	require.NoError(t, err)
	require.NoError(t, c.SetAvailability(courier.Available))
	loc, err := courier.NewLocation(kernel.MustCoordinates(lat, lon), time.Now(), 5, nil)
	require.NoError(t, err)
	_, err = c.UpdateLocation(loc)
	require.NoError(t, err)
	return c
}

func TestCourierRanker_Rank(t *testing.T) {
	ranker := services.NewCourierRanker()
	pickup := kernel.MustCoordinates(40.0, -73.0)

	t.Run("should put the closest courier first", func(t *testing.T) {
		far := courierAt(t, "bbbbbbbb-0000-4000-8000-000000000000", 41.0, -74.0)
		near := courierAt(t, "aaaaaaaa-0000-4000-8000-000000000000", 40.01, -73.0)

		ranked := ranker.Rank(pickup, []*courier.Courier{far, near})

		require.Len(t, ranked, 2)
		assert.True(t, ranked[0].Courier.IsEqual(near))
		assert.InDelta(t, 1.11, ranked[0].DistanceKm, 0.01)
		assert.Greater(t, ranked[1].DistanceKm, 100.0)
	})

	t.Run("should break ties by courier id", func(t *testing.T) {
		second := courierAt(t, "bbbbbbbb-0000-4000-8000-000000000000", 40.01, -73.0)
		first := courierAt(t, "aaaaaaaa-0000-4000-8000-000000000000", 40.01, -73.0)

		ranked := ranker.Rank(pickup, []*courier.Courier{second, first})

		require.Len(t, ranked, 2)
		assert.True(t, ranked[0].Courier.IsEqual(first))
		assert.True(t, ranked[1].Courier.IsEqual(second))
	})

	t.Run("should skip couriers without location", func(t *testing.T) {
		withLocation := courierAt(t, "aaaaaaaa-0000-4000-8000-000000000000", 40.5, -73.5)
		withoutLocation, err := courier.NewCourier(kernel.NewUUID(), "ghost")
		require.NoError(t, err)

		ranked := ranker.Rank(pickup, []*courier.Courier{withoutLocation, nil, withLocation})

		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].Courier.IsEqual(withLocation))
	})

	t.Run("should return empty result for no candidates", func(t *testing.T) {
		assert.Empty(t, ranker.Rank(pickup, nil))
	})
}
