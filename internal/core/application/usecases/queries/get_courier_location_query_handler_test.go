package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLocator struct {
	location *courier.Location
	err      error
}

func (s stubLocator) GetLocation(context.Context, kernel.UUID) (*courier.Location, error) {
	return s.location, s.err
}

func TestGetCourierLocationQueryHandler_Handle(t *testing.T) {
	courierID := kernel.NewUUID()
	query, err := queries.NewGetCourierLocationQuery(courierID)
	require.NoError(t, err)

	t.Run("known location", func(t *testing.T) {
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		speed := 2.0
		location, err := courier.NewLocation(kernel.MustCoordinates(40.01, -73.02), at, 8, &speed)
		require.NoError(t, err)
		handler := queries.NewGetCourierLocationQueryHandler(stubLocator{location: &location})

		response, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, courierID, response.CourierID)
		assert.InDelta(t, 40.01, response.Latitude, 1e-9)
		assert.InDelta(t, -73.02, response.Longitude, 1e-9)
		assert.InDelta(t, 8.0, response.Accuracy, 1e-9)
		assert.Equal(t, at, response.Timestamp)
		require.NotNil(t, response.Speed)
	})

	t.Run("never reported", func(t *testing.T) {
		handler := queries.NewGetCourierLocationQueryHandler(stubLocator{})

		_, err := handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("locator failure", func(t *testing.T) {
		boom := errors.New("boom")
		handler := queries.NewGetCourierLocationQueryHandler(stubLocator{err: boom})

		_, err := handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, boom)
	})

	t.Run("unconstructed query", func(t *testing.T) {
		handler := queries.NewGetCourierLocationQueryHandler(stubLocator{})

		_, err := handler.Handle(t.Context(), queries.GetCourierLocationQuery{})

		require.ErrorIs(t, err, queries.ErrGetCourierLocationQueryIsNotConstructed)
	})
}
