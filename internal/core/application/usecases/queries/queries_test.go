package queries_test

import (
	"testing"

	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetOrderQuery(id)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, id, query.OrderID())

	_, err = queries.NewGetOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListAvailableCouriersQuery{}.Validate(),
		queries.ErrListAvailableCouriersQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetCourierLocationQuery{}.Validate(),
		queries.ErrGetCourierLocationQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetVendorQuery{}.Validate(), queries.ErrGetVendorQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListVendorsQuery{}.Validate(), queries.ErrListVendorsQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetCourierQuery{}.Validate(), queries.ErrGetCourierQueryIsNotConstructed)
}

func TestNewListOrdersQuery(t *testing.T) {
	id := kernel.NewUUID()

	byCustomer, err := queries.NewListOrdersByCustomerQuery(id)
	require.NoError(t, err)
	require.NotNil(t, byCustomer.CustomerID())
	assert.Nil(t, byCustomer.VendorID())

	byVendor, err := queries.NewListOrdersByVendorQuery(id)
	require.NoError(t, err)
	require.NotNil(t, byVendor.VendorID())
	assert.Nil(t, byVendor.CustomerID())

	_, err = queries.NewListOrdersByCustomerQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewListAvailableCouriersQuery_Valid(t *testing.T) {
	require.NoError(t, queries.NewListAvailableCouriersQuery().Validate())
}
