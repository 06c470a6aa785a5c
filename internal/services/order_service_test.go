package services_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/services"
)

func TestOrder_CreateReservesAndSnapshots(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()

	res, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, res.Status)
	assert.Equal(t, 7, f.stock(t, f.variant.ID))

	o, err := f.orders.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "INR", o.Currency)
	assert.True(t, o.Total.Equal(dec("2097")), "total %s", o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1, o.Items[0].LineNo)
	assert.Equal(t, f.variant.ID, o.Items[0].VariantID)
	assert.Equal(t, "shopper", o.CreatedBy)
}

func TestOrder_TwoConcurrentReservationsOnlyOneFits(t *testing.T) {
	checkOneOfTwoReservationsFits(t, newFixture(t, "699", 10))
}

// checkOneOfTwoReservationsFits races two orders of 6 against a stock of 10.
func checkOneOfTwoReservationsFits(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 6}})
		}(i)
	}
	wg.Wait()

	var succeeded, short int
	for _, err := range errs {
		var ise *domain.InsufficientStockError
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorAs(t, err, &ise):
			short++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, short)
	assert.Equal(t, 4, f.stock(t, f.variant.ID))
}

func TestOrder_FailedLineRollsBackEarlierReservations(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()
	small, err := f.catalog.AddVariant(ctx, actor, f.product.ID, services.VariantSpec{
		UnitValueID: f.gram.ID, Price: dec("1"), Stock: 1, SKU: "TUR-1G",
	})
	require.NoError(t, err)

	_, err = f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{
		{VariantID: f.variant.ID, Quantity: 4},
		{VariantID: small.ID, Quantity: 2},
	})
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 10, f.stock(t, f.variant.ID))
	assert.Equal(t, 1, f.stock(t, small.ID))

	orders, err := f.orders.ListOrders(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrder_CreateValidation(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()
	var ve *domain.ValidationError
	var nf *domain.NotFoundError

	_, err := f.orders.CreateOrder(ctx, "shopper", nil)
	assert.ErrorAs(t, err, &ve)

	_, err = f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 0}})
	assert.ErrorAs(t, err, &ve)

	_, err = f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: math.MaxInt64}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items[0].quantity", ve.Field)

	_, err = f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: "ghost", Quantity: 1}})
	assert.ErrorAs(t, err, &nf)

	usd, err := f.catalog.CreateProduct(ctx, actor, services.ProductSpec{CategoryID: f.category.ID, Name: "Saffron", Currency: "usd"})
	require.NoError(t, err)
	v, err := f.catalog.AddVariant(ctx, actor, usd.ID, services.VariantSpec{UnitValueID: f.gram.ID, Price: dec("9.50"), Stock: 5, SKU: "SAF-1G"})
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{
		{VariantID: f.variant.ID, Quantity: 1},
		{VariantID: v.ID, Quantity: 1},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items", ve.Field)
	assert.Equal(t, 10, f.stock(t, f.variant.ID))
}

func TestOrder_CancelRestoresStock(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()
	res, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, 8, f.stock(t, f.variant.ID))

	o, err := f.orders.Transition(ctx, actor, res.OrderID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, o.Status)
	assert.Equal(t, 2, o.Version)
	assert.Equal(t, 10, f.stock(t, f.variant.ID))
}

func TestOrder_TransitionTable(t *testing.T) {
	path := []domain.OrderStatus{
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	}
	f := newFixture(t, "699", 10)
	ctx := context.Background()
	res, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 1}})
	require.NoError(t, err)

	// skipping a step is rejected
	_, err = f.orders.Transition(ctx, actor, res.OrderID, domain.OrderStatusDelivered)
	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, domain.OrderStatusPending, ite.From)

	for _, to := range path {
		_, err := f.orders.Transition(ctx, actor, res.OrderID, to)
		require.NoError(t, err, "to %s", to)
	}

	for _, to := range domain.OrderStatuses() {
		_, err := f.orders.Transition(ctx, actor, res.OrderID, to)
		assert.ErrorAs(t, err, &ite, "delivered -> %s", to)
	}

	o, err := f.orders.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, o.Status)
	assert.Equal(t, 4, o.Version)
	assert.Equal(t, 9, f.stock(t, f.variant.ID), "delivery does not restore stock")
}

func TestOrder_CancelledIsTerminal(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()
	res, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 2}})
	require.NoError(t, err)
	_, err = f.orders.Transition(ctx, actor, res.OrderID, domain.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = f.orders.Transition(ctx, actor, res.OrderID, domain.OrderStatusCancelled)
	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, 10, f.stock(t, f.variant.ID), "stock restored exactly once")
}

func TestOrder_TransitionUnknownStatusOrOrder(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()

	_, err := f.orders.Transition(ctx, actor, "missing", domain.OrderStatus("refunded"))
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = f.orders.Transition(ctx, actor, "missing", domain.OrderStatusProcessing)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestOrder_ConcurrentCancelRestoresOnce(t *testing.T) {
	checkConcurrentCancelRestoresOnce(t, newFixture(t, "699", 10))
}

// checkConcurrentCancelRestoresOnce cancels one order of 2 from four
// goroutines; f must start with a stock of 10.
func checkConcurrentCancelRestoresOnce(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	res, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, 8, f.stock(t, f.variant.ID))

	errs := make([]error, 4)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.Transition(ctx, actor, res.OrderID, domain.OrderStatusCancelled)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 10, f.stock(t, f.variant.ID))
}

func TestOrder_LineItemsSurvivePriceChange(t *testing.T) {
	f := newFixture(t, "699", 10)
	ctx := context.Background()
	res, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, f.catalog.UpdateVariantPrice(ctx, actor, f.variant.ID, dec("799")))

	o, err := f.orders.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.True(t, o.Items[0].UnitPrice.Equal(dec("699")))
	assert.True(t, o.Total.Equal(dec("699")))

	_, err = f.store.DB().ExecContext(ctx, `UPDATE order_items SET unit_price = '1' WHERE order_id = ?`, res.OrderID)
	assert.Error(t, err, "line items are immutable")
}

func TestOrder_TotalTooLargeIsRejected(t *testing.T) {
	f := newFixture(t, "9999999999.99", 1000)
	ctx := context.Background()

	_, err := f.orders.CreateOrder(ctx, "shopper", []services.LineItemRequest{{VariantID: f.variant.ID, Quantity: 1000}})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items", ve.Field)
	assert.Equal(t, 1000, f.stock(t, f.variant.ID))
}
