package service_test

import (
	"context"
	"testing"

	"modapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStockSvc() (service.StockService, *stubProductRepo, *stubMovementRepo) {
	products := newStubProductRepo()
	movements := &stubMovementRepo{}
	return service.NewStockService(products, movements), products, movements
}

func TestGetAvailability_SizedProduct(t *testing.T) {
	svc, products, _ := buildStockSvc()
	p := seedSizedProduct(products, "Jersey", 10, map[string]int{"M": 5, "L": 2}, []string{"M", "L"})

	av, err := svc.GetAvailability(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, av.HasSizes)
	assert.Equal(t, 7, av.TotalStock)
	require.Len(t, av.SizeStocks, 2)
	assert.Equal(t, 5, av.SizeStocks[0].Stock)
}

func TestGetAvailability_UnknownProduct(t *testing.T) {
	svc, _, _ := buildStockSvc()
	_, err := svc.GetAvailability(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestValidateDecrement_Idempotent(t *testing.T) {
	svc, products, _ := buildStockSvc()
	p := seedSizedProduct(products, "Jersey", 10, map[string]int{"M": 5}, []string{"M"})

	lines := []service.DecrementLine{{Size: "M", Quantity: 3}}

	// Two validations without an apply in between yield the same result and
	// leave stock untouched
	require.NoError(t, svc.ValidateDecrement(context.Background(), p.ID, lines))
	require.NoError(t, svc.ValidateDecrement(context.Background(), p.ID, lines))
	assert.Equal(t, 5, products.products[p.ID].SizeStocks[0].Stock)
}

func TestValidateDecrement_UnknownSize(t *testing.T) {
	svc, products, _ := buildStockSvc()
	p := seedSizedProduct(products, "Jersey", 10, map[string]int{"M": 5}, []string{"M"})

	err := svc.ValidateDecrement(context.Background(), p.ID, []service.DecrementLine{{Size: "XXL", Quantity: 1}})
	var invalidSize *service.InvalidSizeError
	require.ErrorAs(t, err, &invalidSize)
	assert.Equal(t, "XXL", invalidSize.Size)
}

func TestValidateDecrement_SizeOnSizelessProduct(t *testing.T) {
	svc, products, _ := buildStockSvc()
	p := seedPlainProduct(products, "Tote Bag", 8, 4)

	err := svc.ValidateDecrement(context.Background(), p.ID, []service.DecrementLine{{Size: "M", Quantity: 1}})
	var invalidSize *service.InvalidSizeError
	assert.ErrorAs(t, err, &invalidSize)
}

func TestValidateDecrement_SizelessAggregate(t *testing.T) {
	svc, products, _ := buildStockSvc()
	p := seedPlainProduct(products, "Tote Bag", 8, 4)

	require.NoError(t, svc.ValidateDecrement(context.Background(), p.ID, []service.DecrementLine{{Quantity: 4}}))

	err := svc.ValidateDecrement(context.Background(), p.ID, []service.DecrementLine{{Quantity: 5}})
	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)
}

func TestApplyDecrement_RecomputesAggregate(t *testing.T) {
	svc, products, movements := buildStockSvc()
	p := seedSizedProduct(products, "Jersey", 10, map[string]int{"M": 5, "L": 2}, []string{"M", "L"})

	noteID := uuid.New()
	err := svc.ApplyDecrementTx(context.Background(), nil, p.ID,
		[]service.DecrementLine{{Size: "M", Quantity: 3}, {Size: "L", Quantity: 2}}, &noteID)
	require.NoError(t, err)

	stored := products.products[p.ID]
	assert.Equal(t, 2, stored.SizeStocks[0].Stock)
	assert.Equal(t, 0, stored.SizeStocks[1].Stock)
	// Aggregate always equals the sum of the per-size counts
	assert.Equal(t, 2, stored.Stock)

	require.Len(t, movements.movements, 2)
	assert.Equal(t, 5, movements.movements[0].StockBefore)
	assert.Equal(t, 2, movements.movements[0].StockAfter)
}

func TestApplyDecrement_RevalidatesUnderLock(t *testing.T) {
	svc, products, movements := buildStockSvc()
	p := seedSizedProduct(products, "Jersey", 10, map[string]int{"M": 1}, []string{"M"})

	// Requesting more than available fails at apply time even if a stale
	// pre-flight validation passed earlier
	err := svc.ApplyDecrementTx(context.Background(), nil, p.ID,
		[]service.DecrementLine{{Size: "M", Quantity: 2}}, nil)
	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	assert.Equal(t, 1, products.products[p.ID].SizeStocks[0].Stock)
	assert.Empty(t, movements.movements)
}

func TestListMovements_ReturnsLedgerRows(t *testing.T) {
	svc, products, _ := buildStockSvc()
	p := seedSizedProduct(products, "Jersey", 10, map[string]int{"M": 5}, []string{"M"})

	noteID := uuid.New()
	require.NoError(t, svc.ApplyDecrementTx(context.Background(), nil, p.ID,
		[]service.DecrementLine{{Size: "M", Quantity: 3}}, &noteID))

	rows, err := svc.ListMovements(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, -3, rows[0].Quantity)
	assert.Equal(t, "sale", rows[0].Kind)

	_, err = svc.ListMovements(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestApplyDecrement_SizelessProduct(t *testing.T) {
	svc, products, movements := buildStockSvc()
	p := seedPlainProduct(products, "Tote Bag", 8, 4)

	err := svc.ApplyDecrementTx(context.Background(), nil, p.ID,
		[]service.DecrementLine{{Quantity: 3}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, products.products[p.ID].Stock)
	require.Len(t, movements.movements, 1)
	assert.Nil(t, movements.movements[0].Size)
	assert.Equal(t, -3, movements.movements[0].Quantity)
}
