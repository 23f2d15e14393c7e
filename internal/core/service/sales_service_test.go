package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storekeeper/internal/core/domain"
)

func seedWidgetAndGadget(t *testing.T, svc *testServices) (uint64, uint64) {
	t.Helper()
	widget, err := svc.inventory.AddItem("Widget", 10, 2.5)
	require.NoError(t, err)
	gadget, err := svc.inventory.AddItem("Gadget", 5, 9.0)
	require.NoError(t, err)
	return widget, gadget
}

func quantities(svc *testServices) map[uint64]uint64 {
	out := make(map[uint64]uint64)
	for _, item := range svc.inventory.GetInventory() {
		out[item.ID] = item.Quantity
	}
	return out
}

func TestRecordSale_Success(t *testing.T) {
	svc := newTestServices()
	widget, gadget := seedWidgetAndGadget(t, svc)

	record, err := svc.sales.RecordSale([]domain.SaleLine{
		{ItemID: widget, Quantity: 3},
		{ItemID: gadget, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "sale-1", record.ID)
	assert.Equal(t, 16.5, record.TotalAmount)
	assert.Equal(t, fixedTime, record.Timestamp)
	assert.Equal(t, []domain.SaleItem{
		{ID: widget, Name: "Widget", UnitPrice: 2.5, Quantity: 3},
		{ID: gadget, Name: "Gadget", UnitPrice: 9.0, Quantity: 1},
	}, record.Items)

	assert.Equal(t, map[uint64]uint64{widget: 7, gadget: 4}, quantities(svc))

	sales := svc.sales.GetSales()
	require.Len(t, sales, 1)
	assert.Equal(t, record, sales[0])
}

func TestRecordSale_InsufficientStockIsAtomic(t *testing.T) {
	svc := newTestServices()
	widget, gadget := seedWidgetAndGadget(t, svc)
	_, err := svc.sales.RecordSale([]domain.SaleLine{{ItemID: widget, Quantity: 3}})
	require.NoError(t, err)

	before := quantities(svc)
	changesBefore := len(svc.sink.all())

	_, err = svc.sales.RecordSale([]domain.SaleLine{{ItemID: widget, Quantity: 100}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The failing line comes last: the first line must not be applied either.
	_, err = svc.sales.RecordSale([]domain.SaleLine{
		{ItemID: gadget, Quantity: 2},
		{ItemID: widget, Quantity: 8},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Widget")

	assert.Equal(t, before, quantities(svc))
	assert.Len(t, svc.sales.GetSales(), 1)
	assert.Len(t, svc.sink.all(), changesBefore)
}

func TestRecordSale_NotFoundIsAtomic(t *testing.T) {
	svc := newTestServices()
	widget, _ := seedWidgetAndGadget(t, svc)
	before := quantities(svc)

	_, err := svc.sales.RecordSale([]domain.SaleLine{
		{ItemID: widget, Quantity: 1},
		{ItemID: 77, Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, quantities(svc))
	assert.Empty(t, svc.sales.GetSales())
}

func TestRecordSale_RepeatedItemDemandIsSummed(t *testing.T) {
	svc := newTestServices()
	widget, _ := seedWidgetAndGadget(t, svc)

	_, err := svc.sales.RecordSale([]domain.SaleLine{
		{ItemID: widget, Quantity: 6},
		{ItemID: widget, Quantity: 6},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, uint64(10), quantities(svc)[widget])

	record, err := svc.sales.RecordSale([]domain.SaleLine{
		{ItemID: widget, Quantity: 4},
		{ItemID: widget, Quantity: 6},
	})
	require.NoError(t, err)
	assert.Len(t, record.Items, 2)
	assert.Equal(t, 25.0, record.TotalAmount)
	assert.Equal(t, uint64(0), quantities(svc)[widget])

	change := svc.sink.all()[len(svc.sink.all())-1]
	assert.Equal(t, domain.ChangeSaleRecorded, change.Kind)
	assert.Equal(t, []domain.InventoryItem{{ID: widget, Name: "Widget", Quantity: 0, Price: 2.5}}, change.Items)
	assert.Equal(t, 0, change.Seq)
}

func TestRecordSale_InvalidInput(t *testing.T) {
	svc := newTestServices()
	widget, _ := seedWidgetAndGadget(t, svc)

	_, err := svc.sales.RecordSale(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.sales.RecordSale([]domain.SaleLine{{ItemID: widget, Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, svc.sales.GetSales())
}

func TestRecordSale_TotalIsFloatSum(t *testing.T) {
	svc := newTestServices()
	dime, err := svc.inventory.AddItem("Dime", 10, 0.1)
	require.NoError(t, err)
	fifth, err := svc.inventory.AddItem("Fifth", 10, 0.2)
	require.NoError(t, err)

	record, err := svc.sales.RecordSale([]domain.SaleLine{
		{ItemID: dime, Quantity: 3},
		{ItemID: fifth, Quantity: 1},
	})
	require.NoError(t, err)

	var want float64
	for _, line := range record.Items {
		want += line.UnitPrice * float64(line.Quantity)
	}
	assert.Equal(t, want, record.TotalAmount)
	assert.Equal(t, 0.1*3+0.2*1, record.TotalAmount)
}

func TestRecordSale_OverflowingTotalIsRejected(t *testing.T) {
	svc := newTestServices()
	a, err := svc.inventory.AddItem("Bullion", 1, math.MaxFloat64)
	require.NoError(t, err)
	b, err := svc.inventory.AddItem("Ingot", 1, math.MaxFloat64)
	require.NoError(t, err)

	_, err = svc.sales.RecordSale([]domain.SaleLine{{ItemID: a, Quantity: 1}, {ItemID: b, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, svc.sales.GetSales())
	assert.Equal(t, map[uint64]uint64{a: 1, b: 1}, quantities(svc))
}

func TestRecordSale_SnapshotsPriceAtSaleTime(t *testing.T) {
	svc := newTestServices()
	widget, _ := seedWidgetAndGadget(t, svc)

	_, err := svc.sales.RecordSale([]domain.SaleLine{{ItemID: widget, Quantity: 2}})
	require.NoError(t, err)
	require.NoError(t, svc.inventory.UpdateItem(widget, domain.ItemPatch{
		Name:  domain.Some("Renamed"),
		Price: domain.Some(100.0),
	}))
	require.NoError(t, svc.inventory.RemoveItem(widget))

	sale := svc.sales.GetSales()[0]
	assert.Equal(t, "Widget", sale.Items[0].Name)
	assert.Equal(t, 2.5, sale.Items[0].UnitPrice)
	assert.Equal(t, 5.0, sale.TotalAmount)
}

func TestGetSales_ReturnsCopies(t *testing.T) {
	svc := newTestServices()
	widget, _ := seedWidgetAndGadget(t, svc)
	_, err := svc.sales.RecordSale([]domain.SaleLine{{ItemID: widget, Quantity: 1}})
	require.NoError(t, err)

	sales := svc.sales.GetSales()
	sales[0].Items[0].Quantity = 1000
	sales[0].TotalAmount = -1

	again := svc.sales.GetSales()
	assert.Equal(t, uint64(1), again[0].Items[0].Quantity)
	assert.Equal(t, 2.5, again[0].TotalAmount)
}

func TestRecordSale_Concurrent(t *testing.T) {
	initialStock := 20
	totalRequests := 50

	svc := newTestServices(WithIDGenerator(func() string { return "concurrent" }))
	id, err := svc.inventory.AddItem("Flash item", uint64(initialStock), 1)
	require.NoError(t, err)

	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.sales.RecordSale([]domain.SaleLine{{ItemID: id, Quantity: 1}})
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				failCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	assert.Equal(t, int32(totalRequests-initialStock), failCount.Load())
	assert.Equal(t, uint64(0), quantities(svc)[id])
	assert.Len(t, svc.sales.GetSales(), initialStock)
}

func TestRecordSaleOnce_DuplicateRequest(t *testing.T) {
	idem := newMockIdempotencyStore()
	svc := newTestServices(WithIdempotency(idem, DefaultIdempotencyTTL))
	widget, _ := seedWidgetAndGadget(t, svc)
	ctx := context.Background()

	_, err := svc.sales.RecordSaleOnce(ctx, "req-1", []domain.SaleLine{{ItemID: widget, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.sales.RecordSaleOnce(ctx, "req-1", []domain.SaleLine{{ItemID: widget, Quantity: 1}})
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// Stock should only be decremented once
	assert.Equal(t, uint64(9), quantities(svc)[widget])
	assert.Len(t, svc.sales.GetSales(), 1)
}

func TestRecordSaleOnce_FailureReleasesClaim(t *testing.T) {
	idem := newMockIdempotencyStore()
	svc := newTestServices(WithIdempotency(idem, DefaultIdempotencyTTL))
	widget, _ := seedWidgetAndGadget(t, svc)
	ctx := context.Background()

	_, err := svc.sales.RecordSaleOnce(ctx, "req-2", []domain.SaleLine{{ItemID: widget, Quantity: 11}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, []string{"sale-request:req-2"}, idem.released)

	_, err = svc.sales.RecordSaleOnce(ctx, "req-2", []domain.SaleLine{{ItemID: widget, Quantity: 10}})
	require.NoError(t, err)
}

func TestRecordSaleOnce_ClaimError(t *testing.T) {
	idem := newMockIdempotencyStore()
	idem.claimErr = errClaimFailed
	svc := newTestServices(WithIdempotency(idem, DefaultIdempotencyTTL))
	widget, _ := seedWidgetAndGadget(t, svc)

	_, err := svc.sales.RecordSaleOnce(context.Background(), "req-3", []domain.SaleLine{{ItemID: widget, Quantity: 1}})
	assert.ErrorIs(t, err, errClaimFailed)
	assert.Empty(t, svc.sales.GetSales())
}

func TestRecordSaleOnce_WithoutRequestID(t *testing.T) {
	idem := newMockIdempotencyStore()
	svc := newTestServices(WithIdempotency(idem, DefaultIdempotencyTTL))
	widget, _ := seedWidgetAndGadget(t, svc)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.sales.RecordSaleOnce(ctx, "", []domain.SaleLine{{ItemID: widget, Quantity: 1}})
		require.NoError(t, err)
	}
	assert.Len(t, svc.sales.GetSales(), 2)
	assert.Empty(t, idem.claimed)
}
