package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"erpvendas/internal/domain"
	"erpvendas/internal/repos"
	"erpvendas/internal/services"
)

func newItemSvc(db *sqlx.DB) *services.SaleItemService {
	return services.NewSaleItemService(db, repos.NewSaleRepo(db), repos.NewCatalogRepo(db))
}

func saleTotal(t *testing.T, db *sqlx.DB, saleID string) float64 {
	t.Helper()
	var total float64
	require.NoError(t, db.Get(&total, `SELECT total FROM sales WHERE id=?`, saleID))
	return total
}

func TestAddLine_RecomputesTotal(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput(""))
	require.NoError(t, err)
	require.InDelta(t, 25.00, sale.Total, 1e-9)

	// price falls back to the catalog's 100.00
	item, err := itemSvc.AddLine(sale.ID, services.AddLineInput{ProductID: "srv-1", Qty: 2})
	require.NoError(t, err)
	require.InDelta(t, 100.00, item.UnitPrice, 1e-9)
	require.InDelta(t, 225.00, saleTotal(t, db, sale.ID), 1e-9)

	// no stock movement: the sale is still pending
	require.Equal(t, 10, stockOf(t, db, "prod-a"))
}

func TestAddLine_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput(""))
	require.NoError(t, err)

	_, err = itemSvc.AddLine(sale.ID, services.AddLineInput{ProductID: "prod-b", Qty: 50})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindInsufficientStock, derr.Kind)

	got, err := saleSvc.Get(sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.InDelta(t, 25.00, got.Total, 1e-9)
}

func TestAddLine_RejectsInactiveProduct(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput(""))
	require.NoError(t, err)

	_, err = itemSvc.AddLine(sale.ID, services.AddLineInput{ProductID: "prod-off", Qty: 1})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindValidation, derr.Kind)
}

func TestLineMutations_RequirePendingSale(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput("COMPLETED"))
	require.NoError(t, err)
	lineID := sale.Items[0].ID

	var derr *domain.Error

	_, err = itemSvc.AddLine(sale.ID, services.AddLineInput{ProductID: "prod-a", Qty: 1})
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindSaleNotModifiable, derr.Kind)

	qty := 5
	_, err = itemSvc.UpdateLine(lineID, services.UpdateLineInput{Qty: &qty})
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindSaleNotModifiable, derr.Kind)

	err = itemSvc.DeleteLine(lineID)
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindSaleNotModifiable, derr.Kind)

	// unchanged: total and both lines still there
	got, err := saleSvc.Get(sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.InDelta(t, 25.00, got.Total, 1e-9)
}

// Increasing quantity on an existing line only needs stock for the extra
// units, not the whole new quantity.
func TestUpdateLine_NetQuantityCheck(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(services.CreateSaleInput{
		CustomerID: "cus-1",
		UserID:     "usr-1",
		Lines:      []services.SaleLineInput{{ProductID: "prod-b", Qty: 4}},
	})
	require.NoError(t, err)
	lineID := sale.Items[0].ID

	// other completed sales drained the counter to 3
	db.MustExec(`UPDATE products SET stock=3 WHERE id='prod-b'`)

	// 4 -> 6 needs 2 extra units; gross 6 would fail, net 2 passes
	qty := 6
	item, err := itemSvc.UpdateLine(lineID, services.UpdateLineInput{Qty: &qty})
	require.NoError(t, err)
	require.Equal(t, 6, item.Qty)
	require.InDelta(t, 30.00, saleTotal(t, db, sale.ID), 1e-9)

	// 6 -> 12 needs 6 extra units, only 3 available
	qty = 12
	_, err = itemSvc.UpdateLine(lineID, services.UpdateLineInput{Qty: &qty})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindInsufficientStock, derr.Kind)
	require.Contains(t, derr.Details[0], "requested 6, available 3")
}

func TestUpdateLine_PriceOnlyIsStockNeutral(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput(""))
	require.NoError(t, err)
	lineID := sale.Items[0].ID

	// even with zero stock a price change must succeed
	db.MustExec(`UPDATE products SET stock=0 WHERE id='prod-a'`)

	price := 12.50
	item, err := itemSvc.UpdateLine(lineID, services.UpdateLineInput{UnitPrice: &price})
	require.NoError(t, err)
	require.InDelta(t, 12.50, item.UnitPrice, 1e-9)
	require.InDelta(t, 30.00, saleTotal(t, db, sale.ID), 1e-9) // 2x12.50 + 1x5
}

func TestUpdateLine_ProductSwapRevalidates(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput(""))
	require.NoError(t, err)
	lineID := sale.Items[1].ID // prod-b qty 1

	// swap to a service: no stock check, price re-defaults to the catalog's
	pid := "srv-1"
	item, err := itemSvc.UpdateLine(lineID, services.UpdateLineInput{ProductID: &pid})
	require.NoError(t, err)
	require.Equal(t, "srv-1", item.ProductID)
	require.InDelta(t, 100.00, item.UnitPrice, 1e-9)
	require.InDelta(t, 120.00, saleTotal(t, db, sale.ID), 1e-9)

	// swap to a drained product fails on the full quantity
	db.MustExec(`UPDATE products SET stock=0 WHERE id='prod-b'`)
	pid = "prod-b"
	_, err = itemSvc.UpdateLine(lineID, services.UpdateLineInput{ProductID: &pid})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindInsufficientStock, derr.Kind)
}

func TestDeleteLine_RecomputesTotal(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(services.CreateSaleInput{
		CustomerID: "cus-1",
		UserID:     "usr-1",
		Lines:      []services.SaleLineInput{{ProductID: "prod-a", Qty: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, itemSvc.DeleteLine(sale.Items[0].ID))

	require.InDelta(t, 0.0, saleTotal(t, db, sale.ID), 1e-9)
	require.Equal(t, 10, stockOf(t, db, "prod-a")) // never completed, no stock change

	err = itemSvc.DeleteLine(sale.Items[0].ID)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, domain.KindNotFound, derr.Kind)
}

// Total invariant: after any sequence of line mutations the stored total
// equals the sum over current lines.
func TestTotalInvariant_AcrossMutationSequence(t *testing.T) {
	db := memdb(t)
	saleSvc := newSaleSvc(db)
	itemSvc := newItemSvc(db)

	sale, err := saleSvc.Create(twoLineInput(""))
	require.NoError(t, err)

	assertInvariant := func() {
		t.Helper()
		got, err := saleSvc.Get(sale.ID)
		require.NoError(t, err)
		sum := 0.0
		for _, it := range got.Items {
			sum += float64(it.Qty) * it.UnitPrice
		}
		require.InDelta(t, sum, got.Total, 1e-9)
	}

	added, err := itemSvc.AddLine(sale.ID, services.AddLineInput{ProductID: "srv-1", Qty: 1})
	require.NoError(t, err)
	assertInvariant()

	qty := 5
	_, err = itemSvc.UpdateLine(added.ID, services.UpdateLineInput{Qty: &qty})
	require.NoError(t, err)
	assertInvariant()

	price := 80.0
	_, err = itemSvc.UpdateLine(added.ID, services.UpdateLineInput{UnitPrice: &price})
	require.NoError(t, err)
	assertInvariant()

	require.NoError(t, itemSvc.DeleteLine(added.ID))
	assertInvariant()
}
