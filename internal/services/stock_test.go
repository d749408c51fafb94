package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"erpvendas/internal/domain"
)

func TestStockDeltas(t *testing.T) {
	items := []domain.SaleItem{
		{ProductID: "prod-a", ProductKind: domain.KindProduct, Qty: 2},
		{ProductID: "srv-1", ProductKind: domain.KindService, Qty: 4},
		{ProductID: "prod-b", ProductKind: domain.KindProduct, Qty: 1},
	}

	cases := []struct {
		name     string
		from, to string
		want     []StockDelta
	}{
		{"no-op", domain.SaleCompleted, domain.SaleCompleted, nil},
		{"pending to completed", domain.SalePending, domain.SaleCompleted,
			[]StockDelta{{"prod-a", -2}, {"prod-b", -1}}},
		{"cancelled to completed", domain.SaleCancelled, domain.SaleCompleted,
			[]StockDelta{{"prod-a", -2}, {"prod-b", -1}}},
		{"completed to cancelled", domain.SaleCompleted, domain.SaleCancelled,
			[]StockDelta{{"prod-a", 2}, {"prod-b", 1}}},
		{"completed to pending", domain.SaleCompleted, domain.SalePending,
			[]StockDelta{{"prod-a", 2}, {"prod-b", 1}}},
		{"pending to cancelled", domain.SalePending, domain.SaleCancelled, nil},
		{"cancelled to pending", domain.SaleCancelled, domain.SalePending, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stockDeltas(tc.from, tc.to, items))
		})
	}
}

func TestStockDeltas_RoundTripNetsZero(t *testing.T) {
	items := []domain.SaleItem{
		{ProductID: "prod-a", ProductKind: domain.KindProduct, Qty: 3},
	}

	net := 0
	for _, d := range stockDeltas(domain.SalePending, domain.SaleCompleted, items) {
		net += d.Change
	}
	for _, d := range stockDeltas(domain.SaleCompleted, domain.SaleCancelled, items) {
		net += d.Change
	}
	assert.Zero(t, net)
}

func TestStockDeltas_ServiceOnlySale(t *testing.T) {
	items := []domain.SaleItem{
		{ProductID: "srv-1", ProductKind: domain.KindService, Qty: 2},
	}
	assert.Empty(t, stockDeltas(domain.SalePending, domain.SaleCompleted, items))
}
