package services

import "erpvendas/internal/domain"

// StockDelta is one product's stock change implied by a status transition.
// Negative means decrement (reservation), positive means reversal.
type StockDelta struct {
	ProductID string
	Change    int
}

// stockDeltas derives the stock adjustments for moving a sale's line set from
// oldStatus to newStatus. Pure function so transitions can be tested without
// a live transaction. Service-kind lines never produce deltas.
func stockDeltas(oldStatus, newStatus string, items []domain.SaleItem) []StockDelta {
	if oldStatus == newStatus {
		return nil
	}

	sign := 0
	switch {
	case newStatus == domain.SaleCompleted:
		sign = -1
	case oldStatus == domain.SaleCompleted:
		sign = +1
	default:
		return nil
	}

	deltas := make([]StockDelta, 0, len(items))
	for _, it := range items {
		if it.ProductKind != domain.KindProduct {
			continue
		}
		deltas = append(deltas, StockDelta{ProductID: it.ProductID, Change: sign * it.Qty})
	}
	return deltas
}
