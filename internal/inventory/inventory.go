package inventory

import (
	"errors"
	"math"
	"time"

	"bukukas/internal/domain"
)

var ErrInvalidQuantity = errors.New("invalid quantity")

// CurrentStock replays the whole history for one product: receipts add,
// issues subtract, everything else is ignored. Unknown products yield 0.
// There is no cached running total on purpose: the history can be
// edited or deleted retroactively, and at a few thousand records a full
// replay is cheaper than getting invalidation right.
func CurrentStock(snap *domain.Snapshot, productID string) int64 {
	return StockAsOf(snap, productID, time.Time{})
}

// StockAsOf is CurrentStock restricted to transactions dated strictly
// before asOf. A zero asOf means no date filter.
func StockAsOf(snap *domain.Snapshot, productID string, asOf time.Time) int64 {
	product, ok := snap.Product(productID)
	if !ok {
		return 0
	}

	qty := product.OpeningStock
	for _, tx := range snap.Transactions {
		if !asOf.IsZero() && !dateOnly(tx.Date).Before(dateOnly(asOf)) {
			continue
		}
		delta := tx.Category.StockDelta()
		if delta == 0 {
			continue
		}
		for _, item := range tx.Items {
			if item.ProductID != productID {
				continue
			}
			qty += delta * item.Quantity
		}
	}
	return qty
}

// Blend computes the new weighted-average unit cost after a receipt.
// With no prior stock the receipt price becomes the cost outright,
// which also sidesteps division by zero and negative-stock distortion.
// The result is rounded to the nearest cent, so applying receipts out
// of chronological order produces a different, wrong average; callers
// must process receipts for a product one at a time, in date order.
func Blend(currentStock int64, currentCostCents int64, qty int64, unitPriceCents int64) (int64, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	if currentStock <= 0 {
		return unitPriceCents, nil
	}

	total := float64(currentStock*currentCostCents + qty*unitPriceCents)
	return int64(math.Round(total / float64(currentStock+qty))), nil
}

// ApplyReceipt returns a copy of the product with its weighted-average
// cost updated for one receipt line. The caller owns persistence; the
// product value passed in is never mutated.
func ApplyReceipt(snap *domain.Snapshot, product domain.Product, qty int64, unitPriceCents int64) (domain.Product, error) {
	stock := CurrentStock(snap, product.ID)
	cost, err := Blend(stock, product.CostPriceCents, qty, unitPriceCents)
	if err != nil {
		return domain.Product{}, err
	}
	product.CostPriceCents = cost
	return product, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
