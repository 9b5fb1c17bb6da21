package inventory

import (
	"errors"
	"testing"
	"time"

	"bukukas/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func snapshotWithHistory() *domain.Snapshot {
	return &domain.Snapshot{
		Transactions: []domain.Transaction{
			{
				ID: "txn-1", Date: day(1), Kind: domain.KindExpense, Category: domain.CategoryPurchase,
				Items: []domain.LineItem{{ProductID: "prd-1", Quantity: 10, UnitPriceCents: 100}},
			},
			{
				ID: "txn-2", Date: day(5), Kind: domain.KindIncome, Category: domain.CategorySale,
				Items: []domain.LineItem{{ProductID: "prd-1", Quantity: 4, UnitPriceCents: 150}},
			},
			{
				ID: "txn-3", Date: day(9), Kind: domain.KindExpense, Category: domain.CategoryCustomerReturn,
				Items: []domain.LineItem{{ProductID: "prd-1", Quantity: 1, UnitPriceCents: 150}},
			},
			{
				ID: "txn-4", Date: day(9), Kind: domain.KindExpense, Category: domain.CategoryRent,
				AmountCents: 50000,
			},
		},
		Products: map[string]domain.Product{
			"prd-1": {ID: "prd-1", Name: "Rice", OpeningStock: 2, CostPriceCents: 90},
		},
	}
}

func TestCurrentStock(t *testing.T) {
	snap := snapshotWithHistory()
	// 2 opening + 10 purchased - 4 sold + 1 returned.
	if got := CurrentStock(snap, "prd-1"); got != 9 {
		t.Fatalf("CurrentStock = %d, want 9", got)
	}
}

func TestCurrentStockUnknownProduct(t *testing.T) {
	if got := CurrentStock(snapshotWithHistory(), "prd-ghost"); got != 0 {
		t.Fatalf("unknown product stock = %d, want 0", got)
	}
}

func TestStockAsOfIsAPrefixReplay(t *testing.T) {
	snap := snapshotWithHistory()
	if got := StockAsOf(snap, "prd-1", day(1)); got != 2 {
		t.Fatalf("stock before any movement = %d, want opening 2", got)
	}
	if got := StockAsOf(snap, "prd-1", day(5)); got != 12 {
		t.Fatalf("stock after purchase = %d, want 12", got)
	}
	if got := StockAsOf(snap, "prd-1", day(10)); got != 9 {
		t.Fatalf("stock after full history = %d, want 9", got)
	}
}

func TestBlendWeightedAverage(t *testing.T) {
	got, err := Blend(5, 100, 15, 200)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if got != 175 {
		t.Fatalf("Blend = %d, want 175", got)
	}
}

func TestBlendNoPriorStock(t *testing.T) {
	got, err := Blend(0, 999, 3, 120)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if got != 120 {
		t.Fatalf("Blend with no stock = %d, want receipt price 120", got)
	}

	got, err = Blend(-2, 50, 3, 120)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if got != 120 {
		t.Fatalf("Blend with negative stock = %d, want receipt price 120", got)
	}
}

func TestBlendRejectsNonPositiveQuantity(t *testing.T) {
	if _, err := Blend(5, 100, 0, 50); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := Blend(5, 100, -1, 50); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

// Per-receipt rounding makes the blended average depend on receipt
// order, which is why receipts must be applied chronologically.
func TestBlendOrderMatters(t *testing.T) {
	apply := func(stock, cost int64, receipts [][2]int64) int64 {
		for _, r := range receipts {
			blended, err := Blend(stock, cost, r[0], r[1])
			if err != nil {
				t.Fatalf("Blend: %v", err)
			}
			stock += r[0]
			cost = blended
		}
		return cost
	}

	forward := apply(9, 10, [][2]int64{{1, 15}, {10, 20}})
	reverse := apply(9, 10, [][2]int64{{10, 20}, {1, 15}})

	if forward != 16 {
		t.Fatalf("forward order cost = %d, want 16", forward)
	}
	if reverse != 15 {
		t.Fatalf("reverse order cost = %d, want 15", reverse)
	}
}

func TestApplyReceipt(t *testing.T) {
	snap := snapshotWithHistory()
	product := snap.Products["prd-1"]

	updated, err := ApplyReceipt(snap, product, 9, 110)
	if err != nil {
		t.Fatalf("ApplyReceipt: %v", err)
	}
	// (9*90 + 9*110) / 18 = 100.
	if updated.CostPriceCents != 100 {
		t.Fatalf("blended cost = %d, want 100", updated.CostPriceCents)
	}
	if product.CostPriceCents != 90 {
		t.Fatal("input product mutated")
	}
}
