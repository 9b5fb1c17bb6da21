package ledger

import (
	"testing"
	"time"

	"bukukas/internal/domain"
)

func TestProjectRevenueBucketsByTaxCategory(t *testing.T) {
	snap := bookSnapshot()
	result, err := ProjectRevenue(snap, mustMonth(time.February), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}

	if len(result.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(result.Rows))
	}
	if result.OpeningCents != 0 {
		t.Fatalf("opening = %d, want 0", result.OpeningCents)
	}
	if result.TotalCents != 60000 {
		t.Fatalf("total = %d, want 60000", result.TotalCents)
	}
	if result.TotalsByCategory["distribution"] != 10000 {
		t.Fatalf("distribution total = %d, want 10000", result.TotalsByCategory["distribution"])
	}
	if result.TotalsByCategory["services"] != 50000 {
		t.Fatalf("services total = %d, want 50000", result.TotalsByCategory["services"])
	}
	if result.ClosingCents != result.OpeningCents+result.TotalCents {
		t.Fatalf("closing %d != opening %d + total %d", result.ClosingCents, result.OpeningCents, result.TotalCents)
	}
	if result.Rows[1].BalanceCents != 60000 {
		t.Fatalf("running balance = %d, want 60000", result.Rows[1].BalanceCents)
	}
}

func TestProjectRevenueExcludesNonQualifyingRecords(t *testing.T) {
	snap := bookSnapshot()
	result, err := ProjectRevenue(snap, mustMonth(time.April), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	// The April debt collection is income but not revenue.
	if len(result.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(result.Rows))
	}
	if result.OpeningCents != 60000 {
		t.Fatalf("opening = %d, want 60000 carried from February", result.OpeningCents)
	}
}

func TestProjectRevenueDeletedProductFallsBackToDefault(t *testing.T) {
	snap := bookSnapshot()
	delete(snap.Products, "prd-consult")

	result, err := ProjectRevenue(snap, mustMonth(time.February), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	// Total revenue is unchanged; the orphaned line moves to the default bucket.
	if result.TotalCents != 60000 {
		t.Fatalf("total = %d, want 60000", result.TotalCents)
	}
	if result.TotalsByCategory["distribution"] != 60000 {
		t.Fatalf("distribution total = %d, want 60000", result.TotalsByCategory["distribution"])
	}
}

func TestProjectRevenuePeriodEndInclusive(t *testing.T) {
	snap := &domain.Snapshot{
		Transactions: []domain.Transaction{{
			ID: "txn-edge", Date: date(time.February, 28), AmountCents: 700,
			Kind: domain.KindIncome, Category: domain.CategorySale,
			Items: []domain.LineItem{{ProductID: "prd-x", Quantity: 1, UnitPriceCents: 700}},
		}},
		Products: map[string]domain.Product{},
	}

	feb, err := ProjectRevenue(snap, mustMonth(time.February), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	if len(feb.Rows) != 1 {
		t.Fatal("record on the period's last day must be inside the period")
	}

	mar, err := ProjectRevenue(snap, mustMonth(time.March), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	if len(mar.Rows) != 0 || mar.OpeningCents != 700 {
		t.Fatalf("same record must feed the next period's opening, got rows=%d opening=%d", len(mar.Rows), mar.OpeningCents)
	}
}

func TestProjectRevenueIsPure(t *testing.T) {
	snap := bookSnapshot()
	first, err := ProjectRevenue(snap, mustMonth(time.February), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	second, err := ProjectRevenue(snap, mustMonth(time.February), defaultRates())
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	if first.TotalCents != second.TotalCents || first.ClosingCents != second.ClosingCents || len(first.Rows) != len(second.Rows) {
		t.Fatal("repeated projection over the same snapshot diverged")
	}
}
