package ledger

import (
	"testing"
	"time"

	"bukukas/internal/domain"
)

func TestProjectExpenseBucketsAndExclusions(t *testing.T) {
	snap := bookSnapshot()
	result, err := ProjectExpense(snap, mustMonth(time.March))
	if err != nil {
		t.Fatalf("ProjectExpense: %v", err)
	}

	// March holds a purchase and a tax payment (both excluded) and rent.
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(result.Rows))
	}
	if result.Rows[0].Bucket != BucketRent {
		t.Fatalf("bucket = %s, want rent", result.Rows[0].Bucket)
	}
	if result.TotalsByBucket[BucketRent] != 30000 {
		t.Fatalf("rent total = %d, want 30000", result.TotalsByBucket[BucketRent])
	}
	if result.ClosingCents != result.OpeningCents+result.TotalCents {
		t.Fatalf("closing %d != opening %d + total %d", result.ClosingCents, result.OpeningCents, result.TotalCents)
	}
}

func TestProjectExpenseOtherBucket(t *testing.T) {
	snap := &domain.Snapshot{
		Transactions: []domain.Transaction{{
			ID: "txn-misc", Date: date(time.March, 2), Description: "Stamp duty",
			AmountCents: 1200, Kind: domain.KindExpense, Category: domain.CategoryOtherExpense,
		}},
	}
	result, err := ProjectExpense(snap, mustMonth(time.March))
	if err != nil {
		t.Fatalf("ProjectExpense: %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0].Bucket != BucketOther {
		t.Fatalf("unmatched category must land in the other bucket, got %+v", result.Rows)
	}
}

func TestProjectExpenseIgnoresPayrollCategories(t *testing.T) {
	snap := bookSnapshot()
	jan, err := ProjectExpense(snap, mustMonth(time.January))
	if err != nil {
		t.Fatalf("ProjectExpense: %v", err)
	}
	if len(jan.Rows) != 0 {
		t.Fatal("labor cost must stay off the expense ledger")
	}

	apr, err := ProjectExpense(snap, mustMonth(time.April))
	if err != nil {
		t.Fatalf("ProjectExpense: %v", err)
	}
	if len(apr.Rows) != 0 {
		t.Fatal("salary payment must stay off the expense ledger")
	}
}
