package ledger

import (
	"testing"
	"time"

	"bukukas/internal/domain"
)

func TestProjectTaxSynthesizesQuarterlyAccrual(t *testing.T) {
	snap := &domain.Snapshot{
		Transactions: []domain.Transaction{{
			ID: "txn-big", Date: date(time.February, 10), AmountCents: 1000000,
			Kind: domain.KindIncome, Category: domain.CategorySale,
			Items: []domain.LineItem{{ProductID: "prd-rice", Quantity: 100, UnitPriceCents: 10000}},
		}},
		Products: map[string]domain.Product{
			"prd-rice": {ID: "prd-rice", Name: "Rice", TaxCategory: "distribution"},
		},
	}

	q1, err := Quarter(2025, 1)
	if err != nil {
		t.Fatalf("Quarter: %v", err)
	}
	result, err := ProjectTax(snap, q1, defaultRates())
	if err != nil {
		t.Fatalf("ProjectTax: %v", err)
	}

	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d, want the single Q1 accrual", len(result.Rows))
	}
	row := result.Rows[0]
	if row.TransactionID != "" {
		t.Fatal("accrual row must not reference a transaction")
	}
	// 1,000,000 at 1% VAT + 0.5% PIT.
	if row.PayableCents != 15000 {
		t.Fatalf("payable = %d, want 15000", row.PayableCents)
	}
	if !row.Date.Equal(date(time.March, 31)) {
		t.Fatalf("accrual dated %v, want quarter end", row.Date)
	}
	if result.ClosingCents != 15000 {
		t.Fatalf("closing = %d, want 15000", result.ClosingCents)
	}
}

func TestProjectTaxMergesAccrualsAndPayments(t *testing.T) {
	snap := bookSnapshot()
	p, err := NewPeriod(date(time.January, 1), date(time.December, 31))
	if err != nil {
		t.Fatalf("NewPeriod: %v", err)
	}
	result, err := ProjectTax(snap, p, defaultRates())
	if err != nil {
		t.Fatalf("ProjectTax: %v", err)
	}

	// Q1 revenue: 10,000 distribution at 1.5% plus 50,000 services at 7%.
	wantAccrual := int64(150 + 3500)
	if result.TotalPayableCents != wantAccrual {
		t.Fatalf("total payable = %d, want %d", result.TotalPayableCents, wantAccrual)
	}
	if result.TotalPaidCents != 10000 {
		t.Fatalf("total paid = %d, want 10000", result.TotalPaidCents)
	}
	if result.ClosingCents != wantAccrual-10000 {
		t.Fatalf("closing = %d, want %d", result.ClosingCents, wantAccrual-10000)
	}

	// The March 20 remittance precedes the March 31 accrual.
	if len(result.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(result.Rows))
	}
	if result.Rows[0].PaidCents != 10000 || result.Rows[1].PayableCents != wantAccrual {
		t.Fatalf("row order wrong: %+v", result.Rows)
	}
	if result.Rows[1].BalanceCents != result.ClosingCents {
		t.Fatalf("final running balance %d != closing %d", result.Rows[1].BalanceCents, result.ClosingCents)
	}
}

func TestProjectTaxOpeningCarriesPriorQuarters(t *testing.T) {
	snap := bookSnapshot()
	q2, err := Quarter(2025, 2)
	if err != nil {
		t.Fatalf("Quarter: %v", err)
	}
	result, err := ProjectTax(snap, q2, defaultRates())
	if err != nil {
		t.Fatalf("ProjectTax: %v", err)
	}
	// Q1 accrual 3,650 minus the 10,000 paid in March.
	if result.OpeningCents != 3650-10000 {
		t.Fatalf("opening = %d, want %d", result.OpeningCents, 3650-10000)
	}
	// No Q2 revenue, so no accrual row is synthesized.
	if len(result.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(result.Rows))
	}
}
