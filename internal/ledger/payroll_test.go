package ledger

import (
	"testing"
	"time"
)

func TestProjectPayrollAccruesContributions(t *testing.T) {
	snap := bookSnapshot()
	result, err := ProjectPayroll(snap, mustMonth(time.January), defaultRates())
	if err != nil {
		t.Fatalf("ProjectPayroll: %v", err)
	}

	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(result.Rows))
	}
	row := result.Rows[0]
	if row.SalaryCents != 100000 {
		t.Fatalf("salary = %d, want 100000", row.SalaryCents)
	}
	if row.SocialInsuranceCents != 17500 || row.HealthInsuranceCents != 3000 ||
		row.UnemploymentCents != 1000 || row.UnionFeeCents != 2000 {
		t.Fatalf("contributions wrong: %+v", row)
	}
	if result.Totals.PayableCents != 123500 {
		t.Fatalf("payable = %d, want 123500", result.Totals.PayableCents)
	}
	if result.ClosingCents != 123500 {
		t.Fatalf("closing = %d, want 123500", result.ClosingCents)
	}
}

func TestProjectPayrollPaymentsReduceBalance(t *testing.T) {
	snap := bookSnapshot()
	result, err := ProjectPayroll(snap, mustMonth(time.April), defaultRates())
	if err != nil {
		t.Fatalf("ProjectPayroll: %v", err)
	}

	if result.OpeningCents != 123500 {
		t.Fatalf("opening = %d, want the January accrual 123500", result.OpeningCents)
	}
	if len(result.Rows) != 1 || result.Rows[0].PaidSalaryCents != 60000 {
		t.Fatalf("rows = %+v, want one salary payment of 60000", result.Rows)
	}
	if result.ClosingCents != 63500 {
		t.Fatalf("closing = %d, want 63500", result.ClosingCents)
	}
	if result.ClosingCents != result.OpeningCents+result.Totals.PayableCents-result.Totals.PaidCents {
		t.Fatal("closing identity violated")
	}
}
