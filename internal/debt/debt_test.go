package debt

import (
	"testing"
	"time"

	"bukukas/internal/domain"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func customerHistory() *domain.Snapshot {
	return &domain.Snapshot{
		Transactions: []domain.Transaction{
			{
				ID: "txn-1", Date: day(time.January, 10), AmountCents: 50000,
				Kind: domain.KindIncome, Category: domain.CategorySale, CustomerID: "cus-1",
			},
			{
				ID: "txn-2", Date: day(time.January, 25), AmountCents: 50000,
				Kind: domain.KindIncome, Category: domain.CategoryCustomerDebtPayment, CustomerID: "cus-1",
			},
			{
				ID: "txn-3", Date: day(time.February, 5), AmountCents: 30000,
				Kind: domain.KindIncome, Category: domain.CategorySale, CustomerID: "cus-1",
			},
		},
	}
}

func TestCustomerAgingFromLastZeroCrossing(t *testing.T) {
	now := day(time.February, 15)
	out := For(customerHistory(), "cus-1", PartyCustomer, now)

	if out.AmountCents != 30000 {
		t.Fatalf("balance = %d, want 30000", out.AmountCents)
	}
	if out.AgingDays == nil {
		t.Fatal("aging expected for a positive balance")
	}
	// Aged from February 5, when the balance went positive again,
	// not from the January sale.
	if *out.AgingDays != 10 {
		t.Fatalf("aging = %d days, want 10", *out.AgingDays)
	}
}

func TestFullPaymentClearsAging(t *testing.T) {
	snap := customerHistory()
	snap.Transactions = snap.Transactions[:2]

	out := For(snap, "cus-1", PartyCustomer, day(time.March, 1))
	if out.AmountCents != 0 {
		t.Fatalf("balance = %d, want 0", out.AmountCents)
	}
	if out.AgingDays != nil {
		t.Fatal("aging must be nil once the balance is settled")
	}
}

func TestCustomerReturnReducesBalance(t *testing.T) {
	snap := customerHistory()
	snap.Transactions = append(snap.Transactions, domain.Transaction{
		ID: "txn-4", Date: day(time.February, 20), AmountCents: 30000,
		Kind: domain.KindExpense, Category: domain.CategoryCustomerReturn, CustomerID: "cus-1",
	})

	out := For(snap, "cus-1", PartyCustomer, day(time.March, 1))
	if out.AmountCents != 0 {
		t.Fatalf("balance after return = %d, want 0", out.AmountCents)
	}
}

func TestSupplierBalance(t *testing.T) {
	snap := &domain.Snapshot{
		Transactions: []domain.Transaction{
			{
				ID: "txn-1", Date: day(time.March, 1), AmountCents: 90000,
				Kind: domain.KindExpense, Category: domain.CategoryPurchase, SupplierID: "sup-1",
			},
			{
				ID: "txn-2", Date: day(time.March, 10), AmountCents: 40000,
				Kind: domain.KindExpense, Category: domain.CategorySupplierDebtPayment, SupplierID: "sup-1",
			},
		},
	}

	out := For(snap, "sup-1", PartySupplier, day(time.March, 15))
	if out.AmountCents != 50000 {
		t.Fatalf("balance = %d, want 50000", out.AmountCents)
	}
	if out.AgingDays == nil || *out.AgingDays != 14 {
		t.Fatalf("aging = %v, want 14 days from the purchase", out.AgingDays)
	}
}

func TestUnknownPartyHasZeroBalance(t *testing.T) {
	out := For(customerHistory(), "cus-ghost", PartyCustomer, day(time.March, 1))
	if out.AmountCents != 0 || out.AgingDays != nil {
		t.Fatalf("unknown party = %+v, want zero balance and nil aging", out)
	}
}

func TestAllCustomersEnumeratesFromHistory(t *testing.T) {
	snap := customerHistory()
	snap.Transactions = append(snap.Transactions, domain.Transaction{
		ID: "txn-5", Date: day(time.February, 10), AmountCents: 12000,
		Kind: domain.KindIncome, Category: domain.CategorySale, CustomerID: "cus-2",
	})

	results := AllCustomers(snap, day(time.February, 15))
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].PartyID != "cus-1" || results[1].PartyID != "cus-2" {
		t.Fatalf("ordering wrong: %+v", results)
	}
}
