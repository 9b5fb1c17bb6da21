package ledger

import (
	"time"

	"bukukas/internal/domain"
)

// ExpenseBucket is one of the fixed cost columns on the expense ledger.
type ExpenseBucket string

const (
	BucketRent      ExpenseBucket = "rent"
	BucketUtilities ExpenseBucket = "utilities"
	BucketTransport ExpenseBucket = "transport"
	BucketSupplies  ExpenseBucket = "supplies"
	BucketMarketing ExpenseBucket = "marketing"
	BucketOther     ExpenseBucket = "other"
)

var expenseBuckets = map[domain.Category]ExpenseBucket{
	domain.CategoryRent:      BucketRent,
	domain.CategoryUtilities: BucketUtilities,
	domain.CategoryTransport: BucketTransport,
	domain.CategorySupplies:  BucketSupplies,
	domain.CategoryMarketing: BucketMarketing,
}

// Categories with a dedicated ledger stay out of the expense ledger
// entirely: purchases and customer returns feed inventory, labor and
// remittances feed payroll, tax payments feed the tax ledger, and
// supplier debt settlement is the tail of a purchase.
var expenseExcluded = map[domain.Category]bool{
	domain.CategoryPurchase:            true,
	domain.CategoryCustomerReturn:      true,
	domain.CategorySupplierDebtPayment: true,
	domain.CategoryLaborCost:           true,
	domain.CategorySalaryPayment:       true,
	domain.CategoryPayrollRemittance:   true,
	domain.CategoryTaxPayment:          true,
}

type ExpenseRow struct {
	TransactionID string        `json:"transaction_id"`
	Date          time.Time     `json:"date"`
	Description   string        `json:"description"`
	Bucket        ExpenseBucket `json:"bucket"`
	AmountCents   int64         `json:"amount_cents"`
	BalanceCents  int64         `json:"balance_cents"`
}

type ExpenseResult struct {
	Period         Period                  `json:"period"`
	OpeningCents   int64                   `json:"opening_cents"`
	Rows           []ExpenseRow            `json:"rows"`
	TotalsByBucket map[ExpenseBucket]int64 `json:"totals_by_bucket"`
	TotalCents     int64                   `json:"total_cents"`
	ClosingCents   int64                   `json:"closing_cents"`
}

// ProjectExpense builds the operating-expense ledger. Each qualifying
// record's full amount lands in exactly one bucket: an exact category
// match, or "other".
func ProjectExpense(snap *domain.Snapshot, p Period) (ExpenseResult, error) {
	if p.Start.IsZero() {
		return ExpenseResult{}, ErrInvalidPeriod
	}
	before, in := partition(snap, p)

	opening := int64(0)
	for _, tx := range before {
		if qualifiesExpense(tx) {
			opening += tx.AmountCents
		}
	}

	result := ExpenseResult{
		Period:         p,
		OpeningCents:   opening,
		Rows:           make([]ExpenseRow, 0, len(in)),
		TotalsByBucket: make(map[ExpenseBucket]int64, len(expenseBuckets)+1),
	}

	balance := opening
	for _, tx := range in {
		if !qualifiesExpense(tx) {
			continue
		}
		bucket, ok := expenseBuckets[tx.Category]
		if !ok {
			bucket = BucketOther
		}
		balance += tx.AmountCents
		result.Rows = append(result.Rows, ExpenseRow{
			TransactionID: tx.ID,
			Date:          dateOnly(tx.Date),
			Description:   tx.Description,
			Bucket:        bucket,
			AmountCents:   tx.AmountCents,
			BalanceCents:  balance,
		})
		result.TotalsByBucket[bucket] += tx.AmountCents
		result.TotalCents += tx.AmountCents
	}

	result.ClosingCents = result.OpeningCents + result.TotalCents
	return result, nil
}

func qualifiesExpense(tx domain.Transaction) bool {
	return tx.Kind == domain.KindExpense && !expenseExcluded[tx.Category]
}
