package ledger

import (
	"fmt"
	"sort"
	"time"

	"bukukas/internal/domain"
	"bukukas/internal/rates"
)

type TaxRow struct {
	// TransactionID is empty for synthesized quarterly accrual rows.
	TransactionID string    `json:"transaction_id,omitempty"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	PayableCents  int64     `json:"payable_cents"`
	PaidCents     int64     `json:"paid_cents"`
	BalanceCents  int64     `json:"balance_cents"`
}

type TaxResult struct {
	Period            Period   `json:"period"`
	OpeningCents      int64    `json:"opening_cents"`
	Rows              []TaxRow `json:"rows"`
	TotalPayableCents int64    `json:"total_payable_cents"`
	TotalPaidCents    int64    `json:"total_paid_cents"`
	ClosingCents      int64    `json:"closing_cents"`
}

// ProjectTax builds the tax ledger. Payable amounts are never read off
// transactions: each calendar quarter ending inside the period becomes
// a synthesized accrual row, its amount derived from that quarter's
// revenue line items and the loaded VAT/PIT rate table. Paid amounts
// come from tax remittance records. Both row kinds merge into one
// date-ordered sequence, accruals first on equal dates.
func ProjectTax(snap *domain.Snapshot, p Period, table *rates.Table) (TaxResult, error) {
	if p.Start.IsZero() {
		return TaxResult{}, ErrInvalidPeriod
	}
	before, in := partition(snap, p)

	opening := int64(0)
	for _, end := range quarterEndsBefore(snap, p.Start) {
		opening += quarterAccrual(snap, end, table)
	}
	for _, tx := range before {
		if tx.Category == domain.CategoryTaxPayment {
			opening -= tx.AmountCents
		}
	}

	rows := make([]TaxRow, 0, 8)
	for _, end := range quarterEndsWithin(p) {
		payable := quarterAccrual(snap, end, table)
		if payable == 0 {
			continue
		}
		rows = append(rows, TaxRow{
			Date:         end,
			Description:  fmt.Sprintf("VAT & PIT accrual Q%d/%d", (int(end.Month())+2)/3, end.Year()),
			PayableCents: payable,
		})
	}
	for _, tx := range in {
		if tx.Category != domain.CategoryTaxPayment {
			continue
		}
		rows = append(rows, TaxRow{
			TransactionID: tx.ID,
			Date:          dateOnly(tx.Date),
			Description:   tx.Description,
			PaidCents:     tx.AmountCents,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	result := TaxResult{Period: p, OpeningCents: opening, Rows: rows}
	balance := opening
	for i := range result.Rows {
		balance += result.Rows[i].PayableCents - result.Rows[i].PaidCents
		result.Rows[i].BalanceCents = balance
		result.TotalPayableCents += result.Rows[i].PayableCents
		result.TotalPaidCents += result.Rows[i].PaidCents
	}
	result.ClosingCents = result.OpeningCents + result.TotalPayableCents - result.TotalPaidCents
	return result, nil
}

// quarterAccrual sums VAT+PIT over every revenue line item in the
// calendar quarter ending on end, rounding per line.
func quarterAccrual(snap *domain.Snapshot, end time.Time, table *rates.Table) int64 {
	start := end.AddDate(0, -3, 0).AddDate(0, 0, 1)

	total := int64(0)
	for _, tx := range snap.Transactions {
		day := dateOnly(tx.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		if tx.Kind != domain.KindIncome || !tx.Category.IsRevenue() || len(tx.Items) == 0 {
			continue
		}
		for _, item := range tx.Items {
			category := taxCategoryFor(snap, item.ProductID, table)
			total += percentCents(item.TotalCents(), table.CombinedPercent(category))
		}
	}
	return total
}

// quarterEndsWithin lists the calendar quarter end dates that fall
// inside the period, oldest first. Only a quarter that has fully
// elapsed within the reporting window accrues.
func quarterEndsWithin(p Period) []time.Time {
	ends := make([]time.Time, 0, 4)
	for year := p.Start.Year(); year <= p.End.Year(); year++ {
		for q := 1; q <= 4; q++ {
			end := quarterEnd(year, q)
			if !end.Before(p.Start) && !end.After(p.End) {
				ends = append(ends, end)
			}
		}
	}
	return ends
}

// quarterEndsBefore lists quarter end dates strictly before cutoff,
// bounded below by the earliest transaction on record.
func quarterEndsBefore(snap *domain.Snapshot, cutoff time.Time) []time.Time {
	firstYear := cutoff.Year()
	for _, tx := range snap.Transactions {
		if y := tx.Date.Year(); y < firstYear && y >= minReportingYear {
			firstYear = y
		}
	}

	ends := make([]time.Time, 0, 8)
	for year := firstYear; year <= cutoff.Year(); year++ {
		for q := 1; q <= 4; q++ {
			if end := quarterEnd(year, q); end.Before(cutoff) {
				ends = append(ends, end)
			}
		}
	}
	return ends
}
