package ledger

import (
	"time"

	"bukukas/internal/domain"
	"bukukas/internal/rates"
)

type RevenueRow struct {
	TransactionID     string           `json:"transaction_id"`
	Date              time.Time        `json:"date"`
	Description       string           `json:"description"`
	AmountsByCategory map[string]int64 `json:"amounts_by_category"`
	AmountCents       int64            `json:"amount_cents"`
	BalanceCents      int64            `json:"balance_cents"`
}

type RevenueResult struct {
	Period           Period           `json:"period"`
	OpeningCents     int64            `json:"opening_cents"`
	Rows             []RevenueRow     `json:"rows"`
	TotalsByCategory map[string]int64 `json:"totals_by_category"`
	TotalCents       int64            `json:"total_cents"`
	ClosingCents     int64            `json:"closing_cents"`
}

// ProjectRevenue builds the revenue ledger: income records in the sale
// and service categories that carry line items. Each line's revenue is
// bucketed by its product's tax category; lines whose product is gone
// from the catalog, or has no category, fall into the table's default
// category. Non-qualifying records never appear, not even zero-filled.
func ProjectRevenue(snap *domain.Snapshot, p Period, table *rates.Table) (RevenueResult, error) {
	if p.Start.IsZero() {
		return RevenueResult{}, ErrInvalidPeriod
	}
	before, in := partition(snap, p)

	opening := int64(0)
	for _, tx := range before {
		amount, _ := revenueOf(snap, tx, table)
		opening += amount
	}

	result := RevenueResult{
		Period:           p,
		OpeningCents:     opening,
		Rows:             make([]RevenueRow, 0, len(in)),
		TotalsByCategory: make(map[string]int64, len(table.Categories)),
	}

	balance := opening
	for _, tx := range in {
		amount, byCategory := revenueOf(snap, tx, table)
		if byCategory == nil {
			continue
		}
		balance += amount
		result.Rows = append(result.Rows, RevenueRow{
			TransactionID:     tx.ID,
			Date:              dateOnly(tx.Date),
			Description:       tx.Description,
			AmountsByCategory: byCategory,
			AmountCents:       amount,
			BalanceCents:      balance,
		})
		result.TotalCents += amount
		for category, cents := range byCategory {
			result.TotalsByCategory[category] += cents
		}
	}

	result.ClosingCents = result.OpeningCents + result.TotalCents
	return result, nil
}

// revenueOf returns a record's revenue split by tax category, or a nil
// map when the record does not qualify for the revenue ledger.
func revenueOf(snap *domain.Snapshot, tx domain.Transaction, table *rates.Table) (int64, map[string]int64) {
	if tx.Kind != domain.KindIncome || !tx.Category.IsRevenue() || len(tx.Items) == 0 {
		return 0, nil
	}

	total := int64(0)
	byCategory := make(map[string]int64, 2)
	for _, item := range tx.Items {
		category := taxCategoryFor(snap, item.ProductID, table)
		byCategory[category] += item.TotalCents()
		total += item.TotalCents()
	}
	return total, byCategory
}

func taxCategoryFor(snap *domain.Snapshot, productID string, table *rates.Table) string {
	if product, ok := snap.Product(productID); ok && product.TaxCategory != "" {
		if _, known := table.Categories[product.TaxCategory]; known {
			return product.TaxCategory
		}
	}
	return table.DefaultCategory
}
