package ledger

import (
	"time"

	"bukukas/internal/domain"
	"bukukas/internal/inventory"
)

type InventoryRow struct {
	TransactionID     string    `json:"transaction_id"`
	Date              time.Time `json:"date"`
	Description       string    `json:"description"`
	ReceiptQty        int64     `json:"receipt_qty"`
	IssueQty          int64     `json:"issue_qty"`
	ReceiptValueCents int64     `json:"receipt_value_cents"`
	IssueValueCents   int64     `json:"issue_value_cents"`
	BalanceQty        int64     `json:"balance_qty"`
	BalanceValueCents int64     `json:"balance_value_cents"`
}

type InventoryResult struct {
	ProductID              string         `json:"product_id"`
	Period                 Period         `json:"period"`
	OpeningQty             int64          `json:"opening_qty"`
	OpeningValueCents      int64          `json:"opening_value_cents"`
	Rows                   []InventoryRow `json:"rows"`
	TotalReceiptQty        int64          `json:"total_receipt_qty"`
	TotalIssueQty          int64          `json:"total_issue_qty"`
	TotalReceiptValueCents int64          `json:"total_receipt_value_cents"`
	TotalIssueValueCents   int64          `json:"total_issue_value_cents"`
	ClosingQty             int64          `json:"closing_qty"`
	ClosingValueCents      int64          `json:"closing_value_cents"`
}

// ProjectInventory builds the stock card for a single product. The
// opening quantity is a stock replay over everything before the period.
// Receipts are valued at the line's historical unit price; issues and
// running values use the product's cost at projection time, the usual
// cost-of-goods-sold convention. A product that was deleted from the
// catalog projects with zero cost so old stock cards stay viewable.
func ProjectInventory(snap *domain.Snapshot, productID string, p Period) (InventoryResult, error) {
	if p.Start.IsZero() {
		return InventoryResult{}, ErrInvalidPeriod
	}
	_, in := partition(snap, p)

	cost := int64(0)
	if product, ok := snap.Product(productID); ok {
		cost = product.CostPriceCents
	}

	openingQty := inventory.StockAsOf(snap, productID, p.Start)
	result := InventoryResult{
		ProductID:         productID,
		Period:            p,
		OpeningQty:        openingQty,
		OpeningValueCents: openingQty * cost,
		Rows:              make([]InventoryRow, 0, len(in)),
	}

	balanceQty := openingQty
	for _, tx := range in {
		delta := tx.Category.StockDelta()
		if delta == 0 {
			continue
		}

		qty := int64(0)
		receiptValue := int64(0)
		for _, item := range tx.Items {
			if item.ProductID != productID {
				continue
			}
			qty += item.Quantity
			receiptValue += item.TotalCents()
		}
		if qty == 0 {
			continue
		}

		row := InventoryRow{
			TransactionID: tx.ID,
			Date:          dateOnly(tx.Date),
			Description:   tx.Description,
		}
		if delta > 0 {
			row.ReceiptQty = qty
			row.ReceiptValueCents = receiptValue
			balanceQty += qty
		} else {
			row.IssueQty = qty
			row.IssueValueCents = qty * cost
			balanceQty -= qty
		}
		row.BalanceQty = balanceQty
		row.BalanceValueCents = balanceQty * cost

		result.Rows = append(result.Rows, row)
		result.TotalReceiptQty += row.ReceiptQty
		result.TotalIssueQty += row.IssueQty
		result.TotalReceiptValueCents += row.ReceiptValueCents
		result.TotalIssueValueCents += row.IssueValueCents
	}

	result.ClosingQty = result.OpeningQty + result.TotalReceiptQty - result.TotalIssueQty
	result.ClosingValueCents = result.ClosingQty * cost
	return result, nil
}
