package ledger

import (
	"time"

	"bukukas/internal/domain"
	"bukukas/internal/rates"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

// bookSnapshot is a small but representative year of history: two
// revenue events, a purchase, operating expenses, payroll, a tax
// remittance and a debt collection.
func bookSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Transactions: []domain.Transaction{
			{
				ID: "txn-labor", Date: date(time.January, 15), Description: "January wages",
				AmountCents: 100000, Kind: domain.KindExpense, Category: domain.CategoryLaborCost,
			},
			{
				ID: "txn-sale", Date: date(time.February, 10), Description: "Rice sale",
				AmountCents: 10000, Kind: domain.KindIncome, Category: domain.CategorySale,
				CustomerID: "cus-1",
				Items:      []domain.LineItem{{ProductID: "prd-rice", Quantity: 5, UnitPriceCents: 2000}},
			},
			{
				ID: "txn-consult", Date: date(time.February, 20), Description: "Consulting engagement",
				AmountCents: 50000, Kind: domain.KindIncome, Category: domain.CategoryServiceRevenue,
				Channel: domain.ChannelBank,
				Items:   []domain.LineItem{{ProductID: "prd-consult", Quantity: 1, UnitPriceCents: 50000}},
			},
			{
				ID: "txn-purchase", Date: date(time.March, 5), Description: "Rice restock",
				AmountCents: 9000, Kind: domain.KindExpense, Category: domain.CategoryPurchase,
				SupplierID: "sup-1",
				Items:      []domain.LineItem{{ProductID: "prd-rice", Quantity: 10, UnitPriceCents: 900}},
			},
			{
				ID: "txn-rent", Date: date(time.March, 15), Description: "Shop rent",
				AmountCents: 30000, Kind: domain.KindExpense, Category: domain.CategoryRent,
			},
			{
				ID: "txn-taxpay", Date: date(time.March, 20), Description: "Q4 remittance",
				AmountCents: 10000, Kind: domain.KindExpense, Category: domain.CategoryTaxPayment,
			},
			{
				ID: "txn-salary", Date: date(time.April, 2), Description: "Wages paid out",
				AmountCents: 60000, Kind: domain.KindExpense, Category: domain.CategorySalaryPayment,
			},
			{
				ID: "txn-collect", Date: date(time.April, 10), Description: "Debt collected",
				AmountCents: 10000, Kind: domain.KindIncome, Category: domain.CategoryCustomerDebtPayment,
				CustomerID: "cus-1",
			},
		},
		Products: map[string]domain.Product{
			"prd-rice":    {ID: "prd-rice", Name: "Rice", CostPriceCents: 800, OpeningStock: 20, TaxCategory: "distribution"},
			"prd-consult": {ID: "prd-consult", Name: "Consulting", TaxCategory: "services"},
		},
		Customers: map[string]domain.Customer{"cus-1": {ID: "cus-1", Name: "Minh"}},
		Suppliers: map[string]domain.Supplier{"sup-1": {ID: "sup-1", Name: "Delta"}},
	}
}

func defaultRates() *rates.Table {
	return rates.Default()
}

func mustMonth(m time.Month) Period {
	p, err := Month(2025, m)
	if err != nil {
		panic(err)
	}
	return p
}
