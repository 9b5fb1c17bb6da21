package domain

import "strings"

// Category is the closed set of event types the ledgers dispatch on.
// Historical records carried free-text labels; ParseCategory maps those
// onto this set so projection logic never compares raw strings.
type Category string

const (
	CategorySale                Category = "sale"
	CategoryServiceRevenue      Category = "service_revenue"
	CategoryOtherIncome         Category = "other_income"
	CategoryCustomerDebtPayment Category = "customer_debt_payment"
	CategorySupplierReturn      Category = "supplier_return"

	CategoryPurchase            Category = "purchase"
	CategoryCustomerReturn      Category = "customer_return"
	CategorySupplierDebtPayment Category = "supplier_debt_payment"
	CategoryLaborCost           Category = "labor_cost"
	CategorySalaryPayment       Category = "salary_payment"
	CategoryPayrollRemittance   Category = "payroll_remittance"
	CategoryTaxPayment          Category = "tax_payment"
	CategoryRent                Category = "rent"
	CategoryUtilities           Category = "utilities"
	CategoryTransport           Category = "transport"
	CategorySupplies            Category = "supplies"
	CategoryMarketing           Category = "marketing"
	CategoryOtherExpense        Category = "other_expense"
)

var categoryKinds = map[Category]Kind{
	CategorySale:                KindIncome,
	CategoryServiceRevenue:      KindIncome,
	CategoryOtherIncome:         KindIncome,
	CategoryCustomerDebtPayment: KindIncome,
	CategorySupplierReturn:      KindIncome,
	CategoryPurchase:            KindExpense,
	CategoryCustomerReturn:      KindExpense,
	CategorySupplierDebtPayment: KindExpense,
	CategoryLaborCost:           KindExpense,
	CategorySalaryPayment:       KindExpense,
	CategoryPayrollRemittance:   KindExpense,
	CategoryTaxPayment:          KindExpense,
	CategoryRent:                KindExpense,
	CategoryUtilities:           KindExpense,
	CategoryTransport:           KindExpense,
	CategorySupplies:            KindExpense,
	CategoryMarketing:           KindExpense,
	CategoryOtherExpense:        KindExpense,
}

// legacyLabels maps the free-text labels found in imported histories to
// the closed category set. Matching is case-insensitive on the trimmed
// label. Labels that match nothing fall back to other_income or
// other_expense depending on the record's kind.
var legacyLabels = map[string]Category{
	"sale":                     CategorySale,
	"sales":                    CategorySale,
	"service":                  CategoryServiceRevenue,
	"service revenue":          CategoryServiceRevenue,
	"other income":             CategoryOtherIncome,
	"customer debt payment":    CategoryCustomerDebtPayment,
	"debt collection":          CategoryCustomerDebtPayment,
	"return to supplier":       CategorySupplierReturn,
	"supplier return":          CategorySupplierReturn,
	"purchase":                 CategoryPurchase,
	"goods purchase":           CategoryPurchase,
	"customer return":          CategoryCustomerReturn,
	"goods return":             CategoryCustomerReturn,
	"supplier debt payment":    CategorySupplierDebtPayment,
	"debt payment":             CategorySupplierDebtPayment,
	"labor cost":               CategoryLaborCost,
	"salary":                   CategoryLaborCost,
	"salary payment":           CategorySalaryPayment,
	"insurance remittance":     CategoryPayrollRemittance,
	"social insurance payment": CategoryPayrollRemittance,
	"tax payment":              CategoryTaxPayment,
	"tax":                      CategoryTaxPayment,
	"rent":                     CategoryRent,
	"utilities":                CategoryUtilities,
	"electricity":              CategoryUtilities,
	"water":                    CategoryUtilities,
	"transportation":           CategoryTransport,
	"transport":                CategoryTransport,
	"office supplies":          CategorySupplies,
	"supplies":                 CategorySupplies,
	"marketing":                CategoryMarketing,
	"advertising":              CategoryMarketing,
}

// ParseCategory resolves a category value. It accepts both canonical
// identifiers and legacy free-text labels.
func ParseCategory(label string, kind Kind) Category {
	trimmed := strings.ToLower(strings.TrimSpace(label))
	if _, ok := categoryKinds[Category(trimmed)]; ok {
		return Category(trimmed)
	}
	if c, ok := legacyLabels[trimmed]; ok {
		return c
	}
	if kind == KindIncome {
		return CategoryOtherIncome
	}
	return CategoryOtherExpense
}

func (c Category) Valid() bool {
	_, ok := categoryKinds[c]
	return ok
}

func (c Category) Kind() Kind {
	return categoryKinds[c]
}

// StockDelta reports how one unit of quantity on a line item of this
// category moves stock: +1 for receipts, -1 for issues, 0 otherwise.
func (c Category) StockDelta() int64 {
	switch c {
	case CategoryPurchase, CategoryCustomerReturn:
		return 1
	case CategorySale, CategorySupplierReturn:
		return -1
	default:
		return 0
	}
}

// IsRevenue reports whether the category qualifies for the revenue
// ledger when the record carries line items.
func (c Category) IsRevenue() bool {
	return c == CategorySale || c == CategoryServiceRevenue
}
