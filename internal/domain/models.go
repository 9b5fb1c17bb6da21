package domain

import (
	"errors"
	"time"
)

var ErrInconsistentLineItem = errors.New("inconsistent line item")

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type Channel string

const (
	ChannelCash Channel = "cash"
	ChannelBank Channel = "bank"
)

// Normalize maps the historical empty channel to cash. Records created
// before bank settlement was tracked carry no channel at all.
func (c Channel) Normalize() Channel {
	if c == ChannelBank {
		return ChannelBank
	}
	return ChannelCash
}

type LineItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

func (li LineItem) TotalCents() int64 {
	return li.Quantity * li.UnitPriceCents
}

type Transaction struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents"`
	Kind        Kind       `json:"kind"`
	Category    Category   `json:"category"`
	CustomerID  string     `json:"customer_id,omitempty"`
	SupplierID  string     `json:"supplier_id,omitempty"`
	Channel     Channel    `json:"channel,omitempty"`
	Items       []LineItem `json:"items,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Validate checks the structural rules that must hold before a record
// enters the history. Soft data-quality problems (a deleted product
// referenced by an old line item) are deliberately not checked here.
func (t Transaction) Validate() error {
	if t.AmountCents < 0 {
		return ErrInconsistentLineItem
	}
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return ErrInconsistentLineItem
	}
	if !t.Category.Valid() {
		return ErrInconsistentLineItem
	}
	if t.Category.Kind() != t.Kind {
		return ErrInconsistentLineItem
	}
	if t.Date.IsZero() {
		return ErrInconsistentLineItem
	}
	for _, item := range t.Items {
		if item.ProductID == "" || item.Quantity < 1 || item.UnitPriceCents < 0 {
			return ErrInconsistentLineItem
		}
	}
	return nil
}

type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	SalePriceCents int64   `json:"sale_price_cents"`
	CostPriceCents int64   `json:"cost_price_cents"`
	OpeningStock   int64   `json:"opening_stock"`
	Unit           string  `json:"unit"`
	TaxCategory    string  `json:"tax_category,omitempty"`
	VATPercent     float64 `json:"vat_percent,omitempty"`
}

type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	TaxNumber   string `json:"tax_number,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
}

type Supplier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	TaxNumber   string `json:"tax_number,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
}

// Snapshot is the read-only view every projection consumes. Transactions
// keep the store's insertion order; projections sort by date with ties
// broken by that order, never by amount.
type Snapshot struct {
	Transactions []Transaction
	Products     map[string]Product
	Customers    map[string]Customer
	Suppliers    map[string]Supplier
}

func (s *Snapshot) Product(id string) (Product, bool) {
	p, ok := s.Products[id]
	return p, ok
}
