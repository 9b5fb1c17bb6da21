package domain

// TransactionRequest is the write payload for recording or replacing a
// history entry. Category accepts both canonical identifiers and the
// legacy free-text labels of imported books. A zero AmountCents on a
// request with line items means "derive the amount from the lines".
type TransactionRequest struct {
	Date        string     `json:"date"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents"`
	Kind        string     `json:"kind"`
	Category    string     `json:"category"`
	CustomerID  string     `json:"customer_id,omitempty"`
	SupplierID  string     `json:"supplier_id,omitempty"`
	Channel     string     `json:"channel,omitempty"`
	Items       []LineItem `json:"items,omitempty"`
}

type ProductRequest struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	SalePriceCents int64   `json:"sale_price_cents"`
	CostPriceCents int64   `json:"cost_price_cents"`
	OpeningStock   int64   `json:"opening_stock"`
	Unit           string  `json:"unit"`
	TaxCategory    string  `json:"tax_category,omitempty"`
	VATPercent     float64 `json:"vat_percent,omitempty"`
}

type PartyRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	TaxNumber   string `json:"tax_number,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
}

// ReceiptRequest records a standalone stock receipt that re-blends the
// product's weighted-average cost without touching the ledgers.
type ReceiptRequest struct {
	Quantity       int64 `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
}
