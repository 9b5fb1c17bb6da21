package rates

import (
	"encoding/json"
	"fmt"
	"os"
)

// TaxRate holds the presumptive VAT and personal income tax percentages
// applied to revenue in one tax category.
type TaxRate struct {
	VATPercent float64 `json:"vat_percent"`
	PITPercent float64 `json:"pit_percent"`
}

// PayrollRates are the employer-side statutory contribution percentages
// applied on top of gross salary.
type PayrollRates struct {
	SocialInsurancePercent float64 `json:"social_insurance_percent"`
	HealthInsurancePercent float64 `json:"health_insurance_percent"`
	UnemploymentPercent    float64 `json:"unemployment_percent"`
	UnionFeePercent        float64 `json:"union_fee_percent"`
}

// Table is the loaded rate configuration. Rates live in configuration,
// not code, so a regulatory change is a deploy of a JSON file.
type Table struct {
	Categories      map[string]TaxRate `json:"categories"`
	DefaultCategory string             `json:"default_category"`
	Payroll         PayrollRates       `json:"payroll"`
}

// Default returns the built-in table used when no rates file is
// configured.
func Default() *Table {
	return &Table{
		Categories: map[string]TaxRate{
			"distribution": {VATPercent: 1, PITPercent: 0.5},
			"services":     {VATPercent: 5, PITPercent: 2},
			"production":   {VATPercent: 3, PITPercent: 1.5},
			"leasing":      {VATPercent: 5, PITPercent: 5},
		},
		DefaultCategory: "distribution",
		Payroll: PayrollRates{
			SocialInsurancePercent: 17.5,
			HealthInsurancePercent: 3,
			UnemploymentPercent:    1,
			UnionFeePercent:        2,
		},
	}
}

// Load reads a rate table from a JSON file and validates it.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate table: %w", err)
	}

	var table Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse rate table: %w", err)
	}
	if err := table.validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

func (t *Table) validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("rate table has no tax categories")
	}
	if _, ok := t.Categories[t.DefaultCategory]; !ok {
		return fmt.Errorf("rate table default category %q is not defined", t.DefaultCategory)
	}
	for name, rate := range t.Categories {
		if rate.VATPercent < 0 || rate.PITPercent < 0 {
			return fmt.Errorf("rate table category %q has a negative rate", name)
		}
	}
	return nil
}

// Rate resolves the rates for a tax category, falling back to the
// default category for unknown or empty names. Products deleted from
// the catalog resolve through the same fallback.
func (t *Table) Rate(category string) TaxRate {
	if rate, ok := t.Categories[category]; ok {
		return rate
	}
	return t.Categories[t.DefaultCategory]
}

// CombinedPercent is the total percentage levied on revenue in the
// given category.
func (t *Table) CombinedPercent(category string) float64 {
	rate := t.Rate(category)
	return rate.VATPercent + rate.PITPercent
}
