package ledger

import (
	"time"

	"bukukas/internal/domain"
	"bukukas/internal/rates"
)

type PayrollRow struct {
	TransactionID         string    `json:"transaction_id"`
	Date                  time.Time `json:"date"`
	Description           string    `json:"description"`
	SalaryCents           int64     `json:"salary_cents"`
	SocialInsuranceCents  int64     `json:"social_insurance_cents"`
	HealthInsuranceCents  int64     `json:"health_insurance_cents"`
	UnemploymentCents     int64     `json:"unemployment_cents"`
	UnionFeeCents         int64     `json:"union_fee_cents"`
	PaidSalaryCents       int64     `json:"paid_salary_cents"`
	PaidContributionCents int64     `json:"paid_contribution_cents"`
	BalanceCents          int64     `json:"balance_cents"`
}

type PayrollTotals struct {
	SalaryCents           int64 `json:"salary_cents"`
	SocialInsuranceCents  int64 `json:"social_insurance_cents"`
	HealthInsuranceCents  int64 `json:"health_insurance_cents"`
	UnemploymentCents     int64 `json:"unemployment_cents"`
	UnionFeeCents         int64 `json:"union_fee_cents"`
	PayableCents          int64 `json:"payable_cents"`
	PaidSalaryCents       int64 `json:"paid_salary_cents"`
	PaidContributionCents int64 `json:"paid_contribution_cents"`
	PaidCents             int64 `json:"paid_cents"`
}

type PayrollResult struct {
	Period       Period        `json:"period"`
	OpeningCents int64         `json:"opening_cents"`
	Rows         []PayrollRow  `json:"rows"`
	Totals       PayrollTotals `json:"totals"`
	ClosingCents int64         `json:"closing_cents"`
}

// ProjectPayroll builds the payroll ledger. A labor-cost record accrues
// its gross amount as payable salary plus the four statutory employer
// contributions in the same row; salary payments and contribution
// remittances reduce the respective paid columns.
func ProjectPayroll(snap *domain.Snapshot, p Period, table *rates.Table) (PayrollResult, error) {
	if p.Start.IsZero() {
		return PayrollResult{}, ErrInvalidPeriod
	}
	before, in := partition(snap, p)

	opening := int64(0)
	for _, tx := range before {
		opening += payrollDelta(tx, table.Payroll)
	}

	result := PayrollResult{
		Period:       p,
		OpeningCents: opening,
		Rows:         make([]PayrollRow, 0, len(in)),
	}

	balance := opening
	for _, tx := range in {
		row := PayrollRow{
			TransactionID: tx.ID,
			Date:          dateOnly(tx.Date),
			Description:   tx.Description,
		}
		switch tx.Category {
		case domain.CategoryLaborCost:
			row.SalaryCents = tx.AmountCents
			row.SocialInsuranceCents = percentCents(tx.AmountCents, table.Payroll.SocialInsurancePercent)
			row.HealthInsuranceCents = percentCents(tx.AmountCents, table.Payroll.HealthInsurancePercent)
			row.UnemploymentCents = percentCents(tx.AmountCents, table.Payroll.UnemploymentPercent)
			row.UnionFeeCents = percentCents(tx.AmountCents, table.Payroll.UnionFeePercent)
		case domain.CategorySalaryPayment:
			row.PaidSalaryCents = tx.AmountCents
		case domain.CategoryPayrollRemittance:
			row.PaidContributionCents = tx.AmountCents
		default:
			continue
		}

		payable := row.SalaryCents + row.SocialInsuranceCents + row.HealthInsuranceCents +
			row.UnemploymentCents + row.UnionFeeCents
		paid := row.PaidSalaryCents + row.PaidContributionCents
		balance += payable - paid
		row.BalanceCents = balance

		result.Rows = append(result.Rows, row)
		result.Totals.SalaryCents += row.SalaryCents
		result.Totals.SocialInsuranceCents += row.SocialInsuranceCents
		result.Totals.HealthInsuranceCents += row.HealthInsuranceCents
		result.Totals.UnemploymentCents += row.UnemploymentCents
		result.Totals.UnionFeeCents += row.UnionFeeCents
		result.Totals.PayableCents += payable
		result.Totals.PaidSalaryCents += row.PaidSalaryCents
		result.Totals.PaidContributionCents += row.PaidContributionCents
		result.Totals.PaidCents += paid
	}

	result.ClosingCents = result.OpeningCents + result.Totals.PayableCents - result.Totals.PaidCents
	return result, nil
}

func payrollDelta(tx domain.Transaction, pr rates.PayrollRates) int64 {
	switch tx.Category {
	case domain.CategoryLaborCost:
		return tx.AmountCents +
			percentCents(tx.AmountCents, pr.SocialInsurancePercent) +
			percentCents(tx.AmountCents, pr.HealthInsurancePercent) +
			percentCents(tx.AmountCents, pr.UnemploymentPercent) +
			percentCents(tx.AmountCents, pr.UnionFeePercent)
	case domain.CategorySalaryPayment, domain.CategoryPayrollRemittance:
		return -tx.AmountCents
	default:
		return 0
	}
}
