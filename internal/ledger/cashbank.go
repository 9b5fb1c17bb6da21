package ledger

import (
	"time"

	"bukukas/internal/domain"
)

type SettlementRow struct {
	TransactionID string    `json:"transaction_id"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	InCents       int64     `json:"in_cents"`
	OutCents      int64     `json:"out_cents"`
	BalanceCents  int64     `json:"balance_cents"`
}

type SettlementResult struct {
	Period        Period          `json:"period"`
	Channel       domain.Channel  `json:"channel"`
	OpeningCents  int64           `json:"opening_cents"`
	Rows          []SettlementRow `json:"rows"`
	TotalInCents  int64           `json:"total_in_cents"`
	TotalOutCents int64           `json:"total_out_cents"`
	ClosingCents  int64           `json:"closing_cents"`
}

// ProjectCash builds the cash-on-hand ledger. Records with no channel
// predate bank tracking and count as cash.
func ProjectCash(snap *domain.Snapshot, p Period) (SettlementResult, error) {
	return projectChannel(snap, p, domain.ChannelCash)
}

// ProjectBank builds the bank-account ledger.
func ProjectBank(snap *domain.Snapshot, p Period) (SettlementResult, error) {
	return projectChannel(snap, p, domain.ChannelBank)
}

// projectChannel is the shared cash/bank projection; the two ledgers
// differ only in the settlement-channel filter. Running balance is
// cumulative income minus expense.
func projectChannel(snap *domain.Snapshot, p Period, channel domain.Channel) (SettlementResult, error) {
	if p.Start.IsZero() {
		return SettlementResult{}, ErrInvalidPeriod
	}
	before, in := partition(snap, p)

	opening := int64(0)
	for _, tx := range before {
		if tx.Channel.Normalize() != channel {
			continue
		}
		if tx.Kind == domain.KindIncome {
			opening += tx.AmountCents
		} else {
			opening -= tx.AmountCents
		}
	}

	result := SettlementResult{
		Period:       p,
		Channel:      channel,
		OpeningCents: opening,
		Rows:         make([]SettlementRow, 0, len(in)),
	}

	balance := opening
	for _, tx := range in {
		if tx.Channel.Normalize() != channel {
			continue
		}
		row := SettlementRow{
			TransactionID: tx.ID,
			Date:          dateOnly(tx.Date),
			Description:   tx.Description,
		}
		if tx.Kind == domain.KindIncome {
			row.InCents = tx.AmountCents
			balance += tx.AmountCents
		} else {
			row.OutCents = tx.AmountCents
			balance -= tx.AmountCents
		}
		row.BalanceCents = balance

		result.Rows = append(result.Rows, row)
		result.TotalInCents += row.InCents
		result.TotalOutCents += row.OutCents
	}

	result.ClosingCents = result.OpeningCents + result.TotalInCents - result.TotalOutCents
	return result, nil
}
