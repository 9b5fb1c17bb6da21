// Package ledger derives period-scoped, running-balance reports from an
// immutable transaction snapshot. Every projection is a pure function:
// it partitions the history around the reporting period, replays the
// ledger's balance rule over the earlier part to get an opening
// balance, and walks the in-period part in date order to build rows,
// totals, and a closing balance. Nothing here writes anywhere; callers
// re-run projections whenever the snapshot changes.
package ledger

import (
	"math"
	"sort"
	"time"

	"bukukas/internal/domain"
)

// partition splits the snapshot's transactions into those dated before
// the period and those inside it. The in-period slice is sorted by
// calendar date, stable, so same-day records keep their insertion
// order. Records after the period are dropped.
func partition(snap *domain.Snapshot, p Period) (before []domain.Transaction, in []domain.Transaction) {
	for _, tx := range snap.Transactions {
		day := dateOnly(tx.Date)
		switch {
		case day.Before(p.Start):
			before = append(before, tx)
		case !day.After(p.End):
			in = append(in, tx)
		}
	}
	sort.SliceStable(in, func(i, j int) bool {
		return dateOnly(in[i].Date).Before(dateOnly(in[j].Date))
	})
	return before, in
}

// percentCents applies a percentage to a cent amount, rounding to the
// nearest cent.
func percentCents(amountCents int64, percent float64) int64 {
	return int64(math.Round(float64(amountCents) * percent / 100))
}

func quarterEnd(year int, quarter int) time.Time {
	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 3, -1)
}
