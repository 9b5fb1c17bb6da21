// Package debt derives outstanding receivable/payable balances per
// customer or supplier. Balances are never stored; they are replayed
// from the full transaction history on every call so they can never
// drift from the record of what actually happened.
package debt

import (
	"sort"
	"time"

	"bukukas/internal/domain"
)

type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Outstanding is a point-in-time debt snapshot for one party.
// AgingDays is nil when the party owes nothing.
type Outstanding struct {
	PartyID     string    `json:"party_id"`
	Kind        PartyKind `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	AgingDays   *int      `json:"aging_days,omitempty"`
}

// For scans the party's entire history, not just a reporting period:
// charges raise the balance, payments and returns lower it. Aging is
// measured from the most recent date the balance crossed from <= 0 to
// > 0, in whole calendar days up to now.
func For(snap *domain.Snapshot, partyID string, kind PartyKind, now time.Time) Outstanding {
	matched := make([]domain.Transaction, 0, 16)
	for _, tx := range snap.Transactions {
		if delta(tx, partyID, kind) != 0 {
			matched = append(matched, tx)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return dateOnly(matched[i].Date).Before(dateOnly(matched[j].Date))
	})

	balance := int64(0)
	var debtSince time.Time
	for _, tx := range matched {
		previous := balance
		balance += delta(tx, partyID, kind)
		if previous <= 0 && balance > 0 {
			debtSince = dateOnly(tx.Date)
		}
	}

	out := Outstanding{PartyID: partyID, Kind: kind, AmountCents: balance}
	if balance > 0 && !debtSince.IsZero() {
		days := int(dateOnly(now).Sub(debtSince).Hours() / 24)
		if days < 0 {
			days = 0
		}
		out.AgingDays = &days
	}
	return out
}

// AllCustomers returns the outstanding balance of every customer that
// appears in the history, including customers since removed from the
// catalog. Parties with a zero balance and no history impact are
// omitted.
func AllCustomers(snap *domain.Snapshot, now time.Time) []Outstanding {
	return all(snap, PartyCustomer, now)
}

func AllSuppliers(snap *domain.Snapshot, now time.Time) []Outstanding {
	return all(snap, PartySupplier, now)
}

func all(snap *domain.Snapshot, kind PartyKind, now time.Time) []Outstanding {
	seen := make(map[string]bool)
	ids := make([]string, 0, 16)
	for _, tx := range snap.Transactions {
		id := tx.CustomerID
		if kind == PartySupplier {
			id = tx.SupplierID
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]Outstanding, 0, len(ids))
	for _, id := range ids {
		results = append(results, For(snap, id, kind, now))
	}
	return results
}

// delta gives a transaction's signed effect on the party's balance, or
// 0 when the record does not involve the party.
func delta(tx domain.Transaction, partyID string, kind PartyKind) int64 {
	switch kind {
	case PartyCustomer:
		if tx.CustomerID != partyID {
			return 0
		}
		switch tx.Category {
		case domain.CategorySale, domain.CategoryServiceRevenue:
			return tx.AmountCents
		case domain.CategoryCustomerDebtPayment, domain.CategoryCustomerReturn:
			return -tx.AmountCents
		}
	case PartySupplier:
		if tx.SupplierID != partyID {
			return 0
		}
		switch tx.Category {
		case domain.CategoryPurchase:
			return tx.AmountCents
		case domain.CategorySupplierDebtPayment, domain.CategorySupplierReturn:
			return -tx.AmountCents
		}
	}
	return 0
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
