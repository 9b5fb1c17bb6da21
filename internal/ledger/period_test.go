package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestNewPeriodNormalizesToMidnight(t *testing.T) {
	p, err := NewPeriod(
		time.Date(2025, time.March, 1, 15, 4, 5, 0, time.UTC),
		time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("NewPeriod: %v", err)
	}
	if p.Start.Hour() != 0 || p.End.Hour() != 0 {
		t.Fatalf("bounds not normalized: %v .. %v", p.Start, p.End)
	}
}

func TestNewPeriodRejectsInvertedBounds(t *testing.T) {
	_, err := NewPeriod(
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	)
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestNewPeriodRejectsAncientYears(t *testing.T) {
	_, err := NewPeriod(
		time.Date(1899, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestPeriodContainsIsInclusive(t *testing.T) {
	p, err := Month(2025, time.February)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if !p.Contains(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("first day excluded")
	}
	if !p.Contains(time.Date(2025, time.February, 28, 18, 30, 0, 0, time.UTC)) {
		t.Fatal("last day with a time-of-day excluded")
	}
	if p.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day after period included")
	}
}

func TestQuarterBounds(t *testing.T) {
	p, err := Quarter(2025, 2)
	if err != nil {
		t.Fatalf("Quarter: %v", err)
	}
	if !p.Start.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Q2 start = %v", p.Start)
	}
	if !p.End.Equal(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Q2 end = %v", p.End)
	}

	if _, err := Quarter(2025, 5); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("quarter 5 accepted: %v", err)
	}
	if _, err := Month(2025, time.Month(13)); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("month 13 accepted: %v", err)
	}
}
