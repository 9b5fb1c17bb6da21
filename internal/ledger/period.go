package ledger

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Reporting never reaches back before this year; anything earlier is a
// data-entry mistake, not history.
const minReportingYear = 1901

// Period is an inclusive calendar-date range. Both bounds are
// normalized to midnight UTC; time-of-day on transactions is ignored
// everywhere so a record dated on End always lands inside the period.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: dateOnly(start), End: dateOnly(end)}
	if p.Start.Year() < minReportingYear || p.End.Year() < minReportingYear {
		return Period{}, ErrInvalidPeriod
	}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

func Month(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, ErrInvalidPeriod
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return NewPeriod(start, start.AddDate(0, 1, -1))
}

func Quarter(year int, quarter int) (Period, error) {
	if quarter < 1 || quarter > 4 {
		return Period{}, ErrInvalidPeriod
	}
	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return NewPeriod(start, start.AddDate(0, 3, -1))
}

func Year(year int) (Period, error) {
	return NewPeriod(
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
}

func (p Period) Contains(d time.Time) bool {
	day := dateOnly(d)
	return !day.Before(p.Start) && !day.After(p.End)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
