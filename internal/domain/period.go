package domain

import (
	"fmt"
	"time"
)

// Period identifies one MonthlyStats row.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year int, month int) (Period, error) {
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month %d out of range", month)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the UTC calendar month t falls in.
func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: u.Month()}
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is exclusive.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
