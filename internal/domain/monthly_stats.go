package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonthlyStats struct {
	ID             int64
	Year           int
	Month          int
	TotalSales     decimal.Decimal
	TotalPurchases decimal.Decimal
	TotalSalaries  decimal.Decimal
	Expenses       decimal.Decimal
	NetProfit      decimal.Decimal
}

func (m MonthlyStats) Period() Period {
	return Period{Year: m.Year, Month: time.Month(m.Month)}
}

// PeriodTotals are the independent sums for one period.
type PeriodTotals struct {
	Sales     decimal.Decimal
	Purchases decimal.Decimal
	Salaries  decimal.Decimal
	Expenses  decimal.Decimal
}

func (t PeriodTotals) NetProfit() decimal.Decimal {
	return t.Sales.Sub(t.Purchases.Add(t.Salaries).Add(t.Expenses))
}

// Overwrite replaces every derived field; it never patches incrementally.
func (m *MonthlyStats) Overwrite(t PeriodTotals) {
	m.TotalSales = t.Sales
	m.TotalPurchases = t.Purchases
	m.TotalSalaries = t.Salaries
	m.Expenses = t.Expenses
	m.NetProfit = t.NetProfit()
}
