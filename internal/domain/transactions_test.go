package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleTotal(t *testing.T) {
	p := Product{Price: dec("50")}
	p.RecomputeDiscountPrice()

	assert.Equal(t, "150.00", SaleTotal(p, 3).StringFixed(2))
}

func TestSaleTotal_UsesDiscountPrice(t *testing.T) {
	p := Product{Price: dec("10"), DiscountPercentage: decimal.NewNullDecimal(dec("33"))}
	p.RecomputeDiscountPrice()

	// 6.70 * 3
	assert.True(t, dec("20.10").Equal(SaleTotal(p, 3)))
}

func TestPurchaseTotal(t *testing.T) {
	assert.Equal(t, "150.00", PurchaseTotal(dec("30"), 5).StringFixed(2))
	assert.True(t, dec("3.70").Equal(PurchaseTotal(dec("0.37"), 10)))
}

func TestPurchaseTotal_UsesStoredUnitCost(t *testing.T) {
	// 0.005 is stored as 0.01, so three units cost 0.03
	assert.True(t, dec("0.03").Equal(PurchaseTotal(dec("0.005"), 3)))
	assert.True(t, Money(dec("0.005")).Mul(decimal.NewFromInt(3)).Equal(PurchaseTotal(dec("0.005"), 3)))
}

func TestTransactionPeriods(t *testing.T) {
	march := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, Period{2024, time.March}, Sale{CreatedAt: march}.Period())
	assert.Equal(t, Period{2024, time.March}, Purchase{PurchaseDate: march}.Period())
	assert.Equal(t, Period{2024, time.April}, Expense{CreatedAt: april}.Period())

	salary := Salary{CreatedAt: april, ForMonth: Period{2024, time.March}}
	assert.Equal(t, Period{2024, time.March}, salary.Period())
}

func TestNewPeriod(t *testing.T) {
	p, err := NewPeriod(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", p.String())
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), p.End())

	_, err = NewPeriod(2024, 13)
	assert.Error(t, err)

	_, err = NewPeriod(0, 1)
	assert.Error(t, err)
}

func TestPeriod_DecemberRollsOver(t *testing.T) {
	p := Period{Year: 2023, Month: time.December}
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), p.End())
}

func TestPeriodOf_UsesUTC(t *testing.T) {
	tashkent := time.FixedZone("UZT", 5*60*60)
	local := time.Date(2024, time.April, 1, 2, 0, 0, 0, tashkent)

	assert.Equal(t, Period{2024, time.March}, PeriodOf(local))
}

func TestMonthlyStats_Overwrite(t *testing.T) {
	stats := MonthlyStats{
		Year:       2024,
		Month:      3,
		TotalSales: dec("9999"),
		NetProfit:  dec("9999"),
	}

	stats.Overwrite(PeriodTotals{
		Sales:     dec("150"),
		Purchases: dec("150"),
		Salaries:  dec("100"),
		Expenses:  dec("20"),
	})

	assert.True(t, dec("150").Equal(stats.TotalSales))
	assert.True(t, dec("150").Equal(stats.TotalPurchases))
	assert.True(t, dec("100").Equal(stats.TotalSalaries))
	assert.True(t, dec("20").Equal(stats.Expenses))
	assert.True(t, dec("-120").Equal(stats.NetProfit))
	assert.Equal(t, Period{2024, time.March}, stats.Period())
}

func TestPeriodTotals_ZeroNetProfit(t *testing.T) {
	var totals PeriodTotals
	assert.True(t, totals.NetProfit().IsZero())
}
