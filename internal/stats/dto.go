package stats

import (
	"github.com/shopspring/decimal"

	"dokon/internal/domain"
)

type MonthlyStatsDTO struct {
	ID             int64           `json:"id"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	TotalSales     decimal.Decimal `json:"totalSales"`
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	TotalSalaries  decimal.Decimal `json:"totalSalaries"`
	Expenses       decimal.Decimal `json:"expenses"`
	NetProfit      decimal.Decimal `json:"netProfit"`
}

func toMonthlyStatsDTO(m domain.MonthlyStats) MonthlyStatsDTO {
	return MonthlyStatsDTO{
		ID:             m.ID,
		Year:           m.Year,
		Month:          m.Month,
		TotalSales:     m.TotalSales,
		TotalPurchases: m.TotalPurchases,
		TotalSalaries:  m.TotalSalaries,
		Expenses:       m.Expenses,
		NetProfit:      m.NetProfit,
	}
}
