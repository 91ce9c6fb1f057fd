package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID          int64
	CustomerID  *int64
	ProductID   *int64
	SoldBy      *int64
	Description *string
	Quantity    int
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Sale) Period() Period {
	return PeriodOf(s.CreatedAt)
}

// SaleTotal prices a sale at the product's effective price at creation time.
func SaleTotal(p Product, quantity int) decimal.Decimal {
	return Money(p.EffectivePrice().Mul(decimal.NewFromInt(int64(quantity))))
}

type Purchase struct {
	ID            int64
	ProductID     int64
	Quantity      int
	PurchasePrice decimal.Decimal
	TotalCost     decimal.Decimal
	PurchaseDate  time.Time
}

func (p Purchase) Period() Period {
	return PeriodOf(p.PurchaseDate)
}

// PurchaseRef names one purchase row and the month it counts toward.
type PurchaseRef struct {
	ID     int64
	Period Period
}

// PurchaseTotal prices quantity units at the unit cost as stored.
func PurchaseTotal(unitCost decimal.Decimal, quantity int) decimal.Decimal {
	return Money(Money(unitCost).Mul(decimal.NewFromInt(int64(quantity))))
}

type Expense struct {
	ID          int64
	Description *string
	Price       decimal.Decimal
	CreatedBy   *int64
	CreatedAt   time.Time
}

func (e Expense) Period() Period {
	return PeriodOf(e.CreatedAt)
}

type Salary struct {
	ID          int64
	GaveBy      int64
	TakenBy     int64
	SalaryPrice decimal.Decimal
	ForMonthID  int64
	ForMonth    Period
	CreatedAt   time.Time
}

// Period is the month the salary was tagged for, not when it was recorded.
func (s Salary) Period() Period {
	return s.ForMonth
}

type Customer struct {
	ID          int64
	Name        string
	PhoneNumber *string
	Description *string
	CreatedBy   int64
	CreatedAt   time.Time
}
