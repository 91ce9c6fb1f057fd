package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Column scales of the stored decimals.
const (
	moneyScale = 2
	stockScale = 3
)

// Money rounds d to the scale money columns are stored at.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

type Category struct {
	ID          int64
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID                 int64
	Title              string
	Description        *string
	Brand              string
	Price              decimal.Decimal
	DiscountPercentage decimal.NullDecimal
	DiscountPrice      decimal.NullDecimal
	Amount             decimal.Decimal
	CategoryID         *int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RecomputeDiscountPrice must run before every product write. Inputs are
// first rounded to their column scale so the stored row satisfies the
// discount invariant.
func (p *Product) RecomputeDiscountPrice() {
	p.Price = Money(p.Price)
	p.Amount = p.Amount.Round(stockScale)
	if p.DiscountPercentage.Valid {
		pct := p.DiscountPercentage.Decimal.Round(moneyScale)
		p.DiscountPercentage = decimal.NewNullDecimal(pct)
		off := p.Price.Mul(pct).Div(hundred)
		p.DiscountPrice = decimal.NewNullDecimal(Money(p.Price.Sub(off)))
		return
	}
	p.DiscountPrice = decimal.NewNullDecimal(p.Price)
}

// EffectivePrice is the unit price a sale is charged at.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

func (p Product) HasStockFor(quantity int) bool {
	return p.Amount.GreaterThanOrEqual(decimal.NewFromInt(int64(quantity)))
}
