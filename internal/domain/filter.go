package domain

import "github.com/shopspring/decimal"

type ProductFilter struct {
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *int64
	// Ordering is one of "price", "-price", "title", "-title"; empty keeps id order.
	Ordering string
}

type CategoryFilter struct {
	Search string
	// Ordering is one of "title", "-title"; empty keeps id order.
	Ordering string
}
