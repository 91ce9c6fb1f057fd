package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"dokon/internal/domain"
)

type SaleRequest struct {
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	CustomerID  *int64  `json:"customerId,omitempty" validate:"omitempty,gt=0"`
	Description *string `json:"description,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
}

type SaleUpdateRequest struct {
	CustomerID  *int64  `json:"customerId,omitempty" validate:"omitempty,gt=0"`
	Description *string `json:"description,omitempty"`
}

type SaleDTO struct {
	ID          int64           `json:"id"`
	CustomerID  *int64          `json:"customerId"`
	ProductID   *int64          `json:"productId"`
	SoldBy      *int64          `json:"soldBy"`
	Description *string         `json:"description"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toSaleDTO(s domain.Sale) SaleDTO {
	return SaleDTO{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		ProductID:   s.ProductID,
		SoldBy:      s.SoldBy,
		Description: s.Description,
		Quantity:    s.Quantity,
		TotalPrice:  s.TotalPrice,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type PurchaseRequest struct {
	ProductID     int64           `json:"productId" validate:"required,gt=0"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice" validate:"gte=0"`
	PurchaseDate  *time.Time      `json:"purchaseDate,omitempty"`
}

type PurchaseDTO struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"productId"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
}

func toPurchaseDTO(p domain.Purchase) PurchaseDTO {
	return PurchaseDTO{
		ID:            p.ID,
		ProductID:     p.ProductID,
		Quantity:      p.Quantity,
		PurchasePrice: p.PurchasePrice,
		TotalCost:     p.TotalCost,
		PurchaseDate:  p.PurchaseDate,
	}
}

type ExpenseRequest struct {
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
}

type ExpenseUpdateRequest struct {
	Description *string `json:"description"`
}

type ExpenseDTO struct {
	ID          int64           `json:"id"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedBy   *int64          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toExpenseDTO(e domain.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		Description: e.Description,
		Price:       e.Price,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

type SalaryRequest struct {
	TakenBy     int64           `json:"takenBy" validate:"required,gt=0"`
	SalaryPrice decimal.Decimal `json:"salaryPrice" validate:"gte=0"`
	Year        int             `json:"year" validate:"required,min=1,max=9999"`
	Month       int             `json:"month" validate:"required,min=1,max=12"`
}

type SalaryDTO struct {
	ID          int64           `json:"id"`
	GaveBy      int64           `json:"gaveBy"`
	TakenBy     int64           `json:"takenBy"`
	SalaryPrice decimal.Decimal `json:"salaryPrice"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toSalaryDTO(s domain.Salary) SalaryDTO {
	return SalaryDTO{
		ID:          s.ID,
		GaveBy:      s.GaveBy,
		TakenBy:     s.TakenBy,
		SalaryPrice: s.SalaryPrice,
		Year:        s.ForMonth.Year,
		Month:       int(s.ForMonth.Month),
		CreatedAt:   s.CreatedAt,
	}
}

func mapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
