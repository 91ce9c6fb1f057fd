package product

import (
	"time"

	"github.com/shopspring/decimal"

	"dokon/internal/domain"
)

type ProductRequest struct {
	Title              string           `json:"title" validate:"required,max=120"`
	Description        *string          `json:"description,omitempty"`
	Brand              string           `json:"brand" validate:"required,max=120"`
	Price              decimal.Decimal  `json:"price" validate:"gte=0"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Amount             decimal.Decimal  `json:"amount" validate:"gte=0"`
	CategoryID         *int64           `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
}

func (r ProductRequest) toDomain() domain.Product {
	p := domain.Product{
		Title:       r.Title,
		Description: r.Description,
		Brand:       r.Brand,
		Price:       r.Price,
		Amount:      r.Amount,
		CategoryID:  r.CategoryID,
	}
	if r.DiscountPercentage != nil {
		p.DiscountPercentage = decimal.NewNullDecimal(*r.DiscountPercentage)
	}
	return p
}

type ProductDTO struct {
	ID                 int64            `json:"id"`
	Title              string           `json:"title"`
	Description        *string          `json:"description"`
	Brand              string           `json:"brand"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	DiscountPrice      decimal.Decimal  `json:"discountPrice"`
	Amount             decimal.Decimal  `json:"amount"`
	CategoryID         *int64           `json:"categoryId"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func toProductDTO(p domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Brand:         p.Brand,
		Price:         p.Price,
		DiscountPrice: p.EffectivePrice(),
		Amount:        p.Amount,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.DiscountPercentage.Valid {
		pct := p.DiscountPercentage.Decimal
		dto.DiscountPercentage = &pct
	}
	return dto
}

type CategoryRequest struct {
	Title       string  `json:"title" validate:"required,max=120"`
	Description *string `json:"description,omitempty"`
}

type CategoryDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func toCategoryDTO(c domain.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Title: c.Title, Description: c.Description}
}
