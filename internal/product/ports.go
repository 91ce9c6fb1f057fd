package product

import (
	"context"

	"dokon/internal/domain"
)

type Service interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
}
