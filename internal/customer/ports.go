package customer

import (
	"context"

	"dokon/internal/domain"
)

type Service interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, search string) ([]domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}
