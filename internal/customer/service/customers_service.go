package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, search string) ([]domain.Customer, error)
	Insert(ctx context.Context, c domain.Customer) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

func (s *CustomerService) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	id, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.Int64("customerId", id), zap.Int64("createdBy", c.CreatedBy))
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, search string) ([]domain.Customer, error) {
	return s.repo.List(ctx, search)
}

// Delete removes the customer; their sales keep existing with no customer.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Int64("customerId", id))
	return nil
}
