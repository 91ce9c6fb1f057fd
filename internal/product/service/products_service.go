package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dokon/internal/domain"
	"dokon/internal/errors"
	"dokon/internal/events"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (int64, error)
	Update(ctx context.Context, p domain.Product) error
	PurchaseMonths(ctx context.Context, tx *sql.Tx, productID int64) ([]domain.PurchaseRef, error)
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
	Insert(ctx context.Context, c domain.Category) (int64, error)
}

type ProductService struct {
	db         TransactionManager
	repo       Repository
	categories CategoryRepository
	publisher  events.Publisher
	logger     *zap.Logger
	txTimeout  time.Duration
}

func NewService(
	db TransactionManager,
	repo Repository,
	categories CategoryRepository,
	publisher events.Publisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *ProductService {
	return &ProductService{
		db:         db,
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		txTimeout:  txTimeout,
	}
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	p.RecomputeDiscountPrice()

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("productId", id), zap.String("discountPrice", p.DiscountPrice.Decimal.String()))

	return s.repo.FindByID(ctx, id)
}

// Update replaces the catalog fields of an existing product. Amount is
// ignored; stock only moves through sales and purchases.
func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if _, err := s.repo.FindByID(ctx, p.ID); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	p.RecomputeDiscountPrice()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Int64("productId", p.ID), zap.String("discountPrice", p.DiscountPrice.Decimal.String()))

	return s.repo.FindByID(ctx, p.ID)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes a product. Sales keep their rows with the product reference
// nulled; purchases of the product are removed with it, so every month they
// counted toward gets a TransactionDeleted after commit.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	// Purchases are only inserted under this lock, so the months read below are complete.
	if _, err := s.repo.FindByIDForUpdate(txCtx, tx, id); err != nil {
		return err
	}

	months, err := s.repo.PurchaseMonths(txCtx, tx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit product delete", zap.Int64("productId", id), zap.Error(err))
		return err
	}

	s.logger.Info("product deleted", zap.Int64("productId", id), zap.Int("purchaseMonths", len(months)))

	pubCtx := context.WithoutCancel(ctx)
	for _, m := range months {
		e := events.NewDeleted(events.KindPurchase, m.ID, m.Period)
		if err := s.publisher.Publish(pubCtx, e); err != nil {
			s.logger.Error("event subscribers failed",
				zap.String("eventId", e.ID),
				zap.Int64("productId", id),
				zap.String("period", m.Period.String()),
				zap.Error(err))
		}
	}

	return nil
}

func (s *ProductService) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	id, err := s.categories.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, id)
}

func (s *ProductService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *ProductService) ListCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	return s.categories.List(ctx, filter)
}

func (s *ProductService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, *id); err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return errors.NewValidationError("unknown category", errors.ValidationDetail{
				Field:   "categoryId",
				Message: fmt.Sprintf("category %d does not exist", *id),
			})
		}
		return err
	}
	return nil
}
