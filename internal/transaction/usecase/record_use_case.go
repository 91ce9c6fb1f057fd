package usecase

import (
	"context"

	"go.uber.org/zap"

	"dokon/internal/domain"
	"dokon/internal/errors"
	"dokon/internal/infrastructure/mysql"
	"dokon/internal/policy"
	"dokon/internal/transaction/service"
)

type Recorder interface {
	RecordSale(ctx context.Context, in service.SaleInput) (*domain.Sale, error)
	RecordPurchase(ctx context.Context, in service.PurchaseInput) (*domain.Purchase, error)
	RecordExpense(ctx context.Context, in service.ExpenseInput) (*domain.Expense, error)
	RecordSalary(ctx context.Context, in service.SalaryInput) (*domain.Salary, error)
}

type SaleEditor interface {
	UpdateSale(ctx context.Context, id int64, customerID *int64, description *string) (*domain.Sale, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// RecordUseCase validates transaction requests outside any database
// transaction, then hands them to the recorder with lock conflict retries.
// The stock check here is advisory; the recorder repeats it under the row lock.
type RecordUseCase struct {
	recorder         Recorder
	editor           SaleEditor
	products         ProductRepository
	customers        CustomerRepository
	users            UserRepository
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewRecordUseCase(
	recorder Recorder,
	editor SaleEditor,
	products ProductRepository,
	customers CustomerRepository,
	users UserRepository,
	logger *zap.Logger,
	maxRetryAttempts int,
) *RecordUseCase {
	return &RecordUseCase{
		recorder:         recorder,
		editor:           editor,
		products:         products,
		customers:        customers,
		users:            users,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *RecordUseCase) RecordSale(ctx context.Context, in service.SaleInput) (*domain.Sale, error) {
	uc.logger.Info("record sale started", zap.Int64("productId", in.ProductID), zap.Int("quantity", in.Quantity))

	if in.Quantity <= 0 {
		return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	product, err := uc.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.HasStockFor(in.Quantity) {
		uc.logger.Warn("sale rejected before save",
			zap.Int64("productId", product.ID),
			zap.Int("quantity", in.Quantity),
			zap.String("available", product.Amount.String()))
		return nil, errors.NewInsufficientStockError(product.ID, in.Quantity, product.Amount)
	}

	if err := uc.checkCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	return mysql.Retry(ctx, uc.maxRetryAttempts, uc.logger, func(ctx context.Context) (*domain.Sale, error) {
		return uc.recorder.RecordSale(ctx, in)
	})
}

func (uc *RecordUseCase) RecordPurchase(ctx context.Context, in service.PurchaseInput) (*domain.Purchase, error) {
	uc.logger.Info("record purchase started", zap.Int64("productId", in.ProductID), zap.Int("quantity", in.Quantity))

	var details []errors.ValidationDetail
	if in.Quantity <= 0 {
		details = append(details, errors.ValidationDetail{Field: "quantity", Message: "quantity must be a positive integer"})
	}
	if in.PurchasePrice.IsNegative() {
		details = append(details, errors.ValidationDetail{Field: "purchasePrice", Message: "purchasePrice must not be negative"})
	}
	if len(details) > 0 {
		return nil, errors.NewValidationError("validation failed", details...)
	}

	if _, err := uc.products.FindByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	return mysql.Retry(ctx, uc.maxRetryAttempts, uc.logger, func(ctx context.Context) (*domain.Purchase, error) {
		return uc.recorder.RecordPurchase(ctx, in)
	})
}

func (uc *RecordUseCase) RecordExpense(ctx context.Context, in service.ExpenseInput) (*domain.Expense, error) {
	if in.Price.IsNegative() {
		return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "price",
			Message: "price must not be negative",
		})
	}

	return mysql.Retry(ctx, uc.maxRetryAttempts, uc.logger, func(ctx context.Context) (*domain.Expense, error) {
		return uc.recorder.RecordExpense(ctx, in)
	})
}

// RecordSalary enforces who may pay and who may be paid before recording.
func (uc *RecordUseCase) RecordSalary(ctx context.Context, in service.SalaryInput) (*domain.Salary, error) {
	uc.logger.Info("record salary started",
		zap.Int64("gaveBy", in.GaveBy),
		zap.Int64("takenBy", in.TakenBy),
		zap.String("forMonth", in.ForMonth.String()))

	if in.SalaryPrice.IsNegative() {
		return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "salaryPrice",
			Message: "salaryPrice must not be negative",
		})
	}

	giver, err := uc.users.FindByID(ctx, in.GaveBy)
	if err != nil {
		return nil, err
	}
	if !policy.CanGiveSalary(*giver) {
		return nil, errors.NewForbiddenError("only managers and admins may give salaries")
	}

	taker, err := uc.users.FindByID(ctx, in.TakenBy)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
				Field:   "takenBy",
				Message: "user does not exist",
			})
		}
		return nil, err
	}
	if !policy.CanTakeSalary(*taker) {
		return nil, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "takenBy",
			Message: "salary recipient must be an admin",
		})
	}

	return mysql.Retry(ctx, uc.maxRetryAttempts, uc.logger, func(ctx context.Context) (*domain.Salary, error) {
		return uc.recorder.RecordSalary(ctx, in)
	})
}

// UpdateSale changes descriptive fields after checking the new customer exists.
func (uc *RecordUseCase) UpdateSale(ctx context.Context, id int64, customerID *int64, description *string) (*domain.Sale, error) {
	if err := uc.checkCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return uc.editor.UpdateSale(ctx, id, customerID, description)
}

func (uc *RecordUseCase) checkCustomer(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := uc.customers.FindByID(ctx, *id); err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return errors.NewValidationError("validation failed", errors.ValidationDetail{
				Field:   "customerId",
				Message: "customer does not exist",
			})
		}
		return err
	}
	return nil
}
