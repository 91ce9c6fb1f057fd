package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dokon/internal/domain"
	"dokon/internal/errors"
	"dokon/internal/events"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
}

type StockLedger interface {
	AdjustStock(ctx context.Context, tx *sql.Tx, productID int64, delta decimal.Decimal) error
}

type SaleRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error)
}

type PurchaseRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error)
}

type ExpenseRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, e domain.Expense) (int64, error)
}

type SalaryRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, s domain.Salary) (int64, error)
}

type PeriodRepository interface {
	GetOrCreateID(ctx context.Context, tx *sql.Tx, period domain.Period) (int64, error)
}

type SaleInput struct {
	ProductID   int64
	CustomerID  *int64
	SoldBy      *int64
	Description *string
	Quantity    int
}

type PurchaseInput struct {
	ProductID     int64
	Quantity      int
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
}

type ExpenseInput struct {
	Description *string
	Price       decimal.Decimal
	CreatedBy   *int64
}

type SalaryInput struct {
	GaveBy      int64
	TakenBy     int64
	SalaryPrice decimal.Decimal
	ForMonth    domain.Period
}

// Recorder writes transaction rows. Stock side effects happen here, once,
// inside the same database transaction as the insert and under the product
// row lock. Events are published only after commit.
type Recorder struct {
	db        TransactionManager
	products  ProductRepository
	ledger    StockLedger
	sales     SaleRepository
	purchases PurchaseRepository
	expenses  ExpenseRepository
	salaries  SalaryRepository
	periods   PeriodRepository
	publisher events.Publisher
	logger    *zap.Logger
	txTimeout time.Duration
	now       func() time.Time
}

func NewRecorder(
	db TransactionManager,
	products ProductRepository,
	ledger StockLedger,
	sales SaleRepository,
	purchases PurchaseRepository,
	expenses ExpenseRepository,
	salaries SalaryRepository,
	periods PeriodRepository,
	publisher events.Publisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *Recorder {
	return &Recorder{
		db:        db,
		products:  products,
		ledger:    ledger,
		sales:     sales,
		purchases: purchases,
		expenses:  expenses,
		salaries:  salaries,
		periods:   periods,
		publisher: publisher,
		logger:    logger,
		txTimeout: txTimeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordSale re-checks stock under the product row lock, decrements it and
// inserts the sale priced at the product's current effective price.
func (r *Recorder) RecordSale(ctx context.Context, in SaleInput) (*domain.Sale, error) {
	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	product, err := r.products.FindByIDForUpdate(txCtx, tx, in.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.HasStockFor(in.Quantity) {
		r.logger.Warn("sale rejected at save time",
			zap.Int64("productId", product.ID),
			zap.Int("quantity", in.Quantity),
			zap.String("available", product.Amount.String()))
		return nil, errors.NewInsufficientStockError(product.ID, in.Quantity, product.Amount)
	}

	now := r.now()
	productID := product.ID
	sale := domain.Sale{
		CustomerID:  in.CustomerID,
		ProductID:   &productID,
		SoldBy:      in.SoldBy,
		Description: in.Description,
		Quantity:    in.Quantity,
		TotalPrice:  domain.SaleTotal(*product, in.Quantity),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.ledger.AdjustStock(txCtx, tx, product.ID, decimal.NewFromInt(int64(-in.Quantity))); err != nil {
		return nil, err
	}

	id, err := r.sales.Insert(txCtx, tx, sale)
	if err != nil {
		r.logger.Error("failed to insert sale", zap.Int64("productId", product.ID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit sale", zap.Int64("productId", product.ID), zap.Error(err))
		return nil, err
	}

	sale.ID = id
	r.logger.Info("sale recorded",
		zap.Int64("saleId", id),
		zap.Int64("productId", product.ID),
		zap.Int("quantity", in.Quantity),
		zap.String("totalPrice", sale.TotalPrice.String()))

	r.publish(ctx, events.NewRecorded(events.KindSale, id, sale.Period()))
	return &sale, nil
}

// RecordPurchase increments stock under the product row lock and inserts the purchase.
func (r *Recorder) RecordPurchase(ctx context.Context, in PurchaseInput) (*domain.Purchase, error) {
	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	product, err := r.products.FindByIDForUpdate(txCtx, tx, in.ProductID)
	if err != nil {
		return nil, err
	}

	purchaseDate := r.now()
	if in.PurchaseDate != nil {
		purchaseDate = in.PurchaseDate.UTC()
	}

	purchase := domain.Purchase{
		ProductID:     product.ID,
		Quantity:      in.Quantity,
		PurchasePrice: domain.Money(in.PurchasePrice),
		TotalCost:     domain.PurchaseTotal(in.PurchasePrice, in.Quantity),
		PurchaseDate:  purchaseDate,
	}

	if err := r.ledger.AdjustStock(txCtx, tx, product.ID, decimal.NewFromInt(int64(in.Quantity))); err != nil {
		return nil, err
	}

	id, err := r.purchases.Insert(txCtx, tx, purchase)
	if err != nil {
		r.logger.Error("failed to insert purchase", zap.Int64("productId", product.ID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit purchase", zap.Int64("productId", product.ID), zap.Error(err))
		return nil, err
	}

	purchase.ID = id
	r.logger.Info("purchase recorded",
		zap.Int64("purchaseId", id),
		zap.Int64("productId", product.ID),
		zap.Int("quantity", in.Quantity),
		zap.String("totalCost", purchase.TotalCost.String()))

	r.publish(ctx, events.NewRecorded(events.KindPurchase, id, purchase.Period()))
	return &purchase, nil
}

func (r *Recorder) RecordExpense(ctx context.Context, in ExpenseInput) (*domain.Expense, error) {
	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	expense := domain.Expense{
		Description: in.Description,
		Price:       domain.Money(in.Price),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   r.now(),
	}

	id, err := r.expenses.Insert(txCtx, tx, expense)
	if err != nil {
		r.logger.Error("failed to insert expense", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit expense", zap.Error(err))
		return nil, err
	}

	expense.ID = id
	r.logger.Info("expense recorded", zap.Int64("expenseId", id), zap.String("price", expense.Price.String()))

	r.publish(ctx, events.NewRecorded(events.KindExpense, id, expense.Period()))
	return &expense, nil
}

// RecordSalary resolves the tagged month to its MonthlyStats row, creating
// it if needed, and inserts the salary in the same transaction.
func (r *Recorder) RecordSalary(ctx context.Context, in SalaryInput) (*domain.Salary, error) {
	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	forMonthID, err := r.periods.GetOrCreateID(txCtx, tx, in.ForMonth)
	if err != nil {
		return nil, err
	}

	salary := domain.Salary{
		GaveBy:      in.GaveBy,
		TakenBy:     in.TakenBy,
		SalaryPrice: domain.Money(in.SalaryPrice),
		ForMonthID:  forMonthID,
		ForMonth:    in.ForMonth,
		CreatedAt:   r.now(),
	}

	id, err := r.salaries.Insert(txCtx, tx, salary)
	if err != nil {
		r.logger.Error("failed to insert salary", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit salary", zap.Error(err))
		return nil, err
	}

	salary.ID = id
	r.logger.Info("salary recorded",
		zap.Int64("salaryId", id),
		zap.Int64("takenBy", in.TakenBy),
		zap.String("forMonth", in.ForMonth.String()))

	r.publish(ctx, events.NewRecorded(events.KindSalary, id, salary.Period()))
	return &salary, nil
}

// publish runs after commit, detached from the caller's cancellation so a
// disconnecting client cannot abort the recompute. A failing subscriber does
// not undo the write; the next event or a manual recompute repairs derived state.
func (r *Recorder) publish(ctx context.Context, e events.Event) {
	if err := r.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		r.logger.Error("event subscribers failed",
			zap.String("eventId", e.ID),
			zap.String("type", string(e.Type)),
			zap.String("kind", string(e.Kind)),
			zap.Int64("recordId", e.RecordID),
			zap.Error(err))
	}
}
