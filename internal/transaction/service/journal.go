package service

import (
	"context"

	"go.uber.org/zap"

	"dokon/internal/domain"
	"dokon/internal/events"
)

type SaleStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Sale, error)
	List(ctx context.Context, period *domain.Period) ([]domain.Sale, error)
	UpdateDetails(ctx context.Context, id int64, customerID *int64, description *string) error
	Delete(ctx context.Context, id int64) error
}

type PurchaseStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context, period *domain.Period) ([]domain.Purchase, error)
	Delete(ctx context.Context, id int64) error
}

type ExpenseStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Expense, error)
	List(ctx context.Context, period *domain.Period) ([]domain.Expense, error)
	UpdateDescription(ctx context.Context, id int64, description *string) error
	Delete(ctx context.Context, id int64) error
}

type SalaryStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Salary, error)
	List(ctx context.Context, period *domain.Period) ([]domain.Salary, error)
	Delete(ctx context.Context, id int64) error
}

// Journal reads, edits and deletes recorded transactions. Edits are limited
// to descriptive fields and never touch stock or totals. Deletes never
// reverse stock; they only announce that the period needs recomputing.
type Journal struct {
	sales     SaleStore
	purchases PurchaseStore
	expenses  ExpenseStore
	salaries  SalaryStore
	publisher events.Publisher
	logger    *zap.Logger
}

func NewJournal(
	sales SaleStore,
	purchases PurchaseStore,
	expenses ExpenseStore,
	salaries SalaryStore,
	publisher events.Publisher,
	logger *zap.Logger,
) *Journal {
	return &Journal{
		sales:     sales,
		purchases: purchases,
		expenses:  expenses,
		salaries:  salaries,
		publisher: publisher,
		logger:    logger,
	}
}

func (j *Journal) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	return j.sales.FindByID(ctx, id)
}

func (j *Journal) ListSales(ctx context.Context, period *domain.Period) ([]domain.Sale, error) {
	return j.sales.List(ctx, period)
}

func (j *Journal) UpdateSale(ctx context.Context, id int64, customerID *int64, description *string) (*domain.Sale, error) {
	if err := j.sales.UpdateDetails(ctx, id, customerID, description); err != nil {
		return nil, err
	}
	j.logger.Info("sale details updated", zap.Int64("saleId", id))
	return j.sales.FindByID(ctx, id)
}

func (j *Journal) DeleteSale(ctx context.Context, id int64) error {
	sale, err := j.sales.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := j.sales.Delete(ctx, id); err != nil {
		return err
	}

	j.logger.Info("sale deleted", zap.Int64("saleId", id), zap.String("period", sale.Period().String()))
	j.publish(ctx, events.NewDeleted(events.KindSale, id, sale.Period()))
	return nil
}

func (j *Journal) GetPurchase(ctx context.Context, id int64) (*domain.Purchase, error) {
	return j.purchases.FindByID(ctx, id)
}

func (j *Journal) ListPurchases(ctx context.Context, period *domain.Period) ([]domain.Purchase, error) {
	return j.purchases.List(ctx, period)
}

func (j *Journal) DeletePurchase(ctx context.Context, id int64) error {
	purchase, err := j.purchases.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := j.purchases.Delete(ctx, id); err != nil {
		return err
	}

	j.logger.Info("purchase deleted", zap.Int64("purchaseId", id), zap.String("period", purchase.Period().String()))
	j.publish(ctx, events.NewDeleted(events.KindPurchase, id, purchase.Period()))
	return nil
}

func (j *Journal) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	return j.expenses.FindByID(ctx, id)
}

func (j *Journal) ListExpenses(ctx context.Context, period *domain.Period) ([]domain.Expense, error) {
	return j.expenses.List(ctx, period)
}

func (j *Journal) UpdateExpense(ctx context.Context, id int64, description *string) (*domain.Expense, error) {
	if err := j.expenses.UpdateDescription(ctx, id, description); err != nil {
		return nil, err
	}
	j.logger.Info("expense description updated", zap.Int64("expenseId", id))
	return j.expenses.FindByID(ctx, id)
}

func (j *Journal) DeleteExpense(ctx context.Context, id int64) error {
	expense, err := j.expenses.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := j.expenses.Delete(ctx, id); err != nil {
		return err
	}

	j.logger.Info("expense deleted", zap.Int64("expenseId", id), zap.String("period", expense.Period().String()))
	j.publish(ctx, events.NewDeleted(events.KindExpense, id, expense.Period()))
	return nil
}

func (j *Journal) GetSalary(ctx context.Context, id int64) (*domain.Salary, error) {
	return j.salaries.FindByID(ctx, id)
}

func (j *Journal) ListSalaries(ctx context.Context, period *domain.Period) ([]domain.Salary, error) {
	return j.salaries.List(ctx, period)
}

func (j *Journal) DeleteSalary(ctx context.Context, id int64) error {
	salary, err := j.salaries.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := j.salaries.Delete(ctx, id); err != nil {
		return err
	}

	j.logger.Info("salary deleted", zap.Int64("salaryId", id), zap.String("forMonth", salary.Period().String()))
	j.publish(ctx, events.NewDeleted(events.KindSalary, id, salary.Period()))
	return nil
}

func (j *Journal) publish(ctx context.Context, e events.Event) {
	if err := j.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		j.logger.Error("event subscribers failed",
			zap.String("eventId", e.ID),
			zap.String("type", string(e.Type)),
			zap.String("kind", string(e.Kind)),
			zap.Int64("recordId", e.RecordID),
			zap.Error(err))
	}
}
