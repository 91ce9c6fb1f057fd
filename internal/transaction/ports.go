package transaction

import (
	"context"

	"dokon/internal/domain"
	"dokon/internal/transaction/service"
)

type RecordUseCase interface {
	RecordSale(ctx context.Context, in service.SaleInput) (*domain.Sale, error)
	RecordPurchase(ctx context.Context, in service.PurchaseInput) (*domain.Purchase, error)
	RecordExpense(ctx context.Context, in service.ExpenseInput) (*domain.Expense, error)
	RecordSalary(ctx context.Context, in service.SalaryInput) (*domain.Salary, error)
	UpdateSale(ctx context.Context, id int64, customerID *int64, description *string) (*domain.Sale, error)
}

type Journal interface {
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
	ListSales(ctx context.Context, period *domain.Period) ([]domain.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
	GetPurchase(ctx context.Context, id int64) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, period *domain.Period) ([]domain.Purchase, error)
	DeletePurchase(ctx context.Context, id int64) error
	GetExpense(ctx context.Context, id int64) (*domain.Expense, error)
	ListExpenses(ctx context.Context, period *domain.Period) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, id int64, description *string) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	GetSalary(ctx context.Context, id int64) (*domain.Salary, error)
	ListSalaries(ctx context.Context, period *domain.Period) ([]domain.Salary, error)
	DeleteSalary(ctx context.Context, id int64) error
}
