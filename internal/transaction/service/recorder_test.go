package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dokon/internal/domain"
	"dokon/internal/errors"
	"dokon/internal/events"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(i int64) *int64 {
	return &i
}

// Mock implementations
type mockProductRepository struct {
	FindByIDForUpdateFunc func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

// fakeLedger applies deltas to an in-memory stock table.
type fakeLedger struct {
	stock map[int64]decimal.Decimal
	calls int
	err   error
}

func (f *fakeLedger) AdjustStock(ctx context.Context, tx *sql.Tx, productID int64, delta decimal.Decimal) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.stock[productID] = f.stock[productID].Add(delta)
	return nil
}

type mockSaleRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error)
}

func (m *mockSaleRepository) Insert(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error) {
	return m.InsertFunc(ctx, tx, s)
}

type mockPurchaseRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error)
}

func (m *mockPurchaseRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
	return m.InsertFunc(ctx, tx, p)
}

type mockExpenseRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, e domain.Expense) (int64, error)
}

func (m *mockExpenseRepository) Insert(ctx context.Context, tx *sql.Tx, e domain.Expense) (int64, error) {
	return m.InsertFunc(ctx, tx, e)
}

type mockSalaryRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, s domain.Salary) (int64, error)
}

func (m *mockSalaryRepository) Insert(ctx context.Context, tx *sql.Tx, s domain.Salary) (int64, error) {
	return m.InsertFunc(ctx, tx, s)
}

type mockPeriodRepository struct {
	GetOrCreateIDFunc func(ctx context.Context, tx *sql.Tx, period domain.Period) (int64, error)
}

func (m *mockPeriodRepository) GetOrCreateID(ctx context.Context, tx *sql.Tx, period domain.Period) (int64, error) {
	return m.GetOrCreateIDFunc(ctx, tx, period)
}

type recordingPublisher struct {
	events  []events.Event
	ctxErrs []error
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.events = append(p.events, e)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return p.err
}

type recorderDeps struct {
	products  *mockProductRepository
	ledger    *fakeLedger
	sales     *mockSaleRepository
	purchases *mockPurchaseRepository
	expenses  *mockExpenseRepository
	salaries  *mockSalaryRepository
	periods   *mockPeriodRepository
	publisher *recordingPublisher
}

func newDeps() *recorderDeps {
	return &recorderDeps{
		products:  &mockProductRepository{},
		ledger:    &fakeLedger{stock: map[int64]decimal.Decimal{}},
		sales:     &mockSaleRepository{},
		purchases: &mockPurchaseRepository{},
		expenses:  &mockExpenseRepository{},
		salaries:  &mockSalaryRepository{},
		periods:   &mockPeriodRepository{},
		publisher: &recordingPublisher{},
	}
}

var fixedNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

// newTestRecorder backs transactions with sqlmock.
func newTestRecorder(t *testing.T, d *recorderDeps) (*Recorder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewRecorder(db, d.products, d.ledger, d.sales, d.purchases, d.expenses, d.salaries, d.periods,
		d.publisher, zap.NewNop(), 5*time.Second)
	r.now = func() time.Time { return fixedNow }
	return r, mock
}

func productWithStock(id int64, price string, amount string) *domain.Product {
	p := &domain.Product{ID: id, Title: "Tea", Price: dec(price), Amount: dec(amount)}
	p.RecomputeDiscountPrice()
	return p
}

// Tests

func TestRecordSale_DecrementsStockOnce(t *testing.T) {
	d := newDeps()
	d.ledger.stock[1] = dec("10")
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "50", d.ledger.stock[id].String()), nil
	}
	var inserted domain.Sale
	d.sales.InsertFunc = func(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error) {
		inserted = s
		return 21, nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	sale, err := rec.RecordSale(context.Background(), SaleInput{ProductID: 1, Quantity: 3, SoldBy: int64Ptr(2)})
	require.NoError(t, err)

	assert.Equal(t, int64(21), sale.ID)
	assert.True(t, sale.TotalPrice.Equal(dec("150.00")))
	assert.True(t, inserted.TotalPrice.Equal(dec("150.00")))
	assert.Equal(t, fixedNow, inserted.CreatedAt)
	assert.True(t, d.ledger.stock[1].Equal(dec("7")))
	assert.Equal(t, 1, d.ledger.calls)

	require.Len(t, d.publisher.events, 1)
	e := d.publisher.events[0]
	assert.Equal(t, events.TransactionRecorded, e.Type)
	assert.Equal(t, events.KindSale, e.Kind)
	assert.Equal(t, int64(21), e.RecordID)
	assert.Equal(t, domain.Period{Year: 2024, Month: time.March}, e.Period())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSale_UsesDiscountPrice(t *testing.T) {
	d := newDeps()
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		p := &domain.Product{ID: id, Price: dec("100"), DiscountPercentage: decimal.NewNullDecimal(dec("20")), Amount: dec("5")}
		p.RecomputeDiscountPrice()
		return p, nil
	}
	d.sales.InsertFunc = func(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error) {
		return 1, nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	sale, err := rec.RecordSale(context.Background(), SaleInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, sale.TotalPrice.Equal(dec("160.00")))
}

func TestRecordSale_InsufficientStockAtSaveTime(t *testing.T) {
	d := newDeps()
	d.ledger.stock[1] = dec("2")
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "50", "2"), nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := rec.RecordSale(context.Background(), SaleInput{ProductID: 1, Quantity: 3})

	ise, ok := errors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, int64(1), ise.ProductID)
	assert.Equal(t, 3, ise.Requested)
	assert.True(t, ise.Available.Equal(dec("2")))
	assert.True(t, d.ledger.stock[1].Equal(dec("2")), "stock must be unchanged")
	assert.Equal(t, 0, d.ledger.calls)
	assert.Empty(t, d.publisher.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSale_InsertFailureRollsBack(t *testing.T) {
	d := newDeps()
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "50", "10"), nil
	}
	d.sales.InsertFunc = func(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error) {
		return 0, stderrors.New("insert failed")
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := rec.RecordSale(context.Background(), SaleInput{ProductID: 1, Quantity: 1})

	assert.Error(t, err)
	assert.Empty(t, d.publisher.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSale_ProductNotFound(t *testing.T) {
	d := newDeps()
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return nil, errors.NewNotFoundError("product with id 9 not found")
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := rec.RecordSale(context.Background(), SaleInput{ProductID: 9, Quantity: 1})

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRecordSale_SubscriberFailureKeepsWrite(t *testing.T) {
	d := newDeps()
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "50", "10"), nil
	}
	d.sales.InsertFunc = func(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error) {
		return 3, nil
	}
	d.publisher.err = stderrors.New("aggregator: lock wait timeout")

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	sale, err := rec.RecordSale(context.Background(), SaleInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sale.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchase_IncrementsStock(t *testing.T) {
	d := newDeps()
	d.ledger.stock[4] = dec("1")
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "45", "1"), nil
	}
	d.purchases.InsertFunc = func(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
		return 8, nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	purchase, err := rec.RecordPurchase(context.Background(), PurchaseInput{ProductID: 4, Quantity: 5, PurchasePrice: dec("30")})
	require.NoError(t, err)

	assert.True(t, purchase.TotalCost.Equal(dec("150.00")))
	assert.Equal(t, fixedNow, purchase.PurchaseDate)
	assert.True(t, d.ledger.stock[4].Equal(dec("6")))
	require.Len(t, d.publisher.events, 1)
	assert.Equal(t, events.KindPurchase, d.publisher.events[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchase_TotalUsesStoredUnitCost(t *testing.T) {
	d := newDeps()
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "1", "0"), nil
	}
	var inserted domain.Purchase
	d.purchases.InsertFunc = func(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
		inserted = p
		return 2, nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := rec.RecordPurchase(context.Background(), PurchaseInput{ProductID: 1, Quantity: 3, PurchasePrice: dec("0.005")})
	require.NoError(t, err)

	assert.True(t, inserted.PurchasePrice.Equal(dec("0.01")))
	assert.True(t, inserted.TotalCost.Equal(dec("0.03")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchase_ExplicitDateSetsPeriod(t *testing.T) {
	d := newDeps()
	d.products.FindByIDForUpdateFunc = func(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
		return productWithStock(id, "45", "1"), nil
	}
	d.purchases.InsertFunc = func(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
		return 1, nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	feb := time.Date(2024, time.February, 28, 23, 0, 0, 0, time.UTC)
	_, err := rec.RecordPurchase(context.Background(), PurchaseInput{ProductID: 1, Quantity: 1, PurchasePrice: dec("1"), PurchaseDate: &feb})
	require.NoError(t, err)

	assert.Equal(t, domain.Period{Year: 2024, Month: time.February}, d.publisher.events[0].Period())
}

func TestRecordExpense(t *testing.T) {
	d := newDeps()
	d.expenses.InsertFunc = func(ctx context.Context, tx *sql.Tx, e domain.Expense) (int64, error) {
		assert.True(t, e.Price.Equal(dec("20.00")))
		return 2, nil
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectCommit()

	expense, err := rec.RecordExpense(context.Background(), ExpenseInput{Price: dec("20")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), expense.ID)
	assert.Equal(t, events.KindExpense, d.publisher.events[0].Kind)
	assert.Equal(t, 0, d.ledger.calls)
}

func TestRecordSalary_TaggedMonthDrivesEvent(t *testing.T) {
	d := newDeps()
	march := domain.Period{Year: 2024, Month: time.March}
	d.periods.GetOrCreateIDFunc = func(ctx context.Context, tx *sql.Tx, period domain.Period) (int64, error) {
		assert.Equal(t, march, period)
		return 7, nil
	}
	d.salaries.InsertFunc = func(ctx context.Context, tx *sql.Tx, s domain.Salary) (int64, error) {
		assert.Equal(t, int64(7), s.ForMonthID)
		return 5, nil
	}

	rec, mock := newTestRecorder(t, d)
	// recorded in April
	rec.now = func() time.Time { return time.Date(2024, time.April, 2, 8, 0, 0, 0, time.UTC) }
	mock.ExpectBegin()
	mock.ExpectCommit()

	salary, err := rec.RecordSalary(context.Background(), SalaryInput{GaveBy: 1, TakenBy: 2, SalaryPrice: dec("100"), ForMonth: march})
	require.NoError(t, err)

	assert.Equal(t, int64(5), salary.ID)
	assert.Equal(t, march, salary.Period())
	require.Len(t, d.publisher.events, 1)
	assert.Equal(t, march, d.publisher.events[0].Period())
	assert.Equal(t, events.KindSalary, d.publisher.events[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSalary_PeriodResolutionFailure(t *testing.T) {
	d := newDeps()
	d.periods.GetOrCreateIDFunc = func(ctx context.Context, tx *sql.Tx, period domain.Period) (int64, error) {
		return 0, stderrors.New("db down")
	}

	rec, mock := newTestRecorder(t, d)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := rec.RecordSalary(context.Background(), SalaryInput{GaveBy: 1, TakenBy: 2, SalaryPrice: dec("100"), ForMonth: domain.Period{Year: 2024, Month: time.March}})
	assert.Error(t, err)
	assert.Empty(t, d.publisher.events)
}

func TestPublish_SurvivesCallerCancellation(t *testing.T) {
	d := newDeps()
	rec, _ := newTestRecorder(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec.publish(ctx, events.NewRecorded(events.KindSale, 1, domain.Period{Year: 2024, Month: time.March}))

	require.Len(t, d.publisher.ctxErrs, 1)
	assert.NoError(t, d.publisher.ctxErrs[0])
}
