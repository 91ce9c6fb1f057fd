package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokon/internal/domain"
	"dokon/internal/errors"
	"dokon/internal/testutil"
)

// Unit Tests

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func int64Ptr(i int64) *int64 {
	return &i
}

func TestSaleRepository_InsertWithinTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLSaleRepository(db)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO sales`).
		WithArgs(nil, int64(1), int64(2), nil, 3, decimal.RequireFromString("150.00"), now, now).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, domain.Sale{
		ProductID:  int64Ptr(1),
		SoldBy:     int64Ptr(2),
		Quantity:   3,
		TotalPrice: decimal.RequireFromString("150.00"),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_ListByPeriod(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLSaleRepository(db)
	march := domain.Period{Year: 2024, Month: time.March}

	mock.ExpectQuery(`FROM sales WHERE created_at >= \? AND created_at < \? ORDER BY created_at DESC, id DESC`).
		WithArgs(march.Start(), march.End()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "product_id", "sold_by", "description", "quantity", "total_price", "created_at", "updated_at",
		}))

	sales, err := repo.List(context.Background(), &march)
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_UpdateDetails_TouchesOnlyDescriptiveColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLSaleRepository(db)
	desc := "gift wrap"

	mock.ExpectExec(`UPDATE sales SET customer_id = \?, description = \? WHERE id = \?`).
		WithArgs(int64(4), desc, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateDetails(context.Background(), 1, int64Ptr(4), &desc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLSaleRepository(db)

	mock.ExpectQuery(`FROM sales WHERE id = \?`).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 5)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestPurchaseRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLPurchaseRepository(db)

	mock.ExpectExec(`DELETE FROM purchases WHERE id = \?`).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 2)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestSalaryRepository_FindByID_CarriesTaggedMonth(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLSalaryRepository(db)
	createdAt := time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM salaries s\s+JOIN monthly_stats m ON m.id = s.for_month_id WHERE s.id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "gave_by", "taken_by", "salary_price", "for_month_id", "year", "month", "created_at",
		}).AddRow(3, 1, 2, "100.00", 7, 2024, 3, createdAt))

	s, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2024, Month: time.March}, s.Period())
	assert.True(t, s.SalaryPrice.Equal(decimal.NewFromInt(100)))
}

func TestSalaryRepository_ListByPeriod(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLSalaryRepository(db)

	mock.ExpectQuery(`WHERE m.year = \? AND m.month = \?`).
		WithArgs(2024, 3).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "gave_by", "taken_by", "salary_price", "for_month_id", "year", "month", "created_at",
		}))

	_, err := repo.List(context.Background(), &domain.Period{Year: 2024, Month: time.March})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_UpdateDescription(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLExpenseRepository(db)
	desc := "rent"

	mock.ExpectExec(`UPDATE expenses SET description = \? WHERE id = \?`).
		WithArgs(desc, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateDescription(context.Background(), 8, &desc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Integration Tests

func TestSalaryRepository_Integration_InsertFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	ctx := context.Background()
	manager := testutil.InsertUser(t, db, "manager", string(domain.RoleManager), false)
	admin := testutil.InsertUser(t, db, "admin", string(domain.RoleAdmin), false)

	res, err := db.Exec(`INSERT INTO monthly_stats (year, month) VALUES (2024, 3)`)
	require.NoError(t, err)
	monthID, err := res.LastInsertId()
	require.NoError(t, err)

	repo := NewMySQLSalaryRepository(db)
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	id, err := repo.Insert(ctx, tx, domain.Salary{
		GaveBy:      manager,
		TakenBy:     admin,
		SalaryPrice: decimal.NewFromInt(100),
		ForMonthID:  monthID,
		CreatedAt:   time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	s, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2024, Month: time.March}, s.ForMonth)

	april := domain.Period{Year: 2024, Month: time.April}
	list, err := repo.List(ctx, &april)
	require.NoError(t, err)
	assert.Empty(t, list)
}
