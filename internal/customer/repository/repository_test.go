package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLUserRepository(db)

	mock.ExpectQuery(`SELECT id, username, first_name, last_name, role, is_superuser\s+FROM users`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "first_name", "last_name", "role", "is_superuser"}).
			AddRow(7, "boss", "Ali", "Valiyev", "ADMIN", false))

	u, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, "boss", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLUserRepository(db)

	mock.ExpectQuery(`FROM users`).WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByID(context.Background(), 1)
	assert.Nil(t, u)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCustomerRepository_List_Search(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCustomerRepository(db)

	mock.ExpectQuery(`FROM customers WHERE name LIKE \? OR phone_number LIKE \? ORDER BY id DESC`).
		WithArgs("%ali%", "%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone_number", "description", "created_by", "created_at"}).
			AddRow(1, "Ali", nil, nil, 2, time.Now()))

	customers, err := repo.List(context.Background(), " ali ")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Nil(t, customers[0].PhoneNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCustomerRepository(db)

	mock.ExpectExec(`DELETE FROM customers`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

// Integration Tests

func TestCustomerRepository_Integration_InsertFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	userID := testutil.InsertUser(t, db, "seller", string(domain.RoleManager), false)
	repo := NewMySQLCustomerRepository(db)

	phone := "+998901234567"
	id, err := repo.Insert(context.Background(), domain.Customer{Name: "Ali", PhoneNumber: &phone, CreatedBy: userID})
	require.NoError(t, err)

	c, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ali", c.Name)
	require.NotNil(t, c.PhoneNumber)
	assert.Equal(t, phone, *c.PhoneNumber)

	users := NewMySQLUserRepository(db)
	u, err := users.FindByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, u.Role)
}
