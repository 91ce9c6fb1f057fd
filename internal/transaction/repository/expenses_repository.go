package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

const expenseColumns = `id, description, price, created_by, created_at`

type MySQLExpenseRepository struct {
	db *sql.DB
}

func NewMySQLExpenseRepository(db *sql.DB) *MySQLExpenseRepository {
	return &MySQLExpenseRepository{db: db}
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var e domain.Expense
	if err := row.Scan(&e.ID, &e.Description, &e.Price, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MySQLExpenseRepository) Insert(ctx context.Context, tx *sql.Tx, e domain.Expense) (int64, error) {
	query := `INSERT INTO expenses (description, price, created_by, created_at) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, e.Description, e.Price, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLExpenseRepository) FindByID(ctx context.Context, id int64) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("expense with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying expense by id: %w", err)
	}

	return e, nil
}

func (r *MySQLExpenseRepository) List(ctx context.Context, period *domain.Period) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var args []interface{}
	if period != nil {
		query += ` WHERE created_at >= ? AND created_at < ?`
		args = append(args, period.Start(), period.End())
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateDescription leaves price untouched so stats stay consistent without a recompute.
func (r *MySQLExpenseRepository) UpdateDescription(ctx context.Context, id int64, description *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE expenses SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("expense with id %d not found", id))
}

func (r *MySQLExpenseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("expense with id %d not found", id))
}
