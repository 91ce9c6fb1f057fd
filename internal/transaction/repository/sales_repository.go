package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

const saleColumns = `id, customer_id, product_id, sold_by, description, quantity, total_price, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

func scanSale(row rowScanner) (*domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.ProductID, &s.SoldBy, &s.Description,
		&s.Quantity, &s.TotalPrice, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, tx *sql.Tx, s domain.Sale) (int64, error) {
	query := `
		INSERT INTO sales (customer_id, product_id, sold_by, description, quantity, total_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		s.CustomerID, s.ProductID, s.SoldBy, s.Description,
		s.Quantity, s.TotalPrice, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLSaleRepository) FindByID(ctx context.Context, id int64) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = ?`

	s, err := scanSale(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("sale with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying sale by id: %w", err)
	}

	return s, nil
}

// List returns sales newest first, restricted to period when given.
func (r *MySQLSaleRepository) List(ctx context.Context, period *domain.Period) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	var args []interface{}
	if period != nil {
		query += ` WHERE created_at >= ? AND created_at < ?`
		args = append(args, period.Start(), period.End())
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}

	return sales, nil
}

// UpdateDetails changes descriptive fields only. Quantity, product and
// total_price are fixed at creation.
func (r *MySQLSaleRepository) UpdateDetails(ctx context.Context, id int64, customerID *int64, description *string) error {
	query := `UPDATE sales SET customer_id = ?, description = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, customerID, description, id)
	if err != nil {
		return fmt.Errorf("updating sale: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("sale with id %d not found", id))
}

func (r *MySQLSaleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("sale with id %d not found", id))
}

func expectOneRow(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(notFoundMsg)
	}

	return nil
}
