package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

const purchaseColumns = `id, product_id, quantity, purchase_price, total_cost, purchase_date`

type MySQLPurchaseRepository struct {
	db *sql.DB
}

func NewMySQLPurchaseRepository(db *sql.DB) *MySQLPurchaseRepository {
	return &MySQLPurchaseRepository{db: db}
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(&p.ID, &p.ProductID, &p.Quantity, &p.PurchasePrice, &p.TotalCost, &p.PurchaseDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLPurchaseRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
	query := `
		INSERT INTO purchases (product_id, quantity, purchase_price, total_cost, purchase_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, p.ProductID, p.Quantity, p.PurchasePrice, p.TotalCost, p.PurchaseDate)
	if err != nil {
		return 0, fmt.Errorf("inserting purchase: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLPurchaseRepository) FindByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = ?`

	p, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("purchase with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying purchase by id: %w", err)
	}

	return p, nil
}

func (r *MySQLPurchaseRepository) List(ctx context.Context, period *domain.Period) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases`
	var args []interface{}
	if period != nil {
		query += ` WHERE purchase_date >= ? AND purchase_date < ?`
		args = append(args, period.Start(), period.End())
	}
	query += ` ORDER BY purchase_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases: %w", err)
	}

	return purchases, nil
}

func (r *MySQLPurchaseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("purchase with id %d not found", id))
}
