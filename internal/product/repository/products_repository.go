package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

const productColumns = `id, title, description, brand, price, discount_percentage, discount_price,
	       amount, category_id, created_at, updated_at`

var productOrderings = map[string]string{
	"price":  "price ASC, id ASC",
	"-price": "price DESC, id ASC",
	"title":  "title ASC, id ASC",
	"-title": "title DESC, id ASC",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Brand, &p.Price,
		&p.DiscountPercentage, &p.DiscountPrice,
		&p.Amount, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return p, nil
}

// FindByIDForUpdate locks the product row until tx ends.
func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? FOR UPDATE`

	p, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking product: %w", err)
	}

	return p, nil
}

func (r *MySQLRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Search != "" {
		like := "%" + escapeLike(filter.Search) + "%"
		conds = append(conds, "(title LIKE ? OR description LIKE ? OR brand LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	orderBy, ok := productOrderings[filter.Ordering]
	if !ok {
		orderBy = "id ASC"
	}
	query += " ORDER BY " + orderBy

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) (int64, error) {
	query := `
		INSERT INTO products (title, description, brand, price, discount_percentage,
		                      discount_price, amount, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Brand, p.Price, p.DiscountPercentage,
		p.DiscountPrice, p.Amount, p.CategoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// Update rewrites catalog fields. Stock is only moved through AdjustStock.
func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE products
		SET title = ?, description = ?, brand = ?, price = ?, discount_percentage = ?,
		    discount_price = ?, category_id = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Brand, p.Price, p.DiscountPercentage,
		p.DiscountPrice, p.CategoryID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("product with id %d not found", p.ID))
}

// PurchaseMonths returns one purchase per month the product's purchases fall
// in, oldest month first.
func (r *MySQLRepository) PurchaseMonths(ctx context.Context, tx *sql.Tx, productID int64) ([]domain.PurchaseRef, error) {
	query := `
		SELECT MIN(id), YEAR(purchase_date), MONTH(purchase_date)
		FROM purchases
		WHERE product_id = ?
		GROUP BY YEAR(purchase_date), MONTH(purchase_date)
		ORDER BY YEAR(purchase_date), MONTH(purchase_date)`

	rows, err := tx.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying purchase months: %w", err)
	}
	defer rows.Close()

	refs := []domain.PurchaseRef{}
	for rows.Next() {
		var (
			ref   domain.PurchaseRef
			month int
		)
		if err := rows.Scan(&ref.ID, &ref.Period.Year, &month); err != nil {
			return nil, fmt.Errorf("scanning purchase month: %w", err)
		}
		ref.Period.Month = time.Month(month)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase months: %w", err)
	}

	return refs, nil
}

// Delete removes the product inside tx. The schema nulls its sales and
// cascades to its purchases.
func (r *MySQLRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("product with id %d not found", id))
}

// AdjustStock moves amount by delta inside tx. It does not clamp at zero.
func (r *MySQLRepository) AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta decimal.Decimal) error {
	query := `UPDATE products SET amount = amount + ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjusting product stock: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("product with id %d not found", id))
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

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
