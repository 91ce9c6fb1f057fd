package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

var categoryOrderings = map[string]string{
	"title":  "title ASC, id ASC",
	"-title": "title DESC, id ASC",
}

type MySQLCategoryRepository struct {
	db *sql.DB
}

func NewMySQLCategoryRepository(db *sql.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{db: db}
}

func (r *MySQLCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, title, description, created_at, updated_at FROM categories WHERE id = ?`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by id: %w", err)
	}

	return &c, nil
}

func (r *MySQLCategoryRepository) List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	query := `SELECT id, title, description, created_at, updated_at FROM categories`
	var args []interface{}

	if filter.Search != "" {
		like := "%" + escapeLike(filter.Search) + "%"
		query += ` WHERE (title LIKE ? OR description LIKE ?)`
		args = append(args, like, like)
	}

	orderBy, ok := categoryOrderings[filter.Ordering]
	if !ok {
		orderBy = "id ASC"
	}
	query += " ORDER BY " + orderBy

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLCategoryRepository) Insert(ctx context.Context, c domain.Category) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (title, description) VALUES (?, ?)`,
		c.Title, c.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}
