package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

const salarySelect = `
	SELECT s.id, s.gave_by, s.taken_by, s.salary_price, s.for_month_id, m.year, m.month, s.created_at
	FROM salaries s
	JOIN monthly_stats m ON m.id = s.for_month_id`

type MySQLSalaryRepository struct {
	db *sql.DB
}

func NewMySQLSalaryRepository(db *sql.DB) *MySQLSalaryRepository {
	return &MySQLSalaryRepository{db: db}
}

func scanSalary(row rowScanner) (*domain.Salary, error) {
	var (
		s     domain.Salary
		year  int
		month int
	)
	err := row.Scan(&s.ID, &s.GaveBy, &s.TakenBy, &s.SalaryPrice, &s.ForMonthID, &year, &month, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.ForMonth = domain.Period{Year: year, Month: time.Month(month)}
	return &s, nil
}

// Insert expects ForMonthID to be resolved already.
func (r *MySQLSalaryRepository) Insert(ctx context.Context, tx *sql.Tx, s domain.Salary) (int64, error) {
	query := `INSERT INTO salaries (gave_by, taken_by, salary_price, for_month_id, created_at) VALUES (?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, s.GaveBy, s.TakenBy, s.SalaryPrice, s.ForMonthID, s.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting salary: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLSalaryRepository) FindByID(ctx context.Context, id int64) (*domain.Salary, error) {
	query := salarySelect + ` WHERE s.id = ?`

	s, err := scanSalary(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("salary with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying salary by id: %w", err)
	}

	return s, nil
}

// List filters by the month a salary is tagged for, not by created_at.
func (r *MySQLSalaryRepository) List(ctx context.Context, period *domain.Period) ([]domain.Salary, error) {
	query := salarySelect
	var args []interface{}
	if period != nil {
		query += ` WHERE m.year = ? AND m.month = ?`
		args = append(args, period.Year, int(period.Month))
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing salaries: %w", err)
	}
	defer rows.Close()

	salaries := []domain.Salary{}
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning salary: %w", err)
		}
		salaries = append(salaries, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating salaries: %w", err)
	}

	return salaries, nil
}

func (r *MySQLSalaryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM salaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting salary: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("salary with id %d not found", id))
}
