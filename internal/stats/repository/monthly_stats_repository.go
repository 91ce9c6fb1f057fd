package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dokon/internal/domain"
	"dokon/internal/errors"
)

const statsColumns = `id, year, month, total_sales, total_purchases, total_salaries, expenses, net_profit`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type MySQLMonthlyStatsRepository struct {
	db *sql.DB
}

func NewMySQLMonthlyStatsRepository(db *sql.DB) *MySQLMonthlyStatsRepository {
	return &MySQLMonthlyStatsRepository{db: db}
}

func scanStats(row rowScanner) (*domain.MonthlyStats, error) {
	var m domain.MonthlyStats
	err := row.Scan(&m.ID, &m.Year, &m.Month, &m.TotalSales, &m.TotalPurchases, &m.TotalSalaries, &m.Expenses, &m.NetProfit)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetOrCreateID returns the id of the period's row, inserting a zeroed row
// when none exists. LAST_INSERT_ID(id) makes the existing id visible on a
// duplicate key.
func (r *MySQLMonthlyStatsRepository) GetOrCreateID(ctx context.Context, tx *sql.Tx, period domain.Period) (int64, error) {
	query := `
		INSERT INTO monthly_stats (year, month) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
	`

	result, err := tx.ExecContext(ctx, query, period.Year, int(period.Month))
	if err != nil {
		return 0, fmt.Errorf("ensuring monthly stats row: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting monthly stats id: %w", err)
	}

	return id, nil
}

// GetOrCreateForUpdate ensures the period's row exists and locks it until tx ends.
func (r *MySQLMonthlyStatsRepository) GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, period domain.Period) (*domain.MonthlyStats, error) {
	id, err := r.GetOrCreateID(ctx, tx, period)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + statsColumns + ` FROM monthly_stats WHERE id = ? FOR UPDATE`
	m, err := scanStats(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("locking monthly stats: %w", err)
	}

	return m, nil
}

// SumTotals computes the four independent sums for period from the
// transaction tables. Empty sets sum to zero.
func (r *MySQLMonthlyStatsRepository) SumTotals(ctx context.Context, tx *sql.Tx, period domain.Period) (domain.PeriodTotals, error) {
	var t domain.PeriodTotals
	start, end := period.Start(), period.End()

	sums := []struct {
		name  string
		query string
		args  []interface{}
		dest  interface{}
	}{
		{
			name:  "sales",
			query: `SELECT COALESCE(SUM(total_price), 0) FROM sales WHERE created_at >= ? AND created_at < ?`,
			args:  []interface{}{start, end},
			dest:  &t.Sales,
		},
		{
			name:  "purchases",
			query: `SELECT COALESCE(SUM(total_cost), 0) FROM purchases WHERE purchase_date >= ? AND purchase_date < ?`,
			args:  []interface{}{start, end},
			dest:  &t.Purchases,
		},
		{
			name: "salaries",
			query: `SELECT COALESCE(SUM(s.salary_price), 0) FROM salaries s
				JOIN monthly_stats m ON m.id = s.for_month_id
				WHERE m.year = ? AND m.month = ?`,
			args: []interface{}{period.Year, int(period.Month)},
			dest: &t.Salaries,
		},
		{
			name:  "expenses",
			query: `SELECT COALESCE(SUM(price), 0) FROM expenses WHERE created_at >= ? AND created_at < ?`,
			args:  []interface{}{start, end},
			dest:  &t.Expenses,
		},
	}

	for _, s := range sums {
		if err := tx.QueryRowContext(ctx, s.query, s.args...).Scan(s.dest); err != nil {
			return domain.PeriodTotals{}, fmt.Errorf("summing %s: %w", s.name, err)
		}
	}

	return t, nil
}

// Overwrite replaces every derived column of the row.
func (r *MySQLMonthlyStatsRepository) Overwrite(ctx context.Context, tx *sql.Tx, m domain.MonthlyStats) error {
	query := `
		UPDATE monthly_stats
		SET total_sales = ?, total_purchases = ?, total_salaries = ?, expenses = ?, net_profit = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query, m.TotalSales, m.TotalPurchases, m.TotalSalaries, m.Expenses, m.NetProfit, m.ID)
	if err != nil {
		return fmt.Errorf("overwriting monthly stats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("monthly stats with id %d not found", m.ID))
	}

	return nil
}

func (r *MySQLMonthlyStatsRepository) FindByPeriod(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error) {
	query := `SELECT ` + statsColumns + ` FROM monthly_stats WHERE year = ? AND month = ?`

	m, err := scanStats(r.db.QueryRowContext(ctx, query, period.Year, int(period.Month)))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no stats for %s", period))
	}
	if err != nil {
		return nil, fmt.Errorf("querying monthly stats: %w", err)
	}

	return m, nil
}

// List returns rows newest period first, optionally restricted to one year.
func (r *MySQLMonthlyStatsRepository) List(ctx context.Context, year *int) ([]domain.MonthlyStats, error) {
	query := `SELECT ` + statsColumns + ` FROM monthly_stats`
	var args []interface{}
	if year != nil {
		query += ` WHERE year = ?`
		args = append(args, *year)
	}
	query += ` ORDER BY year DESC, month DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing monthly stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.MonthlyStats{}
	for rows.Next() {
		m, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning monthly stats: %w", err)
		}
		stats = append(stats, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly stats: %w", err)
	}

	return stats, nil
}
