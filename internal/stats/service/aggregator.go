package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dokon/internal/domain"
	"dokon/internal/events"
	"dokon/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type Repository interface {
	GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, period domain.Period) (*domain.MonthlyStats, error)
	SumTotals(ctx context.Context, tx *sql.Tx, period domain.Period) (domain.PeriodTotals, error)
	Overwrite(ctx context.Context, tx *sql.Tx, m domain.MonthlyStats) error
	FindByPeriod(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error)
	List(ctx context.Context, year *int) ([]domain.MonthlyStats, error)
}

// Aggregator keeps one MonthlyStats row per period equal to a fresh
// computation over the transaction tables. Every recompute overwrites the
// whole row, so running it twice is the same as running it once.
type Aggregator struct {
	db               TransactionManager
	repo             Repository
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
	concurrency      int
}

func NewAggregator(
	db TransactionManager,
	repo Repository,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
	concurrency int,
) *Aggregator {
	return &Aggregator{
		db:               db,
		repo:             repo,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
		concurrency:      concurrency,
	}
}

// Handle recomputes the period named by a transaction event.
func (a *Aggregator) Handle(ctx context.Context, e events.Event) error {
	_, err := a.Recompute(ctx, e.Period())
	return err
}

func (a *Aggregator) Recompute(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error) {
	return mysql.Retry(ctx, a.maxRetryAttempts, a.logger, func(ctx context.Context) (*domain.MonthlyStats, error) {
		return a.recomputeOnce(ctx, period)
	})
}

func (a *Aggregator) recomputeOnce(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error) {
	txCtx, cancel := context.WithTimeout(ctx, a.txTimeout)
	defer cancel()

	tx, err := a.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		a.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	stats, err := a.repo.GetOrCreateForUpdate(txCtx, tx, period)
	if err != nil {
		return nil, err
	}

	totals, err := a.repo.SumTotals(txCtx, tx, period)
	if err != nil {
		return nil, err
	}

	stats.Overwrite(totals)
	if err := a.repo.Overwrite(txCtx, tx, *stats); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		a.logger.Error("failed to commit recompute", zap.String("period", period.String()), zap.Error(err))
		return nil, err
	}

	a.logger.Info("monthly stats recomputed",
		zap.String("period", period.String()),
		zap.String("totalSales", stats.TotalSales.String()),
		zap.String("totalPurchases", stats.TotalPurchases.String()),
		zap.String("totalSalaries", stats.TotalSalaries.String()),
		zap.String("expenses", stats.Expenses.String()),
		zap.String("netProfit", stats.NetProfit.String()),
	)

	return stats, nil
}

// RecomputeYear recomputes all twelve months of year, each in its own
// transaction, with at most concurrency recomputes in flight.
func (a *Aggregator) RecomputeYear(ctx context.Context, year int) ([]domain.MonthlyStats, error) {
	results := make([]domain.MonthlyStats, 12)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for m := 1; m <= 12; m++ {
		period, err := domain.NewPeriod(year, m)
		if err != nil {
			return nil, err
		}
		idx := m - 1
		g.Go(func() error {
			stats, err := a.Recompute(gctx, period)
			if err != nil {
				return err
			}
			results[idx] = *stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("yearly recompute failed", zap.Int("year", year), zap.Error(err))
		return nil, err
	}

	return results, nil
}

func (a *Aggregator) Get(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error) {
	return a.repo.FindByPeriod(ctx, period)
}

func (a *Aggregator) List(ctx context.Context, year *int) ([]domain.MonthlyStats, error) {
	return a.repo.List(ctx, year)
}
