package stats

import (
	"database/sql"

	"go.uber.org/zap"

	"dokon/internal/config"
	"dokon/internal/stats/repository"
	"dokon/internal/stats/service"
)

// NewModule returns the HTTP controller and the aggregator, which the caller
// subscribes to transaction events.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*Controller, *service.Aggregator) {
	repo := repository.NewMySQLMonthlyStatsRepository(db)

	aggregator := service.NewAggregator(
		db,
		repo,
		logger,
		cfg.Transaction.TxTimeout,
		cfg.Transaction.MaxRetryAttempts,
		cfg.Stats.RecomputeConcurrency,
	)

	return NewController(aggregator, logger), aggregator
}
