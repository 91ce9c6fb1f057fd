package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type StockRepository interface {
	AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta decimal.Decimal) error
}

// Ledger owns product stock movements. Callers are responsible for holding
// the product row lock and for any sufficiency check; the ledger applies the
// delta as given.
type Ledger struct {
	repo   StockRepository
	logger *zap.Logger
}

func NewLedger(repo StockRepository, logger *zap.Logger) *Ledger {
	return &Ledger{repo: repo, logger: logger}
}

func (l *Ledger) AdjustStock(ctx context.Context, tx *sql.Tx, productID int64, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	if err := l.repo.AdjustStock(ctx, tx, productID, delta); err != nil {
		l.logger.Error("stock adjustment failed", zap.Int64("productId", productID), zap.String("delta", delta.String()), zap.Error(err))
		return err
	}

	l.logger.Debug("stock adjusted", zap.Int64("productId", productID), zap.String("delta", delta.String()))
	return nil
}
