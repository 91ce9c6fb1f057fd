package product

import (
	"database/sql"

	"go.uber.org/zap"

	"dokon/internal/config"
	"dokon/internal/events"
	"dokon/internal/product/repository"
	"dokon/internal/product/service"
)

func NewModule(db *sql.DB, cfg *config.Config, publisher events.Publisher, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	categoryRepo := repository.NewMySQLCategoryRepository(db)
	svc := service.NewService(db, repo, categoryRepo, publisher, logger, cfg.Transaction.TxTimeout)
	return NewController(svc, logger)
}
