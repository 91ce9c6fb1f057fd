package transaction

import (
	"database/sql"

	"go.uber.org/zap"

	"dokon/internal/config"
	customerrepo "dokon/internal/customer/repository"
	"dokon/internal/events"
	productrepo "dokon/internal/product/repository"
	productsvc "dokon/internal/product/service"
	statsrepo "dokon/internal/stats/repository"
	txrepo "dokon/internal/transaction/repository"
	"dokon/internal/transaction/service"
	"dokon/internal/transaction/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, publisher events.Publisher, logger *zap.Logger) *Controller {
	productRepo := productrepo.NewMySQLRepository(db)
	ledger := productsvc.NewLedger(productRepo, logger)

	sales := txrepo.NewMySQLSaleRepository(db)
	purchases := txrepo.NewMySQLPurchaseRepository(db)
	expenses := txrepo.NewMySQLExpenseRepository(db)
	salaries := txrepo.NewMySQLSalaryRepository(db)

	recorder := service.NewRecorder(
		db,
		productRepo,
		ledger,
		sales,
		purchases,
		expenses,
		salaries,
		statsrepo.NewMySQLMonthlyStatsRepository(db),
		publisher,
		logger,
		cfg.Transaction.TxTimeout,
	)

	journal := service.NewJournal(sales, purchases, expenses, salaries, publisher, logger)

	useCase := usecase.NewRecordUseCase(
		recorder,
		journal,
		productRepo,
		customerrepo.NewMySQLCustomerRepository(db),
		customerrepo.NewMySQLUserRepository(db),
		logger,
		cfg.Transaction.MaxRetryAttempts,
	)

	return NewController(useCase, journal, logger)
}
