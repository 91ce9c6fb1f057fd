package customer

import (
	"database/sql"

	"go.uber.org/zap"

	"dokon/internal/customer/repository"
	"dokon/internal/customer/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLCustomerRepository(db)
	svc := service.NewService(repo, logger)
	return NewController(svc, logger)
}
