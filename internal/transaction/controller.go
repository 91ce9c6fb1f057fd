package transaction

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"dokon/internal/auth"
	"dokon/internal/commons"
	"dokon/internal/domain"
	apperrors "dokon/internal/errors"
	"dokon/internal/transaction/service"
)

type Controller struct {
	useCase RecordUseCase
	journal Journal
	logger  *zap.Logger
}

func NewController(useCase RecordUseCase, journal Journal, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		journal: journal,
		logger:  logger,
	}
}

// queryPeriod reads ?year=&month=. Anything incomplete or malformed means no filter.
func queryPeriod(r *http.Request) *domain.Period {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return nil
	}
	p, err := domain.NewPeriod(year, month)
	if err != nil {
		return nil
	}
	return &p
}

// Sales

func (c *Controller) HandleListSales(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	sales, err := c.journal.ListSales(r.Context(), queryPeriod(r))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, mapSlice(sales, toSaleDTO), c.logger)
}

func (c *Controller) HandleGetSale(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	sale, err := c.journal.GetSale(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toSaleDTO(*sale), c.logger)
}

func (c *Controller) HandleCreateSale(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	userID, err := auth.UserID(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req SaleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid sale request", zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	sale, err := c.useCase.RecordSale(r.Context(), service.SaleInput{
		ProductID:   req.ProductID,
		CustomerID:  req.CustomerID,
		SoldBy:      &userID,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		logger.Warn("sale not recorded", zap.Int64("productId", req.ProductID), zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toSaleDTO(*sale), c.logger)
}

func (c *Controller) HandleUpdateSale(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req SaleUpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	sale, err := c.useCase.UpdateSale(r.Context(), id, req.CustomerID, req.Description)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toSaleDTO(*sale), c.logger)
}

func (c *Controller) HandleDeleteSale(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.journal.DeleteSale(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Purchases

func (c *Controller) HandleListPurchases(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	purchases, err := c.journal.ListPurchases(r.Context(), queryPeriod(r))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, mapSlice(purchases, toPurchaseDTO), c.logger)
}

func (c *Controller) HandleGetPurchase(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	purchase, err := c.journal.GetPurchase(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toPurchaseDTO(*purchase), c.logger)
}

func (c *Controller) HandleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req PurchaseRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid purchase request", zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	purchase, err := c.useCase.RecordPurchase(r.Context(), service.PurchaseInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
	})
	if err != nil {
		logger.Warn("purchase not recorded", zap.Int64("productId", req.ProductID), zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toPurchaseDTO(*purchase), c.logger)
}

func (c *Controller) HandleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.journal.DeletePurchase(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Expenses

func (c *Controller) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	expenses, err := c.journal.ListExpenses(r.Context(), queryPeriod(r))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, mapSlice(expenses, toExpenseDTO), c.logger)
}

func (c *Controller) HandleGetExpense(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	expense, err := c.journal.GetExpense(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toExpenseDTO(*expense), c.logger)
}

func (c *Controller) HandleCreateExpense(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	userID, err := auth.UserID(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req ExpenseRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	expense, err := c.useCase.RecordExpense(r.Context(), service.ExpenseInput{
		Description: req.Description,
		Price:       req.Price,
		CreatedBy:   &userID,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toExpenseDTO(*expense), c.logger)
}

func (c *Controller) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req ExpenseUpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	expense, err := c.journal.UpdateExpense(r.Context(), id, req.Description)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toExpenseDTO(*expense), c.logger)
}

func (c *Controller) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.journal.DeleteExpense(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Salaries

func (c *Controller) HandleListSalaries(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	salaries, err := c.journal.ListSalaries(r.Context(), queryPeriod(r))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, mapSlice(salaries, toSalaryDTO), c.logger)
}

func (c *Controller) HandleGetSalary(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	salary, err := c.journal.GetSalary(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toSalaryDTO(*salary), c.logger)
}

// HandleCreateSalary records the authenticated user as the payer.
func (c *Controller) HandleCreateSalary(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	userID, err := auth.UserID(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req SalaryRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	forMonth, err := domain.NewPeriod(req.Year, req.Month)
	if err != nil {
		commons.WriteError(w, traceID, apperrors.NewValidationError(err.Error()), c.logger)
		return
	}

	salary, err := c.useCase.RecordSalary(r.Context(), service.SalaryInput{
		GaveBy:      userID,
		TakenBy:     req.TakenBy,
		SalaryPrice: req.SalaryPrice,
		ForMonth:    forMonth,
	})
	if err != nil {
		logger.Warn("salary not recorded", zap.Int64("takenBy", req.TakenBy), zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toSalaryDTO(*salary), c.logger)
}

func (c *Controller) HandleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.journal.DeleteSalary(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
