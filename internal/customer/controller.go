package customer

import (
	"net/http"

	"go.uber.org/zap"

	"dokon/internal/auth"
	"dokon/internal/commons"
	"dokon/internal/domain"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	customers, err := c.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	resp := make([]CustomerDTO, 0, len(customers))
	for _, cu := range customers {
		resp = append(resp, toCustomerDTO(cu))
	}

	commons.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	cu, err := c.service.Get(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toCustomerDTO(*cu), c.logger)
}

// HandleCreate records the authenticated user as the customer's creator.
func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	userID, err := auth.UserID(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req CustomerRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	cu, err := c.service.Create(r.Context(), domain.Customer{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
		CreatedBy:   userID,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toCustomerDTO(*cu), c.logger)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
