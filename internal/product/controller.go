package product

import (
	"net/http"

	"go.uber.org/zap"

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

// HandleListProducts serves the public catalog. Malformed numeric filters and
// unknown orderings are ignored rather than rejected.
func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Search:     q.Get("search"),
		MinPrice:   commons.QueryDecimal(r, "min_price"),
		MaxPrice:   commons.QueryDecimal(r, "max_price"),
		CategoryID: commons.QueryInt64(r, "category"),
		Ordering:   q.Get("ordering"),
	}

	products, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	resp := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductDTO(p))
	}

	commons.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toProductDTO(*p), c.logger)
}

func (c *Controller) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	var req ProductRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	p, err := c.service.Create(r.Context(), req.toDomain())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toProductDTO(*p), c.logger)
}

func (c *Controller) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req ProductRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	p := req.toDomain()
	p.ID = id

	updated, err := c.service.Update(r.Context(), p)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toProductDTO(*updated), c.logger)
}

func (c *Controller) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
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

func (c *Controller) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	q := r.URL.Query()

	categories, err := c.service.ListCategories(r.Context(), domain.CategoryFilter{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	})
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	resp := make([]CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toCategoryDTO(cat))
	}

	commons.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *Controller) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	cat, err := c.service.GetCategory(r.Context(), id)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toCategoryDTO(*cat), c.logger)
}

func (c *Controller) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	var req CategoryRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	cat, err := c.service.CreateCategory(r.Context(), domain.Category{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toCategoryDTO(*cat), c.logger)
}
