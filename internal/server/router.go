package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dokon/internal/auth"
	"dokon/internal/commons"
	"dokon/internal/customer"
	"dokon/internal/policy"
	"dokon/internal/product"
	"dokon/internal/stats"
	"dokon/internal/transaction"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Controllers struct {
	Product     *product.Controller
	Customer    *customer.Controller
	Transaction *transaction.Controller
	Stats       *stats.Controller
}

// NewRouter mounts the public catalog under /api and everything else under
// /api/admin behind bearer authentication and the role policy.
func NewRouter(c Controllers, issuer *auth.Issuer, p *policy.Policy, db Pinger, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			logger.Error("health check failed", zap.Error(err))
			commons.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, logger)
			return
		}
		commons.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", c.Product.HandleListProducts)
		r.Get("/products/{id}", c.Product.HandleGetProduct)
		r.Get("/categories", c.Product.HandleListCategories)
		r.Get("/categories/{id}", c.Product.HandleGetCategory)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Authenticate(issuer, logger))

			can := func(res policy.Resource, act policy.Action) func(http.Handler) http.Handler {
				return auth.RequirePermission(p, res, act, logger)
			}

			r.Route("/products", func(r chi.Router) {
				r.With(can(policy.ResourceProduct, policy.ActionView)).Get("/", c.Product.HandleListProducts)
				r.With(can(policy.ResourceProduct, policy.ActionAdd)).Post("/", c.Product.HandleCreateProduct)
				r.With(can(policy.ResourceProduct, policy.ActionView)).Get("/{id}", c.Product.HandleGetProduct)
				r.With(can(policy.ResourceProduct, policy.ActionChange)).Put("/{id}", c.Product.HandleUpdateProduct)
				r.With(can(policy.ResourceProduct, policy.ActionDelete)).Delete("/{id}", c.Product.HandleDeleteProduct)
			})

			r.Route("/categories", func(r chi.Router) {
				r.With(can(policy.ResourceCategory, policy.ActionView)).Get("/", c.Product.HandleListCategories)
				r.With(can(policy.ResourceCategory, policy.ActionAdd)).Post("/", c.Product.HandleCreateCategory)
				r.With(can(policy.ResourceCategory, policy.ActionView)).Get("/{id}", c.Product.HandleGetCategory)
			})

			r.Route("/customers", func(r chi.Router) {
				r.With(can(policy.ResourceCustomer, policy.ActionView)).Get("/", c.Customer.HandleList)
				r.With(can(policy.ResourceCustomer, policy.ActionAdd)).Post("/", c.Customer.HandleCreate)
				r.With(can(policy.ResourceCustomer, policy.ActionView)).Get("/{id}", c.Customer.HandleGet)
				r.With(can(policy.ResourceCustomer, policy.ActionDelete)).Delete("/{id}", c.Customer.HandleDelete)
			})

			r.Route("/sales", func(r chi.Router) {
				r.With(can(policy.ResourceSale, policy.ActionView)).Get("/", c.Transaction.HandleListSales)
				r.With(can(policy.ResourceSale, policy.ActionAdd)).Post("/", c.Transaction.HandleCreateSale)
				r.With(can(policy.ResourceSale, policy.ActionView)).Get("/{id}", c.Transaction.HandleGetSale)
				r.With(can(policy.ResourceSale, policy.ActionChange)).Patch("/{id}", c.Transaction.HandleUpdateSale)
				r.With(can(policy.ResourceSale, policy.ActionDelete)).Delete("/{id}", c.Transaction.HandleDeleteSale)
			})

			r.Route("/purchases", func(r chi.Router) {
				r.With(can(policy.ResourcePurchase, policy.ActionView)).Get("/", c.Transaction.HandleListPurchases)
				r.With(can(policy.ResourcePurchase, policy.ActionAdd)).Post("/", c.Transaction.HandleCreatePurchase)
				r.With(can(policy.ResourcePurchase, policy.ActionView)).Get("/{id}", c.Transaction.HandleGetPurchase)
				r.With(can(policy.ResourcePurchase, policy.ActionDelete)).Delete("/{id}", c.Transaction.HandleDeletePurchase)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.With(can(policy.ResourceExpense, policy.ActionView)).Get("/", c.Transaction.HandleListExpenses)
				r.With(can(policy.ResourceExpense, policy.ActionAdd)).Post("/", c.Transaction.HandleCreateExpense)
				r.With(can(policy.ResourceExpense, policy.ActionView)).Get("/{id}", c.Transaction.HandleGetExpense)
				r.With(can(policy.ResourceExpense, policy.ActionChange)).Patch("/{id}", c.Transaction.HandleUpdateExpense)
				r.With(can(policy.ResourceExpense, policy.ActionDelete)).Delete("/{id}", c.Transaction.HandleDeleteExpense)
			})

			r.Route("/salaries", func(r chi.Router) {
				r.With(can(policy.ResourceSalary, policy.ActionView)).Get("/", c.Transaction.HandleListSalaries)
				r.With(can(policy.ResourceSalary, policy.ActionAdd)).Post("/", c.Transaction.HandleCreateSalary)
				r.With(can(policy.ResourceSalary, policy.ActionView)).Get("/{id}", c.Transaction.HandleGetSalary)
				r.With(can(policy.ResourceSalary, policy.ActionDelete)).Delete("/{id}", c.Transaction.HandleDeleteSalary)
			})

			r.Route("/stats", func(r chi.Router) {
				r.With(can(policy.ResourceStats, policy.ActionView)).Get("/", c.Stats.HandleList)
				r.With(can(policy.ResourceStats, policy.ActionView)).Get("/{year}/{month}", c.Stats.HandleGet)
				r.With(can(policy.ResourceStats, policy.ActionChange)).Post("/{year}/{month}/recompute", c.Stats.HandleRecompute)
				r.With(can(policy.ResourceStats, policy.ActionChange)).Post("/{year}/recompute", c.Stats.HandleRecomputeYear)
			})
		})
	})

	return r
}
