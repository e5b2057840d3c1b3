package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/auth"
	"github.com/upb/storefront-platform/handlers"
	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/repositories"
	"github.com/upb/storefront-platform/repositories/postgres"
)

// SetupProductServiceRoutes configures the product-service router. Reads
// require gateway identity; catalog mutations require the admin role.
func SetupProductServiceRoutes(db *postgres.DB, repos *repositories.Repositories, logger *zap.Logger) http.Handler {
	identity := middleware.NewInternalIdentity(logger)
	health := handlers.NewServiceHealthHandler("product-service", db, logger)
	products := handlers.NewProductHandler(repos.Products, logger)
	categories := handlers.NewCategoryHandler(repos.Categories, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", health.HandleHealth)
	r.Get("/health/ready", health.HandleReadiness)

	r.Route("/api/catalog", func(r chi.Router) {
		r.Use(identity.Require)

		r.Get("/products", products.HandleListProducts)
		r.Get("/products/{id}", products.HandleGetProduct)
		r.Get("/categories", categories.HandleListCategories)

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole(auth.RoleAdmin))
			r.Post("/products", products.HandleCreateProduct)
			r.Put("/products/{id}", products.HandleUpdateProduct)
			r.Delete("/products/{id}", products.HandleDeleteProduct)
			r.Post("/products/{id}/stock", products.HandleAdjustStock)
			r.Post("/categories", categories.HandleCreateCategory)
			r.Delete("/categories/{id}", categories.HandleDeleteCategory)
		})
	})

	return r
}
