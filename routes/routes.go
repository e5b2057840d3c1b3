package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/storefront-platform/app"
	"github.com/upb/storefront-platform/auth"
	"github.com/upb/storefront-platform/routemeta"
)

// SetupRoutes configures the api-gateway router: route annotations first,
// then the routes themselves, each wrapped by the guard for its key and, for
// proxied routes, the identity propagator.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	registerAnnotations(deps.Registry)

	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	guard := deps.Guard
	propagate := deps.Propagator.Propagate

	// Gateway endpoints
	r.With(guard.Authorize("gateway.health")).Get("/health", deps.Gateway.HandleHealth)
	r.With(guard.Authorize("gateway.me")).Get("/me", deps.Gateway.HandleMe)

	// Public storefront lookup, proxied to tenant-service
	r.With(guard.Authorize("storefront"), propagate).
		Get("/api/storefront/{slug}", deps.TenantProxy.ServeHTTP)

	// Tenant administration, proxied to tenant-service
	r.Route("/api/tenants", func(r chi.Router) {
		tenantProxy := deps.TenantProxy.ServeHTTP

		r.With(guard.Authorize("tenants"), propagate).Post("/", tenantProxy)
		r.With(guard.Authorize("tenants.read"), propagate).Get("/me", tenantProxy)
		r.With(guard.Authorize("tenants"), propagate).Put("/me", tenantProxy)
		r.With(guard.Authorize("tenants"), propagate).Delete("/me", tenantProxy)
		r.With(guard.Authorize("tenants"), propagate).Get("/me/domains", tenantProxy)
		r.With(guard.Authorize("tenants"), propagate).Post("/me/domains", tenantProxy)
		r.With(guard.Authorize("tenants"), propagate).Get("/me/settings", tenantProxy)
		r.With(guard.Authorize("tenants"), propagate).Put("/me/settings", tenantProxy)
	})

	// Catalog, proxied to product-service
	r.Route("/api/catalog", func(r chi.Router) {
		catalogProxy := deps.CatalogProxy.ServeHTTP

		r.With(guard.Authorize("catalog.read"), propagate).Get("/products", catalogProxy)
		r.With(guard.Authorize("catalog.read"), propagate).Get("/products/{id}", catalogProxy)
		r.With(guard.Authorize("catalog.write"), propagate).Post("/products", catalogProxy)
		r.With(guard.Authorize("catalog.write"), propagate).Put("/products/{id}", catalogProxy)
		r.With(guard.Authorize("catalog.write"), propagate).Delete("/products/{id}", catalogProxy)
		r.With(guard.Authorize("catalog.write"), propagate).Post("/products/{id}/stock", catalogProxy)

		r.With(guard.Authorize("catalog.read"), propagate).Get("/categories", catalogProxy)
		r.With(guard.Authorize("catalog.write"), propagate).Post("/categories", catalogProxy)
		r.With(guard.Authorize("catalog.write"), propagate).Delete("/categories/{id}", catalogProxy)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}

// registerAnnotations declares the access policy of every route group. Keys
// not registered here default to "authentication required, any member".
func registerAnnotations(reg *routemeta.Registry) {
	reg.MustRegister("gateway.health", routemeta.AsPublic())
	reg.MustRegister("storefront", routemeta.AsPublic())

	// Tenant administration is admin-only except reading the own tenant.
	reg.MustRegister("tenants", routemeta.RequireRoles(auth.RoleAdmin))
	reg.MustRegister("tenants.read", routemeta.RequireRoles(auth.RoleAdmin, auth.RoleMember))

	// Catalog reads need membership only; writes need the admin role.
	reg.MustRegister("catalog.write", routemeta.RequireRoles(auth.RoleAdmin))

	reg.Seal()
}
