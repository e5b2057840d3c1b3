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

// SetupTenantServiceRoutes configures the tenant-service router. Tenant
// administration requires the identity headers set by the gateway, with
// mutations additionally admin-gated, mirroring the gateway's annotations as
// defense in depth. The storefront lookup is public.
func SetupTenantServiceRoutes(db *postgres.DB, repos *repositories.Repositories, logger *zap.Logger) http.Handler {
	identity := middleware.NewInternalIdentity(logger)
	health := handlers.NewServiceHealthHandler("tenant-service", db, logger)
	tenants := handlers.NewTenantHandler(repos.Tenants, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", health.HandleHealth)
	r.Get("/health/ready", health.HandleReadiness)

	// Public storefront lookup, no gateway identity required.
	r.Get("/api/storefront/{slug}", tenants.HandleResolveTenant)

	r.Route("/api/tenants", func(r chi.Router) {
		r.Use(identity.Require)

		r.Get("/me", tenants.HandleGetTenant)

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole(auth.RoleAdmin))
			r.Post("/", tenants.HandleProvisionTenant)
			r.Put("/me", tenants.HandleUpdateTenant)
			r.Delete("/me", tenants.HandleDeleteTenant)
			r.Get("/me/domains", tenants.HandleListDomains)
			r.Post("/me/domains", tenants.HandleAddDomain)
			r.Get("/me/settings", tenants.HandleGetSettings)
			r.Put("/me/settings", tenants.HandlePutSetting)
		})
	})

	return r
}
