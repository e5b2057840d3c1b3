package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/storefront-platform/clerk"
	"github.com/upb/storefront-platform/config"
	"github.com/upb/storefront-platform/handlers"
	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/proxy"
	"github.com/upb/storefront-platform/routemeta"
)

// Dependencies holds all api-gateway dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Auth pipeline
	Registry   *routemeta.Registry
	Verifier   *clerk.Verifier
	Guard      *middleware.Guard
	Propagator *middleware.IdentityPropagator

	// Handlers and upstreams
	Gateway      *handlers.GatewayHandler
	TenantProxy  *proxy.ServiceProxy
	CatalogProxy *proxy.ServiceProxy
}

// NewDependencies creates and wires up all api-gateway dependencies.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.Registry = routemeta.NewRegistry()

	deps.Verifier = clerk.NewVerifier(clerk.Config{
		SecretKey:   cfg.Clerk.SecretKey,
		JWKSURL:     cfg.Clerk.JWKSURL,
		Issuer:      cfg.Clerk.Issuer,
		CacheTTL:    cfg.Clerk.JWKSTTL,
		HTTPTimeout: cfg.Clerk.HTTPTimeout,
	})

	deps.Guard = middleware.NewGuard(deps.Registry, deps.Verifier, logger)
	deps.Propagator = middleware.NewIdentityPropagator(logger)
	deps.Gateway = handlers.NewGatewayHandler(logger)

	tenantProxy, err := proxy.New(cfg.Services.TenantServiceURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant service proxy: %w", err)
	}
	deps.TenantProxy = tenantProxy

	catalogProxy, err := proxy.New(cfg.Services.ProductServiceURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create product service proxy: %w", err)
	}
	deps.CatalogProxy = catalogProxy

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}
