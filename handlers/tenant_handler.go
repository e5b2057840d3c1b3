package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/models"
	"github.com/upb/storefront-platform/repositories"
	"github.com/upb/storefront-platform/utils"
)

// CreateTenantRequest represents a request to provision the caller's tenant
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Slug string `json:"slug" validate:"required,slug,max=100"`
}

// UpdateTenantRequest represents a request to update the caller's tenant
type UpdateTenantRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug         *string `json:"slug,omitempty" validate:"omitempty,slug,max=100"`
	LogoURL      *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	PrimaryColor *string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	Description  *string `json:"description,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
}

// AddDomainRequest represents a request to attach a custom domain
type AddDomainRequest struct {
	Domain    string `json:"domain" validate:"required,fqdn"`
	IsPrimary bool   `json:"is_primary"`
}

// PutSettingRequest represents a request to set a tenant setting
type PutSettingRequest struct {
	Key   string `json:"key" validate:"required,min=1,max=100"`
	Value string `json:"value" validate:"required"`
}

// TenantHandler handles tenant administration requests. The tenant is always
// the caller's own, taken from the propagated identity, so a tenant can never
// read or modify another tenant's record.
type TenantHandler struct {
	tenants repositories.TenantRepository
	logger  *zap.Logger
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenants repositories.TenantRepository, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenants: tenants,
		logger:  logger,
	}
}

// HandleProvisionTenant handles POST /tenants. The tenant ID is always the
// caller's organization ID, so an organization can only provision itself.
func (h *TenantHandler) HandleProvisionTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	tenant := models.NewTenant(identity.TenantID, req.Name, req.Slug)

	if err := h.tenants.Create(ctx, tenant); err != nil {
		h.logger.Warn("tenant provisioning failed",
			zap.String("tenant_id", identity.TenantID),
			zap.String("slug", req.Slug),
			zap.Error(err))
		_ = utils.WriteConflict(w, "Tenant already provisioned or slug taken", nil)
		return
	}

	_ = utils.WriteCreated(w, tenant)
}

// HandleGetTenant handles GET /tenants/me
func (h *TenantHandler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	tenant, err := h.tenants.GetByID(ctx, identity.TenantID)
	if err != nil {
		h.logger.Warn("tenant lookup failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteNotFound(w, "Tenant not found")
		return
	}

	_ = utils.WriteOK(w, tenant)
}

// HandleUpdateTenant handles PUT /tenants/me
func (h *TenantHandler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	tenant, err := h.tenants.GetByID(ctx, identity.TenantID)
	if err != nil {
		_ = utils.WriteNotFound(w, "Tenant not found")
		return
	}

	applyTenantUpdate(tenant, &req)

	if err := h.tenants.Update(ctx, tenant); err != nil {
		h.logger.Error("tenant update failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, tenant)
}

// HandleDeleteTenant handles DELETE /tenants/me
func (h *TenantHandler) HandleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	if err := h.tenants.SoftDelete(ctx, identity.TenantID); err != nil {
		h.logger.Warn("tenant deletion failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteNotFound(w, "Tenant not found")
		return
	}

	utils.WriteNoContent(w)
}

// HandleResolveTenant handles GET /storefront/{slug}. It is the public
// storefront entry point and only resolves active tenants.
func (h *TenantHandler) HandleResolveTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		_ = utils.WriteBadRequest(w, "Missing store slug", nil)
		return
	}

	tenant, err := h.tenants.GetBySlug(ctx, slug)
	if err != nil || !tenant.IsActive() {
		_ = utils.WriteNotFound(w, "Store not found")
		return
	}

	_ = utils.WriteOK(w, tenant)
}

// HandleListDomains handles GET /tenants/me/domains
func (h *TenantHandler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	domains, err := h.tenants.ListDomains(ctx, identity.TenantID)
	if err != nil {
		h.logger.Error("domain listing failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, domains)
}

// HandleAddDomain handles POST /tenants/me/domains
func (h *TenantHandler) HandleAddDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	var req AddDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	domain := models.NewTenantDomain(identity.TenantID, req.Domain)
	domain.IsPrimary = req.IsPrimary

	if err := h.tenants.AddDomain(ctx, domain); err != nil {
		h.logger.Error("domain creation failed",
			zap.String("tenant_id", identity.TenantID),
			zap.String("domain", req.Domain),
			zap.Error(err))
		_ = utils.WriteConflict(w, "Domain already registered", nil)
		return
	}

	_ = utils.WriteCreated(w, domain)
}

// HandleGetSettings handles GET /tenants/me/settings
func (h *TenantHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	settings, err := h.tenants.GetSettings(ctx, identity.TenantID)
	if err != nil {
		h.logger.Error("settings lookup failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, settings)
}

// HandlePutSetting handles PUT /tenants/me/settings
func (h *TenantHandler) HandlePutSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	var req PutSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	setting := models.NewTenantSetting(identity.TenantID, req.Key, req.Value)

	if err := h.tenants.UpsertSetting(ctx, setting); err != nil {
		h.logger.Error("setting upsert failed",
			zap.String("tenant_id", identity.TenantID),
			zap.String("key", req.Key),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, setting)
}

// applyTenantUpdate copies the set fields of the request onto the tenant
func applyTenantUpdate(tenant *models.Tenant, req *UpdateTenantRequest) {
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Slug != nil {
		tenant.Slug = *req.Slug
	}
	if req.LogoURL != nil {
		tenant.LogoURL = *req.LogoURL
	}
	if req.PrimaryColor != nil {
		tenant.PrimaryColor = *req.PrimaryColor
	}
	if req.Description != nil {
		tenant.Description = *req.Description
	}
	if req.Email != nil {
		tenant.Email = *req.Email
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	tenant.UpdatedAt = time.Now()
}

// toDetails converts validation field errors to a response details map
func toDetails(fields map[string]string) map[string]interface{} {
	if fields == nil {
		return nil
	}
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return details
}
