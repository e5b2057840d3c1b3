package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/models"
	"github.com/upb/storefront-platform/repositories"
	"github.com/upb/storefront-platform/utils"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name           string     `json:"name" validate:"required,min=1,max=255"`
	Slug           string     `json:"slug,omitempty" validate:"omitempty,slug,max=100"`
	Description    string     `json:"description,omitempty"`
	Price          float64    `json:"price" validate:"gte=0"`
	CompareAtPrice *float64   `json:"compare_at_price,omitempty" validate:"omitempty,gte=0"`
	CostPrice      *float64   `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SKU            string     `json:"sku,omitempty" validate:"omitempty,max=100"`
	Barcode        string     `json:"barcode,omitempty" validate:"omitempty,max=100"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	TrackInventory *bool      `json:"track_inventory,omitempty"`
	Stock          int        `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           *string               `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug           *string               `json:"slug,omitempty" validate:"omitempty,slug,max=100"`
	Description    *string               `json:"description,omitempty"`
	Price          *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`
	CompareAtPrice *float64              `json:"compare_at_price,omitempty" validate:"omitempty,gte=0"`
	CostPrice      *float64              `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SKU            *string               `json:"sku,omitempty" validate:"omitempty,max=100"`
	Barcode        *string               `json:"barcode,omitempty" validate:"omitempty,max=100"`
	CategoryID     *uuid.UUID            `json:"category_id,omitempty"`
	Status         *models.ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	IsFeatured     *bool                 `json:"is_featured,omitempty"`
	TrackInventory *bool                 `json:"track_inventory,omitempty"`
	Stock          *int                  `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// AdjustStockRequest represents a relative stock adjustment
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ProductHandler handles catalog product requests. All operations are scoped
// to the caller's tenant from the propagated identity.
type ProductHandler struct {
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repositories.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// HandleListProducts handles GET /products
func (h *ProductHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	filter := repositories.ProductFilter{
		Status: models.ProductStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid category_id", nil)
			return
		}
		filter.CategoryID = &categoryID
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid featured flag", nil)
			return
		}
		filter.Featured = &featured
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	products, err := h.products.List(ctx, identity.TenantID, filter)
	if err != nil {
		h.logger.Error("product listing failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, products)
}

// HandleGetProduct handles GET /products/{id}
func (h *ProductHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product ID", nil)
		return
	}

	product, err := h.products.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		_ = utils.WriteNotFound(w, "Product not found")
		return
	}

	_ = utils.WriteOK(w, product)
}

// HandleCreateProduct handles POST /products
func (h *ProductHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	product := models.NewProduct(identity.TenantID, req.Name, req.Price)
	product.Slug = req.Slug
	product.Description = req.Description
	product.CompareAtPrice = req.CompareAtPrice
	product.CostPrice = req.CostPrice
	product.SKU = req.SKU
	product.Barcode = req.Barcode
	product.CategoryID = req.CategoryID
	product.Stock = req.Stock
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}

	if err := h.products.Create(ctx, product); err != nil {
		h.logger.Error("product creation failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteConflict(w, "Product could not be created", nil)
		return
	}

	_ = utils.WriteCreated(w, product)
}

// HandleUpdateProduct handles PUT /products/{id}
func (h *ProductHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product ID", nil)
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	product, err := h.products.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		_ = utils.WriteNotFound(w, "Product not found")
		return
	}

	applyProductUpdate(product, &req)

	if err := h.products.Update(ctx, product); err != nil {
		h.logger.Error("product update failed",
			zap.String("tenant_id", identity.TenantID),
			zap.String("product_id", id.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, product)
}

// HandleDeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product ID", nil)
		return
	}

	if err := h.products.Delete(ctx, identity.TenantID, id); err != nil {
		_ = utils.WriteNotFound(w, "Product not found")
		return
	}

	utils.WriteNoContent(w)
}

// HandleAdjustStock handles POST /products/{id}/stock
func (h *ProductHandler) HandleAdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid product ID", nil)
		return
	}

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	if err := h.products.AdjustStock(ctx, identity.TenantID, id, req.Delta); err != nil {
		h.logger.Warn("stock adjustment rejected",
			zap.String("tenant_id", identity.TenantID),
			zap.String("product_id", id.String()),
			zap.Int("delta", req.Delta),
			zap.Error(err))
		_ = utils.WriteConflict(w, "Stock adjustment rejected", nil)
		return
	}

	utils.WriteNoContent(w)
}

// applyProductUpdate copies the set fields of the request onto the product
func applyProductUpdate(product *models.Product, req *UpdateProductRequest) {
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Slug != nil {
		product.Slug = *req.Slug
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CompareAtPrice != nil {
		product.CompareAtPrice = req.CompareAtPrice
	}
	if req.CostPrice != nil {
		product.CostPrice = req.CostPrice
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.UpdatedAt = time.Now()
}
