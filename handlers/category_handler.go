package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/models"
	"github.com/upb/storefront-platform/repositories"
	"github.com/upb/storefront-platform/utils"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=255"`
	Slug        string     `json:"slug" validate:"required,slug,max=100"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Position    int        `json:"position" validate:"gte=0"`
}

// CategoryHandler handles tenant-scoped category requests
type CategoryHandler struct {
	categories repositories.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories repositories.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// HandleListCategories handles GET /categories
func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	categories, err := h.categories.List(ctx, identity.TenantID)
	if err != nil {
		h.logger.Error("category listing failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, categories)
}

// HandleCreateCategory handles POST /categories
func (h *CategoryHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), toDetails(utils.GetValidationFields(err)))
		return
	}

	category := models.NewCategory(identity.TenantID, req.Name, req.Slug)
	category.Description = req.Description
	category.ParentID = req.ParentID
	category.Position = req.Position

	if err := h.categories.Create(ctx, category); err != nil {
		h.logger.Error("category creation failed",
			zap.String("tenant_id", identity.TenantID),
			zap.Error(err))
		_ = utils.WriteConflict(w, "Category could not be created", nil)
		return
	}

	_ = utils.WriteCreated(w, category)
}

// HandleDeleteCategory handles DELETE /categories/{id}
func (h *CategoryHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := middleware.GetIdentityFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid category ID", nil)
		return
	}

	if err := h.categories.Delete(ctx, identity.TenantID, id); err != nil {
		_ = utils.WriteNotFound(w, "Category not found")
		return
	}

	utils.WriteNoContent(w)
}
