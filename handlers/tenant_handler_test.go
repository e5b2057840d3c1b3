package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/auth"
	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/models"
)

// MockTenantRepository is a mock implementation of repositories.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) ListDomains(ctx context.Context, tenantID string) ([]*models.TenantDomain, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TenantDomain), args.Error(1)
}

func (m *MockTenantRepository) AddDomain(ctx context.Context, domain *models.TenantDomain) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

func (m *MockTenantRepository) GetSettings(ctx context.Context, tenantID string) ([]*models.TenantSetting, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TenantSetting), args.Error(1)
}

func (m *MockTenantRepository) UpsertSetting(ctx context.Context, setting *models.TenantSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func identityRequest(method, target string, body []byte, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.WithIdentity(req.Context(), auth.Identity{
		TenantID: "org_9",
		UserID:   "user_1",
		Role:     role,
	})
	return req.WithContext(ctx)
}

func TestHandleProvisionTenant(t *testing.T) {
	logger := zap.NewNop()

	t.Run("creates the tenant keyed by the caller's organization", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tn *models.Tenant) bool {
			return tn.ID == "org_9" && tn.Name == "Acme Store" && tn.Slug == "acme" &&
				tn.Status == models.TenantActive
		})).Return(nil)

		body, _ := json.Marshal(CreateTenantRequest{Name: "Acme Store", Slug: "acme"})
		req := identityRequest(http.MethodPost, "/tenants", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleProvisionTenant(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid slug is rejected", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		body, _ := json.Marshal(CreateTenantRequest{Name: "Acme", Slug: "Not A Slug"})
		req := identityRequest(http.MethodPost, "/tenants", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleProvisionTenant(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("already provisioned returns 409", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

		body, _ := json.Marshal(CreateTenantRequest{Name: "Acme", Slug: "acme"})
		req := identityRequest(http.MethodPost, "/tenants", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleProvisionTenant(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandleGetTenant(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns the caller's tenant", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		tenant := models.NewTenant("org_9", "Acme", "acme")
		mockRepo.On("GetByID", mock.Anything, "org_9").Return(tenant, nil)

		req := identityRequest(http.MethodGet, "/tenants/me", nil, auth.RoleMember)
		w := httptest.NewRecorder()

		handler.HandleGetTenant(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "acme")
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown tenant returns 404", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("GetByID", mock.Anything, "org_9").Return(nil, errors.New("not found"))

		req := identityRequest(http.MethodGet, "/tenants/me", nil, auth.RoleMember)
		w := httptest.NewRecorder()

		handler.HandleGetTenant(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleUpdateTenant(t *testing.T) {
	logger := zap.NewNop()

	t.Run("applies only the provided fields", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		tenant := models.NewTenant("org_9", "Acme", "acme")
		tenant.Email = "old@acme.example.com"
		mockRepo.On("GetByID", mock.Anything, "org_9").Return(tenant, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(tn *models.Tenant) bool {
			return tn.Name == "Acme Store" && tn.Email == "old@acme.example.com"
		})).Return(nil)

		body, _ := json.Marshal(map[string]string{"name": "Acme Store"})
		req := identityRequest(http.MethodPut, "/tenants/me", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleUpdateTenant(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid slug is rejected", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		body, _ := json.Marshal(map[string]string{"slug": "Not A Slug!"})
		req := identityRequest(http.MethodPut, "/tenants/me", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleUpdateTenant(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		req := identityRequest(http.MethodPut, "/tenants/me", []byte("{not json"), auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleUpdateTenant(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleDeleteTenant(t *testing.T) {
	logger := zap.NewNop()

	t.Run("soft deletes the caller's tenant", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("SoftDelete", mock.Anything, "org_9").Return(nil)

		req := identityRequest(http.MethodDelete, "/tenants/me", nil, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleDeleteTenant(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown tenant returns 404", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("SoftDelete", mock.Anything, "org_9").Return(errors.New("not found"))

		req := identityRequest(http.MethodDelete, "/tenants/me", nil, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleDeleteTenant(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleResolveTenant(t *testing.T) {
	logger := zap.NewNop()

	newRouter := func(repo *MockTenantRepository) *chi.Mux {
		handler := NewTenantHandler(repo, logger)
		r := chi.NewRouter()
		r.Get("/storefront/{slug}", handler.HandleResolveTenant)
		return r
	}

	t.Run("resolves an active store by slug", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		router := newRouter(mockRepo)

		tenant := models.NewTenant("org_9", "Acme", "acme")
		mockRepo.On("GetBySlug", mock.Anything, "acme").Return(tenant, nil)

		req := httptest.NewRequest(http.MethodGet, "/storefront/acme", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "org_9")
		mockRepo.AssertExpectations(t)
	})

	t.Run("suspended store is not resolvable", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		router := newRouter(mockRepo)

		tenant := models.NewTenant("org_9", "Acme", "acme")
		tenant.Status = models.TenantSuspended
		mockRepo.On("GetBySlug", mock.Anything, "acme").Return(tenant, nil)

		req := httptest.NewRequest(http.MethodGet, "/storefront/acme", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown slug returns 404", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		router := newRouter(mockRepo)

		mockRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, errors.New("not found"))

		req := httptest.NewRequest(http.MethodGet, "/storefront/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleAddDomain(t *testing.T) {
	logger := zap.NewNop()

	t.Run("creates a domain for the caller's tenant", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("AddDomain", mock.Anything, mock.MatchedBy(func(d *models.TenantDomain) bool {
			return d.TenantID == "org_9" && d.Domain == "shop.acme.com" && !d.IsVerified
		})).Return(nil)

		body, _ := json.Marshal(AddDomainRequest{Domain: "shop.acme.com", IsPrimary: true})
		req := identityRequest(http.MethodPost, "/tenants/me/domains", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleAddDomain(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid domain is rejected", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		body, _ := json.Marshal(AddDomainRequest{Domain: "not a domain"})
		req := identityRequest(http.MethodPost, "/tenants/me/domains", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleAddDomain(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "AddDomain")
	})

	t.Run("duplicate domain returns 409", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("AddDomain", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

		body, _ := json.Marshal(AddDomainRequest{Domain: "shop.acme.com"})
		req := identityRequest(http.MethodPost, "/tenants/me/domains", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandleAddDomain(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandlePutSetting(t *testing.T) {
	logger := zap.NewNop()

	t.Run("upserts a setting scoped to the caller's tenant", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		mockRepo.On("UpsertSetting", mock.Anything, mock.MatchedBy(func(s *models.TenantSetting) bool {
			return s.TenantID == "org_9" && s.Key == "currency" && s.Value == "COP"
		})).Return(nil)

		body, _ := json.Marshal(PutSettingRequest{Key: "currency", Value: "COP"})
		req := identityRequest(http.MethodPut, "/tenants/me/settings", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandlePutSetting(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		mockRepo := new(MockTenantRepository)
		handler := NewTenantHandler(mockRepo, logger)

		body, _ := json.Marshal(PutSettingRequest{Value: "COP"})
		req := identityRequest(http.MethodPut, "/tenants/me/settings", body, auth.RoleAdmin)
		w := httptest.NewRecorder()

		handler.HandlePutSetting(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "UpsertSetting")
	})
}
