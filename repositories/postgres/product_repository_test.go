package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/models"
	"github.com/upb/storefront-platform/repositories"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })
	return &DB{DB: rawDB, logger: zap.NewNop()}, mock
}

func productRows(products ...*models.Product) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "category_id", "name", "slug", "description",
		"price", "compare_at_price", "cost_price", "sku", "barcode",
		"status", "is_featured", "track_inventory", "stock",
		"created_at", "updated_at",
	})
	for _, p := range products {
		var categoryID, compareAt, cost interface{}
		if p.CategoryID != nil {
			categoryID = p.CategoryID.String()
		}
		if p.CompareAtPrice != nil {
			compareAt = *p.CompareAtPrice
		}
		if p.CostPrice != nil {
			cost = *p.CostPrice
		}
		rows.AddRow(
			p.ID.String(), p.TenantID, categoryID, p.Name, p.Slug, p.Description,
			p.Price, compareAt, cost, p.SKU, p.Barcode,
			p.Status, p.IsFeatured, p.TrackInventory, p.Stock,
			p.CreatedAt, p.UpdatedAt,
		)
	}
	return rows
}

func TestProductRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, zap.NewNop())

	product := models.NewProduct("org_9", "Sneaker", 99.90)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			product.ID, product.TenantID, product.CategoryID, product.Name,
			product.Slug, product.Description, product.Price,
			product.CompareAtPrice, product.CostPrice, product.SKU,
			product.Barcode, product.Status, product.IsFeatured,
			product.TrackInventory, product.Stock,
			product.CreatedAt, product.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), product)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID(t *testing.T) {
	t.Run("found within tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		product := models.NewProduct("org_9", "Sneaker", 99.90)

		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs("org_9", product.ID).
			WillReturnRows(productRows(product))

		got, err := repo.GetByID(context.Background(), "org_9", product.ID)

		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)
		assert.Equal(t, "org_9", got.TenantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not visible from another tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM products").
			WithArgs("org_other", id).
			WillReturnRows(productRows())

		_, err := repo.GetByID(context.Background(), "org_other", id)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_List(t *testing.T) {
	t.Run("list always filters by tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		p1 := models.NewProduct("org_9", "Sneaker", 99.90)
		p2 := models.NewProduct("org_9", "Hoodie", 49.90)

		mock.ExpectQuery(`SELECT (.+) FROM products\s+WHERE tenant_id = \$1`).
			WithArgs("org_9", 50).
			WillReturnRows(productRows(p1, p2))

		products, err := repo.List(context.Background(), "org_9", repositories.ProductFilter{})

		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters become query predicates", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		featured := true
		mock.ExpectQuery(`WHERE tenant_id = \$1 AND status = \$2 AND is_featured = \$3`).
			WithArgs("org_9", models.ProductActive, featured, 10).
			WillReturnRows(productRows())

		_, err := repo.List(context.Background(), "org_9", repositories.ProductFilter{
			Status:   models.ProductActive,
			Featured: &featured,
			Limit:    10,
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Update(t *testing.T) {
	t.Run("updates within tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		product := models.NewProduct("org_9", "Sneaker", 99.90)

		mock.ExpectExec("UPDATE products").
			WithArgs(
				product.TenantID, product.ID, product.CategoryID, product.Name,
				product.Slug, product.Description, product.Price,
				product.CompareAtPrice, product.CostPrice, product.SKU,
				product.Barcode, product.Status, product.IsFeatured,
				product.TrackInventory, product.Stock, sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), product)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows means not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		product := models.NewProduct("org_9", "Sneaker", 99.90)

		mock.ExpectExec("UPDATE products").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), product)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestProductRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, zap.NewNop())

	id := uuid.New()
	mock.ExpectExec("DELETE FROM products").
		WithArgs("org_9", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "org_9", id)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_AdjustStock(t *testing.T) {
	t.Run("applies the delta", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		id := uuid.New()
		mock.ExpectExec(`UPDATE products\s+SET stock = stock \+ \$3`).
			WithArgs("org_9", id, -3, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdjustStock(context.Background(), "org_9", id, -3)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected when stock would go negative", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db, zap.NewNop())

		id := uuid.New()
		mock.ExpectExec(`UPDATE products`).
			WithArgs("org_9", id, -100, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AdjustStock(context.Background(), "org_9", id, -100)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rejected")
	})
}

func TestProductRepository_ScanTimestamps(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db, zap.NewNop())

	product := models.NewProduct("org_9", "Sneaker", 99.90)
	product.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	product.UpdatedAt = product.CreatedAt

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("org_9", product.ID).
		WillReturnRows(productRows(product))

	got, err := repo.GetByID(context.Background(), "org_9", product.ID)

	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(product.CreatedAt))
}
