package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/woodnest/woodnest/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newRepoTestDB(t *testing.T, migrations ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(migrations...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int, inStock bool) *models.Product {
	t.Helper()
	now := time.Now()
	category := models.Category{Slug: fmt.Sprintf("cat-%d", now.UnixNano()), Name: "Category", CreatedAt: now}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID:    category.ID,
		Slug:          fmt.Sprintf("product-%d", now.UnixNano()),
		Name:          "Product",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		StockQuantity: stock,
		InStock:       inStock,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func TestDecrementStockConditional(t *testing.T) {
	db := newRepoTestDB(t, &models.Category{}, &models.Product{}, &models.ProductVariant{})
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 5, true)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	// 余量 2，再扣 3 不生效
	affected, err = repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected guard to reject, got %d rows", affected)
	}

	reloaded, err := repo.GetByID(product.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.StockQuantity != 2 {
		t.Fatalf("stock must stay at 2, got %d", reloaded.StockQuantity)
	}
}

func TestDecrementStockRespectsInStockFlag(t *testing.T) {
	db := newRepoTestDB(t, &models.Category{}, &models.Product{})
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 10, false)

	affected, err := repo.DecrementStock(product.ID, 1)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("in_stock=false must block decrement, got %d rows", affected)
	}
}

func TestDecrementStockInvalidParams(t *testing.T) {
	db := newRepoTestDB(t, &models.Category{}, &models.Product{})
	repo := NewProductRepository(db)

	if _, err := repo.DecrementStock(0, 1); err == nil {
		t.Fatalf("expected error for zero product id")
	}
	if _, err := repo.DecrementStock(1, 0); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestIncrementStock(t *testing.T) {
	db := newRepoTestDB(t, &models.Category{}, &models.Product{}, &models.ProductVariant{})
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 2, true)

	affected, err := repo.IncrementStock(product.ID, 4)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}
	reloaded, err := repo.GetByID(product.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.StockQuantity != 6 {
		t.Fatalf("expected stock 6, got %d", reloaded.StockQuantity)
	}
}

func TestGetBySlugOnlyActive(t *testing.T) {
	db := newRepoTestDB(t, &models.Category{}, &models.Product{}, &models.ProductVariant{})
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 5, true)
	if err := db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	got, err := repo.GetBySlug(product.Slug, true)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive product must be hidden, got %+v", got)
	}

	got, err = repo.GetBySlug(product.Slug, false)
	if err != nil || got == nil {
		t.Fatalf("expected product without active filter, got %v (%v)", got, err)
	}
}
