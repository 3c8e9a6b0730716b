package repository

import (
	"testing"
	"time"

	"github.com/woodnest/woodnest/internal/models"

	"github.com/shopspring/decimal"
)

func TestSaveItemsAndTotalsReplacesItems(t *testing.T) {
	db := newRepoTestDB(t, &models.Cart{}, &models.CartItem{})
	repo := NewCartRepository(db)

	cart := &models.Cart{SessionID: "guest-save", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	first := []models.CartItem{
		{ProductID: 1, Name: "Chair", Slug: "chair", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), Quantity: 2, Subtotal: models.NewMoneyFromDecimal(decimal.NewFromInt(200))},
	}
	cart.Subtotal = models.NewMoneyFromDecimal(decimal.NewFromInt(200))
	if err := repo.SaveItemsAndTotals(cart, first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second := []models.CartItem{
		{ProductID: 2, Name: "Table", Slug: "table", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(500)), Quantity: 1, Subtotal: models.NewMoneyFromDecimal(decimal.NewFromInt(500))},
	}
	cart.Subtotal = models.NewMoneyFromDecimal(decimal.NewFromInt(500))
	if err := repo.SaveItemsAndTotals(cart, second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	reloaded, err := repo.GetBySession("guest-save")
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].ProductID != 2 {
		t.Fatalf("items must be fully replaced, got %+v", reloaded.Items)
	}
	if !reloaded.Subtotal.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("totals must be persisted with items, got %s", reloaded.Subtotal)
	}
}

func TestSaveItemsAndTotalsRequiresPersistedCart(t *testing.T) {
	db := newRepoTestDB(t, &models.Cart{}, &models.CartItem{})
	repo := NewCartRepository(db)

	if err := repo.SaveItemsAndTotals(&models.Cart{}, nil); err == nil {
		t.Fatalf("expected error for unsaved cart")
	}
}

func TestDeleteIdleGuestCart(t *testing.T) {
	db := newRepoTestDB(t, &models.Cart{}, &models.CartItem{})
	repo := NewCartRepository(db)

	stale := time.Now().Add(-10 * 24 * time.Hour)
	cart := &models.Cart{SessionID: "guest-idle", CreatedAt: stale, UpdatedAt: stale}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := db.Model(cart).Update("updated_at", stale).Error; err != nil {
		t.Fatalf("backdate cart failed: %v", err)
	}
	item := models.CartItem{CartID: cart.ID, ProductID: 1, Name: "Chair", Slug: "chair", Quantity: 1}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	affected, err := repo.DeleteIdleGuestCart(cart.ID, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("delete idle cart failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected idle cart deleted, got %d rows", affected)
	}

	var itemCount int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("cart items must be removed with the cart, got %d", itemCount)
	}
}

func TestDeleteIdleGuestCartSkipsActiveCart(t *testing.T) {
	db := newRepoTestDB(t, &models.Cart{}, &models.CartItem{})
	repo := NewCartRepository(db)

	cart := &models.Cart{SessionID: "guest-active", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	// 购物车刚活动过，闲置阈值未到
	affected, err := repo.DeleteIdleGuestCart(cart.ID, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("delete idle cart failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("active cart must be skipped, got %d rows", affected)
	}

	reloaded, err := repo.GetBySession("guest-active")
	if err != nil || reloaded == nil {
		t.Fatalf("active cart must survive: %v (%v)", reloaded, err)
	}
}

func TestDeleteIdleGuestCartIgnoresUserCart(t *testing.T) {
	db := newRepoTestDB(t, &models.Cart{}, &models.CartItem{})
	repo := NewCartRepository(db)

	stale := time.Now().Add(-30 * 24 * time.Hour)
	cart := &models.Cart{UserID: 5, CreatedAt: stale, UpdatedAt: stale}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := db.Model(cart).Update("updated_at", stale).Error; err != nil {
		t.Fatalf("backdate cart failed: %v", err)
	}

	affected, err := repo.DeleteIdleGuestCart(cart.ID, time.Now())
	if err != nil {
		t.Fatalf("delete idle cart failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("user cart must never be expired, got %d rows", affected)
	}
}
