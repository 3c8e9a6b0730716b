package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/woodnest/woodnest/internal/models"
	"github.com/woodnest/woodnest/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cartTestEnv struct {
	db          *gorm.DB
	cartService *CartService
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

func newCartTestEnv(t *testing.T) *cartTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductVariant{},
		&models.Cart{}, &models.CartItem{}, &models.Coupon{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponService := NewCouponService(repository.NewCouponRepository(db))
	policy := NewTotalsPolicy("0.16", 1000, 50)
	svc := NewCartService(cartRepo, productRepo, couponService, policy, nil, 0)
	return &cartTestEnv{db: db, cartService: svc, productRepo: productRepo, cartRepo: cartRepo}
}

func (env *cartTestEnv) createProduct(t *testing.T, slug string, price string, stock int) *models.Product {
	t.Helper()
	now := time.Now()
	category := models.Category{Slug: slug + "-cat", Name: "Test Category", CreatedAt: now}
	if err := env.db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID:    category.ID,
		Slug:          slug,
		Name:          "Test " + slug,
		Price:         models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Images:        models.StringArray{"/images/" + slug + ".jpg"},
		StockQuantity: stock,
		InStock:       stock > 0,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := env.db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func (env *cartTestEnv) createVariant(t *testing.T, productID uint, name, value, modifier string) *models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{
		ProductID:     productID,
		Name:          name,
		Value:         value,
		PriceModifier: models.NewMoneyFromDecimal(decimal.RequireFromString(modifier)),
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if err := env.db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return &variant
}

func TestGetOrCreateRejectsInvalidIdentity(t *testing.T) {
	env := newCartTestEnv(t)

	if _, err := env.cartService.GetOrCreate(Identity{}); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected invalid identity for empty, got: %v", err)
	}
	if _, err := env.cartService.GetOrCreate(Identity{UserID: 1, SessionID: "guest-1"}); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected invalid identity for both dimensions, got: %v", err)
	}
}

func TestGetOrCreateReturnsSameCart(t *testing.T) {
	env := newCartTestEnv(t)
	identity := Identity{SessionID: "guest-abc"}

	first, err := env.cartService.GetOrCreate(identity)
	if err != nil {
		t.Fatalf("first GetOrCreate failed: %v", err)
	}
	second, err := env.cartService.GetOrCreate(identity)
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart, got %d and %d", first.ID, second.ID)
	}
}

func TestAddItemMergesSameProductAndVariant(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "hedgerow-sofa", "500.00", 10)
	identity := Identity{UserID: 7}

	if _, err := env.cartService.AddItem(identity, product.ID, 2, 0); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, err := env.cartService.AddItem(identity, product.ID, 3, 0)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
	if !cart.Items[0].Subtotal.Decimal.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("unexpected line subtotal: %s", cart.Items[0].Subtotal)
	}
}

func TestAddItemVariantsAreSeparateLines(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "longford-table", "1000.00", 10)
	walnut := env.createVariant(t, product.ID, "finish", "walnut", "210.00")
	oak := env.createVariant(t, product.ID, "finish", "natural-oak", "0.00")

	identity := Identity{SessionID: "guest-variants"}
	if _, err := env.cartService.AddItem(identity, product.ID, 1, walnut.ID); err != nil {
		t.Fatalf("add walnut failed: %v", err)
	}
	cart, err := env.cartService.AddItem(identity, product.ID, 1, oak.ID)
	if err != nil {
		t.Fatalf("add oak failed: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("expected two lines for distinct variants, got %d", len(cart.Items))
	}
	var walnutLine *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].VariantID == walnut.ID {
			walnutLine = &cart.Items[i]
		}
	}
	if walnutLine == nil {
		t.Fatalf("walnut line missing: %+v", cart.Items)
	}
	if !walnutLine.Price.Decimal.Equal(decimal.RequireFromString("1210")) {
		t.Fatalf("variant modifier not applied, price: %s", walnutLine.Price)
	}
}

func TestAddItemInsufficientStockLeavesCartUnchanged(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "gable-bookcase", "529.00", 3)
	identity := Identity{UserID: 9}

	if _, err := env.cartService.AddItem(identity, product.ID, 2, 0); err != nil {
		t.Fatalf("seed add failed: %v", err)
	}

	// 累计 2+2 超过库存 3
	_, err := env.cartService.AddItem(identity, product.ID, 2, 0)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected detailed stock error, got: %T", err)
	}
	if stockErr.Available != 3 || stockErr.Requested != 4 {
		t.Fatalf("unexpected stock detail: %+v", stockErr)
	}

	cart, err := env.cartService.GetOrCreate(identity)
	if err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart changed after rejected add: %+v", cart.Items)
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "retired-stool", "189.00", 5)
	if err := env.db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	_, err := env.cartService.AddItem(Identity{UserID: 4}, product.ID, 1, 0)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found for inactive product, got: %v", err)
	}
}

func TestAddItemRejectsUnknownVariant(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "wicker-chair", "249.00", 5)

	_, err := env.cartService.AddItem(Identity{UserID: 4}, product.ID, 1, 999)
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got: %v", err)
	}
}

func TestUpdateItemQuantityRecomputesTotals(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "alder-loveseat", "100.00", 10)
	identity := Identity{SessionID: "guest-update"}

	if _, err := env.cartService.AddItem(identity, product.ID, 1, 0); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := env.cartService.UpdateItem(identity, product.ID, 4)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if cart.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", cart.Items[0].Quantity)
	}
	if !cart.Subtotal.Decimal.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("subtotal not recomputed: %s", cart.Subtotal)
	}
	if !cart.Tax.Decimal.Equal(decimal.RequireFromString("64")) {
		t.Fatalf("tax not recomputed: %s", cart.Tax)
	}
	// 400 < 1000 门槛，应收固定运费
	if !cart.Shipping.Decimal.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("shipping not recomputed: %s", cart.Shipping)
	}
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "marlow-frame", "1290.00", 10)
	identity := Identity{UserID: 11}

	if _, err := env.cartService.AddItem(identity, product.ID, 1, 0); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := env.cartService.UpdateItem(identity, product.ID, 0)
	if err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if !cart.Total.Decimal.IsZero() {
		t.Fatalf("expected zero total after removal, got %s", cart.Total)
	}
}

func TestUpdateItemMissingLine(t *testing.T) {
	env := newCartTestEnv(t)
	identity := Identity{UserID: 11}
	if _, err := env.cartService.GetOrCreate(identity); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := env.cartService.UpdateItem(identity, 12345, 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found, got: %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "turner-stool", "189.00", 10)
	identity := Identity{SessionID: "guest-remove"}

	if _, err := env.cartService.AddItem(identity, product.ID, 2, 0); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := env.cartService.RemoveItem(identity, product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart after remove, got %d items", len(cart.Items))
	}

	if _, err := env.cartService.RemoveItem(identity, product.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found on second remove, got: %v", err)
	}
}

func TestClearCartDropsCouponAndTotals(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "hedgerow-2", "2000.00", 10)
	identity := Identity{UserID: 21}
	seedCoupon(t, env.db, "SAVE10", "percent", "10", "0")

	if _, err := env.cartService.AddItem(identity, product.ID, 1, 0); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := env.cartService.ApplyCoupon(identity, "SAVE10"); err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}

	cart, err := env.cartService.Clear(identity)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if cart.CouponCode != "" {
		t.Fatalf("coupon must be dropped on clear, got %q", cart.CouponCode)
	}
	if len(cart.Items) != 0 || !cart.Total.Decimal.IsZero() {
		t.Fatalf("expected empty cart with zero total, got %d items total %s", len(cart.Items), cart.Total)
	}
}

func TestApplyCouponPercent(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "longford-2", "2000.00", 10)
	identity := Identity{UserID: 31}
	seedCoupon(t, env.db, "TEN", "percent", "10", "0")

	if _, err := env.cartService.AddItem(identity, product.ID, 1, 0); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := env.cartService.ApplyCoupon(identity, "TEN")
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if !cart.Discount.Decimal.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("unexpected discount: %s", cart.Discount)
	}
	// 2000 + 320 税 - 200 折扣，免运费
	if !cart.Total.Decimal.Equal(decimal.RequireFromString("2120")) {
		t.Fatalf("unexpected total: %s", cart.Total)
	}
}

func TestApplyCouponBelowMinSubtotal(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "wicker-2", "100.00", 10)
	identity := Identity{UserID: 41}
	seedCoupon(t, env.db, "BIGSPEND", "fixed", "50", "500")

	if _, err := env.cartService.AddItem(identity, product.ID, 1, 0); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := env.cartService.ApplyCoupon(identity, "BIGSPEND"); !errors.Is(err, ErrCouponMinSubtotal) {
		t.Fatalf("expected min subtotal error, got: %v", err)
	}
}

func TestApplyCouponEmptyCart(t *testing.T) {
	env := newCartTestEnv(t)
	identity := Identity{UserID: 51}
	if _, err := env.cartService.GetOrCreate(identity); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := env.cartService.ApplyCoupon(identity, "ANY"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected cart empty, got: %v", err)
	}
}

func seedCoupon(t *testing.T, db *gorm.DB, code, couponType, value, minSubtotal string) {
	t.Helper()
	coupon := models.Coupon{
		Code:        code,
		Type:        couponType,
		Value:       models.NewMoneyFromDecimal(decimal.RequireFromString(value)),
		MinSubtotal: models.NewMoneyFromDecimal(decimal.RequireFromString(minSubtotal)),
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
}
