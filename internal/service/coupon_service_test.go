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

func newCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCouponService(repository.NewCouponRepository(db)), db
}

func TestCouponValidateFixed(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, "FLAT50", "fixed", "50", "0")

	discount, err := svc.Validate("FLAT50", decimal.NewFromInt(600))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !discount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50, got %s", discount)
	}
}

func TestCouponValidatePercentCappedAtSubtotal(t *testing.T) {
	svc, db := newCouponService(t)
	seedCoupon(t, db, "ALLOFF", "percent", "150", "0")

	discount, err := svc.Validate("ALLOFF", decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !discount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("discount must cap at subtotal, got %s", discount)
	}
}

func TestCouponValidateUnknownCode(t *testing.T) {
	svc, _ := newCouponService(t)
	if _, err := svc.Validate("NOPE", decimal.NewFromInt(100)); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected coupon invalid, got: %v", err)
	}
	if _, err := svc.Validate("  ", decimal.NewFromInt(100)); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected coupon invalid for blank code, got: %v", err)
	}
}

func TestCouponValidateWindow(t *testing.T) {
	svc, db := newCouponService(t)
	past := time.Now().Add(-48 * time.Hour)
	expiredAt := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	expired := models.Coupon{
		Code: "EXPIRED", Type: "fixed",
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		StartsAt: &past, EndsAt: &expiredAt, IsActive: true,
	}
	notYet := models.Coupon{
		Code: "SOON", Type: "fixed",
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		StartsAt: &future, IsActive: true,
	}
	disabled := models.Coupon{
		Code: "OFF", Type: "fixed",
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive: false,
	}
	for _, c := range []models.Coupon{expired, notYet, disabled} {
		coupon := c
		if err := db.Create(&coupon).Error; err != nil {
			t.Fatalf("create coupon failed: %v", err)
		}
	}

	for _, code := range []string{"EXPIRED", "SOON", "OFF"} {
		if _, err := svc.Validate(code, decimal.NewFromInt(100)); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("expected coupon invalid for %s, got: %v", code, err)
		}
	}
}
