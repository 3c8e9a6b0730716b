package service

import (
	"strings"
	"time"

	"github.com/woodnest/woodnest/internal/constants"
	"github.com/woodnest/woodnest/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponValidator 优惠码校验接口
// 购物车只依赖这个抽象；底层实现读取优惠券表。
type CouponValidator interface {
	Validate(code string, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Validate 校验优惠码并返回优惠金额
// fixed 类型直接返回面值；percent 类型按小计百分比折算。
func (s *CouponService) Validate(code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return decimal.Zero, ErrCouponInvalid
	}
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return decimal.Zero, err
	}
	if coupon == nil || !coupon.IsActive {
		return decimal.Zero, ErrCouponInvalid
	}
	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return decimal.Zero, ErrCouponInvalid
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return decimal.Zero, ErrCouponInvalid
	}
	if subtotal.LessThan(coupon.MinSubtotal.Decimal) {
		return decimal.Zero, ErrCouponMinSubtotal
	}

	switch coupon.Type {
	case constants.CouponTypeFixed:
		return coupon.Value.Decimal.Round(2), nil
	case constants.CouponTypePercent:
		discount := subtotal.Mul(coupon.Value.Decimal).Div(decimal.NewFromInt(100)).Round(2)
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		return discount, nil
	default:
		return decimal.Zero, ErrCouponInvalid
	}
}
