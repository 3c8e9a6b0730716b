package service

import (
	"strings"

	"github.com/woodnest/woodnest/internal/constants"
	"github.com/woodnest/woodnest/internal/models"

	"github.com/shopspring/decimal"
)

// TotalsPolicy 金额计算策略
type TotalsPolicy struct {
	TaxRate               decimal.Decimal // 税率（如 0.16）
	FreeShippingThreshold decimal.Decimal // 免运费门槛（按商品小计）
	FlatShippingFee       decimal.Decimal // 未达门槛时的固定运费
}

// Totals 金额计算结果
type Totals struct {
	Subtotal models.Money `json:"subtotal"`
	Tax      models.Money `json:"tax"`
	Shipping models.Money `json:"shipping"`
	Discount models.Money `json:"discount"`
	Total    models.Money `json:"total"`
}

// ComputeTotals 根据购物车项计算小计/税费/运费/总额
// 纯函数，无副作用；每次购物车变更后必须重新计算再落库。
// total = max(0, subtotal + tax + shipping - discount)，各项保留 2 位小数。
func ComputeTotals(items []models.CartItem, policy TotalsPolicy, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(policy.TaxRate).Round(2)

	// 空购物车不收运费
	shipping := decimal.Zero
	if len(items) > 0 && subtotal.LessThan(policy.FreeShippingThreshold) {
		shipping = policy.FlatShippingFee.Round(2)
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	discount = discount.Round(2)

	total := subtotal.Add(tax).Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: models.NewMoneyFromDecimal(subtotal),
		Tax:      models.NewMoneyFromDecimal(tax),
		Shipping: models.NewMoneyFromDecimal(shipping),
		Discount: models.NewMoneyFromDecimal(discount),
		Total:    models.NewMoneyFromDecimal(total),
	}
}

// LineSubtotal 计算单个购物车项小计
func LineSubtotal(price models.Money, quantity int) models.Money {
	return models.NewMoneyFromDecimal(price.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
}

// NewTotalsPolicy 构造金额计算策略
// taxRate 解析失败时回退到默认税率。
func NewTotalsPolicy(taxRate string, freeShippingThreshold, flatShippingFee int64) TotalsPolicy {
	rate, err := decimal.NewFromString(strings.TrimSpace(taxRate))
	if err != nil || rate.IsNegative() {
		rate, _ = decimal.NewFromString(constants.DefaultTaxRate)
	}
	return TotalsPolicy{
		TaxRate:               rate,
		FreeShippingThreshold: decimal.NewFromInt(freeShippingThreshold),
		FlatShippingFee:       decimal.NewFromInt(flatShippingFee),
	}
}

// DefaultTotalsPolicy 默认金额计算策略
func DefaultTotalsPolicy() TotalsPolicy {
	return NewTotalsPolicy(constants.DefaultTaxRate, constants.DefaultFreeShippingThreshold, constants.DefaultFlatShippingFee)
}
