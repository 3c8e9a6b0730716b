package service

import (
	"errors"
	"fmt"
)

// 业务错误哨兵，handler 层通过 errors.Is 映射为接口错误响应。
var (
	ErrInvalidIdentity       = errors.New("cart identity invalid")
	ErrInvalidQuantity       = errors.New("quantity invalid")
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartEmpty             = errors.New("cart empty")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductNotAvailable   = errors.New("product not available")
	ErrVariantNotFound       = errors.New("product variant not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrCouponInvalid         = errors.New("coupon invalid")
	ErrCouponMinSubtotal     = errors.New("coupon min subtotal not reached")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderCancelNotAllowed = errors.New("order cancel not allowed")
	ErrOrderStatusInvalid    = errors.New("order status invalid")
	ErrPaymentStatusInvalid  = errors.New("payment status invalid")
	ErrNoteMessageRequired   = errors.New("note message required")
)

// InsufficientStockError 库存不足详情
// Is(ErrInsufficientStock) 成立，额外携带可用量与请求量。
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// Is 支持 errors.Is(err, ErrInsufficientStock)
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
