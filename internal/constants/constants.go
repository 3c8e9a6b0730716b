package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// 订单项履约状态常量
const (
	OrderItemStatusPending    = "pending"
	OrderItemStatusProcessing = "processing"
	OrderItemStatusShipped    = "shipped"
	OrderItemStatusDelivered  = "delivered"
	OrderItemStatusCancelled  = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 优惠券类型常量
const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

// 操作者角色常量（审计记录用）
const (
	ActorRoleCustomer = "customer"
	ActorRoleAdmin    = "admin"
	ActorRoleSystem   = "system"
)

// 队列常量
const (
	QueueDefault = "default"

	TaskCartExpire = "cart:expire"
)

// 购物车策略默认值
// 免运费门槛/运费取 50000/1500 这一组（另一组 10000/500 为历史遗留，弃用）。
const (
	DefaultTaxRate               = "0.16"
	DefaultFreeShippingThreshold = 50000
	DefaultFlatShippingFee       = 1500
	DefaultGuestCartTTLDays      = 7
)

// 身份解析常量
const (
	SessionIDHeader    = "X-Session-Id"
	MaxSessionIDLength = 128
)
