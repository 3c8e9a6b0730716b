package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 订单地址快照（账单/收货各存一份，下单后不再变化）
type Address struct {
	FullName   string `gorm:"type:varchar(200)" json:"full_name"`   // 收件人
	Phone      string `gorm:"type:varchar(50)" json:"phone"`        // 电话
	Line1      string `gorm:"type:varchar(300)" json:"line1"`       // 地址行1
	Line2      string `gorm:"type:varchar(300)" json:"line2"`       // 地址行2
	City       string `gorm:"type:varchar(100)" json:"city"`        // 城市
	Region     string `gorm:"type:varchar(100)" json:"region"`      // 省/州
	PostalCode string `gorm:"type:varchar(30)" json:"postal_code"`  // 邮编
	Country    string `gorm:"type:varchar(100)" json:"country"`     // 国家
}

// Order 订单表
// 创建后不可整体修改；状态与支付状态仅通过订单状态机变更。
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号（创建时生成一次，永不重发）
	UserID         uint           `gorm:"index" json:"user_id,omitempty"`                               // 用户ID（游客订单为 0）
	SessionID      string         `gorm:"index" json:"session_id,omitempty"`                            // 游客会话ID
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentStatus  string         `gorm:"index;not null" json:"payment_status"`                         // 支付状态
	PaymentMethod  string         `gorm:"type:varchar(50)" json:"payment_method"`                       // 支付方式
	PaymentIntent  string         `gorm:"type:varchar(200)" json:"payment_intent,omitempty"`            // 外部支付引用（不透明）
	TrackingNumber string         `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`           // 物流单号
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`                             // 客户留言
	CouponCode     string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                // 优惠码快照
	Subtotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计快照
	Tax            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`             // 税费快照
	ShippingCost   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费快照
	Discount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`        // 优惠金额快照
	Total          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`           // 实付总额快照
	Billing        Address        `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`              // 账单地址快照
	Shipping       Address        `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`            // 收货地址快照
	CanceledAt     *time.Time     `gorm:"index" json:"canceled_at,omitempty"`                           // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items    []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // 订单项
	Timeline []OrderEvent `gorm:"foreignKey:OrderID" json:"timeline,omitempty"` // 状态流转审计
	AdminNotes []OrderNote `gorm:"foreignKey:OrderID" json:"admin_notes,omitempty"` // 管理员备注
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
