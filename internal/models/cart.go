package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart 购物车表
// 归属身份二选一：登录用户为 UserID，游客为 SessionID，不可同时使用。
type Cart struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                    // 主键
	UserID     uint           `gorm:"index:idx_cart_user,unique,where:user_id > 0" json:"user_id"` // 用户ID（游客购物车为 0）
	SessionID  string         `gorm:"index:idx_cart_session,unique,where:session_id <> ''" json:"session_id,omitempty"` // 游客会话ID
	CouponCode string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`           // 优惠码
	Subtotal   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 商品小计（派生值）
	Tax        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`        // 税费（派生值）
	Shipping   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping"`   // 运费（派生值）
	Discount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`   // 优惠金额（派生值）
	Total      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`      // 应付总额（派生值）
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// IsGuest 判断是否为游客购物车
func (c *Cart) IsGuest() bool {
	return c.UserID == 0 && c.SessionID != ""
}
