package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表
// 商品名称/价格等为下单时快照，后续商品变更不回写。
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                   // 主键
	OrderID      uint           `gorm:"index;not null" json:"order_id"`                         // 订单ID
	ProductID    uint           `gorm:"index;not null" json:"product_id"`                       // 商品ID
	VariantID    uint           `gorm:"not null;default:0" json:"variant_id"`                   // 规格ID（0 表示无规格）
	VariantName  string         `gorm:"type:varchar(100)" json:"variant_name,omitempty"`        // 规格名快照
	VariantValue string         `gorm:"type:varchar(100)" json:"variant_value,omitempty"`       // 规格值快照
	Name         string         `gorm:"not null" json:"name"`                                   // 商品名称快照
	Slug         string         `gorm:"not null" json:"slug"`                                   // 商品 slug 快照
	Image        string         `gorm:"type:varchar(500)" json:"image"`                         // 商品主图快照
	Price        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`     // 单价快照
	Quantity     int            `gorm:"not null" json:"quantity"`                               // 数量
	Subtotal     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`  // 小计快照
	Status       string         `gorm:"not null;default:'pending'" json:"status"`               // 单项履约状态
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
