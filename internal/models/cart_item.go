package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项
// Name/Slug/Image/Price 为加入购物车时的快照，展示用；下单校验时重新读取商品。
type CartItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                             // 主键
	CartID       uint           `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"cart_id"`     // 购物车ID
	ProductID    uint           `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`  // 商品ID
	VariantID    uint           `gorm:"not null;default:0;uniqueIndex:idx_cart_product_variant" json:"variant_id"` // 规格ID（0 表示无规格）
	VariantName  string         `gorm:"type:varchar(100)" json:"variant_name,omitempty"`                  // 规格名快照
	VariantValue string         `gorm:"type:varchar(100)" json:"variant_value,omitempty"`                 // 规格值快照
	Name         string         `gorm:"not null" json:"name"`                                             // 商品名称快照
	Slug         string         `gorm:"not null" json:"slug"`                                             // 商品 slug 快照
	Image        string         `gorm:"type:varchar(500)" json:"image"`                                   // 商品主图快照
	Price        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`               // 加入时单价
	Quantity     int            `gorm:"not null" json:"quantity"`                                         // 数量
	Subtotal     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`            // 小计 = 单价 × 数量
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                          // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
