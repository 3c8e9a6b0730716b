package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                         // 分类ID
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                              // 商品描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 标价
	SalePrice     *Money         `gorm:"type:decimal(20,2)" json:"sale_price,omitempty"`           // 促销价（为空表示无促销）
	Images        StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                  // 库存数量
	InStock       bool           `gorm:"not null;default:true;index" json:"in_stock"`               // 是否可售（独立开关，不由库存数量推导）
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 返回当前生效单价（促销价优先）
func (p *Product) EffectivePrice() Money {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// ProductVariant 商品规格表（例如材质、颜色、尺寸）
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                         // 主键
	ProductID     uint           `gorm:"not null;index" json:"product_id"`                             // 商品ID
	Name          string         `gorm:"not null" json:"name"`                                         // 规格名（如 finish）
	Value         string         `gorm:"not null" json:"value"`                                        // 规格值（如 walnut）
	PriceModifier Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_modifier"` // 价格增量
	IsActive      bool           `gorm:"default:true" json:"is_active"`                                // 是否启用
	CreatedAt     time.Time      `json:"created_at"`                                                   // 创建时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
