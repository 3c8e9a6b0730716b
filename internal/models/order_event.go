package models

import "time"

// OrderEvent 订单状态流转审计（timeline）
// 只追加：仓库层仅提供 Append/List，不提供更新或删除。
type OrderEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`  // 订单ID
	Status    string    `gorm:"not null" json:"status"`          // 记录时的订单状态
	Message   string    `gorm:"type:text;not null" json:"message"` // 说明
	ActorID   uint      `gorm:"not null;default:0" json:"actor_id,omitempty"` // 操作者ID（系统为 0）
	ActorRole string    `gorm:"type:varchar(20)" json:"actor_role,omitempty"` // 操作者角色（customer/admin/system）
	CreatedAt time.Time `gorm:"index" json:"created_at"`         // 记录时间
}

// TableName 指定表名
func (OrderEvent) TableName() string {
	return "order_events"
}

// OrderNote 管理员备注（adminNotes）
// 与 timeline 独立的只追加审计通道。
type OrderNote struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`    // 订单ID
	Message   string    `gorm:"type:text;not null" json:"message"` // 备注内容
	AuthorID  uint      `gorm:"not null" json:"author_id"`         // 备注管理员ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`           // 记录时间
}

// TableName 指定表名
func (OrderNote) TableName() string {
	return "order_notes"
}
