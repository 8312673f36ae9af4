package models

import "time"

// OrderNote 订单备注表（仅追加，不修改不删除）
type OrderNote struct {
	ID        uint      `gorm:"primarykey" json:"id"`                  // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`        // 订单ID
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`        // 备注人ID（系统备注为空）
	Note      string    `gorm:"type:text;not null" json:"note"`        // 备注内容
	IsPublic  bool      `gorm:"default:false;index" json:"is_public"`  // 是否对客户可见
	CreatedAt time.Time `gorm:"index" json:"created_at"`               // 创建时间
}

// TableName 指定表名
func (OrderNote) TableName() string {
	return "order_notes"
}
