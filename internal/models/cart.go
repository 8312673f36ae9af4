package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart 购物车表（登录用户与匿名会话二选一持有）
type Cart struct {
	ID         uint           `gorm:"primarykey" json:"id"`                              // 主键
	UserID     *uint          `gorm:"uniqueIndex" json:"user_id,omitempty"`              // 用户ID（匿名购物车为空）
	SessionKey string         `gorm:"type:varchar(64);index" json:"session_key,omitempty"` // 匿名会话标识
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// Subtotal 计算购物车商品小计
func (c Cart) Subtotal() Money {
	total := Money{}
	for _, item := range c.Items {
		total = NewMoneyFromDecimal(total.Decimal.Add(item.LineTotal().Decimal))
	}
	return total
}
