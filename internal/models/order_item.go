package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（下单时的商品快照，不随商品变更）
type OrderItem struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderID        uint           `gorm:"index;not null" json:"order_id"`                                // 订单ID
	ProductID      uint           `gorm:"index;not null" json:"product_id"`                              // 商品ID
	VariantID      *uint          `gorm:"index" json:"variant_id,omitempty"`                             // 规格ID（可空）
	ProductName    string         `gorm:"not null" json:"product_name"`                                  // 商品名称快照
	VariantName    string         `gorm:"default:''" json:"variant_name,omitempty"`                      // 规格名称快照
	SKU            string         `gorm:"type:varchar(64);not null" json:"sku"`                          // SKU编码快照
	Price          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`            // 单价快照
	Quantity       int            `gorm:"not null" json:"quantity"`                                      // 数量
	TaxAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`       // 行税额
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 行优惠金额
	Total          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`            // 行小计
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
