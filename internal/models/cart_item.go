package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                           // 主键
	CartID    uint           `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"cart_id"`   // 购物车ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"` // 商品ID
	VariantID *uint          `gorm:"uniqueIndex:idx_cart_product_variant" json:"variant_id,omitempty"` // 规格ID（可空）
	Quantity  int            `gorm:"not null" json:"quantity"`                                       // 数量
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`             // 加购时锁定的单价
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal 行小计 = 单价 × 数量
func (i CartItem) LineTotal() Money {
	return NewMoneyFromDecimal(i.Price.Decimal.Mul(decimalFromInt(i.Quantity)))
}
