package models

import (
	"time"

	"gorm.io/gorm"
)

// SavedCart 收藏清单表（心愿单）
type SavedCart struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	UserID    uint           `gorm:"not null;index" json:"user_id"`          // 用户ID
	Name      string         `gorm:"not null;default:'Wishlist'" json:"name"` // 清单名称
	IsDefault bool           `gorm:"default:false;index" json:"is_default"`  // 是否默认清单
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	Items []SavedCartItem `gorm:"foreignKey:SavedCartID" json:"items,omitempty"` // 清单项
}

// TableName 指定表名
func (SavedCart) TableName() string {
	return "saved_carts"
}

// SavedCartItem 收藏清单项
type SavedCartItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                                    // 主键
	SavedCartID uint           `gorm:"not null;uniqueIndex:idx_saved_product_variant" json:"saved_cart_id"`     // 清单ID
	ProductID   uint           `gorm:"not null;uniqueIndex:idx_saved_product_variant" json:"product_id"`        // 商品ID
	VariantID   *uint          `gorm:"uniqueIndex:idx_saved_product_variant" json:"variant_id,omitempty"`       // 规格ID（可空）
	Quantity    int            `gorm:"not null;default:1" json:"quantity"`                                      // 数量
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                                 // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                          // 软删除时间

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (SavedCartItem) TableName() string {
	return "saved_cart_items"
}
