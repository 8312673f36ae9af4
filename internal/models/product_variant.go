package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表
type ProductVariant struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                                                     // 主键
	ProductID uint           `gorm:"not null;index;uniqueIndex:idx_variant_product_sku" json:"product_id"`                     // 商品ID
	Name      string         `gorm:"not null" json:"name"`                                                                     // 规格名称（如颜色/尺寸）
	SKU       string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_variant_product_sku" json:"sku"`                 // SKU编码（同商品内唯一）
	Price     *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"`                                                // 规格价格（为空则使用商品价格）
	Quantity  int            `gorm:"not null;default:0" json:"quantity"`                                                       // 库存数量
	IsDefault bool           `gorm:"default:false;index" json:"is_default"`                                                    // 是否默认规格
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                                                      // 是否启用
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                                                        // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                                                  // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                                                  // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                                           // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// EffectivePrice 返回规格生效价格，为空时回退到商品价格
func (v ProductVariant) EffectivePrice(product *Product) Money {
	if v.Price != nil {
		return *v.Price
	}
	if product != nil {
		return product.Price
	}
	return Money{}
}
