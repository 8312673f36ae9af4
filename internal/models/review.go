package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价表
type Review struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                             // 主键
	ProductID          uint           `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`   // 商品ID
	UserID             uint           `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`      // 用户ID
	Rating             int            `gorm:"not null" json:"rating"`                                           // 评分（1-5）
	Title              string         `gorm:"type:varchar(200);not null" json:"title"`                          // 标题
	Comment            string         `gorm:"type:text;not null" json:"comment"`                                // 评价内容
	IsApproved         bool           `gorm:"default:false;index" json:"is_approved"`                           // 是否审核通过
	IsVerifiedPurchase bool           `gorm:"default:false" json:"is_verified_purchase"`                        // 是否已购买验证
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                          // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`       // 关联用户
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
