package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AddressTypeHome  = "home"  // 家庭地址
	AddressTypeWork  = "work"  // 工作地址
	AddressTypeOther = "other" // 其他地址
)

// Address 用户收货地址表
type Address struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                            // 主键
	UserID       uint           `gorm:"not null;index:idx_address_user_type" json:"user_id"`             // 用户ID
	AddressType  string         `gorm:"type:varchar(20);not null;default:'home';index:idx_address_user_type" json:"address_type"` // 地址类型（home/work/other）
	FullName     string         `gorm:"not null" json:"full_name"`                                       // 收件人姓名
	Phone        string         `gorm:"default:''" json:"phone"`                                         // 电话
	AddressLine1 string         `gorm:"not null" json:"address_line1"`                                   // 地址行1
	AddressLine2 string         `gorm:"default:''" json:"address_line2"`                                 // 地址行2
	City         string         `gorm:"not null" json:"city"`                                            // 城市
	State        string         `gorm:"default:''" json:"state"`                                         // 省/州
	PostalCode   string         `gorm:"not null" json:"postal_code"`                                     // 邮编
	Country      string         `gorm:"not null" json:"country"`                                         // 国家
	IsDefault    bool           `gorm:"default:false;index" json:"is_default"`                           // 是否同类型默认地址
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// ValidAddressType 判断地址类型是否合法
func ValidAddressType(t string) bool {
	switch t {
	case AddressTypeHome, AddressTypeWork, AddressTypeOther:
		return true
	}
	return false
}
