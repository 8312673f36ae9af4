package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNumber         string         `gorm:"uniqueIndex;not null" json:"order_number"`                      // 订单编号（ORD-日期-随机8位）
	UserID              uint           `gorm:"index;not null" json:"user_id"`                                 // 用户ID
	Status              string         `gorm:"index;not null;default:'pending'" json:"status"`                // 订单状态
	PaymentStatus       string         `gorm:"index;not null;default:'pending'" json:"payment_status"`        // 支付状态
	Subtotal            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 商品小计
	TaxAmount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`       // 税额
	ShippingCost        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`    // 运费
	DiscountAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	Total               Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`            // 应付总额
	Currency            string         `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`        // 币种
	BillingAddressJSON  JSON           `gorm:"type:json" json:"billing_address"`                              // 账单地址快照
	ShippingAddressJSON JSON           `gorm:"type:json" json:"shipping_address"`                             // 收货地址快照
	BillingAddressID    *uint          `gorm:"index" json:"billing_address_id,omitempty"`                     // 账单地址ID（可空）
	ShippingAddressID   *uint          `gorm:"index" json:"shipping_address_id,omitempty"`                    // 收货地址ID（可空）
	ShippingMethod      string         `gorm:"not null" json:"shipping_method"`                               // 配送方式
	PaymentMethod       string         `gorm:"not null" json:"payment_method"`                                // 支付方式（不透明令牌）
	PaymentID           string         `gorm:"default:''" json:"payment_id,omitempty"`                        // 支付单号
	TransactionID       string         `gorm:"default:''" json:"transaction_id,omitempty"`                    // 交易流水号
	TrackingNumber      string         `gorm:"default:''" json:"tracking_number,omitempty"`                   // 物流单号
	CustomerNote        string         `gorm:"type:text" json:"customer_note,omitempty"`                      // 客户备注
	PaidAt              *time.Time     `gorm:"index" json:"paid_at"`                                          // 支付时间
	CompletedAt         *time.Time     `gorm:"index" json:"completed_at"`                                     // 完成时间（到达 delivered 时写入一次）
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	Notes []OrderNote `gorm:"foreignKey:OrderID" json:"notes,omitempty"` // 订单备注
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
