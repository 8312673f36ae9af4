package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 订单编号常量
const (
	OrderNumberPrefix      = "ORD"
	OrderNumberDateLayout  = "20060102"
	OrderNumberRandomChars = 8
)

// 商品成色常量
const (
	ProductConditionNew         = "new"
	ProductConditionUsed        = "used"
	ProductConditionRefurbished = "refurbished"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sf"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)
