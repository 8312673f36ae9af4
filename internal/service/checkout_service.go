package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultOrderNumberMaxAttempts = 5

// CheckoutInput 购物车结算输入
type CheckoutInput struct {
	CartID          uint
	UserID          uint
	BillingAddress  AddressPayload
	ShippingAddress AddressPayload
	ShippingMethod  string
	PaymentMethod   string
	Notes           string
}

// CheckoutService 结算服务：原子地将购物车转换为订单
type CheckoutService struct {
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	queueClient *queue.Client

	currency    string
	shippingFee models.Money
	taxRate     decimal.Decimal
	maxAttempts int

	// 订单编号生成函数，测试中可替换以模拟编号冲突
	orderNumberFn func() string
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	queueClient *queue.Client,
	cfg config.CheckoutConfig,
) *CheckoutService {
	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	taxRate, err := decimal.NewFromString(strings.TrimSpace(cfg.TaxRate))
	if err != nil {
		taxRate = decimal.Zero
	}
	maxAttempts := cfg.OrderNumberMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultOrderNumberMaxAttempts
	}
	return &CheckoutService{
		cartRepo:      cartRepo,
		orderRepo:     orderRepo,
		queueClient:   queueClient,
		currency:      currency,
		shippingFee:   models.NewMoneyFromString(cfg.ShippingFlatFee),
		taxRate:       taxRate,
		maxAttempts:   maxAttempts,
		orderNumberFn: GenerateOrderNumber,
	}
}

// Checkout 将购物车原子转换为订单：校验地址、锁定购物车、计算金额、
// 生成订单与订单项快照并清空购物车，全部发生在同一事务内。
func (s *CheckoutService) Checkout(input CheckoutInput) (*models.Order, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var order *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.GetForCheckout(input.CartID, input.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		items, err := buildOrderItems(cart.Items)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Total.Decimal)
		}
		shipping := s.shippingFee.Decimal
		tax := subtotal.Add(shipping).Mul(s.taxRate).Round(2)
		discount := decimal.Zero
		total := subtotal.Add(shipping).Add(tax).Sub(discount)

		now := time.Now()
		order = &models.Order{
			UserID:              input.UserID,
			Status:              constants.OrderStatusPending,
			PaymentStatus:       constants.PaymentStatusPending,
			Subtotal:            models.NewMoneyFromDecimal(subtotal),
			TaxAmount:           models.NewMoneyFromDecimal(tax),
			ShippingCost:        models.NewMoneyFromDecimal(shipping),
			DiscountAmount:      models.NewMoneyFromDecimal(discount),
			Total:               models.NewMoneyFromDecimal(total),
			Currency:            s.currency,
			BillingAddressJSON:  input.BillingAddress.ToJSON(),
			ShippingAddressJSON: input.ShippingAddress.ToJSON(),
			ShippingMethod:      strings.TrimSpace(input.ShippingMethod),
			PaymentMethod:       strings.TrimSpace(input.PaymentMethod),
			CustomerNote:        strings.TrimSpace(input.Notes),
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		if err := s.createWithUniqueNumber(tx, orderRepo, order, items); err != nil {
			return err
		}
		order.Items = items

		return cartRepo.ClearItems(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.queueClient != nil {
		payload := queue.OrderStatusNotifyPayload{OrderID: order.ID, Status: order.Status}
		if err := s.queueClient.EnqueueOrderStatusNotify(payload); err != nil {
			logger.Warnw("checkout_enqueue_status_notify_failed",
				"order_id", order.ID,
				"order_number", order.OrderNumber,
				"error", err,
			)
		}
	}

	logger.Infow("checkout_order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
		"total", order.Total.String(),
	)
	return order, nil
}

func (s *CheckoutService) validateInput(input CheckoutInput) error {
	fields := map[string]string{}
	if input.CartID == 0 {
		fields["cart_id"] = "this field is required"
	}
	validateAddressPayload("billing_address", input.BillingAddress, fields)
	validateAddressPayload("shipping_address", input.ShippingAddress, fields)
	if strings.TrimSpace(input.ShippingMethod) == "" {
		fields["shipping_method"] = "this field is required"
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		fields["payment_method"] = "this field is required"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// createWithUniqueNumber 写入订单，编号冲突时在保存点内重试，重试耗尽返回错误。
func (s *CheckoutService) createWithUniqueNumber(tx *gorm.DB, orderRepo *repository.GormOrderRepository, order *models.Order, items []models.OrderItem) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		order.OrderNumber = s.orderNumberFn()
		err := tx.Transaction(func(inner *gorm.DB) error {
			return orderRepo.WithTx(inner).Create(order, items)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logger.Warnw("checkout_order_number_collision",
			"order_number", order.OrderNumber,
			"attempt", attempt,
		)
		// 保存点回滚后重置主键，下一轮重新生成编号插入
		order.ID = 0
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = 0
		}
	}
	return ErrOrderNumberExhausted
}

// buildOrderItems 基于购物车项生成订单项快照，单价取加购时锁定价格。
func buildOrderItems(cartItems []models.CartItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cartItems))
	now := time.Now()
	for _, cartItem := range cartItems {
		if cartItem.Product == nil || cartItem.Product.ID == 0 {
			return nil, ErrProductNotAvailable
		}
		variantName := ""
		sku := cartItem.Product.SKU
		var variantID *uint
		if cartItem.Variant != nil && cartItem.Variant.ID != 0 {
			variantName = cartItem.Variant.Name
			sku = cartItem.Variant.SKU
			id := cartItem.Variant.ID
			variantID = &id
		}
		items = append(items, models.OrderItem{
			ProductID:      cartItem.ProductID,
			VariantID:      variantID,
			ProductName:    cartItem.Product.Name,
			VariantName:    variantName,
			SKU:            sku,
			Price:          cartItem.Price,
			Quantity:       cartItem.Quantity,
			TaxAmount:      models.Money{},
			DiscountAmount: models.Money{},
			Total:          cartItem.LineTotal(),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return items, nil
}

// GenerateOrderNumber 生成订单编号：ORD-日期-8位随机大写十六进制
func GenerateOrderNumber() string {
	date := time.Now().Format(constants.OrderNumberDateLayout)
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s-%s", constants.OrderNumberPrefix, date, random[:constants.OrderNumberRandomChars])
}
