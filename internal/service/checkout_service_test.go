package service

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderNote{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewCheckoutService(
		repository.NewCartRepository(db),
		repository.NewOrderRepository(db),
		nil,
		config.CheckoutConfig{
			Currency:               "USD",
			ShippingFlatFee:        "10.00",
			TaxRate:                "0.1",
			OrderNumberMaxAttempts: 5,
		},
	)
	return svc, db
}

// seedCheckoutCart 准备 10.00×2 + 25.00×1 的用户购物车，其中第一项带规格
func seedCheckoutCart(t *testing.T, db *gorm.DB, userID uint) *models.Cart {
	t.Helper()

	category := models.Category{Slug: fmt.Sprintf("checkout-cat-%d", userID), Name: "Checkout Category", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	earphones := models.Product{
		CategoryID: category.ID,
		Slug:       fmt.Sprintf("checkout-earphones-%d", userID),
		Name:       "Wireless Earphones",
		SKU:        fmt.Sprintf("CHK-EAR-%d", userID),
		Price:      models.NewMoneyFromString("10.00"),
		Quantity:   10,
		Condition:  constants.ProductConditionNew,
		IsActive:   true,
	}
	if err := db.Create(&earphones).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	white := models.ProductVariant{
		ProductID: earphones.ID,
		Name:      "White",
		SKU:       fmt.Sprintf("CHK-EAR-%d-WHT", userID),
		Quantity:  5,
		IsDefault: true,
		IsActive:  true,
	}
	if err := db.Create(&white).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	charger := models.Product{
		CategoryID: category.ID,
		Slug:       fmt.Sprintf("checkout-charger-%d", userID),
		Name:       "Fast Charger",
		SKU:        fmt.Sprintf("CHK-PWR-%d", userID),
		Price:      models.NewMoneyFromString("25.00"),
		Quantity:   10,
		Condition:  constants.ProductConditionNew,
		IsActive:   true,
	}
	if err := db.Create(&charger).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	cart := models.Cart{UserID: &userID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	whiteID := white.ID
	items := []models.CartItem{
		{CartID: cart.ID, ProductID: earphones.ID, VariantID: &whiteID, Quantity: 2, Price: models.NewMoneyFromString("10.00")},
		{CartID: cart.ID, ProductID: charger.ID, Quantity: 1, Price: models.NewMoneyFromString("25.00")},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create cart item failed: %v", err)
		}
	}
	return &cart
}

func checkoutAddress() AddressPayload {
	return AddressPayload{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Phone:      "555-0100",
		Address1:   "1 Analytical Way",
		City:       "London",
		PostalCode: "SW1A 1AA",
		Country:    "GB",
	}
}

func checkoutInputForCart(cart *models.Cart, userID uint) CheckoutInput {
	return CheckoutInput{
		CartID:          cart.ID,
		UserID:          userID,
		BillingAddress:  checkoutAddress(),
		ShippingAddress: checkoutAddress(),
		ShippingMethod:  "standard",
		PaymentMethod:   "manual",
	}
}

func TestCheckoutComputesTotalsAndClearsCart(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	userID := uint(1)
	cart := seedCheckoutCart(t, db, userID)

	order, err := svc.Checkout(checkoutInputForCart(cart, userID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if order.Subtotal.String() != "45.00" {
		t.Fatalf("subtotal want 45.00 got %s", order.Subtotal.String())
	}
	if order.ShippingCost.String() != "10.00" {
		t.Fatalf("shipping want 10.00 got %s", order.ShippingCost.String())
	}
	if order.TaxAmount.String() != "5.50" {
		t.Fatalf("tax want 5.50 got %s", order.TaxAmount.String())
	}
	if order.Total.String() != "60.50" {
		t.Fatalf("total want 60.50 got %s", order.Total.String())
	}
	if order.Currency != "USD" {
		t.Fatalf("currency want USD got %s", order.Currency)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("payment status want pending got %s", order.PaymentStatus)
	}

	pattern := regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)
	if !pattern.MatchString(order.OrderNumber) {
		t.Fatalf("order number format invalid: %s", order.OrderNumber)
	}

	if len(order.Items) != 2 {
		t.Fatalf("order items want 2 got %d", len(order.Items))
	}
	first := order.Items[0]
	if first.ProductName != "Wireless Earphones" || first.VariantName != "White" {
		t.Fatalf("first item snapshot mismatch: %+v", first)
	}
	if first.SKU != fmt.Sprintf("CHK-EAR-%d-WHT", userID) {
		t.Fatalf("first item should snapshot variant sku, got %s", first.SKU)
	}
	if first.Total.String() != "20.00" {
		t.Fatalf("first item total want 20.00 got %s", first.Total.String())
	}
	second := order.Items[1]
	if second.ProductName != "Fast Charger" || second.VariantID != nil {
		t.Fatalf("second item snapshot mismatch: %+v", second)
	}

	var remaining int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("cart should be empty after checkout, got %d items", remaining)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	userID := uint(2)
	cart := models.Cart{UserID: &userID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	_, err := svc.Checkout(checkoutInputForCart(&cart, userID))
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}

func TestCheckoutCartNotFound(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	userID := uint(3)
	cart := seedCheckoutCart(t, db, userID)

	// 他人的购物车不可结算
	_, err := svc.Checkout(checkoutInputForCart(cart, userID+1))
	if !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("want ErrCartNotFound got %v", err)
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc, _ := setupCheckoutServiceTest(t)

	_, err := svc.Checkout(CheckoutInput{})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	for _, field := range []string{
		"cart_id",
		"billing_address.first_name",
		"shipping_address.postal_code",
		"shipping_method",
		"payment_method",
	} {
		if validationErr.Fields[field] != "this field is required" {
			t.Fatalf("field %s should be required, fields: %v", field, validationErr.Fields)
		}
	}
}

func TestCheckoutRetriesOnOrderNumberCollision(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	userID := uint(4)
	cart := seedCheckoutCart(t, db, userID)

	taken := "ORD-20260823-DEADBEEF"
	existing := models.Order{
		OrderNumber:   taken,
		UserID:        99,
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		Currency:      "USD",
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create existing order failed: %v", err)
	}

	calls := 0
	svc.orderNumberFn = func() string {
		calls++
		if calls == 1 {
			return taken
		}
		return "ORD-20260823-CAFE0001"
	}

	order, err := svc.Checkout(checkoutInputForCart(cart, userID))
	if err != nil {
		t.Fatalf("checkout with collision retry failed: %v", err)
	}
	if order.OrderNumber != "ORD-20260823-CAFE0001" {
		t.Fatalf("order number want retried value got %s", order.OrderNumber)
	}
	if calls != 2 {
		t.Fatalf("order number generator calls want 2 got %d", calls)
	}
	if order.Total.String() != "60.50" {
		t.Fatalf("retried order total want 60.50 got %s", order.Total.String())
	}
}

func TestCheckoutOrderNumberExhausted(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	userID := uint(5)
	cart := seedCheckoutCart(t, db, userID)

	taken := "ORD-20260823-FEEDF00D"
	existing := models.Order{
		OrderNumber:   taken,
		UserID:        99,
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		Currency:      "USD",
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create existing order failed: %v", err)
	}

	calls := 0
	svc.orderNumberFn = func() string {
		calls++
		return taken
	}

	_, err := svc.Checkout(checkoutInputForCart(cart, userID))
	if !errors.Is(err, ErrOrderNumberExhausted) {
		t.Fatalf("want ErrOrderNumberExhausted got %v", err)
	}
	if calls != 5 {
		t.Fatalf("generator calls want 5 got %d", calls)
	}

	// 重试耗尽整单回滚，购物车保持原样
	var remaining int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("cart should keep its items after rollback, got %d", remaining)
	}

	var orders int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 0 {
		t.Fatalf("no order should be created, got %d", orders)
	}
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		number := GenerateOrderNumber()
		if !pattern.MatchString(number) {
			t.Fatalf("order number format invalid: %s", number)
		}
		seen[number] = true
	}
	if len(seen) < 2 {
		t.Fatalf("order numbers should vary, got %d unique of 20", len(seen))
	}
}

func TestCheckoutTaxRounding(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	userID := uint(6)

	category := models.Category{Slug: "rounding-cat", Name: "Rounding", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID: category.ID,
		Slug:       "rounding-product",
		Name:       "Sticker Pack",
		SKU:        "CHK-STK-001",
		Price:      models.NewMoneyFromString("0.33"),
		Quantity:   10,
		Condition:  constants.ProductConditionNew,
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	cart := models.Cart{UserID: &userID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	item := models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1, Price: product.Price}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}

	order, err := svc.Checkout(checkoutInputForCart(&cart, userID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// (0.33 + 10.00) × 0.1 = 1.033 → 1.03
	if order.TaxAmount.String() != "1.03" {
		t.Fatalf("tax want 1.03 got %s", order.TaxAmount.String())
	}
	want := decimal.RequireFromString("11.36")
	if !order.Total.Decimal.Equal(want) {
		t.Fatalf("total want 11.36 got %s", order.Total.String())
	}
}
