package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:review_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewProductRepository(db),
	)
	return svc, db
}

// seedPurchase 为用户写入一条包含指定商品的已完成订单
func seedPurchase(t *testing.T, db *gorm.DB, userID uint, product *models.Product) {
	t.Helper()
	order := seedOrder(t, db, userID, constants.OrderStatusDelivered, constants.PaymentStatusPaid)
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Price:       product.Price,
		Quantity:    1,
		Total:       product.Price,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
}

func reviewInput() CreateReviewInput {
	return CreateReviewInput{
		Rating:  4,
		Title:   "Solid build",
		Comment: "Works exactly as described.",
	}
}

func TestReviewCreateRequiresPurchase(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := seedCartProduct(t, db, "19.99", true)

	if _, err := svc.Create(product.Slug, 1, reviewInput()); !errors.Is(err, ErrReviewNotPurchased) {
		t.Fatalf("review without purchase want ErrReviewNotPurchased got %v", err)
	}
}

func TestReviewCreatePendingAndDuplicate(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := seedCartProduct(t, db, "19.99", true)
	userID := uint(2)
	seedPurchase(t, db, userID, product)

	review, err := svc.Create(product.Slug, userID, reviewInput())
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.IsApproved {
		t.Fatalf("new review should await approval")
	}
	if !review.IsVerifiedPurchase {
		t.Fatalf("review after purchase should be verified")
	}

	if _, err := svc.Create(product.Slug, userID, reviewInput()); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("second review want ErrReviewExists got %v", err)
	}
}

func TestReviewCreateValidation(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := seedCartProduct(t, db, "19.99", true)
	userID := uint(3)
	seedPurchase(t, db, userID, product)

	_, err := svc.Create(product.Slug, userID, CreateReviewInput{Rating: 6, Title: " ", Comment: ""})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	if validationErr.Fields["rating"] != "must be between 1 and 5" {
		t.Fatalf("rating error missing, fields: %v", validationErr.Fields)
	}
	for _, field := range []string{"title", "comment"} {
		if validationErr.Fields[field] != "this field is required" {
			t.Fatalf("field %s should be required, fields: %v", field, validationErr.Fields)
		}
	}

	if _, err := svc.Create("no-such-product", userID, reviewInput()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
	inactive := seedCartProduct(t, db, "19.99", false)
	if _, err := svc.Create(inactive.Slug, userID, reviewInput()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product want ErrProductNotFound got %v", err)
	}
}

func TestReviewListOnlyApproved(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := seedCartProduct(t, db, "19.99", true)
	userID := uint(4)
	seedPurchase(t, db, userID, product)

	review, err := svc.Create(product.Slug, userID, reviewInput())
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	// 审核前对外不可见
	rows, total, err := svc.ListByProduct(product.Slug, 1, 20)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("unapproved review should be hidden, total=%d", total)
	}

	pending, pendingTotal, err := svc.ListPending(1, 20)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if pendingTotal != 1 || pending[0].ID != review.ID {
		t.Fatalf("pending list mismatch: total=%d", pendingTotal)
	}

	approved, err := svc.Approve(review.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !approved.IsApproved {
		t.Fatalf("review should be approved")
	}
	// 重复审核幂等
	if _, err := svc.Approve(review.ID); err != nil {
		t.Fatalf("repeat approve failed: %v", err)
	}

	rows, total, err = svc.ListByProduct(product.Slug, 1, 20)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if total != 1 || rows[0].ID != review.ID {
		t.Fatalf("approved review should be listed, total=%d", total)
	}

	if _, err := svc.Approve(review.ID + 1000); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("missing review want ErrReviewNotFound got %v", err)
	}
}

func TestReviewDeleteScopedToOwner(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	product := seedCartProduct(t, db, "19.99", true)
	userID := uint(5)
	seedPurchase(t, db, userID, product)

	review, err := svc.Create(product.Slug, userID, reviewInput())
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	if err := svc.Delete(review.ID, userID+1); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("foreign delete want ErrReviewNotFound got %v", err)
	}
	if err := svc.Delete(review.ID, userID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteAdmin(review.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("deleted review want ErrReviewNotFound got %v", err)
	}
}
