package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupNotifyConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:worker_notify_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.OrderNote{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	container := &provider.Container{
		UserRepo:  repository.NewUserRepository(db),
		OrderRepo: repository.NewOrderRepository(db),
	}
	return NewConsumer(container), db
}

func TestHandleOrderStatusNotifyInvalidPayload(t *testing.T) {
	consumer, _ := setupNotifyConsumer(t)

	task := asynq.NewTask(queue.TaskOrderStatusNotify, []byte(`{"order_id":0}`))
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("invalid payload should be skipped, got %v", err)
	}

	bad := asynq.NewTask(queue.TaskOrderStatusNotify, []byte(`not-json`))
	if err := consumer.handleOrderStatusNotify(context.Background(), bad); err == nil {
		t.Fatalf("malformed payload should return error")
	}
}

func TestHandleOrderStatusNotifyOrderMissing(t *testing.T) {
	consumer, _ := setupNotifyConsumer(t)

	body, _ := json.Marshal(queue.OrderStatusNotifyPayload{OrderID: 999, Status: "shipped"})
	task := asynq.NewTask(queue.TaskOrderStatusNotify, body)
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}

func TestHandleOrderStatusNotifyDelivered(t *testing.T) {
	consumer, db := setupNotifyConsumer(t)

	user := &models.User{Email: "buyer@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := &models.Order{
		OrderNumber: "ORD-20260823-AAAA1111",
		UserID:      user.ID,
		Status:      "shipped",
		Currency:    "USD",
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	body, _ := json.Marshal(queue.OrderStatusNotifyPayload{OrderID: order.ID, Status: "shipped"})
	task := asynq.NewTask(queue.TaskOrderStatusNotify, body)
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("notify should succeed, got %v", err)
	}
}
