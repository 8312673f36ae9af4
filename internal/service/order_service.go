package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单生命周期服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	noteRepo    repository.OrderNoteRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, noteRepo repository.OrderNoteRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		noteRepo:    noteRepo,
		queueClient: queueClient,
	}
}

// GetByIDAndUser 获取用户订单详情，仅保留对客户可见的备注
func (s *OrderService) GetByIDAndUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	order.Notes = filterPublicNotes(order.Notes)
	return order, nil
}

// ListByUser 获取用户订单列表
func (s *OrderService) ListByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// GetByID 管理端获取订单详情（含全部备注）
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// CancelOrder 用户取消订单。仅 pending/processing 可取消，取消追加公开备注。
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.cancel(order, &userID, "Order cancelled by customer."); err != nil {
		return nil, err
	}
	order.Notes = filterPublicNotes(order.Notes)
	return order, nil
}

// CancelOrderAdmin 管理端取消订单
func (s *OrderService) CancelOrderAdmin(orderID uint, staffUserID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.cancel(order, &staffUserID, "Order cancelled by staff."); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) cancel(order *models.Order, actorID *uint, noteText string) error {
	if order.Status == constants.OrderStatusCancelled {
		return ErrOrderAlreadyCancelled
	}
	if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusProcessing {
		return ErrOrderCancelNotAllowed
	}

	now := time.Now()
	note := models.OrderNote{
		OrderID:   order.ID,
		UserID:    actorID,
		Note:      noteText,
		IsPublic:  true,
		CreatedAt: now,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		noteRepo := s.noteRepo.WithTx(tx)

		updates := map[string]interface{}{"updated_at": now}
		rows, err := orderRepo.UpdateStatusFrom(order.ID, order.Status, constants.OrderStatusCancelled, updates)
		if err != nil {
			return err
		}
		// 状态已被并发修改，放弃本次取消
		if rows == 0 {
			return ErrOrderUpdateFailed
		}
		return noteRepo.Create(&note)
	})
	if err != nil {
		return ErrOrderUpdateFailed
	}

	previous := order.Status
	order.Status = constants.OrderStatusCancelled
	order.UpdatedAt = now
	order.Notes = append(order.Notes, note)

	logger.Infow("order_cancelled",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"previous_status", previous,
	)
	s.enqueueStatusNotify(order.ID, constants.OrderStatusCancelled)
	return nil
}

// UpdateOrderStatus 管理端更新订单状态。非法流转拒绝，到达 delivered 时
// 写入一次完成时间，每次变更追加内部备注。
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string, staffUserID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := strings.TrimSpace(targetStatus)
	if !isValidOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	noteText := fmt.Sprintf("Status changed from %s to %s", order.Status, target)
	stampCompleted := target == constants.OrderStatusDelivered && order.CompletedAt == nil

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		noteRepo := s.noteRepo.WithTx(tx)

		updates := map[string]interface{}{"updated_at": now}
		if stampCompleted {
			updates["completed_at"] = now
		}
		rows, err := orderRepo.UpdateStatusFrom(order.ID, order.Status, target, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderUpdateFailed
		}
		return noteRepo.Create(&models.OrderNote{
			OrderID:   order.ID,
			UserID:    &staffUserID,
			Note:      noteText,
			IsPublic:  false,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}

	order.Status = target
	order.UpdatedAt = now
	if stampCompleted {
		order.CompletedAt = &now
	}

	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"status", target,
		"staff_user_id", staffUserID,
	)
	s.enqueueStatusNotify(order.ID, target)
	return order, nil
}

// UpdatePaymentStatus 管理端更新支付状态。pending→paid 写入支付时间。
func (s *OrderService) UpdatePaymentStatus(orderID uint, targetStatus string, staffUserID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := strings.TrimSpace(targetStatus)
	if !isValidPaymentStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	if order.PaymentStatus == target {
		return order, nil
	}
	if !isPaymentTransitionAllowed(order.PaymentStatus, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	noteText := fmt.Sprintf("Payment status changed from %s to %s", order.PaymentStatus, target)
	stampPaid := target == constants.PaymentStatusPaid && order.PaidAt == nil

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		noteRepo := s.noteRepo.WithTx(tx)

		updates := map[string]interface{}{"updated_at": now}
		if stampPaid {
			updates["paid_at"] = now
		}
		rows, err := orderRepo.UpdatePaymentStatusFrom(order.ID, order.PaymentStatus, target, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderUpdateFailed
		}
		return noteRepo.Create(&models.OrderNote{
			OrderID:   order.ID,
			UserID:    &staffUserID,
			Note:      noteText,
			IsPublic:  false,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}

	order.PaymentStatus = target
	order.UpdatedAt = now
	if stampPaid {
		order.PaidAt = &now
	}

	logger.Infow("order_payment_status_updated",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"payment_status", target,
		"staff_user_id", staffUserID,
	)
	return order, nil
}

// AddNote 管理端追加订单备注
func (s *OrderService) AddNote(orderID uint, staffUserID uint, note string, isPublic bool) (*models.OrderNote, error) {
	text := strings.TrimSpace(note)
	if text == "" {
		return nil, NewValidationError(map[string]string{"note": "this field is required"})
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	orderNote := &models.OrderNote{
		OrderID:   order.ID,
		UserID:    &staffUserID,
		Note:      text,
		IsPublic:  isPublic,
		CreatedAt: time.Now(),
	}
	if err := s.noteRepo.Create(orderNote); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	return orderNote, nil
}

func (s *OrderService) enqueueStatusNotify(orderID uint, status string) {
	if s.queueClient == nil {
		return
	}
	payload := queue.OrderStatusNotifyPayload{OrderID: orderID, Status: status}
	if err := s.queueClient.EnqueueOrderStatusNotify(payload); err != nil {
		logger.Warnw("order_enqueue_status_notify_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func filterPublicNotes(notes []models.OrderNote) []models.OrderNote {
	visible := make([]models.OrderNote, 0, len(notes))
	for _, note := range notes {
		if note.IsPublic {
			visible = append(visible, note)
		}
	}
	return visible
}
