package repository

import (
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// OrderNoteRepository 订单备注数据访问接口（仅追加）
type OrderNoteRepository interface {
	Create(note *models.OrderNote) error
	ListByOrder(orderID uint, publicOnly bool) ([]models.OrderNote, error)
	WithTx(tx *gorm.DB) *GormOrderNoteRepository
}

// GormOrderNoteRepository GORM 实现
type GormOrderNoteRepository struct {
	db *gorm.DB
}

// NewOrderNoteRepository 创建订单备注仓库
func NewOrderNoteRepository(db *gorm.DB) *GormOrderNoteRepository {
	return &GormOrderNoteRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderNoteRepository) WithTx(tx *gorm.DB) *GormOrderNoteRepository {
	if tx == nil {
		return r
	}
	return &GormOrderNoteRepository{db: tx}
}

// Create 追加订单备注
func (r *GormOrderNoteRepository) Create(note *models.OrderNote) error {
	return r.db.Create(note).Error
}

// ListByOrder 获取订单备注列表
func (r *GormOrderNoteRepository) ListByOrder(orderID uint, publicOnly bool) ([]models.OrderNote, error) {
	var notes []models.OrderNote
	query := r.db.Where("order_id = ?", orderID)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	if err := query.Order("id asc").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
