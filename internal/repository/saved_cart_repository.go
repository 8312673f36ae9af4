package repository

import (
	"errors"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// SavedCartRepository 收藏清单数据访问接口
type SavedCartRepository interface {
	ListByUser(userID uint) ([]models.SavedCart, error)
	GetByIDAndUser(id, userID uint) (*models.SavedCart, error)
	Save(savedCart *models.SavedCart) error
	Delete(id, userID uint) error
	GetItem(savedCartID, productID uint, variantID *uint) (*models.SavedCartItem, error)
	GetItemByID(id, savedCartID uint) (*models.SavedCartItem, error)
	SaveItem(item *models.SavedCartItem) error
	DeleteItem(id, savedCartID uint) error
	WithTx(tx *gorm.DB) *GormSavedCartRepository
}

// GormSavedCartRepository GORM 实现
type GormSavedCartRepository struct {
	db *gorm.DB
}

// NewSavedCartRepository 创建收藏清单仓库
func NewSavedCartRepository(db *gorm.DB) *GormSavedCartRepository {
	return &GormSavedCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSavedCartRepository) WithTx(tx *gorm.DB) *GormSavedCartRepository {
	if tx == nil {
		return r
	}
	return &GormSavedCartRepository{db: tx}
}

// ListByUser 获取用户收藏清单列表
func (r *GormSavedCartRepository) ListByUser(userID uint) ([]models.SavedCart, error) {
	var savedCarts []models.SavedCart
	if err := r.db.Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&savedCarts).Error; err != nil {
		return nil, err
	}
	return savedCarts, nil
}

// GetByIDAndUser 获取用户收藏清单详情
func (r *GormSavedCartRepository) GetByIDAndUser(id, userID uint) (*models.SavedCart, error) {
	var savedCart models.SavedCart
	if err := r.db.Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Where("id = ? AND user_id = ?", id, userID).
		First(&savedCart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &savedCart, nil
}

// Save 保存收藏清单。目标为默认清单时先清除该用户其他默认标记。
func (r *GormSavedCartRepository) Save(savedCart *models.SavedCart) error {
	if savedCart.IsDefault {
		scope := map[string]interface{}{
			"user_id": savedCart.UserID,
		}
		if err := resetDefaultInScope(r.db, &models.SavedCart{}, savedCart.ID, scope); err != nil {
			return err
		}
	}
	return r.db.Save(savedCart).Error
}

// Delete 删除收藏清单及其清单项
func (r *GormSavedCartRepository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.SavedCart{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.Where("saved_cart_id = ?", id).Delete(&models.SavedCartItem{}).Error
}

// GetItem 按商品与规格获取清单项
func (r *GormSavedCartRepository) GetItem(savedCartID, productID uint, variantID *uint) (*models.SavedCartItem, error) {
	var item models.SavedCartItem
	query := r.db.Where("saved_cart_id = ? AND product_id = ?", savedCartID, productID)
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", *variantID)
	}
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemByID 获取清单项
func (r *GormSavedCartRepository) GetItemByID(id, savedCartID uint) (*models.SavedCartItem, error) {
	var item models.SavedCartItem
	if err := r.db.Where("id = ? AND saved_cart_id = ?", id, savedCartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem 保存清单项
func (r *GormSavedCartRepository) SaveItem(item *models.SavedCartItem) error {
	return r.db.Save(item).Error
}

// DeleteItem 删除清单项
func (r *GormSavedCartRepository) DeleteItem(id, savedCartID uint) error {
	return r.db.Where("id = ? AND saved_cart_id = ?", id, savedCartID).Delete(&models.SavedCartItem{}).Error
}
