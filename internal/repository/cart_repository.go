package repository

import (
	"errors"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetOrCreateByUser(userID uint) (*models.Cart, error)
	GetOrCreateBySession(sessionKey string) (*models.Cart, error)
	GetByIDAndUser(id, userID uint) (*models.Cart, error)
	GetBySession(sessionKey string) (*models.Cart, error)
	GetForCheckout(id, userID uint) (*models.Cart, error)
	GetItem(cartID, productID uint, variantID *uint) (*models.CartItem, error)
	GetItemByID(id, cartID uint) (*models.CartItem, error)
	SaveItem(item *models.CartItem) error
	DeleteItem(id, cartID uint) error
	ClearItems(cartID uint) error
	DeleteCart(id uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

func (r *GormCartRepository) withItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items").Preload("Items.Product").Preload("Items.Variant")
}

// GetOrCreateByUser 获取用户购物车，不存在则创建
func (r *GormCartRepository) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.withItems(r.db).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: &userID}
		if err := r.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateBySession 获取匿名会话购物车，不存在则创建
func (r *GormCartRepository) GetOrCreateBySession(sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	err := r.withItems(r.db).Where("session_key = ? AND user_id IS NULL", sessionKey).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{SessionKey: sessionKey}
		if err := r.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetByIDAndUser 获取用户购物车详情
func (r *GormCartRepository) GetByIDAndUser(id, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.withItems(r.db).Where("id = ? AND user_id = ?", id, userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetBySession 获取匿名会话购物车
func (r *GormCartRepository) GetBySession(sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.withItems(r.db).Where("session_key = ? AND user_id IS NULL", sessionKey).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetForCheckout 结算前锁定购物车行并加载购物车项
func (r *GormCartRepository) GetForCheckout(id, userID uint) (*models.Cart, error) {
	var cart models.Cart
	query := applyRowLock(r.db).Where("id = ? AND user_id = ?", id, userID)
	if err := query.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.db.Preload("Product").Preload("Variant").
		Where("cart_id = ?", cart.ID).
		Order("id asc").
		Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetItem 按商品与规格获取购物车项
func (r *GormCartRepository) GetItem(cartID, productID uint, variantID *uint) (*models.CartItem, error) {
	var item models.CartItem
	query := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID)
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

// GetItemByID 获取购物车项
func (r *GormCartRepository) GetItemByID(id, cartID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("id = ? AND cart_id = ?", id, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem 保存购物车项
func (r *GormCartRepository) SaveItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(id, cartID uint) error {
	return r.db.Where("id = ? AND cart_id = ?", id, cartID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// DeleteCart 删除购物车（会话购物车合并后移除）
func (r *GormCartRepository) DeleteCart(id uint) error {
	if err := r.db.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, id).Error
}
