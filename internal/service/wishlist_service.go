package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// WishlistService 收藏清单服务
type WishlistService struct {
	savedCartRepo repository.SavedCartRepository
	cartService   *CartService
}

// NewWishlistService 创建收藏清单服务
func NewWishlistService(savedCartRepo repository.SavedCartRepository, cartService *CartService) *WishlistService {
	return &WishlistService{
		savedCartRepo: savedCartRepo,
		cartService:   cartService,
	}
}

// ListByUser 获取用户收藏清单列表
func (s *WishlistService) ListByUser(userID uint) ([]models.SavedCart, error) {
	return s.savedCartRepo.ListByUser(userID)
}

// GetByIDAndUser 获取收藏清单详情
func (s *WishlistService) GetByIDAndUser(id, userID uint) (*models.SavedCart, error) {
	savedCart, err := s.savedCartRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if savedCart == nil {
		return nil, ErrSavedCartNotFound
	}
	return savedCart, nil
}

// Create 创建收藏清单。默认标记与写入同事务，用户至多一条默认清单。
func (s *WishlistService) Create(userID uint, name string, isDefault bool) (*models.SavedCart, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = "Wishlist"
	}
	now := time.Now()
	savedCart := &models.SavedCart{
		UserID:    userID,
		Name:      trimmed,
		IsDefault: isDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.savedCartRepo.WithTx(tx).Save(savedCart)
	})
	if err != nil {
		return nil, err
	}
	return savedCart, nil
}

// Update 更新收藏清单
func (s *WishlistService) Update(id, userID uint, name string, isDefault bool) (*models.SavedCart, error) {
	savedCart, err := s.savedCartRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if savedCart == nil {
		return nil, ErrSavedCartNotFound
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		savedCart.Name = trimmed
	}
	savedCart.IsDefault = isDefault
	savedCart.UpdatedAt = time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.savedCartRepo.WithTx(tx).Save(savedCart)
	})
	if err != nil {
		return nil, err
	}
	return savedCart, nil
}

// Delete 删除收藏清单
func (s *WishlistService) Delete(id, userID uint) error {
	err := s.savedCartRepo.Delete(id, userID)
	if err == gorm.ErrRecordNotFound {
		return ErrSavedCartNotFound
	}
	return err
}

// AddItem 添加清单项，同商品同规格合并数量
func (s *WishlistService) AddItem(savedCartID, userID uint, input AddCartItemInput) (*models.SavedCartItem, error) {
	if input.Quantity < 1 {
		return nil, ErrQuantityInvalid
	}
	savedCart, err := s.savedCartRepo.GetByIDAndUser(savedCartID, userID)
	if err != nil {
		return nil, err
	}
	if savedCart == nil {
		return nil, ErrSavedCartNotFound
	}

	product, variant, err := s.cartService.resolveProduct(input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}
	var variantID *uint
	if variant != nil {
		id := variant.ID
		variantID = &id
	}

	existing, err := s.savedCartRepo.GetItem(savedCart.ID, product.ID, variantID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if existing == nil {
		item := &models.SavedCartItem{
			SavedCartID: savedCart.ID,
			ProductID:   product.ID,
			VariantID:   variantID,
			Quantity:    input.Quantity,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.savedCartRepo.SaveItem(item); err != nil {
			return nil, err
		}
		return item, nil
	}
	existing.Quantity += input.Quantity
	existing.UpdatedAt = now
	if err := s.savedCartRepo.SaveItem(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// RemoveItem 删除清单项
func (s *WishlistService) RemoveItem(savedCartID, itemID, userID uint) error {
	savedCart, err := s.savedCartRepo.GetByIDAndUser(savedCartID, userID)
	if err != nil {
		return err
	}
	if savedCart == nil {
		return ErrSavedCartNotFound
	}
	item, err := s.savedCartRepo.GetItemByID(itemID, savedCart.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrSavedCartItemNotFound
	}
	return s.savedCartRepo.DeleteItem(itemID, savedCart.ID)
}

// MoveToCart 将清单项移入购物车并从清单删除，整体在一个事务内。
func (s *WishlistService) MoveToCart(savedCartID, itemID, userID uint) error {
	savedCart, err := s.savedCartRepo.GetByIDAndUser(savedCartID, userID)
	if err != nil {
		return err
	}
	if savedCart == nil {
		return ErrSavedCartNotFound
	}
	item, err := s.savedCartRepo.GetItemByID(itemID, savedCart.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrSavedCartItemNotFound
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		product, variant, err := s.cartService.resolveProductTx(tx, item.ProductID, item.VariantID)
		if err != nil {
			return err
		}
		cartRepo := s.cartService.cartRepo.WithTx(tx)
		userCart, err := cartRepo.GetOrCreateByUser(userID)
		if err != nil {
			return err
		}
		if err := s.cartService.upsertItem(cartRepo, userCart.ID, product, variant, item.Quantity, false); err != nil {
			return err
		}
		return s.savedCartRepo.WithTx(tx).DeleteItem(item.ID, savedCart.ID)
	})
}
