package service

import (
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	ProductID      uint
	VariantID      *uint
	Quantity       int
	UpdateQuantity bool // true 覆盖数量，false 累加数量
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	variantRepo repository.ProductVariantRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// GetOrCreateByUser 获取用户购物车，不存在则懒创建
func (s *CartService) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateByUser(userID)
}

// GetOrCreateBySession 获取匿名会话购物车，不存在则懒创建
func (s *CartService) GetOrCreateBySession(sessionKey string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateBySession(sessionKey)
}

// AddItem 添加购物车项。同商品同规格合并数量，每次保存重新锁定当前价格。
func (s *CartService) AddItem(userID uint, input AddCartItemInput) (*models.Cart, error) {
	if input.Quantity < 1 {
		return nil, ErrQuantityInvalid
	}

	product, variant, err := s.resolveProduct(input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	if err := s.upsertItem(s.cartRepo, cart.ID, product, variant, input.Quantity, input.UpdateQuantity); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateByUser(userID)
}

// UpdateItemQuantity 更新购物车项数量，价格按当前生效价重新锁定
func (s *CartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrQuantityInvalid
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItemByID(itemID, cart.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, variant, err := s.resolveProduct(item.ProductID, item.VariantID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.Price = effectiveUnitPrice(product, variant)
	item.UpdatedAt = time.Now()
	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateByUser(userID)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) error {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return err
	}
	item, err := s.cartRepo.GetItemByID(itemID, cart.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	return s.cartRepo.DeleteItem(itemID, cart.ID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.ClearItems(cart.ID)
}

// MergeSessionCart 将匿名会话购物车并入用户购物车并删除会话购物车，整体在一个事务内。
func (s *CartService) MergeSessionCart(sessionKey string, userID uint) (*models.Cart, error) {
	sessionCart, err := s.cartRepo.GetBySession(sessionKey)
	if err != nil {
		return nil, err
	}
	if sessionCart == nil {
		return nil, ErrCartNotFound
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		userCart, err := cartRepo.GetOrCreateByUser(userID)
		if err != nil {
			return err
		}
		for _, item := range sessionCart.Items {
			product, variant, err := s.resolveProductTx(tx, item.ProductID, item.VariantID)
			if err != nil {
				// 已下架商品不并入用户购物车
				if err == ErrProductNotAvailable || err == ErrVariantMismatch {
					continue
				}
				return err
			}
			if err := s.upsertItem(cartRepo, userCart.ID, product, variant, item.Quantity, false); err != nil {
				return err
			}
		}
		return cartRepo.DeleteCart(sessionCart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateByUser(userID)
}

func (s *CartService) upsertItem(cartRepo repository.CartRepository, cartID uint, product *models.Product, variant *models.ProductVariant, quantity int, updateQuantity bool) error {
	var variantID *uint
	if variant != nil {
		id := variant.ID
		variantID = &id
	}
	existing, err := cartRepo.GetItem(cartID, product.ID, variantID)
	if err != nil {
		return err
	}

	now := time.Now()
	price := effectiveUnitPrice(product, variant)
	if existing == nil {
		return cartRepo.SaveItem(&models.CartItem{
			CartID:    cartID,
			ProductID: product.ID,
			VariantID: variantID,
			Quantity:  quantity,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if updateQuantity {
		existing.Quantity = quantity
	} else {
		existing.Quantity += quantity
	}
	existing.Price = price
	existing.UpdatedAt = now
	return cartRepo.SaveItem(existing)
}

func (s *CartService) resolveProduct(productID uint, variantID *uint) (*models.Product, *models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || !product.IsActive {
		return nil, nil, ErrProductNotAvailable
	}
	if variantID == nil {
		return product, nil, nil
	}
	variant, err := s.variantRepo.GetByIDAndProduct(*variantID, product.ID)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil || !variant.IsActive {
		return nil, nil, ErrVariantMismatch
	}
	return product, variant, nil
}

func (s *CartService) resolveProductTx(tx *gorm.DB, productID uint, variantID *uint) (*models.Product, *models.ProductVariant, error) {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	product, err := productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || !product.IsActive {
		return nil, nil, ErrProductNotAvailable
	}
	if variantID == nil {
		return product, nil, nil
	}
	variant, err := variantRepo.GetByIDAndProduct(*variantID, product.ID)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil || !variant.IsActive {
		return nil, nil, ErrVariantMismatch
	}
	return product, variant, nil
}

// effectiveUnitPrice 规格价格优先，规格未定价时回退商品价格
func effectiveUnitPrice(product *models.Product, variant *models.ProductVariant) models.Money {
	if variant != nil {
		return variant.EffectivePrice(product)
	}
	return product.Price
}
