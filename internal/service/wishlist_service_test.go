package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T) (*WishlistService, *CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wishlist_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
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
		&models.SavedCart{},
		&models.SavedCartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cartSvc := NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
	)
	wishlistSvc := NewWishlistService(repository.NewSavedCartRepository(db), cartSvc)
	return wishlistSvc, cartSvc, db
}

func TestWishlistCreateDefaultsName(t *testing.T) {
	svc, _, _ := setupWishlistServiceTest(t)

	list, err := svc.Create(1, "   ", false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if list.Name != "Wishlist" {
		t.Fatalf("blank name should default to Wishlist, got %q", list.Name)
	}

	named, err := svc.Create(1, "Holiday Gifts", false)
	if err != nil {
		t.Fatalf("create named failed: %v", err)
	}
	if named.Name != "Holiday Gifts" {
		t.Fatalf("name want Holiday Gifts got %q", named.Name)
	}
}

func TestWishlistSingleDefaultPerUser(t *testing.T) {
	svc, _, db := setupWishlistServiceTest(t)
	userID := uint(2)

	first, err := svc.Create(userID, "First", true)
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	second, err := svc.Create(userID, "Second", true)
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if !second.IsDefault {
		t.Fatalf("second list should be default")
	}

	var firstReloaded models.SavedCart
	if err := db.First(&firstReloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first failed: %v", err)
	}
	if firstReloaded.IsDefault {
		t.Fatalf("first list should have lost the default flag")
	}

	// Update 也走同一默认接管路径
	promoted, err := svc.Update(first.ID, userID, "", true)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !promoted.IsDefault || promoted.Name != "First" {
		t.Fatalf("promoted list mismatch: %+v", promoted)
	}
	var count int64
	if err := db.Model(&models.SavedCart{}).Where("user_id = ? AND is_default = ?", userID, true).Count(&count).Error; err != nil {
		t.Fatalf("count defaults failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("defaults want 1 got %d", count)
	}
}

func TestWishlistAddItemMergesQuantity(t *testing.T) {
	svc, _, db := setupWishlistServiceTest(t)
	userID := uint(3)
	product := seedCartProduct(t, db, "10.00", true)

	list, err := svc.Create(userID, "Wishlist", true)
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}

	item, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	merged, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if merged.ID != item.ID || merged.Quantity != 3 {
		t.Fatalf("quantities should merge into one row, got %+v", merged)
	}

	if _, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: product.ID, Quantity: 0}); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("zero quantity want ErrQuantityInvalid got %v", err)
	}
	if _, err := svc.AddItem(list.ID+1000, userID, AddCartItemInput{ProductID: product.ID, Quantity: 1}); !errors.Is(err, ErrSavedCartNotFound) {
		t.Fatalf("missing list want ErrSavedCartNotFound got %v", err)
	}

	inactive := seedCartProduct(t, db, "10.00", false)
	if _, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: inactive.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("inactive product want ErrProductNotAvailable got %v", err)
	}
}

func TestWishlistRemoveItem(t *testing.T) {
	svc, _, db := setupWishlistServiceTest(t)
	userID := uint(4)
	product := seedCartProduct(t, db, "10.00", true)

	list, err := svc.Create(userID, "Wishlist", false)
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}
	item, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := svc.RemoveItem(list.ID, item.ID, userID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if err := svc.RemoveItem(list.ID, item.ID, userID); !errors.Is(err, ErrSavedCartItemNotFound) {
		t.Fatalf("repeat remove want ErrSavedCartItemNotFound got %v", err)
	}
}

func TestWishlistMoveToCart(t *testing.T) {
	svc, cartSvc, db := setupWishlistServiceTest(t)
	userID := uint(5)
	product := seedCartProduct(t, db, "12.50", true)

	list, err := svc.Create(userID, "Wishlist", false)
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}
	item, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := svc.MoveToCart(list.ID, item.ID, userID); err != nil {
		t.Fatalf("move to cart failed: %v", err)
	}

	cart, err := cartSvc.GetOrCreateByUser(userID)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart should hold the moved item, got %+v", cart.Items)
	}
	if cart.Items[0].Price.String() != "12.50" {
		t.Fatalf("moved item should lock current price, got %s", cart.Items[0].Price.String())
	}

	// 移入后清单项消失
	reloaded, err := svc.GetByIDAndUser(list.ID, userID)
	if err != nil {
		t.Fatalf("reload list failed: %v", err)
	}
	if len(reloaded.Items) != 0 {
		t.Fatalf("list should be empty after move, got %d items", len(reloaded.Items))
	}
}

func TestWishlistMoveToCartInactiveProductRollsBack(t *testing.T) {
	svc, cartSvc, db := setupWishlistServiceTest(t)
	userID := uint(6)
	product := seedCartProduct(t, db, "9.00", true)

	list, err := svc.Create(userID, "Wishlist", false)
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}
	item, err := svc.AddItem(list.ID, userID, AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("retire product failed: %v", err)
	}

	if err := svc.MoveToCart(list.ID, item.ID, userID); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("move of retired product want ErrProductNotAvailable got %v", err)
	}

	// 失败回滚：清单项保留，购物车不变
	reloaded, err := svc.GetByIDAndUser(list.ID, userID)
	if err != nil {
		t.Fatalf("reload list failed: %v", err)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("list item should survive failed move, got %d", len(reloaded.Items))
	}
	cart, err := cartSvc.GetOrCreateByUser(userID)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart should stay empty after failed move, got %d", len(cart.Items))
	}
}

func TestWishlistDelete(t *testing.T) {
	svc, _, _ := setupWishlistServiceTest(t)
	userID := uint(7)

	list, err := svc.Create(userID, "Wishlist", false)
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}
	if err := svc.Delete(list.ID, userID+1); !errors.Is(err, ErrSavedCartNotFound) {
		t.Fatalf("foreign delete want ErrSavedCartNotFound got %v", err)
	}
	if err := svc.Delete(list.ID, userID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByIDAndUser(list.ID, userID); !errors.Is(err, ErrSavedCartNotFound) {
		t.Fatalf("deleted list want ErrSavedCartNotFound got %v", err)
	}
}
