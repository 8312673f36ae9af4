package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDefaultFlagDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:default_flag_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.SavedCart{},
		&models.SavedCartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func countDefaults(t *testing.T, db *gorm.DB, model interface{}, scope map[string]interface{}) int64 {
	t.Helper()
	query := db.Model(model).Where("is_default = ?", true)
	for column, value := range scope {
		query = query.Where(column+" = ?", value)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("count defaults failed: %v", err)
	}
	return count
}

func TestAddressDefaultScopedByUserAndType(t *testing.T) {
	db := setupDefaultFlagDB(t)
	repo := NewAddressRepository(db)

	newAddress := func(userID uint, addressType string, isDefault bool) *models.Address {
		return &models.Address{
			UserID:       userID,
			AddressType:  addressType,
			FullName:     "Ada Lovelace",
			AddressLine1: "1 Analytical Way",
			City:         "London",
			PostalCode:   "SW1A 1AA",
			Country:      "GB",
			IsDefault:    isDefault,
		}
	}

	first := newAddress(1, models.AddressTypeHome, true)
	if err := repo.Save(first); err != nil {
		t.Fatalf("save first address failed: %v", err)
	}
	// 同用户同类型的第二个默认地址接管默认标记
	second := newAddress(1, models.AddressTypeHome, true)
	if err := repo.Save(second); err != nil {
		t.Fatalf("save second address failed: %v", err)
	}

	homeScope := map[string]interface{}{"user_id": 1, "address_type": models.AddressTypeHome}
	if got := countDefaults(t, db, &models.Address{}, homeScope); got != 1 {
		t.Fatalf("home defaults want 1 got %d", got)
	}
	var reloaded models.Address
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first address failed: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatalf("first address should have lost the default flag")
	}

	// 不同类型与不同用户互不影响
	work := newAddress(1, models.AddressTypeWork, true)
	if err := repo.Save(work); err != nil {
		t.Fatalf("save work address failed: %v", err)
	}
	otherUser := newAddress(2, models.AddressTypeHome, true)
	if err := repo.Save(otherUser); err != nil {
		t.Fatalf("save other user address failed: %v", err)
	}
	if got := countDefaults(t, db, &models.Address{}, homeScope); got != 1 {
		t.Fatalf("home defaults after cross-scope saves want 1 got %d", got)
	}
	var workReloaded models.Address
	if err := db.First(&workReloaded, work.ID).Error; err != nil {
		t.Fatalf("reload work address failed: %v", err)
	}
	if !workReloaded.IsDefault {
		t.Fatalf("work default must survive home default changes")
	}

	// 重新保存当前默认地址时自身不被清除
	if err := repo.Save(second); err != nil {
		t.Fatalf("resave default address failed: %v", err)
	}
	var secondReloaded models.Address
	if err := db.First(&secondReloaded, second.ID).Error; err != nil {
		t.Fatalf("reload second address failed: %v", err)
	}
	if !secondReloaded.IsDefault {
		t.Fatalf("resaving the default address must keep its flag")
	}
}

func TestVariantDefaultScopedByProduct(t *testing.T) {
	db := setupDefaultFlagDB(t)
	repo := NewProductVariantRepository(db)

	category := models.Category{Slug: "flag-cat", Name: "Flag Category", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	products := make([]models.Product, 2)
	for i := range products {
		products[i] = models.Product{
			CategoryID: category.ID,
			Slug:       fmt.Sprintf("flag-product-%d", i),
			Name:       fmt.Sprintf("Flag Product %d", i),
			SKU:        fmt.Sprintf("FLG-%03d", i),
			Price:      models.NewMoneyFromString("10.00"),
			Condition:  constants.ProductConditionNew,
			IsActive:   true,
		}
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	first := &models.ProductVariant{ProductID: products[0].ID, Name: "Red", SKU: "FLG-000-RED", IsDefault: true, IsActive: true}
	if err := repo.Save(first); err != nil {
		t.Fatalf("save first variant failed: %v", err)
	}
	second := &models.ProductVariant{ProductID: products[0].ID, Name: "Blue", SKU: "FLG-000-BLU", IsDefault: true, IsActive: true}
	if err := repo.Save(second); err != nil {
		t.Fatalf("save second variant failed: %v", err)
	}
	sibling := &models.ProductVariant{ProductID: products[1].ID, Name: "Red", SKU: "FLG-001-RED", IsDefault: true, IsActive: true}
	if err := repo.Save(sibling); err != nil {
		t.Fatalf("save sibling variant failed: %v", err)
	}

	if got := countDefaults(t, db, &models.ProductVariant{}, map[string]interface{}{"product_id": products[0].ID}); got != 1 {
		t.Fatalf("product 0 defaults want 1 got %d", got)
	}
	var firstReloaded models.ProductVariant
	if err := db.First(&firstReloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first variant failed: %v", err)
	}
	if firstReloaded.IsDefault {
		t.Fatalf("first variant should have lost the default flag")
	}
	// 其他商品的默认规格不受影响
	var siblingReloaded models.ProductVariant
	if err := db.First(&siblingReloaded, sibling.ID).Error; err != nil {
		t.Fatalf("reload sibling variant failed: %v", err)
	}
	if !siblingReloaded.IsDefault {
		t.Fatalf("sibling product default must be untouched")
	}
}

func TestSavedCartDefaultScopedByUser(t *testing.T) {
	db := setupDefaultFlagDB(t)
	repo := NewSavedCartRepository(db)

	first := &models.SavedCart{UserID: 1, Name: "Wishlist", IsDefault: true}
	if err := repo.Save(first); err != nil {
		t.Fatalf("save first list failed: %v", err)
	}
	second := &models.SavedCart{UserID: 1, Name: "Gifts", IsDefault: true}
	if err := repo.Save(second); err != nil {
		t.Fatalf("save second list failed: %v", err)
	}
	otherUser := &models.SavedCart{UserID: 2, Name: "Wishlist", IsDefault: true}
	if err := repo.Save(otherUser); err != nil {
		t.Fatalf("save other user list failed: %v", err)
	}

	if got := countDefaults(t, db, &models.SavedCart{}, map[string]interface{}{"user_id": 1}); got != 1 {
		t.Fatalf("user 1 defaults want 1 got %d", got)
	}
	var firstReloaded models.SavedCart
	if err := db.First(&firstReloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first list failed: %v", err)
	}
	if firstReloaded.IsDefault {
		t.Fatalf("first list should have lost the default flag")
	}
	var otherReloaded models.SavedCart
	if err := db.First(&otherReloaded, otherUser.ID).Error; err != nil {
		t.Fatalf("reload other user list failed: %v", err)
	}
	if !otherReloaded.IsDefault {
		t.Fatalf("other user default must be untouched")
	}
}
