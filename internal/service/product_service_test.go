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

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB, *models.Category) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	category := models.Category{Slug: "gadgets", Name: "Gadgets", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		repository.NewCategoryRepository(db),
	)
	return svc, db, &category
}

func productInput(categoryID uint, slug string) SaveProductInput {
	return SaveProductInput{
		CategoryID: categoryID,
		Slug:       slug,
		Name:       "Desk Lamp",
		SKU:        "PRD-" + slug,
		Price:      "35.00",
		Quantity:   12,
		Condition:  constants.ProductConditionNew,
		IsActive:   true,
	}
}

func TestProductCreateNormalizesInput(t *testing.T) {
	svc, _, category := setupProductServiceTest(t)

	input := productInput(category.ID, "desk-lamp")
	input.Slug = "  Desk-Lamp "
	input.Condition = " NEW "
	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Slug != "desk-lamp" {
		t.Fatalf("slug should be normalized, got %q", product.Slug)
	}
	if product.Condition != constants.ProductConditionNew {
		t.Fatalf("condition should be normalized, got %q", product.Condition)
	}
	if product.Price.String() != "35.00" {
		t.Fatalf("price want 35.00 got %s", product.Price.String())
	}
}

func TestProductCreateValidation(t *testing.T) {
	svc, _, category := setupProductServiceTest(t)

	_, err := svc.Create(SaveProductInput{CategoryID: category.ID, Condition: "antique", Quantity: -1})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	for _, field := range []string{"slug", "name", "sku"} {
		if validationErr.Fields[field] != "this field is required" {
			t.Fatalf("field %s should be required, fields: %v", field, validationErr.Fields)
		}
	}
	if validationErr.Fields["condition"] != "invalid product condition" {
		t.Fatalf("condition error missing, fields: %v", validationErr.Fields)
	}
	if validationErr.Fields["quantity"] != "must be zero or positive" {
		t.Fatalf("quantity error missing, fields: %v", validationErr.Fields)
	}

	// 空成色回退为 new
	blank := productInput(category.ID, "blank-condition")
	blank.Condition = ""
	product, err := svc.Create(blank)
	if err != nil {
		t.Fatalf("create with blank condition failed: %v", err)
	}
	if product.Condition != constants.ProductConditionNew {
		t.Fatalf("blank condition should default to new, got %q", product.Condition)
	}

	missingCategory := productInput(category.ID+1000, "orphan")
	if _, err := svc.Create(missingCategory); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("missing category want ErrCategoryNotFound got %v", err)
	}
}

func TestProductSlugConflict(t *testing.T) {
	svc, _, category := setupProductServiceTest(t)

	if _, err := svc.Create(productInput(category.ID, "first")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dup := productInput(category.ID, "first")
	dup.SKU = "PRD-other"
	if _, err := svc.Create(dup); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("duplicate slug want ErrSlugTaken got %v", err)
	}

	second, err := svc.Create(productInput(category.ID, "second"))
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	// 更新时沿用自己的 slug 不冲突
	if _, err := svc.Update(second.ID, productInput(category.ID, "second")); err != nil {
		t.Fatalf("update with own slug failed: %v", err)
	}
	steal := productInput(category.ID, "first")
	if _, err := svc.Update(second.ID, steal); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("stealing slug want ErrSlugTaken got %v", err)
	}
}

func TestProductGetBySlugOnlyActive(t *testing.T) {
	svc, _, category := setupProductServiceTest(t)

	input := productInput(category.ID, "hidden-lamp")
	input.IsActive = false
	if _, err := svc.Create(input); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.GetBySlug("hidden-lamp", true); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product on public path want ErrProductNotFound got %v", err)
	}
	product, err := svc.GetBySlug("hidden-lamp", false)
	if err != nil {
		t.Fatalf("admin path should see inactive product, got %v", err)
	}
	if product.IsActive {
		t.Fatalf("product should be inactive")
	}
}

func TestVariantLifecycle(t *testing.T) {
	svc, db, category := setupProductServiceTest(t)

	product, err := svc.Create(productInput(category.ID, "variant-host"))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	overridePrice := "39.00"
	first, err := svc.CreateVariant(product.ID, SaveVariantInput{
		Name: "Walnut", SKU: "VAR-WAL", Price: &overridePrice, Quantity: 3, IsDefault: true, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	if first.Price == nil || first.Price.String() != "39.00" {
		t.Fatalf("variant price want 39.00 got %+v", first.Price)
	}

	// 第二个默认规格接管默认标记
	second, err := svc.CreateVariant(product.ID, SaveVariantInput{
		Name: "Oak", SKU: "VAR-OAK", Quantity: 5, IsDefault: true, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create second variant failed: %v", err)
	}
	if second.Price != nil {
		t.Fatalf("empty price should fall back to product price, got %+v", second.Price)
	}
	var firstReloaded models.ProductVariant
	if err := db.First(&firstReloaded, first.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if firstReloaded.IsDefault {
		t.Fatalf("first variant should have lost the default flag")
	}

	variants, err := svc.ListVariants(product.ID)
	if err != nil {
		t.Fatalf("list variants failed: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("variants want 2 got %d", len(variants))
	}

	// 规格必须归属商品
	otherProduct, err := svc.Create(productInput(category.ID, "other-host"))
	if err != nil {
		t.Fatalf("create other product failed: %v", err)
	}
	if _, err := svc.UpdateVariant(otherProduct.ID, first.ID, SaveVariantInput{Name: "X", SKU: "VAR-X"}); !errors.Is(err, ErrVariantMismatch) {
		t.Fatalf("foreign variant update want ErrVariantMismatch got %v", err)
	}
	if err := svc.DeleteVariant(otherProduct.ID, first.ID); !errors.Is(err, ErrVariantMismatch) {
		t.Fatalf("foreign variant delete want ErrVariantMismatch got %v", err)
	}

	if err := svc.DeleteVariant(product.ID, first.ID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}
	variants, err = svc.ListVariants(product.ID)
	if err != nil {
		t.Fatalf("list variants failed: %v", err)
	}
	if len(variants) != 1 {
		t.Fatalf("variants after delete want 1 got %d", len(variants))
	}
}

func TestVariantDefaultSurvivesFailedSave(t *testing.T) {
	svc, db, category := setupProductServiceTest(t)

	product, err := svc.Create(productInput(category.ID, "default-keeper"))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	first, err := svc.CreateVariant(product.ID, SaveVariantInput{
		Name: "Red", SKU: "VAR-RED", Quantity: 2, IsDefault: true, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	// SKU 唯一索引使插入失败，默认标记清除必须随事务一起回滚
	if _, err := svc.CreateVariant(product.ID, SaveVariantInput{
		Name: "Crimson", SKU: "VAR-RED", Quantity: 1, IsDefault: true, IsActive: true,
	}); err == nil {
		t.Fatalf("duplicate sku should fail")
	}

	var reloaded models.ProductVariant
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if !reloaded.IsDefault {
		t.Fatalf("existing default should survive the failed save")
	}

	var count int64
	if err := db.Model(&models.ProductVariant{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count variants failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("variants want 1 got %d", count)
	}
}

func TestProductListFilters(t *testing.T) {
	svc, db, category := setupProductServiceTest(t)

	other := models.Category{Slug: "office", Name: "Office", IsActive: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	seeds := []SaveProductInput{
		productInput(category.ID, "lamp-alpha"),
		productInput(category.ID, "lamp-beta"),
		productInput(other.ID, "stapler"),
	}
	seeds[1].IsActive = false
	seeds[1].SKU = "PRD-beta"
	seeds[2].Name = "Heavy Stapler"
	seeds[2].SKU = "PRD-stapler"
	for _, seed := range seeds {
		if _, err := svc.Create(seed); err != nil {
			t.Fatalf("create %s failed: %v", seed.Slug, err)
		}
	}

	_, total, err := svc.List(repository.ProductListFilter{Page: 1, OnlyActive: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("active products want 2 got %d", total)
	}

	_, total, err = svc.List(repository.ProductListFilter{Page: 1, CategoryID: other.ID})
	if err != nil {
		t.Fatalf("category list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("category filter want 1 got %d", total)
	}

	rows, total, err := svc.List(repository.ProductListFilter{Page: 1, Search: "stapler"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || rows[0].Slug != "stapler" {
		t.Fatalf("search want stapler got total=%d rows=%+v", total, rows)
	}
}
