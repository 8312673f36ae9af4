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

func setupCategoryServiceTest(t *testing.T) (*CategoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:category_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCategoryCreateNormalizesSlug(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	category, err := svc.Create(SaveCategoryInput{Slug: "  Electronics ", Name: " Electronics ", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if category.Slug != "electronics" {
		t.Fatalf("slug should be lowercased and trimmed, got %q", category.Slug)
	}
	if category.Name != "Electronics" {
		t.Fatalf("name should be trimmed, got %q", category.Name)
	}
}

func TestCategoryCreateValidationAndSlugConflict(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	_, err := svc.Create(SaveCategoryInput{})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	if validationErr.Fields["slug"] == "" || validationErr.Fields["name"] == "" {
		t.Fatalf("slug and name should be required, fields: %v", validationErr.Fields)
	}

	if _, err := svc.Create(SaveCategoryInput{Slug: "books", Name: "Books", IsActive: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(SaveCategoryInput{Slug: "Books", Name: "Books Again"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("duplicate slug want ErrSlugTaken got %v", err)
	}
}

func TestCategoryUpdateKeepsOwnSlug(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	category, err := svc.Create(SaveCategoryInput{Slug: "music", Name: "Music", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other, err := svc.Create(SaveCategoryInput{Slug: "movies", Name: "Movies", IsActive: true})
	if err != nil {
		t.Fatalf("create other failed: %v", err)
	}

	// 自己的 slug 不算冲突
	updated, err := svc.Update(category.ID, SaveCategoryInput{Slug: "music", Name: "Music & Audio", IsActive: true})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Music & Audio" {
		t.Fatalf("name want Music & Audio got %q", updated.Name)
	}

	if _, err := svc.Update(category.ID, SaveCategoryInput{Slug: other.Slug, Name: "Music"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("foreign slug want ErrSlugTaken got %v", err)
	}
	if _, err := svc.Update(category.ID+1000, SaveCategoryInput{Slug: "x", Name: "X"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("missing category want ErrCategoryNotFound got %v", err)
	}
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	svc, db := setupCategoryServiceTest(t)

	category, err := svc.Create(SaveCategoryInput{Slug: "games", Name: "Games", IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	product := models.Product{
		CategoryID: category.ID,
		Slug:       "chess-set",
		Name:       "Chess Set",
		SKU:        "CAT-CHS-001",
		Price:      models.NewMoneyFromString("30.00"),
		Condition:  constants.ProductConditionNew,
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if err := svc.Delete(category.ID); !errors.Is(err, ErrCategoryHasProducts) {
		t.Fatalf("delete with products want ErrCategoryHasProducts got %v", err)
	}

	if err := db.Delete(&product).Error; err != nil {
		t.Fatalf("remove product failed: %v", err)
	}
	if err := svc.Delete(category.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetBySlug("games"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("deleted category want ErrCategoryNotFound got %v", err)
	}
}
