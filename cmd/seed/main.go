package main

import (
	"fmt"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "electronics", Name: "Electronics", Description: "Phones, audio and smart devices", IsActive: true, SortOrder: 300},
		{Slug: "lifestyle", Name: "Lifestyle", Description: "Everyday essentials", IsActive: true, SortOrder: 200},
		{Slug: "accessories", Name: "Accessories", Description: "Chargers, cables and more", IsActive: true, SortOrder: 100},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"electronics", "lifestyle", "accessories"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	electronicsID := categoryIDs["electronics"]
	lifestyleID := categoryIDs["lifestyle"]
	accessoriesID := categoryIDs["accessories"]

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  electronicsID,
			Slug:        "wireless-earphones",
			Name:        "Wireless Bluetooth Earphones",
			SKU:         "SF-EAR-001",
			Description: "High quality sound, long battery life, comfortable to wear",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Quantity:    120,
			Condition:   "new",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			IsActive:  true,
			SortOrder: 400,
		},
		{
			CategoryID:  electronicsID,
			Slug:        "smart-watch",
			Name:        "Smart Watch",
			SKU:         "SF-WAT-001",
			Description: "Health monitoring, fitness tracking, message notifications",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			Quantity:    60,
			Condition:   "new",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
			}),
			IsActive:  true,
			SortOrder: 380,
		},
		{
			CategoryID:  accessoriesID,
			Slug:        "power-bank",
			Name:        "Portable Power Bank",
			SKU:         "SF-PWR-001",
			Description: "High capacity, fast charging, multi-device compatible",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			Quantity:    200,
			Condition:   "new",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800",
			}),
			IsActive:  true,
			SortOrder: 360,
		},
		{
			CategoryID:  lifestyleID,
			Slug:        "backpack",
			Name:        "Multi-function Backpack",
			SKU:         "SF-BAG-001",
			Description: "Large capacity, waterproof and anti-theft, USB charging port",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			Quantity:    80,
			Condition:   "new",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
			}),
			IsActive:  true,
			SortOrder: 340,
		},
		{
			CategoryID:  accessoriesID,
			Slug:        "refurbished-tablet",
			Name:        "Refurbished 10-inch Tablet",
			SKU:         "SF-TAB-001",
			Description: "Certified refurbished, 12-month warranty",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(149.00)),
			Quantity:    15,
			Condition:   "refurbished",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=800",
			}),
			IsActive:  true,
			SortOrder: 320,
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.CategoryID = prod.CategoryID
			existing.Name = prod.Name
			existing.SKU = prod.SKU
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.Quantity = prod.Quantity
			existing.Condition = prod.Condition
			existing.Images = prod.Images
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	// 为耳机与手表准备规格
	blackPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(109.99))
	variantPlans := []struct {
		ProductSlug string
		Variant     models.ProductVariant
	}{
		{ProductSlug: "wireless-earphones", Variant: models.ProductVariant{Name: "White", SKU: "SF-EAR-001-WHT", Quantity: 70, IsDefault: true, IsActive: true, SortOrder: 200}},
		{ProductSlug: "wireless-earphones", Variant: models.ProductVariant{Name: "Black", SKU: "SF-EAR-001-BLK", Price: &blackPrice, Quantity: 50, IsActive: true, SortOrder: 100}},
		{ProductSlug: "smart-watch", Variant: models.ProductVariant{Name: "44mm", SKU: "SF-WAT-001-44", Quantity: 35, IsDefault: true, IsActive: true, SortOrder: 200}},
		{ProductSlug: "smart-watch", Variant: models.ProductVariant{Name: "40mm", SKU: "SF-WAT-001-40", Quantity: 25, IsActive: true, SortOrder: 100}},
	}

	for _, plan := range variantPlans {
		var product models.Product
		if err := models.DB.Where("slug = ?", plan.ProductSlug).First(&product).Error; err != nil {
			stdLog.Printf("Skip variant seed for %s: product not found", plan.ProductSlug)
			continue
		}
		variant := plan.Variant
		variant.ProductID = product.ID

		var existing models.ProductVariant
		if err := models.DB.Where("product_id = ? AND sku = ?", product.ID, variant.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&variant).Error; err != nil {
				stdLog.Printf("Failed to create variant %s: %v", variant.SKU, err)
			} else {
				stdLog.Printf("Created variant: %s", variant.SKU)
			}
		} else {
			existing.Name = variant.Name
			existing.Price = variant.Price
			existing.Quantity = variant.Quantity
			existing.IsDefault = variant.IsDefault
			existing.IsActive = variant.IsActive
			existing.SortOrder = variant.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update variant %s: %v", variant.SKU, err)
			} else {
				stdLog.Printf("Updated variant: %s", variant.SKU)
			}
		}
	}

	fmt.Println("\nSeed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 5 Products")
	fmt.Println("- 4 Variants")
}
