package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// ProductService 商品业务服务
type ProductService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
	}
}

// SaveProductInput 创建/更新商品输入
type SaveProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	SKU         string
	Description string
	Price       string
	Quantity    int
	Condition   string
	Images      []string
	IsActive    bool
	SortOrder   int
}

// SaveVariantInput 创建/更新商品规格输入
type SaveVariantInput struct {
	Name      string
	SKU       string
	Price     *string // 为空沿用商品价格
	Quantity  int
	IsDefault bool
	IsActive  bool
	SortOrder int
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetBySlug 商品详情（对外仅展示上架商品）
func (s *ProductService) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug, onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 管理端商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input SaveProductInput) (*models.Product, error) {
	if err := s.validateProductInput(&input); err != nil {
		return nil, err
	}
	count, err := s.productRepo.CountBySlug(input.Slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	now := time.Now()
	product := models.Product{
		CategoryID:  input.CategoryID,
		Slug:        input.Slug,
		Name:        input.Name,
		SKU:         input.SKU,
		Description: input.Description,
		Price:       models.NewMoneyFromString(input.Price),
		Quantity:    input.Quantity,
		Condition:   input.Condition,
		Images:      models.StringArray(input.Images),
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input SaveProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.validateProductInput(&input); err != nil {
		return nil, err
	}

	count, err := s.productRepo.CountBySlug(input.Slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	product.CategoryID = input.CategoryID
	product.Slug = input.Slug
	product.Name = input.Name
	product.SKU = input.SKU
	product.Description = input.Description
	product.Price = models.NewMoneyFromString(input.Price)
	product.Quantity = input.Quantity
	product.Condition = input.Condition
	product.Images = models.StringArray(input.Images)
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// ListVariants 获取商品规格列表
func (s *ProductService) ListVariants(productID uint) ([]models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.variantRepo.ListByProduct(productID)
}

// CreateVariant 创建商品规格。默认标记与写入在同一事务内保证同商品至多一条默认。
func (s *ProductService) CreateVariant(productID uint, input SaveVariantInput) (*models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := validateVariantInput(&input); err != nil {
		return nil, err
	}

	now := time.Now()
	variant := models.ProductVariant{
		ProductID: productID,
		Name:      input.Name,
		SKU:       input.SKU,
		Price:     variantPrice(input.Price),
		Quantity:  input.Quantity,
		IsDefault: input.IsDefault,
		IsActive:  input.IsActive,
		SortOrder: input.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.variantRepo.WithTx(tx).Save(&variant)
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// UpdateVariant 更新商品规格
func (s *ProductService) UpdateVariant(productID, variantID uint, input SaveVariantInput) (*models.ProductVariant, error) {
	variant, err := s.variantRepo.GetByIDAndProduct(variantID, productID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantMismatch
	}
	if err := validateVariantInput(&input); err != nil {
		return nil, err
	}

	variant.Name = input.Name
	variant.SKU = input.SKU
	variant.Price = variantPrice(input.Price)
	variant.Quantity = input.Quantity
	variant.IsDefault = input.IsDefault
	variant.IsActive = input.IsActive
	variant.SortOrder = input.SortOrder
	variant.UpdatedAt = time.Now()

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.variantRepo.WithTx(tx).Save(variant)
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant 删除商品规格
func (s *ProductService) DeleteVariant(productID, variantID uint) error {
	variant, err := s.variantRepo.GetByIDAndProduct(variantID, productID)
	if err != nil {
		return err
	}
	if variant == nil {
		return ErrVariantMismatch
	}
	return s.variantRepo.Delete(variantID)
}

func (s *ProductService) validateProductInput(input *SaveProductInput) error {
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	input.Condition = strings.TrimSpace(strings.ToLower(input.Condition))
	if input.Condition == "" {
		input.Condition = constants.ProductConditionNew
	}

	fields := map[string]string{}
	if input.Slug == "" {
		fields["slug"] = "this field is required"
	}
	if input.Name == "" {
		fields["name"] = "this field is required"
	}
	if input.SKU == "" {
		fields["sku"] = "this field is required"
	}
	if !isValidProductCondition(input.Condition) {
		fields["condition"] = "invalid product condition"
	}
	if input.Quantity < 0 {
		fields["quantity"] = "must be zero or positive"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func validateVariantInput(input *SaveVariantInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)

	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "this field is required"
	}
	if input.SKU == "" {
		fields["sku"] = "this field is required"
	}
	if input.Quantity < 0 {
		fields["quantity"] = "must be zero or positive"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

func variantPrice(raw *string) *models.Money {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	price := models.NewMoneyFromString(*raw)
	return &price
}

func isValidProductCondition(condition string) bool {
	switch condition {
	case constants.ProductConditionNew, constants.ProductConditionUsed, constants.ProductConditionRefurbished:
		return true
	}
	return false
}
