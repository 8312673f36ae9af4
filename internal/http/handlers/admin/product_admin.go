package admin

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品保存请求
type ProductRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	SKU         string   `json:"sku" binding:"required"`
	Description string   `json:"description"`
	Price       string   `json:"price" binding:"required"`
	Quantity    int      `json:"quantity"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
	IsActive    bool     `json:"is_active"`
	SortOrder   int      `json:"sort_order"`
}

func (r ProductRequest) toInput() service.SaveProductInput {
	return service.SaveProductInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Condition:   r.Condition,
		Images:      r.Images,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// AdminListProducts 管理端商品列表（含下架商品）
func (h *Handler) AdminListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       search,
		WithCategory: true,
		WithVariants: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// AdminGetProduct 管理端商品详情
func (h *Handler) AdminGetProduct(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(productID)
	if err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, product)
}

// AdminCreateProduct 创建商品
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "product save failed")
		return
	}
	response.Success(c, product)
}

// AdminUpdateProduct 更新商品
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Update(productID, req.toInput())
	if err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "product save failed")
		return
	}
	response.Success(c, product)
}

// AdminDeleteProduct 删除商品
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(productID); err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "product delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// VariantRequest 商品规格保存请求
type VariantRequest struct {
	Name      string  `json:"name" binding:"required"`
	SKU       string  `json:"sku" binding:"required"`
	Price     *string `json:"price"`
	Quantity  int     `json:"quantity"`
	IsDefault bool    `json:"is_default"`
	IsActive  bool    `json:"is_active"`
	SortOrder int     `json:"sort_order"`
}

func (r VariantRequest) toInput() service.SaveVariantInput {
	return service.SaveVariantInput{
		Name:      r.Name,
		SKU:       r.SKU,
		Price:     r.Price,
		Quantity:  r.Quantity,
		IsDefault: r.IsDefault,
		IsActive:  r.IsActive,
		SortOrder: r.SortOrder,
	}
}

// AdminListVariants 管理端商品规格列表
func (h *Handler) AdminListVariants(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	variants, err := h.ProductService.ListVariants(productID)
	if err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "variant fetch failed")
		return
	}
	response.Success(c, variants)
}

// AdminCreateVariant 创建商品规格
func (h *Handler) AdminCreateVariant(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	variant, err := h.ProductService.CreateVariant(productID, req.toInput())
	if err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "variant save failed")
		return
	}
	response.Success(c, variant)
}

// AdminUpdateVariant 更新商品规格
func (h *Handler) AdminUpdateVariant(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	variantID, ok := paramUint(c, "variant_id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	variant, err := h.ProductService.UpdateVariant(productID, variantID, req.toInput())
	if err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "variant save failed")
		return
	}
	response.Success(c, variant)
}

// AdminDeleteVariant 删除商品规格
func (h *Handler) AdminDeleteVariant(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	variantID, ok := paramUint(c, "variant_id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteVariant(productID, variantID); err != nil {
		respondServiceError(c, err, adminCatalogErrorRules, response.CodeInternal, "variant delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
