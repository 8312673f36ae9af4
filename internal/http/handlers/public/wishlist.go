package public

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// WishlistRequest 收藏清单保存请求
type WishlistRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// ListWishlists 获取当前用户收藏清单列表
func (h *Handler) ListWishlists(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlists, err := h.WishlistService.ListByUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "wishlist fetch failed", err)
		return
	}
	response.Success(c, wishlists)
}

// GetWishlist 获取收藏清单详情
func (h *Handler) GetWishlist(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlistID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	wishlist, err := h.WishlistService.GetByIDAndUser(wishlistID, userID)
	if err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist fetch failed")
		return
	}
	response.Success(c, wishlist)
}

// CreateWishlist 创建收藏清单
func (h *Handler) CreateWishlist(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	wishlist, err := h.WishlistService.Create(userID, req.Name, req.IsDefault)
	if err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist save failed")
		return
	}
	response.Success(c, wishlist)
}

// UpdateWishlist 更新收藏清单
func (h *Handler) UpdateWishlist(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlistID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	wishlist, err := h.WishlistService.Update(wishlistID, userID, req.Name, req.IsDefault)
	if err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist save failed")
		return
	}
	response.Success(c, wishlist)
}

// DeleteWishlist 删除收藏清单
func (h *Handler) DeleteWishlist(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlistID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.WishlistService.Delete(wishlistID, userID); err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddWishlistItemRequest 添加清单项请求
type AddWishlistItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// AddWishlistItem 添加清单项
func (h *Handler) AddWishlistItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlistID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	item, err := h.WishlistService.AddItem(wishlistID, userID, service.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist save failed")
		return
	}
	response.Success(c, item)
}

// RemoveWishlistItem 删除清单项
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlistID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "item_id")
	if !ok {
		return
	}
	if err := h.WishlistService.RemoveItem(wishlistID, itemID, userID); err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist delete failed")
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// MoveWishlistItemToCart 将清单项移入购物车
func (h *Handler) MoveWishlistItemToCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	wishlistID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "item_id")
	if !ok {
		return
	}
	if err := h.WishlistService.MoveToCart(wishlistID, itemID, userID); err != nil {
		respondServiceError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist move failed")
		return
	}
	response.Success(c, gin.H{"moved": true})
}
