package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCart 获取当前用户购物车
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetOrCreateByUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "cart fetch failed", err)
		return
	}
	response.Success(c, cart)
}

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID      uint  `json:"product_id" binding:"required"`
	VariantID      *uint `json:"variant_id"`
	Quantity       int   `json:"quantity" binding:"required"`
	UpdateQuantity bool  `json:"update_quantity"`
}

// AddCartItem 添加购物车项
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	cart, err := h.CartService.AddItem(userID, service.AddCartItemInput{
		ProductID:      req.ProductID,
		VariantID:      req.VariantID,
		Quantity:       req.Quantity,
		UpdateQuantity: req.UpdateQuantity,
	})
	if err != nil {
		respondServiceError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, cart)
}

// UpdateCartItemRequest 更新购物车项请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateCartItem 更新购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	cart, err := h.CartService.UpdateItemQuantity(userID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, cart)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(userID, itemID); err != nil {
		respondServiceError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(userID); err != nil {
		respondError(c, response.CodeInternal, "cart update failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// MergeCartRequest 会话购物车合并请求
type MergeCartRequest struct {
	SessionKey string `json:"session_key" binding:"required"`
}

// MergeCart 将匿名会话购物车并入当前用户购物车
func (h *Handler) MergeCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	sessionKey := strings.TrimSpace(req.SessionKey)
	if sessionKey == "" {
		respondError(c, response.CodeBadRequest, "session_key required", nil)
		return
	}
	cart, err := h.CartService.MergeSessionCart(sessionKey, userID)
	if err != nil {
		respondServiceError(c, err, cartErrorRules, response.CodeInternal, "cart merge failed")
		return
	}
	response.Success(c, cart)
}
