package public

import (
	"strconv"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 发表评价请求
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ListProductReviews 获取商品评价列表（仅审核通过）
func (h *Handler) ListProductReviews(c *gin.Context) {
	slug := c.Param("slug")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByProduct(slug, page, pageSize)
	if err != nil {
		respondServiceError(c, err, reviewErrorRules, response.CodeInternal, "review fetch failed")
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, reviews, pagination)
}

// CreateProductReview 发表商品评价
func (h *Handler) CreateProductReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	slug := c.Param("slug")
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	review, err := h.ReviewService.Create(slug, userID, service.CreateReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		respondServiceError(c, err, reviewErrorRules, response.CodeInternal, "review save failed")
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除本人评价
func (h *Handler) DeleteReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(reviewID, userID); err != nil {
		respondServiceError(c, err, reviewErrorRules, response.CodeInternal, "review delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
