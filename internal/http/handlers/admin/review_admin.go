package admin

import (
	"strconv"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminListPendingReviews 待审核评价列表
func (h *Handler) AdminListPendingReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListPending(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "review fetch failed", err)
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

// AdminApproveReview 审核通过评价
func (h *Handler) AdminApproveReview(c *gin.Context) {
	reviewID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	review, err := h.ReviewService.Approve(reviewID)
	if err != nil {
		respondServiceError(c, err, adminReviewErrorRules, response.CodeInternal, "review update failed")
		return
	}
	response.Success(c, review)
}

// AdminDeleteReview 删除评价
func (h *Handler) AdminDeleteReview(c *gin.Context) {
	reviewID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.DeleteAdmin(reviewID); err != nil {
		respondServiceError(c, err, adminReviewErrorRules, response.CodeInternal, "review delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
