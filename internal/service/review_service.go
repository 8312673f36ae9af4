package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReviewInput 发表评价输入
type CreateReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// ListByProduct 商品评价列表，对外仅展示审核通过的评价。
func (s *ReviewService) ListByProduct(productSlug string, page, pageSize int) ([]models.Review, int64, error) {
	product, err := s.productRepo.GetBySlug(productSlug, true)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, ErrProductNotFound
	}
	return s.reviewRepo.List(repository.ReviewListFilter{
		ProductID:    product.ID,
		OnlyApproved: true,
		Page:         page,
		PageSize:     pageSize,
	})
}

// ListPending 待审核评价列表（管理端）
func (s *ReviewService) ListPending(page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		OnlyPending: true,
		Page:        page,
		PageSize:    pageSize,
	})
}

// Create 发表评价。仅限已购买该商品的用户，且每人每商品一条；
// 新评价默认待审核，通过后才对外可见。
func (s *ReviewService) Create(productSlug string, userID uint, input CreateReviewInput) (*models.Review, error) {
	product, err := s.productRepo.GetBySlug(productSlug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := validateReviewInput(&input); err != nil {
		return nil, err
	}

	purchased, err := s.reviewRepo.HasPurchased(userID, product.ID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrReviewNotPurchased
	}

	existing, err := s.reviewRepo.GetByProductAndUser(product.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	now := time.Now()
	review := models.Review{
		ProductID:          product.ID,
		UserID:             userID,
		Rating:             input.Rating,
		Title:              input.Title,
		Comment:            input.Comment,
		IsApproved:         false,
		IsVerifiedPurchase: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.reviewRepo.Create(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Approve 审核通过评价（管理端）
func (s *ReviewService) Approve(reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.IsApproved {
		return review, nil
	}
	review.IsApproved = true
	review.UpdatedAt = time.Now()
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除本人评价
func (s *ReviewService) Delete(reviewID, userID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil || review.UserID != userID {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(reviewID)
}

// DeleteAdmin 删除任意评价（管理端）
func (s *ReviewService) DeleteAdmin(reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(reviewID)
}

func validateReviewInput(input *CreateReviewInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Comment = strings.TrimSpace(input.Comment)

	fields := map[string]string{}
	if input.Rating < 1 || input.Rating > 5 {
		fields["rating"] = "must be between 1 and 5"
	}
	if input.Title == "" {
		fields["title"] = "this field is required"
	}
	if input.Comment == "" {
		fields["comment"] = "this field is required"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
