package service

import "errors"

// 服务层哨兵错误，处理器通过 errors.Is 映射为响应码
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderStatusInvalid    = errors.New("order status invalid")
	ErrOrderCancelNotAllowed = errors.New("order cancel not allowed")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrOrderNumberExhausted  = errors.New("order number attempts exhausted")

	ErrCartNotFound     = errors.New("cart not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrQuantityInvalid  = errors.New("quantity invalid")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrVariantMismatch     = errors.New("variant does not belong to product")
	ErrSlugTaken           = errors.New("slug already taken")

	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryHasProducts = errors.New("category has products")

	ErrSavedCartNotFound     = errors.New("saved cart not found")
	ErrSavedCartItemNotFound = errors.New("saved cart item not found")

	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewExists       = errors.New("review already exists")
	ErrReviewNotPurchased = errors.New("product not purchased")

	ErrAddressNotFound    = errors.New("address not found")
	ErrAddressTypeInvalid = errors.New("address type invalid")

	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailInvalid       = errors.New("email invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrPasswordIncorrect  = errors.New("password incorrect")
	ErrTokenInvalid       = errors.New("token invalid")
)
