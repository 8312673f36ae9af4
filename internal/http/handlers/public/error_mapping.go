package public

import (
	"errors"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 将服务层错误映射为接口响应。字段级校验错误
// 统一以 data.fields 返回。
func respondServiceError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, "validation failed", gin.H{"fields": validationErr.Fields})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "quantity must be at least 1"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrVariantMismatch, code: response.CodeBadRequest, msg: "variant does not belong to product"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrOrderNumberExhausted, code: response.CodeInternal, msg: "order create failed"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderAlreadyCancelled, code: response.CodeBadRequest, msg: "order already cancelled"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, msg: "order cannot be cancelled in its current status"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, msg: "order update failed"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, msg: "order fetch failed"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address not found"},
	{target: service.ErrAddressTypeInvalid, code: response.CodeBadRequest, msg: "invalid address type"},
}

var wishlistErrorRules = []mappedHandlerError{
	{target: service.ErrSavedCartNotFound, code: response.CodeNotFound, msg: "wishlist not found"},
	{target: service.ErrSavedCartItemNotFound, code: response.CodeNotFound, msg: "wishlist item not found"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "quantity must be at least 1"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrVariantMismatch, code: response.CodeBadRequest, msg: "variant does not belong to product"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, msg: "review not found"},
	{target: service.ErrReviewExists, code: response.CodeConflict, msg: "product already reviewed"},
	{target: service.ErrReviewNotPurchased, code: response.CodeBadRequest, msg: "only purchased products can be reviewed"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrEmailInvalid, code: response.CodeBadRequest, msg: "invalid email"},
	{target: service.ErrEmailTaken, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password does not meet policy"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "account disabled"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrPasswordIncorrect, code: response.CodeBadRequest, msg: "current password incorrect"},
}
