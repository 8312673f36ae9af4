package admin

import (
	"errors"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

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

var adminOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, msg: "invalid status transition"},
	{target: service.ErrOrderAlreadyCancelled, code: response.CodeBadRequest, msg: "order already cancelled"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, msg: "order cannot be cancelled in its current status"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, msg: "order update failed"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, msg: "order fetch failed"},
}

var adminReviewErrorRules = []mappedHandlerError{
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, msg: "review not found"},
}

var adminCatalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
	{target: service.ErrCategoryHasProducts, code: response.CodeBadRequest, msg: "category still has products"},
	{target: service.ErrSlugTaken, code: response.CodeConflict, msg: "slug already taken"},
	{target: service.ErrVariantMismatch, code: response.CodeNotFound, msg: "variant not found for product"},
}
