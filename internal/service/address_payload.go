package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storefront-next/internal/models"

	"github.com/go-playground/validator/v10"
)

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// AddressPayload 结算地址输入（整单快照，不要求存在地址簿记录）
type AddressPayload struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Phone        string `json:"phone"`
	Address1     string `json:"address1" validate:"required"`
	Address2     string `json:"address2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string]string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError 创建字段级校验错误
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// validateAddressPayload 校验地址输入并收集字段错误（prefix 区分账单/收货地址）
func validateAddressPayload(prefix string, payload AddressPayload, fields map[string]string) {
	err := payloadValidator.Struct(payload)
	if err == nil {
		return
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields[prefix] = "invalid address payload"
		return
	}
	for _, fieldErr := range validationErrs {
		name := addressFieldJSONName(fieldErr.Field())
		fields[prefix+"."+name] = "this field is required"
	}
}

func addressFieldJSONName(structField string) string {
	switch structField {
	case "FirstName":
		return "first_name"
	case "LastName":
		return "last_name"
	case "Address1":
		return "address1"
	case "Address2":
		return "address2"
	case "PostalCode":
		return "postal_code"
	default:
		return strings.ToLower(structField)
	}
}

// ToJSON 转换为订单地址快照
func (p AddressPayload) ToJSON() models.JSON {
	return models.JSON{
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"phone":       p.Phone,
		"address1":    p.Address1,
		"address2":    p.Address2,
		"city":        p.City,
		"state":       p.State,
		"postal_code": p.PostalCode,
		"country":     p.Country,
	}
}
