package public

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址保存请求
type AddressRequest struct {
	AddressType  string `json:"address_type"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.SaveAddressInput {
	return service.SaveAddressInput{
		AddressType:  r.AddressType,
		FullName:     r.FullName,
		Phone:        r.Phone,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		IsDefault:    r.IsDefault,
	}
}

// ListAddresses 获取当前用户地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.ListByUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "address fetch failed", err)
		return
	}
	response.Success(c, addresses)
}

// GetAddress 获取地址详情
func (h *Handler) GetAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	address, err := h.AddressService.GetByIDAndUser(addressID, userID)
	if err != nil {
		respondServiceError(c, err, addressErrorRules, response.CodeInternal, "address fetch failed")
		return
	}
	response.Success(c, address)
}

// CreateAddress 创建地址
func (h *Handler) CreateAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	address, err := h.AddressService.Create(userID, req.toInput())
	if err != nil {
		respondServiceError(c, err, addressErrorRules, response.CodeInternal, "address save failed")
		return
	}
	response.Success(c, address)
}

// UpdateAddress 更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	address, err := h.AddressService.Update(addressID, userID, req.toInput())
	if err != nil {
		respondServiceError(c, err, addressErrorRules, response.CodeInternal, "address save failed")
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(addressID, userID); err != nil {
		respondServiceError(c, err, addressErrorRules, response.CodeInternal, "address delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// SetDefaultAddress 将地址设为同类型默认
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	address, err := h.AddressService.SetDefault(addressID, userID)
	if err != nil {
		respondServiceError(c, err, addressErrorRules, response.CodeInternal, "address save failed")
		return
	}
	response.Success(c, address)
}
