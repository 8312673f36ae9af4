package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// SaveAddressInput 地址保存输入
type SaveAddressInput struct {
	AddressType  string
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	IsDefault    bool
}

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// ListByUser 获取用户地址列表
func (s *AddressService) ListByUser(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// GetByIDAndUser 获取用户地址详情
func (s *AddressService) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 创建地址。默认标记与写入在同一事务内保证同类型至多一条默认。
func (s *AddressService) Create(userID uint, input SaveAddressInput) (*models.Address, error) {
	address, err := buildAddress(userID, input)
	if err != nil {
		return nil, err
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.addressRepo.WithTx(tx).Save(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新地址
func (s *AddressService) Update(id, userID uint, input SaveAddressInput) (*models.Address, error) {
	existing, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrAddressNotFound
	}

	address, err := buildAddress(userID, input)
	if err != nil {
		return nil, err
	}
	address.ID = existing.ID
	address.CreatedAt = existing.CreatedAt

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.addressRepo.WithTx(tx).Save(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete 删除地址
func (s *AddressService) Delete(id, userID uint) error {
	existing, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.Delete(id, userID)
}

// SetDefault 将地址设为同类型默认地址
func (s *AddressService) SetDefault(id, userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	address.IsDefault = true
	address.UpdatedAt = time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.addressRepo.WithTx(tx).Save(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func buildAddress(userID uint, input SaveAddressInput) (*models.Address, error) {
	addressType := strings.TrimSpace(input.AddressType)
	if addressType == "" {
		addressType = models.AddressTypeHome
	}
	if !models.ValidAddressType(addressType) {
		return nil, ErrAddressTypeInvalid
	}

	fields := map[string]string{}
	if strings.TrimSpace(input.FullName) == "" {
		fields["full_name"] = "this field is required"
	}
	if strings.TrimSpace(input.AddressLine1) == "" {
		fields["address_line1"] = "this field is required"
	}
	if strings.TrimSpace(input.City) == "" {
		fields["city"] = "this field is required"
	}
	if strings.TrimSpace(input.PostalCode) == "" {
		fields["postal_code"] = "this field is required"
	}
	if strings.TrimSpace(input.Country) == "" {
		fields["country"] = "this field is required"
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	now := time.Now()
	return &models.Address{
		UserID:       userID,
		AddressType:  addressType,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: strings.TrimSpace(input.AddressLine2),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Country:      strings.TrimSpace(input.Country),
		IsDefault:    input.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
