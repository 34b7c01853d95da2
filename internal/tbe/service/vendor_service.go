package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/repository"
)

// VendorService 供应商服务
type VendorService struct {
	repo *repository.VendorRepository
}

// NewVendorService 创建供应商服务
func NewVendorService(repo *repository.VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name           string   `json:"name" binding:"required"`
	Country        string   `json:"country"`
	Industry       string   `json:"industry"`
	ContactName    string   `json:"contact_name"`
	ContactEmail   string   `json:"contact_email"`
	ContactPhone   string   `json:"contact_phone"`
	ISOStandards   []string `json:"iso_standards"`
	Certifications []string `json:"certifications"`
	QualityRating  *float64 `json:"quality_rating"`
	Remark         string   `json:"remark"`
}

// UpdateVendorRequest 更新供应商请求
type UpdateVendorRequest struct {
	Name           *string  `json:"name"`
	Country        *string  `json:"country"`
	Industry       *string  `json:"industry"`
	Status         *string  `json:"status"`
	ContactName    *string  `json:"contact_name"`
	ContactEmail   *string  `json:"contact_email"`
	ContactPhone   *string  `json:"contact_phone"`
	ISOStandards   []string `json:"iso_standards"`
	Certifications []string `json:"certifications"`
	QualityRating  *float64 `json:"quality_rating"`
	Remark         *string  `json:"remark"`
}

// Create 创建供应商, 自动生成编码
func (s *VendorService) Create(ctx context.Context, req *CreateVendorRequest, createdBy string) (*entity.Vendor, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	vendor := &entity.Vendor{
		ID:             uuid.New().String()[:32],
		Code:           code,
		Name:           req.Name,
		Country:        req.Country,
		Industry:       req.Industry,
		Status:         entity.VendorStatusActive,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		ISOStandards:   req.ISOStandards,
		Certifications: req.Certifications,
		QualityRating:  req.QualityRating,
		Remark:         req.Remark,
		CreatedBy:      createdBy,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Get 查询供应商详情
func (s *VendorService) Get(ctx context.Context, id string) (*entity.Vendor, error) {
	return s.repo.FindByID(ctx, id)
}

// List 分页查询供应商
func (s *VendorService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Update 更新供应商
func (s *VendorService) Update(ctx context.Context, id string, req *UpdateVendorRequest) (*entity.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		switch *req.Status {
		case entity.VendorStatusActive, entity.VendorStatusSuspended, entity.VendorStatusBlacklisted:
			vendor.Status = *req.Status
		default:
			return nil, errors.New("无效的供应商状态")
		}
	}
	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Country != nil {
		vendor.Country = *req.Country
	}
	if req.Industry != nil {
		vendor.Industry = *req.Industry
	}
	if req.ContactName != nil {
		vendor.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		vendor.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		vendor.ContactPhone = *req.ContactPhone
	}
	if req.ISOStandards != nil {
		vendor.ISOStandards = req.ISOStandards
	}
	if req.Certifications != nil {
		vendor.Certifications = req.Certifications
	}
	if req.QualityRating != nil {
		vendor.QualityRating = req.QualityRating
	}
	if req.Remark != nil {
		vendor.Remark = *req.Remark
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete 删除供应商
func (s *VendorService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
