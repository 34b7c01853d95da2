package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
)

// VendorRepository 供应商仓储
type VendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓储
func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// Create 创建供应商
func (r *VendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// FindByID 根据 ID 查询供应商
func (r *VendorRepository) FindByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByIDs 批量查询供应商
func (r *VendorRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Vendor, error) {
	var vendors []entity.Vendor
	if len(ids) == 0 {
		return vendors, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error
	return vendors, err
}

// FindAll 分页查询供应商列表
func (r *VendorRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	var vendors []entity.Vendor
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Vendor{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if country := filters["country"]; country != "" {
		query = query.Where("country = ?", country)
	}
	if industry := filters["industry"]; industry != "" {
		query = query.Where("industry = ?", industry)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").
		Find(&vendors).Error
	return vendors, total, err
}

// Update 更新供应商
func (r *VendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// Delete 删除供应商
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateCode 生成供应商编码 VDR-0001
func (r *VendorRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).Model(&entity.Vendor{}).
		Select("COALESCE(MAX(code), 'VDR-0000')").
		Where("code LIKE 'VDR-%'").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if _, err := fmt.Sscanf(maxCode, "VDR-%04d", &seq); err != nil {
		seq = 0
	}
	return fmt.Sprintf("VDR-%04d", seq+1), nil
}
