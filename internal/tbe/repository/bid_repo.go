package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
)

// BidRepository 投标报价仓储
type BidRepository struct {
	db *gorm.DB
}

// NewBidRepository 创建投标报价仓储
func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create 创建报价
func (r *BidRepository) Create(ctx context.Context, bid *entity.VendorBid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// FindByID 根据 ID 查询报价
func (r *BidRepository) FindByID(ctx context.Context, id string) (*entity.VendorBid, error) {
	var bid entity.VendorBid
	err := r.db.WithContext(ctx).Preload("Vendor").First(&bid, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bid, nil
}

// FindByEvaluation 查询评估下的全部报价
func (r *BidRepository) FindByEvaluation(ctx context.Context, evaluationID string) ([]entity.VendorBid, error) {
	var bids []entity.VendorBid
	err := r.db.WithContext(ctx).Preload("Vendor").
		Where("evaluation_id = ?", evaluationID).
		Order("created_at ASC").
		Find(&bids).Error
	return bids, err
}

// FindByVendorAndEvaluation 查询供应商在某评估下的报价
func (r *BidRepository) FindByVendorAndEvaluation(ctx context.Context, vendorID, evaluationID string) (*entity.VendorBid, error) {
	var bid entity.VendorBid
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND evaluation_id = ?", vendorID, evaluationID).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bid, nil
}

// Update 更新报价
func (r *BidRepository) Update(ctx context.Context, bid *entity.VendorBid) error {
	return r.db.WithContext(ctx).Save(bid).Error
}

// Delete 删除报价
func (r *BidRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.VendorBid{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByEvaluation 统计评估下的报价数
func (r *BidRepository) CountByEvaluation(ctx context.Context, evaluationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.VendorBid{}).
		Where("evaluation_id = ?", evaluationID).
		Count(&count).Error
	return count, err
}
