package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
)

// EvaluationRepository 评估项目仓储
type EvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository 创建评估项目仓储
func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create 创建评估
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

// FindByID 根据 ID 查询评估, 附带报价及供应商
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*entity.Evaluation, error) {
	var evaluation entity.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Bids").
		Preload("Bids.Vendor").
		First(&evaluation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &evaluation, nil
}

// FindAll 分页查询评估列表
func (r *EvaluationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Evaluation, int64, error) {
	var evaluations []entity.Evaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Evaluation{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR project_reference ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").
		Find(&evaluations).Error
	return evaluations, total, err
}

// Update 更新评估
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *entity.Evaluation) error {
	return r.db.WithContext(ctx).Save(evaluation).Error
}

// UpdateStatus 更新评估状态
func (r *EvaluationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Evaluation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SaveResults 保存评标结果快照并推进状态
func (r *EvaluationRepository) SaveResults(ctx context.Context, id string, results entity.JSONB, recommendedVendorID *string, evaluatedBy string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entity.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"results":               results,
			"recommended_vendor_id": recommendedVendorID,
			"status":                entity.EvaluationStatusCompleted,
			"evaluated_by":          evaluatedBy,
			"evaluated_at":          &now,
		}).Error
}

// Delete 删除评估及其报价
func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", id).Delete(&entity.VendorBid{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Evaluation{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
