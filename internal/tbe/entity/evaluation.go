package entity

import "time"

// 评估状态
const (
	EvaluationStatusDraft      = "draft"       // 草稿
	EvaluationStatusInProgress = "in_progress" // 收标中
	EvaluationStatusCompleted  = "completed"   // 已评标
	EvaluationStatusApproved   = "approved"    // 已审批
)

// Evaluation 技术评标项目
type Evaluation struct {
	ID                     string      `gorm:"primaryKey;size:32" json:"id"`
	Name                   string      `gorm:"size:200;not null" json:"name"`
	Description            string      `gorm:"type:text" json:"description"`
	ProjectReference       string      `gorm:"size:64;index" json:"project_reference"` // 采购项目编号
	Status                 string      `gorm:"size:20;default:'draft';index" json:"status"`
	WeightPreset           string      `gorm:"size:32;default:'default'" json:"weight_preset"`
	PriceWeight            float64     `gorm:"type:decimal(5,4);default:0.40" json:"price_weight"`
	QualityWeight          float64     `gorm:"type:decimal(5,4);default:0.25" json:"quality_weight"`
	DeliveryWeight         float64     `gorm:"type:decimal(5,4);default:0.20" json:"delivery_weight"`
	ComplianceWeight       float64     `gorm:"type:decimal(5,4);default:0.15" json:"compliance_weight"`
	NormalizationMethod    string      `gorm:"size:20;default:'inverse_linear'" json:"normalization_method"`
	RequiredISOStandards   StringArray `gorm:"type:jsonb" json:"required_iso_standards"`
	RequiredCertifications StringArray `gorm:"type:jsonb" json:"required_certifications"`
	Results                JSONB       `gorm:"type:jsonb" json:"results,omitempty"` // 评标结果快照
	RecommendedVendorID    *string     `gorm:"size:32" json:"recommended_vendor_id"`
	EvaluatedBy            string      `gorm:"size:32" json:"evaluated_by"`
	EvaluatedAt            *time.Time  `json:"evaluated_at"`
	CreatedBy              string      `gorm:"size:32" json:"created_by"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`

	Bids []VendorBid `gorm:"foreignKey:EvaluationID" json:"bids,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string {
	return "tbe_evaluations"
}
