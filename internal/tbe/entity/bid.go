package entity

import "time"

// 报价状态
const (
	BidStatusSubmitted = "submitted" // 已提交
	BidStatusWithdrawn = "withdrawn" // 已撤回
)

// VendorBid 供应商投标报价
type VendorBid struct {
	ID                    string      `gorm:"primaryKey;size:32" json:"id"`
	EvaluationID          string      `gorm:"size:32;not null;index" json:"evaluation_id"`
	VendorID              string      `gorm:"size:32;not null;index" json:"vendor_id"`
	BidReference          string      `gorm:"size:64" json:"bid_reference"` // 标书编号
	Status                string      `gorm:"size:20;default:'submitted'" json:"status"`
	Currency              string      `gorm:"size:8;default:'USD'" json:"currency"`
	UnitPrice             float64     `gorm:"type:decimal(14,2)" json:"unit_price"`
	Quantity              int         `gorm:"default:1" json:"quantity"`
	TotalPrice            float64     `gorm:"type:decimal(14,2)" json:"total_price"`
	ShippingCost          float64     `gorm:"type:decimal(14,2)" json:"shipping_cost"`
	InstallationCost      float64     `gorm:"type:decimal(14,2)" json:"installation_cost"`
	TrainingCost          float64     `gorm:"type:decimal(14,2)" json:"training_cost"`
	MaintenanceCostAnnual float64     `gorm:"type:decimal(14,2)" json:"maintenance_cost_annual"`
	WarrantyYears         int         `json:"warranty_years"`
	ExpectedLifespanYears int         `json:"expected_lifespan_years"`
	DeliveryDays          int         `json:"delivery_days"` // 承诺交期(天)
	QualityScore          float64     `gorm:"type:decimal(5,2)" json:"quality_score"`          // 质量自评 0-100
	PastPerformanceScore  float64     `gorm:"type:decimal(5,2)" json:"past_performance_score"` // 历史履约 0-100
	ISOCompliance         StringArray `gorm:"type:jsonb" json:"iso_compliance"`                // 标书声明的 ISO 标准
	Certifications        StringArray `gorm:"type:jsonb" json:"certifications"`                // 标书声明的认证
	TechnicalNotes        string      `gorm:"type:text" json:"technical_notes"`
	SubmittedAt           *time.Time  `json:"submitted_at"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

// TableName 指定表名
func (VendorBid) TableName() string {
	return "tbe_vendor_bids"
}
