package engine

// 推荐等级
const (
	RecommendationHighlyRecommended = "highly_recommended"
	RecommendationRecommended       = "recommended"
	RecommendationAcceptable        = "acceptable"
	RecommendationNotRecommended    = "not_recommended"
	RecommendationDisqualified      = "disqualified"
)

// 评分维度
const (
	CategoryPrice      = "price"
	CategoryQuality    = "quality"
	CategoryDelivery   = "delivery"
	CategoryCompliance = "compliance"
)

// 评分项名称
const (
	CriteriaPrice      = "Price Competitiveness"
	CriteriaQuality    = "Quality Assessment"
	CriteriaDelivery   = "Delivery Performance"
	CriteriaCompliance = "Compliance & Standards"
)

// Vendor 供应商档案(评估引擎输入)
type Vendor struct {
	ID             string   `json:"id"`
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Certifications []string `json:"certifications"`
	ISOStandards   []string `json:"iso_standards"`
}

// Bid 供应商报价(评估引擎输入)
type Bid struct {
	ID                    string   `json:"id"`
	VendorID              string   `json:"vendor_id"`
	BidReference          string   `json:"bid_reference"`
	Currency              string   `json:"currency"`
	UnitPrice             float64  `json:"unit_price"`
	Quantity              int      `json:"quantity"`
	TotalPrice            float64  `json:"total_price"`
	ShippingCost          float64  `json:"shipping_cost"`
	InstallationCost      float64  `json:"installation_cost"`
	TrainingCost          float64  `json:"training_cost"`
	MaintenanceCostAnnual float64  `json:"maintenance_cost_annual"`
	WarrantyYears         int      `json:"warranty_years"`
	ExpectedLifespanYears int      `json:"expected_lifespan_years"`
	DeliveryDays          int      `json:"delivery_days"`
	QualityScore          float64  `json:"quality_score"`
	PastPerformanceScore  float64  `json:"past_performance_score"`
	ISOCompliance         []string `json:"iso_compliance"`
	Certifications        []string `json:"certifications"`
}

// TBEScore 单项评分明细
type TBEScore struct {
	CriteriaName  string  `json:"criteria_name"`
	Category      string  `json:"category"`
	RawScore      float64 `json:"raw_score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
	MaxPossible   float64 `json:"max_possible"`
	Comments      string  `json:"comments"`
}

// TBEResult 单个供应商的技术评标结果
type TBEResult struct {
	VendorID            string     `json:"vendor_id"`
	VendorName          string     `json:"vendor_name"`
	VendorCode          string     `json:"vendor_code"`
	BidID               string     `json:"bid_id"`
	BidReference        string     `json:"bid_reference"`
	Scores              []TBEScore `json:"scores"`
	PriceScore          float64    `json:"price_score"`
	QualityScore        float64    `json:"quality_score"`
	DeliveryScore       float64    `json:"delivery_score"`
	ComplianceScore     float64    `json:"compliance_score"`
	TotalWeightedScore  float64    `json:"total_weighted_score"`
	TotalRawScore       float64    `json:"total_raw_score"`
	MaxPossibleScore    float64    `json:"max_possible_score"`
	Rank                int        `json:"rank"`
	Recommendation      string     `json:"recommendation"`
	RecommendationNotes string     `json:"recommendation_notes"`
}
