package engine

import (
	"fmt"
	"math"
)

// NormalizationMethod 价格/交期归一化方法
type NormalizationMethod string

const (
	NormalizeInverseLinear NormalizationMethod = "inverse_linear"
	NormalizeInverseLog    NormalizationMethod = "inverse_log"
	NormalizeMinMax        NormalizationMethod = "min_max"
)

const weightSumTolerance = 1e-4

// CriteriaWeights 四项评分权重, 权重之和必须为 1
type CriteriaWeights struct {
	Price      float64 `json:"price"`
	Quality    float64 `json:"quality"`
	Delivery   float64 `json:"delivery"`
	Compliance float64 `json:"compliance"`
}

// DefaultCriteriaWeights 默认权重配置
func DefaultCriteriaWeights() CriteriaWeights {
	return CriteriaWeights{
		Price:      0.40,
		Quality:    0.25,
		Delivery:   0.20,
		Compliance: 0.15,
	}
}

// Validate 校验权重之和为 1 (容差 1e-4)
func (w CriteriaWeights) Validate() error {
	sum := w.Price + w.Quality + w.Delivery + w.Compliance
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("criteria weights must sum to 1.0, got %.4f (price=%.2f quality=%.2f delivery=%.2f compliance=%.2f)",
			sum, w.Price, w.Quality, w.Delivery, w.Compliance)
	}
	return nil
}

// ScoringConfig 评分引擎配置
type ScoringConfig struct {
	PriceScoringMethod           NormalizationMethod `json:"price_scoring_method"`
	DeliveryScoringMethod        NormalizationMethod `json:"delivery_scoring_method"`
	HighlyRecommendedThreshold   float64             `json:"highly_recommended_threshold"`
	RecommendedThreshold         float64             `json:"recommended_threshold"`
	AcceptableThreshold          float64             `json:"acceptable_threshold"`
	MandatoryComplianceThreshold float64             `json:"mandatory_compliance_threshold"`
}

// DefaultScoringConfig 默认评分配置
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PriceScoringMethod:           NormalizeInverseLinear,
		DeliveryScoringMethod:        NormalizeInverseLinear,
		HighlyRecommendedThreshold:   85,
		RecommendedThreshold:         70,
		AcceptableThreshold:          50,
		MandatoryComplianceThreshold: 100,
	}
}

func validateMethod(m NormalizationMethod) error {
	switch m {
	case NormalizeInverseLinear, NormalizeInverseLog, NormalizeMinMax:
		return nil
	}
	return fmt.Errorf("unknown normalization method: %q", m)
}

// ScoringEngine 技术评标评分引擎
type ScoringEngine struct {
	weights CriteriaWeights
	config  ScoringConfig
}

// NewScoringEngine 创建评分引擎, 校验权重与归一化方法
func NewScoringEngine(weights CriteriaWeights, config ScoringConfig) (*ScoringEngine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := validateMethod(config.PriceScoringMethod); err != nil {
		return nil, err
	}
	if err := validateMethod(config.DeliveryScoringMethod); err != nil {
		return nil, err
	}
	return &ScoringEngine{weights: weights, config: config}, nil
}

// Weights 返回当前权重配置
func (e *ScoringEngine) Weights() CriteriaWeights {
	return e.weights
}

// PriceScore 价格竞争力评分, 按配置方法在全部报价范围内归一化为 0-100
func (e *ScoringEngine) PriceScore(bidPrice float64, allPrices []float64) float64 {
	return normalizeLowerBetter(bidPrice, allPrices, e.config.PriceScoringMethod)
}

// DeliveryScore 交付表现评分, 交期越短得分越高
func (e *ScoringEngine) DeliveryScore(deliveryDays int, allDeliveryDays []int) float64 {
	all := make([]float64, len(allDeliveryDays))
	for i, d := range allDeliveryDays {
		all[i] = float64(d)
	}
	return normalizeLowerBetter(float64(deliveryDays), all, e.config.DeliveryScoringMethod)
}

// QualityScore 质量评分 = 质量 60% + 历史履约 40%, 上限 100
func (e *ScoringEngine) QualityScore(quality, pastPerformance float64) float64 {
	return math.Min(quality*0.6+pastPerformance*0.4, 100)
}

// ComplianceScore 合规覆盖率评分: 已满足要求项数 / 要求项总数 * 100
func (e *ScoringEngine) ComplianceScore(providedISO, requiredISO, providedCerts, requiredCerts []string) float64 {
	required := append(NormalizeStandards(requiredISO), NormalizeCerts(requiredCerts)...)
	if len(required) == 0 {
		return 100
	}
	provided := append(NormalizeStandards(providedISO), NormalizeCerts(providedCerts)...)
	matches := 0
	for _, req := range required {
		if matchesAny(req, provided) {
			matches++
		}
	}
	return float64(matches) / float64(len(required)) * 100
}

// normalizeLowerBetter 数值越小越优的归一化, 返回 0-100
func normalizeLowerBetter(value float64, all []float64, method NormalizationMethod) float64 {
	if len(all) == 0 {
		return 0
	}
	min, max := all[0], all[0]
	for _, v := range all[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return 100
	}
	switch method {
	case NormalizeInverseLog:
		if value <= 0 || min <= 0 {
			return 0
		}
		logRange := math.Log(max) - math.Log(min)
		if logRange == 0 {
			return 100
		}
		return 100 * (1 - (math.Log(value)-math.Log(min))/logRange)
	case NormalizeMinMax:
		if value <= 0 {
			return 0
		}
		return 100 * min / value
	default: // inverse_linear
		return 100 * (1 - (value-min)/(max-min))
	}
}

// ScoreBid 对单个报价做四维评分, 在全部报价构成的范围内归一化
func (e *ScoringEngine) ScoreBid(bid Bid, vendor Vendor, allBids []Bid, requiredISO, requiredCerts []string) *TBEResult {
	allPrices := make([]float64, len(allBids))
	allDelivery := make([]int, len(allBids))
	for i, b := range allBids {
		allPrices[i] = b.TotalPrice
		allDelivery[i] = b.DeliveryDays
	}

	priceScore := e.PriceScore(bid.TotalPrice, allPrices)
	qualityScore := e.QualityScore(bid.QualityScore, bid.PastPerformanceScore)
	deliveryScore := e.DeliveryScore(bid.DeliveryDays, allDelivery)
	providedISO := append(append([]string{}, bid.ISOCompliance...), vendor.ISOStandards...)
	providedCerts := append(append([]string{}, bid.Certifications...), vendor.Certifications...)
	complianceScore := e.ComplianceScore(providedISO, requiredISO, providedCerts, requiredCerts)

	scores := []TBEScore{
		{
			CriteriaName:  CriteriaPrice,
			Category:      CategoryPrice,
			RawScore:      priceScore,
			Weight:        e.weights.Price,
			WeightedScore: priceScore * e.weights.Price,
			MaxPossible:   100 * e.weights.Price,
			Comments:      fmt.Sprintf("Total price: %.2f %s", bid.TotalPrice, bid.Currency),
		},
		{
			CriteriaName:  CriteriaQuality,
			Category:      CategoryQuality,
			RawScore:      qualityScore,
			Weight:        e.weights.Quality,
			WeightedScore: qualityScore * e.weights.Quality,
			MaxPossible:   100 * e.weights.Quality,
			Comments:      fmt.Sprintf("Quality: %.1f, Past Performance: %.1f", bid.QualityScore, bid.PastPerformanceScore),
		},
		{
			CriteriaName:  CriteriaDelivery,
			Category:      CategoryDelivery,
			RawScore:      deliveryScore,
			Weight:        e.weights.Delivery,
			WeightedScore: deliveryScore * e.weights.Delivery,
			MaxPossible:   100 * e.weights.Delivery,
			Comments:      fmt.Sprintf("Delivery: %d days", bid.DeliveryDays),
		},
		{
			CriteriaName:  CriteriaCompliance,
			Category:      CategoryCompliance,
			RawScore:      complianceScore,
			Weight:        e.weights.Compliance,
			WeightedScore: complianceScore * e.weights.Compliance,
			MaxPossible:   100 * e.weights.Compliance,
			Comments:      fmt.Sprintf("ISO: %d standards, Certs: %d", len(bid.ISOCompliance), len(bid.Certifications)),
		},
	}

	totalWeighted := 0.0
	totalRaw := 0.0
	for _, s := range scores {
		totalWeighted += s.WeightedScore
		totalRaw += s.RawScore
	}

	return &TBEResult{
		VendorID:           vendor.ID,
		VendorName:         vendor.Name,
		VendorCode:         vendor.Code,
		BidID:              bid.ID,
		BidReference:       bid.BidReference,
		Scores:             scores,
		PriceScore:         priceScore,
		QualityScore:       qualityScore,
		DeliveryScore:      deliveryScore,
		ComplianceScore:    complianceScore,
		TotalWeightedScore: totalWeighted,
		TotalRawScore:      totalRaw,
		MaxPossibleScore:   100,
		Recommendation:     e.recommendation(totalWeighted, complianceScore),
	}
}

// EvaluateAllBids 评估全部报价, 缺失供应商档案的报价跳过
func (e *ScoringEngine) EvaluateAllBids(bids []Bid, vendors map[string]Vendor, requiredISO, requiredCerts []string) []*TBEResult {
	results := make([]*TBEResult, 0, len(bids))
	for _, bid := range bids {
		vendor, ok := vendors[bid.VendorID]
		if !ok {
			continue
		}
		results = append(results, e.ScoreBid(bid, vendor, bids, requiredISO, requiredCerts))
	}
	return results
}

// recommendation 初步推荐等级, 合规不足强制阈值一半直接淘汰
func (e *ScoringEngine) recommendation(totalWeighted, complianceRaw float64) string {
	if complianceRaw < e.config.MandatoryComplianceThreshold*0.5 {
		return RecommendationDisqualified
	}
	switch {
	case totalWeighted >= e.config.HighlyRecommendedThreshold:
		return RecommendationHighlyRecommended
	case totalWeighted >= e.config.RecommendedThreshold:
		return RecommendationRecommended
	case totalWeighted >= e.config.AcceptableThreshold:
		return RecommendationAcceptable
	}
	return RecommendationNotRecommended
}
