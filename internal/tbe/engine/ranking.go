package engine

import (
	"fmt"
	"sort"
	"strings"
)

// RankingConfig 综合排名配置
type RankingConfig struct {
	HighlyRecommendedThreshold float64 `json:"highly_recommended_threshold"`
	RecommendedThreshold       float64 `json:"recommended_threshold"`
	AcceptableThreshold        float64 `json:"acceptable_threshold"`
	TCORankingWeight           float64 `json:"tco_ranking_weight"`
	ComplianceRankingWeight    float64 `json:"compliance_ranking_weight"`
	DisqualifyBelowCompliance  float64 `json:"disqualify_below_compliance"`
	DisqualifyMissingMandatory bool    `json:"disqualify_missing_mandatory"`
	// RenormalizeMissingSignals 为 true 时, 缺失 TCO 或合规信号的供应商
	// 按实际存在的信号重新分配权重, 避免基础分被固定折减
	RenormalizeMissingSignals bool `json:"renormalize_missing_signals"`
}

// DefaultRankingConfig 默认排名配置
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		HighlyRecommendedThreshold: 85,
		RecommendedThreshold:       70,
		AcceptableThreshold:        50,
		TCORankingWeight:           0.3,
		ComplianceRankingWeight:    0.2,
		DisqualifyBelowCompliance:  50,
		DisqualifyMissingMandatory: true,
	}
}

// RecommendationBreakdown 各推荐等级的供应商数量
type RecommendationBreakdown struct {
	HighlyRecommended int `json:"highly_recommended"`
	Recommended       int `json:"recommended"`
	Acceptable        int `json:"acceptable"`
	NotRecommended    int `json:"not_recommended"`
	Disqualified      int `json:"disqualified"`
}

// RankingScoreStatistics 排名分值统计
type RankingScoreStatistics struct {
	Average float64 `json:"average"`
	Maximum float64 `json:"maximum"`
	Minimum float64 `json:"minimum"`
	Spread  float64 `json:"spread"`
}

// TopRecommendation 排名第一的供应商
type TopRecommendation struct {
	VendorID       string  `json:"vendor_id"`
	VendorName     string  `json:"vendor_name"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation"`
}

// RankingSummary 排名汇总
type RankingSummary struct {
	Message                 string                  `json:"message,omitempty"`
	TotalVendors            int                     `json:"total_vendors"`
	RecommendationBreakdown RecommendationBreakdown `json:"recommendation_breakdown"`
	ScoreStatistics         RankingScoreStatistics  `json:"score_statistics"`
	TopRecommendation       *TopRecommendation      `json:"top_recommendation,omitempty"`
	QualifiedVendors        int                     `json:"qualified_vendors"`
	DisqualifiedVendors     int                     `json:"disqualified_vendors"`
}

// TopVendorEntry 头部供应商对比条目
type TopVendorEntry struct {
	Rank           int     `json:"rank"`
	VendorID       string  `json:"vendor_id"`
	VendorName     string  `json:"vendor_name"`
	TotalScore     float64 `json:"total_score"`
	Recommendation string  `json:"recommendation"`
}

// CriteriaVendorScore 单项评分对比
type CriteriaVendorScore struct {
	Vendor string  `json:"vendor"`
	Score  float64 `json:"score"`
}

// TopVendorComparison 头部供应商横向对比
type TopVendorComparison struct {
	Message            string                           `json:"message,omitempty"`
	Vendors            []TopVendorEntry                 `json:"vendors"`
	CriteriaComparison map[string][]CriteriaVendorScore `json:"criteria_comparison"`
	WinnerByCriteria   map[string]string                `json:"winner_by_criteria"`
}

// RankingEngine 综合排名引擎, 融合评分 / TCO / 合规三路信号
type RankingEngine struct {
	config RankingConfig
}

// NewRankingEngine 创建排名引擎
func NewRankingEngine(config RankingConfig) *RankingEngine {
	return &RankingEngine{config: config}
}

// RankVendors 计算综合得分并排名, 返回新的结果切片, 不修改入参
// 综合得分 = 加权基础分 * 剩余权重 + TCO 分与合规分按各自配置权重叠加
func (e *RankingEngine) RankVendors(results []*TBEResult, tcoCalcs []*TCOCalculation, checks []*ComplianceCheck) []*TBEResult {
	if len(results) == 0 {
		return nil
	}

	tcoByVendor := make(map[string]*TCOCalculation, len(tcoCalcs))
	for _, calc := range tcoCalcs {
		tcoByVendor[calc.VendorID] = calc
	}
	checkByVendor := make(map[string]*ComplianceCheck, len(checks))
	for _, check := range checks {
		checkByVendor[check.VendorID] = check
	}

	ranked := make([]*TBEResult, len(results))
	composites := make(map[string]float64, len(results))
	for i, result := range results {
		clone := *result
		clone.Scores = append([]TBEScore(nil), result.Scores...)
		ranked[i] = &clone
		composites[clone.VendorID] = e.compositeScore(&clone, tcoByVendor, checkByVendor)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return composites[ranked[i].VendorID] > composites[ranked[j].VendorID]
	})

	total := len(ranked)
	for i, result := range ranked {
		result.Rank = i + 1
		result.Recommendation = e.determineRecommendation(composites[result.VendorID], checkByVendor[result.VendorID])
		result.RecommendationNotes = e.buildNotes(result, total)
	}
	return ranked
}

// compositeScore 三路信号加权, 缺失信号默认不重新归一
func (e *RankingEngine) compositeScore(result *TBEResult, tcoByVendor map[string]*TCOCalculation, checkByVendor map[string]*ComplianceCheck) float64 {
	tcoWeight := e.config.TCORankingWeight
	compWeight := e.config.ComplianceRankingWeight
	calc, hasTCO := tcoByVendor[result.VendorID]
	check, hasCheck := checkByVendor[result.VendorID]

	if e.config.RenormalizeMissingSignals {
		if !hasTCO {
			tcoWeight = 0
		}
		if !hasCheck {
			compWeight = 0
		}
	}

	score := result.TotalWeightedScore * (1 - tcoWeight - compWeight)
	if hasTCO {
		score += calc.TCOScore * tcoWeight
	}
	if hasCheck {
		score += check.OverallComplianceScore * compWeight
	}
	return score
}

// determineRecommendation 最终推荐等级: 合规硬约束优先, 其余按综合得分分档
func (e *RankingEngine) determineRecommendation(compositeScore float64, check *ComplianceCheck) string {
	if check != nil {
		if check.OverallComplianceScore < e.config.DisqualifyBelowCompliance {
			return RecommendationDisqualified
		}
		if e.config.DisqualifyMissingMandatory && !check.IsCompliant {
			return RecommendationNotRecommended
		}
	}
	switch {
	case compositeScore >= e.config.HighlyRecommendedThreshold:
		return RecommendationHighlyRecommended
	case compositeScore >= e.config.RecommendedThreshold:
		return RecommendationRecommended
	case compositeScore >= e.config.AcceptableThreshold:
		return RecommendationAcceptable
	}
	return RecommendationNotRecommended
}

func (e *RankingEngine) buildNotes(result *TBEResult, totalVendors int) string {
	parts := []string{}
	if result.Rank == 1 {
		parts = append(parts, "Top-ranked vendor based on overall evaluation.")
	} else {
		parts = append(parts, fmt.Sprintf("Ranked #%d of %d vendors.", result.Rank, totalVendors))
	}

	switch {
	case result.TotalWeightedScore >= 90:
		parts = append(parts, "Exceptional overall score.")
	case result.TotalWeightedScore >= 80:
		parts = append(parts, "Strong overall performance.")
	case result.TotalWeightedScore >= 70:
		parts = append(parts, "Good overall performance with room for improvement.")
	case result.TotalWeightedScore >= 60:
		parts = append(parts, "Acceptable but below average performance.")
	default:
		parts = append(parts, "Below expectations in multiple criteria.")
	}

	if result.PriceScore >= 90 {
		parts = append(parts, "Excellent price competitiveness.")
	} else if result.PriceScore <= 50 {
		parts = append(parts, "Price is significantly higher than competitors.")
	}
	if result.QualityScore >= 90 {
		parts = append(parts, "Outstanding quality indicators.")
	} else if result.QualityScore <= 50 {
		parts = append(parts, "Quality concerns require attention.")
	}
	if result.DeliveryScore >= 90 {
		parts = append(parts, "Best-in-class delivery performance.")
	} else if result.DeliveryScore <= 50 {
		parts = append(parts, "Delivery timeline may be a concern.")
	}
	if result.ComplianceScore >= 90 {
		parts = append(parts, "Full compliance with requirements.")
	} else if result.ComplianceScore <= 50 {
		parts = append(parts, "Compliance gaps identified.")
	}
	return strings.Join(parts, " ")
}

// TopRecommendations 排除淘汰供应商后按排名取前 n 个
func (e *RankingEngine) TopRecommendations(ranked []*TBEResult, n int) []*TBEResult {
	qualified := make([]*TBEResult, 0, len(ranked))
	for _, result := range ranked {
		if result.Recommendation != RecommendationDisqualified {
			qualified = append(qualified, result)
		}
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Rank < qualified[j].Rank
	})
	if len(qualified) > n {
		qualified = qualified[:n]
	}
	return qualified
}

// Summary 排名汇总统计
func (e *RankingEngine) Summary(ranked []*TBEResult) *RankingSummary {
	if len(ranked) == 0 {
		return &RankingSummary{Message: "No vendors to rank"}
	}
	summary := &RankingSummary{TotalVendors: len(ranked)}
	scores := make([]float64, len(ranked))
	var top *TBEResult
	for i, result := range ranked {
		scores[i] = result.TotalWeightedScore
		switch result.Recommendation {
		case RecommendationHighlyRecommended:
			summary.RecommendationBreakdown.HighlyRecommended++
		case RecommendationRecommended:
			summary.RecommendationBreakdown.Recommended++
		case RecommendationAcceptable:
			summary.RecommendationBreakdown.Acceptable++
		case RecommendationNotRecommended:
			summary.RecommendationBreakdown.NotRecommended++
		case RecommendationDisqualified:
			summary.RecommendationBreakdown.Disqualified++
		}
		if result.Recommendation == RecommendationDisqualified {
			summary.DisqualifiedVendors++
		} else {
			summary.QualifiedVendors++
		}
		if result.Rank == 1 {
			top = result
		}
	}
	stats := scoreStats(scores)
	summary.ScoreStatistics = RankingScoreStatistics{
		Average: stats.Average,
		Maximum: stats.Maximum,
		Minimum: stats.Minimum,
		Spread:  round2(stats.Maximum - stats.Minimum),
	}
	if top != nil {
		summary.TopRecommendation = &TopRecommendation{
			VendorID:       top.VendorID,
			VendorName:     top.VendorName,
			Score:          round2(top.TotalWeightedScore),
			Recommendation: top.Recommendation,
		}
	}
	return summary
}

// CompareTopVendors 头部供应商横向对比, 淘汰供应商不参与, 合格数量不足返回提示
func (e *RankingEngine) CompareTopVendors(ranked []*TBEResult, count int) *TopVendorComparison {
	sorted := e.TopRecommendations(ranked, count)
	if len(sorted) < 2 {
		return &TopVendorComparison{Message: "Not enough vendors for comparison"}
	}

	comparison := &TopVendorComparison{
		Vendors:            make([]TopVendorEntry, len(sorted)),
		CriteriaComparison: map[string][]CriteriaVendorScore{},
		WinnerByCriteria:   map[string]string{},
	}
	for i, result := range sorted {
		comparison.Vendors[i] = TopVendorEntry{
			Rank:           result.Rank,
			VendorID:       result.VendorID,
			VendorName:     result.VendorName,
			TotalScore:     round2(result.TotalWeightedScore),
			Recommendation: result.Recommendation,
		}
	}

	criteria := []struct {
		name  string
		score func(*TBEResult) float64
	}{
		{CategoryPrice, func(r *TBEResult) float64 { return r.PriceScore }},
		{CategoryQuality, func(r *TBEResult) float64 { return r.QualityScore }},
		{CategoryDelivery, func(r *TBEResult) float64 { return r.DeliveryScore }},
		{CategoryCompliance, func(r *TBEResult) float64 { return r.ComplianceScore }},
	}
	for _, criterion := range criteria {
		entries := make([]CriteriaVendorScore, len(sorted))
		winner := sorted[0]
		for i, result := range sorted {
			entries[i] = CriteriaVendorScore{Vendor: result.VendorName, Score: round2(criterion.score(result))}
			if criterion.score(result) > criterion.score(winner) {
				winner = result
			}
		}
		comparison.CriteriaComparison[criterion.name] = entries
		comparison.WinnerByCriteria[criterion.name] = winner.VendorName
	}
	return comparison
}
