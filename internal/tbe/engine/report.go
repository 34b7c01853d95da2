package engine

import (
	"fmt"
	"strings"
	"time"
)

// TBEReport 技术评标报告
type TBEReport struct {
	EvaluationID      string             `json:"evaluation_id"`
	EvaluationName    string             `json:"evaluation_name"`
	GeneratedAt       time.Time          `json:"generated_at"`
	GeneratedBy       string             `json:"generated_by"`
	ExecutiveSummary  string             `json:"executive_summary"`
	Results           []*TBEResult       `json:"results"`
	Matrix            *ComparisonMatrix  `json:"matrix,omitempty"`
	TCOCalculations   []*TCOCalculation  `json:"tco_calculations"`
	ComplianceChecks  []*ComplianceCheck `json:"compliance_checks"`
	RankingSummary    *RankingSummary    `json:"ranking_summary"`
	TCOSummary        *TCOSummary        `json:"tco_summary"`
	ComplianceSummary *ComplianceSummary `json:"compliance_summary"`
	Recommendations   []string           `json:"recommendations"`
}

// ReportInput 报告生成输入, 各部分由对应引擎产出
type ReportInput struct {
	EvaluationID      string
	EvaluationName    string
	GeneratedBy       string
	Results           []*TBEResult
	Matrix            *ComparisonMatrix
	TCOCalculations   []*TCOCalculation
	ComplianceChecks  []*ComplianceCheck
	RankingSummary    *RankingSummary
	TCOSummary        *TCOSummary
	ComplianceSummary *ComplianceSummary
}

// BuildReport 汇编评标报告, 生成执行摘要与授标建议
func BuildReport(input ReportInput) *TBEReport {
	return &TBEReport{
		EvaluationID:      input.EvaluationID,
		EvaluationName:    input.EvaluationName,
		GeneratedAt:       time.Now(),
		GeneratedBy:       input.GeneratedBy,
		ExecutiveSummary:  buildExecutiveSummary(input),
		Results:           input.Results,
		Matrix:            input.Matrix,
		TCOCalculations:   input.TCOCalculations,
		ComplianceChecks:  input.ComplianceChecks,
		RankingSummary:    input.RankingSummary,
		TCOSummary:        input.TCOSummary,
		ComplianceSummary: input.ComplianceSummary,
		Recommendations:   buildRecommendations(input),
	}
}

// buildExecutiveSummary 生成 Markdown 执行摘要
func buildExecutiveSummary(input ReportInput) string {
	var b strings.Builder
	b.WriteString("## Executive Summary\n")
	b.WriteString(fmt.Sprintf("**Evaluation:** %s\n", input.EvaluationName))
	b.WriteString(fmt.Sprintf("**Total Vendors Evaluated:** %d\n\n", len(input.Results)))

	if len(input.Results) == 0 {
		b.WriteString("No vendor bids were evaluated.\n")
		return b.String()
	}

	if top := findByRank(input.Results, 1); top != nil {
		b.WriteString("### Top Recommendation\n")
		b.WriteString(fmt.Sprintf("**%s** is ranked #1 with a weighted score of **%.2f/100**.\n\n",
			top.VendorName, top.TotalWeightedScore))
	}

	if input.RankingSummary != nil {
		breakdown := input.RankingSummary.RecommendationBreakdown
		b.WriteString("### Recommendation Breakdown\n")
		b.WriteString(fmt.Sprintf("- Highly Recommended: %d\n", breakdown.HighlyRecommended))
		b.WriteString(fmt.Sprintf("- Recommended: %d\n", breakdown.Recommended))
		b.WriteString(fmt.Sprintf("- Acceptable: %d\n", breakdown.Acceptable))
		b.WriteString(fmt.Sprintf("- Not Recommended: %d\n", breakdown.NotRecommended))
		b.WriteString(fmt.Sprintf("- Disqualified: %d\n\n", breakdown.Disqualified))
	}

	if best := lowestTCO(input.TCOCalculations); best != nil {
		b.WriteString("### Total Cost of Ownership\n")
		b.WriteString(fmt.Sprintf("**%s** offers the best TCO at **$%.2f** ($%.2f/year).\n\n",
			best.VendorName, best.TotalTCO, best.TCOPerYear))
	}

	if len(input.ComplianceChecks) > 0 {
		compliant := 0
		for _, check := range input.ComplianceChecks {
			if check.IsCompliant {
				compliant++
			}
		}
		b.WriteString("### Compliance Status\n")
		b.WriteString(fmt.Sprintf("**%d/%d** vendors meet all compliance requirements.\n",
			compliant, len(input.ComplianceChecks)))
	}
	return b.String()
}

// buildRecommendations 生成授标建议列表
func buildRecommendations(input ReportInput) []string {
	if len(input.Results) == 0 {
		return []string{"No recommendations available - no vendors evaluated."}
	}
	recs := []string{}

	if top := findByRank(input.Results, 1); top != nil {
		recs = append(recs, fmt.Sprintf(
			"RECOMMENDED: Award contract to %s based on highest weighted score (%.2f/100).",
			top.VendorName, top.TotalWeightedScore))
	}
	if second := findByRank(input.Results, 2); second != nil {
		recs = append(recs, fmt.Sprintf(
			"ALTERNATIVE: Consider %s as backup option (score: %.2f/100).",
			second.VendorName, second.TotalWeightedScore))
	}
	if best := lowestTCO(input.TCOCalculations); best != nil {
		recs = append(recs, fmt.Sprintf(
			"COST ANALYSIS: %s offers the lowest Total Cost of Ownership at $%.2f.",
			best.VendorName, best.TotalTCO))
	}

	if leader := leaderBy(input.Results, func(r *TBEResult) float64 { return r.QualityScore }); leader != nil && leader.QualityScore >= 90 {
		recs = append(recs, fmt.Sprintf(
			"QUALITY LEADER: %s demonstrates exceptional quality performance (%.1f/100).",
			leader.VendorName, leader.QualityScore))
	}
	if leader := leaderBy(input.Results, func(r *TBEResult) float64 { return r.DeliveryScore }); leader != nil && leader.DeliveryScore >= 90 {
		recs = append(recs, fmt.Sprintf(
			"FASTEST DELIVERY: %s offers the best delivery performance (%.1f/100).",
			leader.VendorName, leader.DeliveryScore))
	}

	disqualified := []string{}
	for _, result := range input.Results {
		if result.Recommendation == RecommendationDisqualified {
			disqualified = append(disqualified, result.VendorName)
		}
	}
	if len(disqualified) > 0 {
		recs = append(recs, fmt.Sprintf(
			"WARNING: %d vendor(s) disqualified due to compliance issues: %s.",
			len(disqualified), strings.Join(disqualified, ", ")))
	}
	return recs
}

func findByRank(results []*TBEResult, rank int) *TBEResult {
	for _, result := range results {
		if result.Rank == rank {
			return result
		}
	}
	return nil
}

func lowestTCO(calcs []*TCOCalculation) *TCOCalculation {
	if len(calcs) == 0 {
		return nil
	}
	best := calcs[0]
	for _, calc := range calcs[1:] {
		if calc.TotalTCO < best.TotalTCO {
			best = calc
		}
	}
	return best
}

func leaderBy(results []*TBEResult, score func(*TBEResult) float64) *TBEResult {
	if len(results) == 0 {
		return nil
	}
	leader := results[0]
	for _, result := range results[1:] {
		if score(result) > score(leader) {
			leader = result
		}
	}
	return leader
}
