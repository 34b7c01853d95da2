package engine

import (
	"strings"
	"testing"
)

func reportFixture() ReportInput {
	results := []*TBEResult{
		{VendorID: "v1", VendorName: "Alpha", Rank: 1, TotalWeightedScore: 92.5, QualityScore: 95, DeliveryScore: 88, Recommendation: RecommendationHighlyRecommended},
		{VendorID: "v2", VendorName: "Beta", Rank: 2, TotalWeightedScore: 71.0, QualityScore: 80, DeliveryScore: 92, Recommendation: RecommendationRecommended},
		{VendorID: "v3", VendorName: "Gamma", Rank: 3, TotalWeightedScore: 40.0, QualityScore: 55, DeliveryScore: 60, Recommendation: RecommendationDisqualified},
	}
	return ReportInput{
		EvaluationID:   "e1",
		EvaluationName: "Pump Procurement",
		GeneratedBy:    "buyer-01",
		Results:        results,
		TCOCalculations: []*TCOCalculation{
			{VendorID: "v1", VendorName: "Alpha", TotalTCO: 12000, TCOPerYear: 2400},
			{VendorID: "v2", VendorName: "Beta", TotalTCO: 15000, TCOPerYear: 3000},
		},
		ComplianceChecks: []*ComplianceCheck{
			{VendorID: "v1", VendorName: "Alpha", IsCompliant: true},
			{VendorID: "v2", VendorName: "Beta"},
		},
		RankingSummary: &RankingSummary{
			TotalVendors: 3,
			RecommendationBreakdown: RecommendationBreakdown{
				HighlyRecommended: 1,
				Recommended:       1,
				Disqualified:      1,
			},
		},
	}
}

func TestBuildReportExecutiveSummary(t *testing.T) {
	report := BuildReport(reportFixture())
	summary := report.ExecutiveSummary

	for _, want := range []string{
		"## Executive Summary",
		"**Evaluation:** Pump Procurement",
		"**Total Vendors Evaluated:** 3",
		"**Alpha** is ranked #1 with a weighted score of **92.50/100**.",
		"- Highly Recommended: 1",
		"- Disqualified: 1",
		"**Alpha** offers the best TCO at **$12000.00** ($2400.00/year).",
		"**1/2** vendors meet all compliance requirements.",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("executive summary missing %q:\n%s", want, summary)
		}
	}
}

func TestBuildReportRecommendations(t *testing.T) {
	report := BuildReport(reportFixture())

	joined := strings.Join(report.Recommendations, "\n")
	for _, want := range []string{
		"RECOMMENDED: Award contract to Alpha based on highest weighted score (92.50/100).",
		"ALTERNATIVE: Consider Beta as backup option (score: 71.00/100).",
		"COST ANALYSIS: Alpha offers the lowest Total Cost of Ownership at $12000.00.",
		"QUALITY LEADER: Alpha demonstrates exceptional quality performance (95.0/100).",
		"FASTEST DELIVERY: Beta offers the best delivery performance (92.0/100).",
		"WARNING: 1 vendor(s) disqualified due to compliance issues: Gamma.",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("recommendations missing %q:\n%s", want, joined)
		}
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(ReportInput{EvaluationID: "e1", EvaluationName: "Empty"})
	if !strings.Contains(report.ExecutiveSummary, "No vendor bids were evaluated.") {
		t.Fatalf("unexpected empty summary: %s", report.ExecutiveSummary)
	}
	if len(report.Recommendations) != 1 ||
		report.Recommendations[0] != "No recommendations available - no vendors evaluated." {
		t.Fatalf("unexpected empty recommendations: %v", report.Recommendations)
	}
}
