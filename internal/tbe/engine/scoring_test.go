package engine

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func newTestEngine(t *testing.T) *ScoringEngine {
	t.Helper()
	e, err := NewScoringEngine(DefaultCriteriaWeights(), DefaultScoringConfig())
	if err != nil {
		t.Fatalf("failed to create scoring engine: %v", err)
	}
	return e
}

func TestCriteriaWeightsValidation(t *testing.T) {
	// Default weights sum to 1.0
	if err := DefaultCriteriaWeights().Validate(); err != nil {
		t.Fatalf("default weights should be valid: %v", err)
	}

	// Weights off by more than the tolerance are rejected
	bad := CriteriaWeights{Price: 0.5, Quality: 0.3, Delivery: 0.3, Compliance: 0.1}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for weights summing to 1.2")
	}
	if _, err := NewScoringEngine(bad, DefaultScoringConfig()); err == nil {
		t.Fatal("expected constructor to reject invalid weights")
	}

	// Within tolerance passes
	close := CriteriaWeights{Price: 0.40004, Quality: 0.25, Delivery: 0.20, Compliance: 0.14999}
	if err := close.Validate(); err != nil {
		t.Fatalf("weights within tolerance should be valid: %v", err)
	}
}

func TestUnknownNormalizationMethodRejected(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.PriceScoringMethod = "geometric"
	if _, err := NewScoringEngine(DefaultCriteriaWeights(), cfg); err == nil {
		t.Fatal("expected error for unknown normalization method")
	}
}

func TestPriceScoreInverseLinear(t *testing.T) {
	e := newTestEngine(t)
	prices := []float64{100, 150, 200}

	// Lowest price gets 100, highest gets 0, midpoint gets 50
	if got := e.PriceScore(100, prices); !almostEqual(got, 100) {
		t.Fatalf("expected 100 for lowest price, got %f", got)
	}
	if got := e.PriceScore(150, prices); !almostEqual(got, 50) {
		t.Fatalf("expected 50 for midpoint price, got %f", got)
	}
	if got := e.PriceScore(200, prices); !almostEqual(got, 0) {
		t.Fatalf("expected 0 for highest price, got %f", got)
	}
}

func TestPriceScoreEdgeCases(t *testing.T) {
	e := newTestEngine(t)

	if got := e.PriceScore(100, nil); got != 0 {
		t.Fatalf("expected 0 for empty price list, got %f", got)
	}
	// All prices equal
	if got := e.PriceScore(100, []float64{100, 100, 100}); got != 100 {
		t.Fatalf("expected 100 when all prices equal, got %f", got)
	}
}

func TestPriceScoreInverseLog(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.PriceScoringMethod = NormalizeInverseLog
	e, err := NewScoringEngine(DefaultCriteriaWeights(), cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	prices := []float64{100, 1000}
	if got := e.PriceScore(100, prices); !almostEqual(got, 100) {
		t.Fatalf("expected 100 for lowest price, got %f", got)
	}
	if got := e.PriceScore(1000, prices); !almostEqual(got, 0) {
		t.Fatalf("expected 0 for highest price, got %f", got)
	}
	// Log scaling compresses less than linear for mid values
	mid := e.PriceScore(316.227766, prices) // sqrt(100*1000), log midpoint
	if !almostEqual(mid, 50) {
		t.Fatalf("expected 50 at geometric midpoint, got %f", mid)
	}
	// Non-positive price scores 0
	if got := e.PriceScore(0, prices); got != 0 {
		t.Fatalf("expected 0 for non-positive price, got %f", got)
	}
}

func TestPriceScoreMinMax(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.PriceScoringMethod = NormalizeMinMax
	e, err := NewScoringEngine(DefaultCriteriaWeights(), cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	prices := []float64{100, 200}
	if got := e.PriceScore(100, prices); !almostEqual(got, 100) {
		t.Fatalf("expected 100 for cheapest, got %f", got)
	}
	if got := e.PriceScore(200, prices); !almostEqual(got, 50) {
		t.Fatalf("expected 50 for double the min price, got %f", got)
	}
}

func TestQualityScore(t *testing.T) {
	e := newTestEngine(t)

	// 60/40 blend
	if got := e.QualityScore(80, 90); !almostEqual(got, 84) {
		t.Fatalf("expected 84, got %f", got)
	}
	// Capped at 100
	if got := e.QualityScore(120, 120); got != 100 {
		t.Fatalf("expected cap at 100, got %f", got)
	}
}

func TestDeliveryScore(t *testing.T) {
	e := newTestEngine(t)
	days := []int{10, 20, 30}
	if got := e.DeliveryScore(10, days); !almostEqual(got, 100) {
		t.Fatalf("expected 100 for fastest delivery, got %f", got)
	}
	if got := e.DeliveryScore(30, days); !almostEqual(got, 0) {
		t.Fatalf("expected 0 for slowest delivery, got %f", got)
	}
}

func TestComplianceScoreCoverage(t *testing.T) {
	e := newTestEngine(t)

	// No requirements means full score
	if got := e.ComplianceScore(nil, nil, nil, nil); got != 100 {
		t.Fatalf("expected 100 with no requirements, got %f", got)
	}

	// Half of combined requirements covered
	got := e.ComplianceScore(
		[]string{"ISO 9001"}, []string{"ISO 9001", "ISO 14001"},
		nil, []string{"CE", "UL"},
	)
	if !almostEqual(got, 25) {
		t.Fatalf("expected 25 for 1 of 4 requirements, got %f", got)
	}

	// Substring match: scoped certificate satisfies the base standard
	got = e.ComplianceScore(
		[]string{"ISO 9001:2015"}, []string{"ISO 9001"},
		nil, nil,
	)
	if !almostEqual(got, 100) {
		t.Fatalf("expected 100 for substring match, got %f", got)
	}
}

func TestScoreBid(t *testing.T) {
	e := newTestEngine(t)
	vendor := Vendor{ID: "v1", Name: "Acme", Code: "VDR-0001", ISOStandards: []string{"ISO 9001"}}
	bids := []Bid{
		{ID: "b1", VendorID: "v1", TotalPrice: 100, DeliveryDays: 10, QualityScore: 90, PastPerformanceScore: 85, Currency: "USD"},
		{ID: "b2", VendorID: "v2", TotalPrice: 200, DeliveryDays: 30, QualityScore: 70, PastPerformanceScore: 60, Currency: "USD"},
	}

	result := e.ScoreBid(bids[0], vendor, bids, []string{"ISO 9001"}, nil)
	if result.VendorID != "v1" || result.BidID != "b1" {
		t.Fatalf("unexpected result identity: %+v", result)
	}
	if len(result.Scores) != 4 {
		t.Fatalf("expected 4 criteria scores, got %d", len(result.Scores))
	}
	if !almostEqual(result.PriceScore, 100) {
		t.Fatalf("expected price score 100, got %f", result.PriceScore)
	}
	if !almostEqual(result.ComplianceScore, 100) {
		t.Fatalf("expected compliance score 100, got %f", result.ComplianceScore)
	}

	// Total weighted equals sum of weighted entries and respects weights
	sum := 0.0
	for _, s := range result.Scores {
		if !almostEqual(s.WeightedScore, s.RawScore*s.Weight) {
			t.Fatalf("weighted score mismatch for %s", s.CriteriaName)
		}
		sum += s.WeightedScore
	}
	if !almostEqual(result.TotalWeightedScore, sum) {
		t.Fatalf("total weighted %f != sum %f", result.TotalWeightedScore, sum)
	}
	if result.MaxPossibleScore != 100 {
		t.Fatalf("expected max possible 100, got %f", result.MaxPossibleScore)
	}
}

func TestEvaluateAllBidsSkipsUnknownVendors(t *testing.T) {
	e := newTestEngine(t)
	vendors := map[string]Vendor{
		"v1": {ID: "v1", Name: "Acme"},
	}
	bids := []Bid{
		{ID: "b1", VendorID: "v1", TotalPrice: 100, DeliveryDays: 10},
		{ID: "b2", VendorID: "missing", TotalPrice: 150, DeliveryDays: 12},
	}

	results := e.EvaluateAllBids(bids, vendors, nil, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// Normalization still happens against the full bid set
	if !almostEqual(results[0].PriceScore, 100) {
		t.Fatalf("expected price score 100 against full bid range, got %f", results[0].PriceScore)
	}
}

func TestProvisionalRecommendationTiers(t *testing.T) {
	e := newTestEngine(t)
	cases := []struct {
		weighted   float64
		compliance float64
		want       string
	}{
		{90, 100, RecommendationHighlyRecommended},
		{75, 100, RecommendationRecommended},
		{55, 100, RecommendationAcceptable},
		{40, 100, RecommendationNotRecommended},
		{90, 40, RecommendationDisqualified}, // below half the mandatory threshold
	}
	for _, tc := range cases {
		if got := e.recommendation(tc.weighted, tc.compliance); got != tc.want {
			t.Fatalf("recommendation(%f, %f) = %s, want %s", tc.weighted, tc.compliance, got, tc.want)
		}
	}
}

func TestNormalizeStandard(t *testing.T) {
	cases := map[string]string{
		"iso-9001":  "ISO 9001",
		"ISO9001":   "ISO 9001",
		" iso_9001": "ISO 9001",
		"ISO 9001":  "ISO 9001",
		"IATF16949": "IATF16949", // only ISO prefix is repaired
	}
	for in, want := range cases {
		if got := NormalizeStandard(in); got != want {
			t.Fatalf("NormalizeStandard(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeStandardsDeduplicates(t *testing.T) {
	got := NormalizeStandards([]string{"iso 9001", "ISO-9001", "ISO 14001"})
	if len(got) != 2 {
		t.Fatalf("expected 2 unique standards, got %v", got)
	}
	if got[0] != "ISO 9001" || got[1] != "ISO 14001" {
		t.Fatalf("unexpected normalization order: %v", got)
	}
}
