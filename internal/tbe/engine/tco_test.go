package engine

import (
	"math"
	"testing"
)

func TestCalculateTCOAcquisitionOnly(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	bid := Bid{
		ID: "b1", VendorID: "v1",
		UnitPrice: 50, Quantity: 10,
		ShippingCost: 100, InstallationCost: 200, TrainingCost: 50,
		WarrantyYears: 1, ExpectedLifespanYears: 5,
	}
	calc := c.CalculateTCO(bid, Vendor{ID: "v1", Name: "Acme"})

	if calc.BaseCost != 500 {
		t.Fatalf("expected base cost 500, got %f", calc.BaseCost)
	}
	if calc.AcquisitionCost != 850 {
		t.Fatalf("expected acquisition 850, got %f", calc.AcquisitionCost)
	}
	// No annual maintenance means no operational cost
	if calc.TotalMaintenanceCost != 0 || calc.TotalTCO != 850 {
		t.Fatalf("expected TCO 850, got %f (maintenance %f)", calc.TotalTCO, calc.TotalMaintenanceCost)
	}
	if !almostEqual(calc.TCOPerYear, 170) {
		t.Fatalf("expected 170/year, got %f", calc.TCOPerYear)
	}
	if !almostEqual(calc.TCOPerUnit, 85) {
		t.Fatalf("expected 85/unit, got %f", calc.TCOPerUnit)
	}
}

func TestCalculateTCODiscountedMaintenance(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	bid := Bid{
		ID: "b1", VendorID: "v1",
		UnitPrice: 100, Quantity: 1,
		MaintenanceCostAnnual: 1000,
		WarrantyYears:         1, ExpectedLifespanYears: 5,
	}
	calc := c.CalculateTCO(bid, Vendor{ID: "v1", Name: "Acme"})

	// Four maintenance years (2 through 5), inflated at 3% and discounted at 5%:
	// each year's present value is below the nominal 1000, so the total sits
	// between 3400 and 4000
	if calc.TotalMaintenanceCost >= 4000 {
		t.Fatalf("discounting should keep maintenance below nominal 4000, got %f", calc.TotalMaintenanceCost)
	}
	if calc.TotalMaintenanceCost <= 3400 {
		t.Fatalf("maintenance total unexpectedly low: %f", calc.TotalMaintenanceCost)
	}

	// Spot-check year 2 term: 1000*(1.03)^1 / (1.05)^2
	want := 1000 * 1.03 / math.Pow(1.05, 2)
	first := c.discountedMaintenance(1000, 1, 1)
	if !almostEqual(first, want) {
		t.Fatalf("expected first maintenance year %f, got %f", want, first)
	}
}

func TestCalculateTCOLongerWarrantyCostsLess(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	base := Bid{
		ID: "b1", VendorID: "v1",
		UnitPrice: 100, Quantity: 1,
		MaintenanceCostAnnual: 1000,
		ExpectedLifespanYears: 5,
	}

	prev := math.Inf(1)
	for warranty := 1; warranty <= 5; warranty++ {
		bid := base
		bid.WarrantyYears = warranty
		calc := c.CalculateTCO(bid, Vendor{ID: "v1", Name: "Acme"})
		if calc.TotalTCO >= prev {
			t.Fatalf("warranty %d years: TCO %f not below %f", warranty, calc.TotalTCO, prev)
		}
		prev = calc.TotalTCO
	}
}

func TestCalculateTCODefaults(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	// Zero lifespan and warranty fall back to config defaults
	calc := c.CalculateTCO(Bid{ID: "b1", VendorID: "v1", UnitPrice: 10, Quantity: 1}, Vendor{ID: "v1"})
	if calc.LifespanYears != 5 || calc.WarrantyYears != 1 {
		t.Fatalf("expected defaults 5/1, got %d/%d", calc.LifespanYears, calc.WarrantyYears)
	}
}

func TestCalculateAllTCOScoresAndRanks(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	vendors := map[string]Vendor{
		"v1": {ID: "v1", Name: "Cheap"},
		"v2": {ID: "v2", Name: "Mid"},
		"v3": {ID: "v3", Name: "Expensive"},
	}
	bids := []Bid{
		{ID: "b1", VendorID: "v1", UnitPrice: 100, Quantity: 1, WarrantyYears: 1, ExpectedLifespanYears: 1},
		{ID: "b2", VendorID: "v2", UnitPrice: 200, Quantity: 1, WarrantyYears: 1, ExpectedLifespanYears: 1},
		{ID: "b3", VendorID: "v3", UnitPrice: 300, Quantity: 1, WarrantyYears: 1, ExpectedLifespanYears: 1},
	}
	calcs := c.CalculateAllTCO(bids, vendors)
	if len(calcs) != 3 {
		t.Fatalf("expected 3 calculations, got %d", len(calcs))
	}

	byVendor := map[string]*TCOCalculation{}
	for _, calc := range calcs {
		byVendor[calc.VendorID] = calc
	}
	if !almostEqual(byVendor["v1"].TCOScore, 100) || byVendor["v1"].TCORank != 1 {
		t.Fatalf("cheapest should score 100 rank 1, got %+v", byVendor["v1"])
	}
	if !almostEqual(byVendor["v2"].TCOScore, 50) || byVendor["v2"].TCORank != 2 {
		t.Fatalf("mid should score 50 rank 2, got %+v", byVendor["v2"])
	}
	if !almostEqual(byVendor["v3"].TCOScore, 0) || byVendor["v3"].TCORank != 3 {
		t.Fatalf("most expensive should score 0 rank 3, got %+v", byVendor["v3"])
	}
}

func TestCalculateAllTCOEqualTotals(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	vendors := map[string]Vendor{"v1": {ID: "v1"}, "v2": {ID: "v2"}}
	bids := []Bid{
		{ID: "b1", VendorID: "v1", UnitPrice: 100, Quantity: 1, WarrantyYears: 1, ExpectedLifespanYears: 1},
		{ID: "b2", VendorID: "v2", UnitPrice: 100, Quantity: 1, WarrantyYears: 1, ExpectedLifespanYears: 1},
	}
	for _, calc := range c.CalculateAllTCO(bids, vendors) {
		if calc.TCOScore != 100 {
			t.Fatalf("equal TCOs should all score 100, got %f", calc.TCOScore)
		}
	}
}

func TestTCOSummary(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	calcs := []*TCOCalculation{
		{VendorID: "v1", VendorName: "A", TotalTCO: 1000, TCOPerYear: 200, AcquisitionCost: 800, OperationalCost: 200},
		{VendorID: "v2", VendorName: "B", TotalTCO: 2000, TCOPerYear: 400, AcquisitionCost: 1500, OperationalCost: 500},
	}
	summary := c.Summary(calcs)
	if summary.VendorCount != 2 {
		t.Fatalf("expected 2 vendors, got %d", summary.VendorCount)
	}
	if summary.BestValue.VendorID != "v1" || summary.WorstValue.VendorID != "v2" {
		t.Fatalf("unexpected best/worst: %+v / %+v", summary.BestValue, summary.WorstValue)
	}
	if summary.TCOStatistics.Range != 1000 {
		t.Fatalf("expected range 1000, got %f", summary.TCOStatistics.Range)
	}
	if summary.SavingsAnalysis.PotentialSavings != 1000 || summary.SavingsAnalysis.SavingsPercentage != 50 {
		t.Fatalf("unexpected savings analysis: %+v", summary.SavingsAnalysis)
	}
}

func TestTCOSummaryEmpty(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	if got := c.Summary(nil); got.Message != "No TCO calculations available" {
		t.Fatalf("unexpected empty summary: %+v", got)
	}
}

func TestCompareTCO(t *testing.T) {
	c := NewTCOCalculator(DefaultTCOConfig())
	calc1 := &TCOCalculation{VendorID: "v1", VendorName: "A", TotalTCO: 1500, AcquisitionCost: 1000, OperationalCost: 500, TotalMaintenanceCost: 500}
	calc2 := &TCOCalculation{VendorID: "v2", VendorName: "B", TotalTCO: 1000, AcquisitionCost: 800, OperationalCost: 200, TotalMaintenanceCost: 200}

	cmp := c.Compare(calc1, calc2)
	if cmp.Comparison.BetterValueVendor != "B" {
		t.Fatalf("expected B as better value, got %s", cmp.Comparison.BetterValueVendor)
	}
	if cmp.Comparison.TCODifference != 500 || cmp.Comparison.SavingsAmount != 500 {
		t.Fatalf("unexpected difference: %+v", cmp.Comparison)
	}
	if cmp.Comparison.PercentageDifference != 50 {
		t.Fatalf("expected 50%% difference, got %f", cmp.Comparison.PercentageDifference)
	}
	if cmp.BreakdownComparison.AcquisitionDiff != 200 || cmp.BreakdownComparison.MaintenanceDiff != 300 {
		t.Fatalf("unexpected breakdown: %+v", cmp.BreakdownComparison)
	}
}
