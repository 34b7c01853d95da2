package engine

import (
	"math"
	"sort"
)

// TCOConfig 总拥有成本计算配置
type TCOConfig struct {
	DiscountRate             float64 `json:"discount_rate"`
	DefaultLifespanYears     int     `json:"default_lifespan_years"`
	DefaultWarrantyYears     int     `json:"default_warranty_years"`
	MaintenanceInflationRate float64 `json:"maintenance_inflation_rate"`
}

// DefaultTCOConfig 默认 TCO 配置
func DefaultTCOConfig() TCOConfig {
	return TCOConfig{
		DiscountRate:             0.05,
		DefaultLifespanYears:     5,
		DefaultWarrantyYears:     1,
		MaintenanceInflationRate: 0.03,
	}
}

// TCOCalculation 单个供应商的 TCO 计算结果
type TCOCalculation struct {
	VendorID              string  `json:"vendor_id"`
	VendorName            string  `json:"vendor_name"`
	BidID                 string  `json:"bid_id"`
	UnitPrice             float64 `json:"unit_price"`
	Quantity              int     `json:"quantity"`
	BaseCost              float64 `json:"base_cost"`
	ShippingCost          float64 `json:"shipping_cost"`
	InstallationCost      float64 `json:"installation_cost"`
	TrainingCost          float64 `json:"training_cost"`
	MaintenanceCostAnnual float64 `json:"maintenance_cost_annual"`
	WarrantyYears         int     `json:"warranty_years"`
	LifespanYears         int     `json:"lifespan_years"`
	TotalMaintenanceCost  float64 `json:"total_maintenance_cost"`
	AcquisitionCost       float64 `json:"acquisition_cost"`
	OperationalCost       float64 `json:"operational_cost"`
	TotalTCO              float64 `json:"total_tco"`
	TCOPerYear            float64 `json:"tco_per_year"`
	TCOPerUnit            float64 `json:"tco_per_unit"`
	TCOScore              float64 `json:"tco_score"`
	TCORank               int     `json:"tco_rank"`
}

// TCOStatistics TCO 分布统计
type TCOStatistics struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Range   float64 `json:"range"`
}

// TCOVendorRef TCO 汇总中的供应商引用
type TCOVendorRef struct {
	VendorID   string  `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	TotalTCO   float64 `json:"total_tco"`
	TCOPerYear float64 `json:"tco_per_year"`
}

// SavingsAnalysis 最优与最差 TCO 的差异分析
type SavingsAnalysis struct {
	PotentialSavings  float64 `json:"potential_savings"`
	SavingsPercentage float64 `json:"savings_percentage"`
}

// TCOSummary TCO 汇总
type TCOSummary struct {
	Message               string          `json:"message,omitempty"`
	VendorCount           int             `json:"vendor_count"`
	TCOStatistics         TCOStatistics   `json:"tco_statistics"`
	AcquisitionStatistics ScoreStatistics `json:"acquisition_statistics"`
	OperationalStatistics ScoreStatistics `json:"operational_statistics"`
	BestValue             TCOVendorRef    `json:"best_value"`
	WorstValue            TCOVendorRef    `json:"worst_value"`
	SavingsAnalysis       SavingsAnalysis `json:"savings_analysis"`
}

// TCOCompareSide TCO 对比中的一方
type TCOCompareSide struct {
	VendorID        string  `json:"vendor_id"`
	Name            string  `json:"name"`
	TotalTCO        float64 `json:"total_tco"`
	AcquisitionCost float64 `json:"acquisition_cost"`
	OperationalCost float64 `json:"operational_cost"`
}

// TCOComparisonDetail 对比指标
type TCOComparisonDetail struct {
	TCODifference        float64 `json:"tco_difference"`
	PercentageDifference float64 `json:"percentage_difference"`
	BetterValueVendor    string  `json:"better_value_vendor"`
	SavingsAmount        float64 `json:"savings_amount"`
}

// TCOBreakdownComparison 成本构成差异
type TCOBreakdownComparison struct {
	AcquisitionDiff float64 `json:"acquisition_diff"`
	OperationalDiff float64 `json:"operational_diff"`
	MaintenanceDiff float64 `json:"maintenance_diff"`
}

// TCOComparison 两个供应商的 TCO 对比
type TCOComparison struct {
	Vendor1             TCOCompareSide         `json:"vendor_1"`
	Vendor2             TCOCompareSide         `json:"vendor_2"`
	Comparison          TCOComparisonDetail    `json:"comparison"`
	BreakdownComparison TCOBreakdownComparison `json:"breakdown_comparison"`
}

// TCOCalculator 总拥有成本计算器
type TCOCalculator struct {
	config TCOConfig
}

// NewTCOCalculator 创建 TCO 计算器
func NewTCOCalculator(config TCOConfig) *TCOCalculator {
	return &TCOCalculator{config: config}
}

// CalculateTCO 计算单个报价的总拥有成本
// 维保成本按通胀增长后以折现率折现到当前
func (c *TCOCalculator) CalculateTCO(bid Bid, vendor Vendor) *TCOCalculation {
	baseCost := bid.UnitPrice * float64(bid.Quantity)
	acquisitionCost := baseCost + bid.ShippingCost + bid.InstallationCost + bid.TrainingCost

	lifespan := bid.ExpectedLifespanYears
	if lifespan <= 0 {
		lifespan = c.config.DefaultLifespanYears
	}
	warranty := bid.WarrantyYears
	if warranty <= 0 {
		warranty = c.config.DefaultWarrantyYears
	}

	maintenanceYears := lifespan - warranty
	if maintenanceYears < 0 {
		maintenanceYears = 0
	}
	totalMaintenance := c.discountedMaintenance(bid.MaintenanceCostAnnual, warranty, maintenanceYears)

	totalTCO := acquisitionCost + totalMaintenance
	perYear := totalTCO
	if lifespan > 0 {
		perYear = totalTCO / float64(lifespan)
	}
	perUnit := totalTCO
	if bid.Quantity > 0 {
		perUnit = totalTCO / float64(bid.Quantity)
	}

	return &TCOCalculation{
		VendorID:              vendor.ID,
		VendorName:            vendor.Name,
		BidID:                 bid.ID,
		UnitPrice:             bid.UnitPrice,
		Quantity:              bid.Quantity,
		BaseCost:              baseCost,
		ShippingCost:          bid.ShippingCost,
		InstallationCost:      bid.InstallationCost,
		TrainingCost:          bid.TrainingCost,
		MaintenanceCostAnnual: bid.MaintenanceCostAnnual,
		WarrantyYears:         warranty,
		LifespanYears:         lifespan,
		TotalMaintenanceCost:  totalMaintenance,
		AcquisitionCost:       acquisitionCost,
		OperationalCost:       totalMaintenance,
		TotalTCO:              totalTCO,
		TCOPerYear:            perYear,
		TCOPerUnit:            perUnit,
	}
}

// discountedMaintenance 质保期后逐年计算维保现值
func (c *TCOCalculator) discountedMaintenance(annual float64, warrantyYears, maintenanceYears int) float64 {
	if annual <= 0 || maintenanceYears <= 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < maintenanceYears; i++ {
		year := warrantyYears + 1 + i
		inflated := annual * math.Pow(1+c.config.MaintenanceInflationRate, float64(year-1))
		total += inflated / math.Pow(1+c.config.DiscountRate, float64(year))
	}
	return total
}

// CalculateAllTCO 计算全部报价的 TCO 并归一化打分排名
// TCO 越低得分越高, 排名按 TCO 升序
func (c *TCOCalculator) CalculateAllTCO(bids []Bid, vendors map[string]Vendor) []*TCOCalculation {
	calcs := make([]*TCOCalculation, 0, len(bids))
	for _, bid := range bids {
		vendor, ok := vendors[bid.VendorID]
		if !ok {
			continue
		}
		calcs = append(calcs, c.CalculateTCO(bid, vendor))
	}
	if len(calcs) == 0 {
		return calcs
	}

	min, max := calcs[0].TotalTCO, calcs[0].TotalTCO
	for _, calc := range calcs[1:] {
		if calc.TotalTCO < min {
			min = calc.TotalTCO
		}
		if calc.TotalTCO > max {
			max = calc.TotalTCO
		}
	}
	for _, calc := range calcs {
		if min == max {
			calc.TCOScore = 100
		} else {
			calc.TCOScore = 100 * (1 - (calc.TotalTCO-min)/(max-min))
		}
	}

	sorted := make([]*TCOCalculation, len(calcs))
	copy(sorted, calcs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalTCO < sorted[j].TotalTCO
	})
	for i, calc := range sorted {
		calc.TCORank = i + 1
	}
	return calcs
}

// Summary TCO 汇总统计
func (c *TCOCalculator) Summary(calcs []*TCOCalculation) *TCOSummary {
	if len(calcs) == 0 {
		return &TCOSummary{Message: "No TCO calculations available"}
	}
	totals := make([]float64, len(calcs))
	acquisitions := make([]float64, len(calcs))
	operationals := make([]float64, len(calcs))
	best, worst := calcs[0], calcs[0]
	for i, calc := range calcs {
		totals[i] = calc.TotalTCO
		acquisitions[i] = calc.AcquisitionCost
		operationals[i] = calc.OperationalCost
		if calc.TotalTCO < best.TotalTCO {
			best = calc
		}
		if calc.TotalTCO > worst.TotalTCO {
			worst = calc
		}
	}
	totalStats := scoreStats(totals)
	savings := worst.TotalTCO - best.TotalTCO
	savingsPct := 0.0
	if worst.TotalTCO > 0 {
		savingsPct = round2(savings / worst.TotalTCO * 100)
	}
	return &TCOSummary{
		VendorCount: len(calcs),
		TCOStatistics: TCOStatistics{
			Average: totalStats.Average,
			Minimum: totalStats.Minimum,
			Maximum: totalStats.Maximum,
			Range:   round2(totalStats.Maximum - totalStats.Minimum),
		},
		AcquisitionStatistics: scoreStats(acquisitions),
		OperationalStatistics: scoreStats(operationals),
		BestValue: TCOVendorRef{
			VendorID:   best.VendorID,
			VendorName: best.VendorName,
			TotalTCO:   round2(best.TotalTCO),
			TCOPerYear: round2(best.TCOPerYear),
		},
		WorstValue: TCOVendorRef{
			VendorID:   worst.VendorID,
			VendorName: worst.VendorName,
			TotalTCO:   round2(worst.TotalTCO),
			TCOPerYear: round2(worst.TCOPerYear),
		},
		SavingsAnalysis: SavingsAnalysis{
			PotentialSavings:  round2(savings),
			SavingsPercentage: savingsPct,
		},
	}
}

// Compare 对比两个供应商的 TCO 构成
func (c *TCOCalculator) Compare(calc1, calc2 *TCOCalculation) *TCOComparison {
	diff := calc1.TotalTCO - calc2.TotalTCO
	pctDiff := 0.0
	if calc2.TotalTCO > 0 {
		pctDiff = round2(math.Abs(diff) / calc2.TotalTCO * 100)
	}
	betterVendor := calc1.VendorName
	if calc2.TotalTCO < calc1.TotalTCO {
		betterVendor = calc2.VendorName
	}
	return &TCOComparison{
		Vendor1: TCOCompareSide{
			VendorID:        calc1.VendorID,
			Name:            calc1.VendorName,
			TotalTCO:        round2(calc1.TotalTCO),
			AcquisitionCost: round2(calc1.AcquisitionCost),
			OperationalCost: round2(calc1.OperationalCost),
		},
		Vendor2: TCOCompareSide{
			VendorID:        calc2.VendorID,
			Name:            calc2.VendorName,
			TotalTCO:        round2(calc2.TotalTCO),
			AcquisitionCost: round2(calc2.AcquisitionCost),
			OperationalCost: round2(calc2.OperationalCost),
		},
		Comparison: TCOComparisonDetail{
			TCODifference:        round2(math.Abs(diff)),
			PercentageDifference: pctDiff,
			BetterValueVendor:    betterVendor,
			SavingsAmount:        round2(math.Abs(diff)),
		},
		BreakdownComparison: TCOBreakdownComparison{
			AcquisitionDiff: round2(math.Abs(calc1.AcquisitionCost - calc2.AcquisitionCost)),
			OperationalDiff: round2(math.Abs(calc1.OperationalCost - calc2.OperationalCost)),
			MaintenanceDiff: round2(math.Abs(calc1.TotalMaintenanceCost - calc2.TotalMaintenanceCost)),
		},
	}
}
