package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ComplianceConfig 合规检查配置
type ComplianceConfig struct {
	ISOWeight             float64             `json:"iso_weight"`
	CertificationWeight   float64             `json:"certification_weight"`
	MandatoryThreshold    float64             `json:"mandatory_threshold"`
	AllowPartialCredit    bool                `json:"allow_partial_credit"`
	PartialCreditRatio    float64             `json:"partial_credit_ratio"`
	StandardRelationships map[string][]string `json:"standard_relationships"`
}

// DefaultStandardRelationships 常见质量标准的关联关系, 用于部分认可
func DefaultStandardRelationships() map[string][]string {
	return map[string][]string{
		"ISO 9001":   {"IATF 16949", "AS 9100", "ISO 13485"},
		"ISO 14001":  {"ISO 45001"},
		"ISO 17025":  {"ISO 9001"},
		"ISO 27001":  {},
		"ISO 45001":  {"ISO 14001"},
		"IATF 16949": {"ISO 9001"},
		"ISO 13485":  {"ISO 9001"},
		"ISO 22000":  {"ISO 9001"},
		"AS 9100":    {"ISO 9001"},
	}
}

// DefaultComplianceConfig 默认合规配置
func DefaultComplianceConfig() ComplianceConfig {
	return ComplianceConfig{
		ISOWeight:             0.7,
		CertificationWeight:   0.3,
		MandatoryThreshold:    100,
		AllowPartialCredit:    true,
		PartialCreditRatio:    0.5,
		StandardRelationships: DefaultStandardRelationships(),
	}
}

// ComplianceCheck 单个供应商的合规检查结果
type ComplianceCheck struct {
	VendorID                     string   `json:"vendor_id"`
	VendorName                   string   `json:"vendor_name"`
	RequiredISOStandards         []string `json:"required_iso_standards"`
	ProvidedISOStandards         []string `json:"provided_iso_standards"`
	RequiredCertifications       []string `json:"required_certifications"`
	ProvidedCertifications       []string `json:"provided_certifications"`
	ISOComplianceScore           float64  `json:"iso_compliance_score"`
	CertificationComplianceScore float64  `json:"certification_compliance_score"`
	OverallComplianceScore       float64  `json:"overall_compliance_score"`
	MissingISOStandards          []string `json:"missing_iso_standards"`
	MissingCertifications        []string `json:"missing_certifications"`
	IsCompliant                  bool     `json:"is_compliant"`
	ComplianceNotes              string   `json:"compliance_notes"`
}

// ComplianceStatistics 合规达标统计
type ComplianceStatistics struct {
	FullyCompliant     int     `json:"fully_compliant"`
	PartiallyCompliant int     `json:"partially_compliant"`
	ComplianceRate     float64 `json:"compliance_rate"`
}

// ScoreStatistics 分值统计
type ScoreStatistics struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

// ComplianceLevels 合规分档统计
type ComplianceLevels struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// GapCount 缺失项出现次数
type GapCount struct {
	Standard string `json:"standard"`
	Count    int    `json:"count"`
}

// CommonGaps 高频缺失项
type CommonGaps struct {
	MissingISOStandards   []GapCount `json:"missing_iso_standards"`
	MissingCertifications []GapCount `json:"missing_certifications"`
}

// ComplianceSummary 合规检查汇总
type ComplianceSummary struct {
	Message              string               `json:"message,omitempty"`
	VendorCount          int                  `json:"vendor_count"`
	ComplianceStatistics ComplianceStatistics `json:"compliance_statistics"`
	ScoreStatistics      ScoreStatistics      `json:"score_statistics"`
	ComplianceLevels     ComplianceLevels     `json:"compliance_levels"`
	CommonGaps           CommonGaps           `json:"common_gaps"`
}

// ComplianceRankEntry 合规排名条目
type ComplianceRankEntry struct {
	Rank               int     `json:"rank"`
	VendorID           string  `json:"vendor_id"`
	VendorName         string  `json:"vendor_name"`
	OverallScore       float64 `json:"overall_score"`
	ISOScore           float64 `json:"iso_score"`
	CertificationScore float64 `json:"certification_score"`
	IsCompliant        bool    `json:"is_compliant"`
}

// ComplianceScorer 合规检查器
type ComplianceScorer struct {
	config ComplianceConfig
}

// NewComplianceScorer 创建合规检查器
func NewComplianceScorer(config ComplianceConfig) *ComplianceScorer {
	if config.StandardRelationships == nil {
		config.StandardRelationships = DefaultStandardRelationships()
	}
	return &ComplianceScorer{config: config}
}

// CheckCompliance 检查单个供应商报价的合规性
// 报价声明与供应商档案中的标准合并后去重参与匹配
func (s *ComplianceScorer) CheckCompliance(bid Bid, vendor Vendor, requiredISO, requiredCerts []string) *ComplianceCheck {
	providedISO := NormalizeStandards(append(append([]string{}, bid.ISOCompliance...), vendor.ISOStandards...))
	providedCerts := NormalizeCerts(append(append([]string{}, bid.Certifications...), vendor.Certifications...))
	reqISO := NormalizeStandards(requiredISO)
	reqCerts := NormalizeCerts(requiredCerts)

	isoScore, missingISO := s.scoreISO(reqISO, providedISO)
	certScore, missingCerts := s.scoreCerts(reqCerts, providedCerts)

	var overall float64
	switch {
	case len(reqISO) > 0 && len(reqCerts) > 0:
		overall = isoScore*s.config.ISOWeight + certScore*s.config.CertificationWeight
	case len(reqISO) > 0:
		overall = isoScore
	case len(reqCerts) > 0:
		overall = certScore
	default:
		overall = 100
	}

	check := &ComplianceCheck{
		VendorID:                     vendor.ID,
		VendorName:                   vendor.Name,
		RequiredISOStandards:         reqISO,
		ProvidedISOStandards:         providedISO,
		RequiredCertifications:       reqCerts,
		ProvidedCertifications:       providedCerts,
		ISOComplianceScore:           isoScore,
		CertificationComplianceScore: certScore,
		OverallComplianceScore:       round2(overall),
		MissingISOStandards:          missingISO,
		MissingCertifications:        missingCerts,
		IsCompliant:                  len(missingISO) == 0 && len(missingCerts) == 0,
	}
	check.ComplianceNotes = s.buildNotes(check)
	return check
}

// CheckAllVendors 批量检查, 缺失供应商档案的报价跳过
func (s *ComplianceScorer) CheckAllVendors(bids []Bid, vendors map[string]Vendor, requiredISO, requiredCerts []string) []*ComplianceCheck {
	checks := make([]*ComplianceCheck, 0, len(bids))
	for _, bid := range bids {
		vendor, ok := vendors[bid.VendorID]
		if !ok {
			continue
		}
		checks = append(checks, s.CheckCompliance(bid, vendor, requiredISO, requiredCerts))
	}
	return checks
}

// scoreISO ISO 标准匹配, 支持关联标准部分认可
func (s *ComplianceScorer) scoreISO(required, provided []string) (float64, []string) {
	if len(required) == 0 {
		return 100, nil
	}
	matches := 0.0
	missing := []string{}
	for _, req := range required {
		if matchesAny(req, provided) {
			matches++
			continue
		}
		if s.config.AllowPartialCredit && s.hasRelated(req, provided) {
			matches += s.config.PartialCreditRatio
			continue
		}
		missing = append(missing, req)
	}
	return round2(matches / float64(len(required)) * 100), missing
}

// scoreCerts 认证匹配, 不做部分认可
func (s *ComplianceScorer) scoreCerts(required, provided []string) (float64, []string) {
	if len(required) == 0 {
		return 100, nil
	}
	matches := 0
	missing := []string{}
	for _, req := range required {
		if matchesAny(req, provided) {
			matches++
		} else {
			missing = append(missing, req)
		}
	}
	return round2(float64(matches) / float64(len(required)) * 100), missing
}

func (s *ComplianceScorer) hasRelated(required string, provided []string) bool {
	for _, related := range s.config.StandardRelationships[required] {
		if matchesAny(NormalizeStandard(related), provided) {
			return true
		}
	}
	return false
}

func (s *ComplianceScorer) buildNotes(check *ComplianceCheck) string {
	if check.IsCompliant {
		return "Full compliance with all requirements."
	}
	parts := []string{}
	if len(check.RequiredISOStandards) > 0 {
		parts = append(parts, fmt.Sprintf("ISO compliance: %.1f%%. Missing: %s.",
			check.ISOComplianceScore, joinOrNone(check.MissingISOStandards)))
	}
	if len(check.RequiredCertifications) > 0 {
		parts = append(parts, fmt.Sprintf("Certification compliance: %.1f%%. Missing: %s.",
			check.CertificationComplianceScore, joinOrNone(check.MissingCertifications)))
	}
	switch {
	case check.ISOComplianceScore >= 80 && check.CertificationComplianceScore >= 80:
		parts = append(parts, "Minor compliance gaps may be acceptable.")
	case check.ISOComplianceScore >= 50 || check.CertificationComplianceScore >= 50:
		parts = append(parts, "Significant compliance gaps require attention.")
	default:
		parts = append(parts, "Critical compliance issues identified.")
	}
	return strings.Join(parts, " ")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// Summary 合规检查汇总统计
func (s *ComplianceScorer) Summary(checks []*ComplianceCheck) *ComplianceSummary {
	if len(checks) == 0 {
		return &ComplianceSummary{Message: "No compliance checks available"}
	}
	summary := &ComplianceSummary{VendorCount: len(checks)}
	scores := make([]float64, 0, len(checks))
	missingISO := map[string]int{}
	missingCerts := map[string]int{}
	for _, check := range checks {
		scores = append(scores, check.OverallComplianceScore)
		if check.IsCompliant {
			summary.ComplianceStatistics.FullyCompliant++
		} else {
			summary.ComplianceStatistics.PartiallyCompliant++
		}
		switch {
		case check.OverallComplianceScore >= 80:
			summary.ComplianceLevels.High++
		case check.OverallComplianceScore >= 50:
			summary.ComplianceLevels.Medium++
		default:
			summary.ComplianceLevels.Low++
		}
		for _, m := range check.MissingISOStandards {
			missingISO[m]++
		}
		for _, m := range check.MissingCertifications {
			missingCerts[m]++
		}
	}
	summary.ComplianceStatistics.ComplianceRate = round2(float64(summary.ComplianceStatistics.FullyCompliant) / float64(len(checks)) * 100)
	summary.ScoreStatistics = scoreStats(scores)
	summary.CommonGaps.MissingISOStandards = topGaps(missingISO, 5)
	summary.CommonGaps.MissingCertifications = topGaps(missingCerts, 5)
	return summary
}

// Rank 按综合合规分降序排名
func (s *ComplianceScorer) Rank(checks []*ComplianceCheck) []ComplianceRankEntry {
	sorted := make([]*ComplianceCheck, len(checks))
	copy(sorted, checks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallComplianceScore > sorted[j].OverallComplianceScore
	})
	entries := make([]ComplianceRankEntry, len(sorted))
	for i, check := range sorted {
		entries[i] = ComplianceRankEntry{
			Rank:               i + 1,
			VendorID:           check.VendorID,
			VendorName:         check.VendorName,
			OverallScore:       round2(check.OverallComplianceScore),
			ISOScore:           round2(check.ISOComplianceScore),
			CertificationScore: round2(check.CertificationComplianceScore),
			IsCompliant:        check.IsCompliant,
		}
	}
	return entries
}

func scoreStats(scores []float64) ScoreStatistics {
	if len(scores) == 0 {
		return ScoreStatistics{}
	}
	min, max, sum := scores[0], scores[0], 0.0
	for _, v := range scores {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return ScoreStatistics{
		Average: round2(sum / float64(len(scores))),
		Minimum: round2(min),
		Maximum: round2(max),
	}
}

func topGaps(counts map[string]int, n int) []GapCount {
	gaps := make([]GapCount, 0, len(counts))
	for standard, count := range counts {
		gaps = append(gaps, GapCount{Standard: standard, Count: count})
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Count != gaps[j].Count {
			return gaps[i].Count > gaps[j].Count
		}
		return gaps[i].Standard < gaps[j].Standard
	})
	if len(gaps) > n {
		gaps = gaps[:n]
	}
	return gaps
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
