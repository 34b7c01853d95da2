package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/engine"
	"github.com/bitfantasy/nimo-tbe/internal/tbe/entity"
)

// ExportService 评标结果导出服务
type ExportService struct{}

// NewExportService 创建导出服务
func NewExportService() *ExportService {
	return &ExportService{}
}

// resultExportHeaders 评分明细导出表头
var resultExportHeaders = []string{
	"排名", "供应商编码", "供应商名称", "标书编号",
	"价格得分", "质量得分", "交期得分", "合规得分",
	"加权总分", "推荐等级", "评标意见",
}

// ExportMatrixExcel 导出对比矩阵与评分结果到 Excel
func (s *ExportService) ExportMatrixExcel(evaluation *entity.Evaluation, outcome *EvaluationOutcome) (*excelize.File, string, error) {
	f := excelize.NewFile()
	sheet := "评标结果"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("创建样式失败: %w", err)
	}

	for i, header := range resultExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	for _, result := range outcome.Results {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), result.Rank)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), result.VendorCode)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), result.VendorName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), result.BidReference)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), round2(result.PriceScore))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), round2(result.QualityScore))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), round2(result.DeliveryScore))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), round2(result.ComplianceScore))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), round2(result.TotalWeightedScore))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), recommendationLabel(result.Recommendation))
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), result.RecommendationNotes)
		row++
	}

	if outcome.Matrix != nil {
		s.writeMatrixSheet(f, outcome.Matrix, boldStyle)
	}
	if len(outcome.TCOCalculations) > 0 {
		s.writeTCOSheet(f, outcome.TCOCalculations, boldStyle)
	}

	f.SetColWidth(sheet, "B", "D", 16)
	f.SetColWidth(sheet, "C", "C", 24)
	f.SetColWidth(sheet, "K", "K", 60)

	filename := fmt.Sprintf("评标结果_%s_%s.xlsx", evaluation.Name, time.Now().Format("20060102"))
	return f, filename, nil
}

// writeMatrixSheet 对比矩阵: 行为评分项, 列为供应商
func (s *ExportService) writeMatrixSheet(f *excelize.File, matrix *engine.ComparisonMatrix, boldStyle int) {
	sheet := "对比矩阵"
	f.NewSheet(sheet)

	f.SetCellValue(sheet, "A1", "评分项")
	f.SetCellStyle(sheet, "A1", "A1", boldStyle)
	for i, name := range matrix.VendorNames {
		col, _ := excelize.ColumnNumberToName(i + 2)
		cell := col + "1"
		f.SetCellValue(sheet, cell, name)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	for _, matrixRow := range matrix.Rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), matrixRow.CriteriaName)
		for i, cell := range matrixRow.Cells {
			col, _ := excelize.ColumnNumberToName(i + 2)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), cell.DisplayValue)
		}
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "加权总分")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
	for i, cell := range matrix.TotalScores {
		col, _ := excelize.ColumnNumberToName(i + 2)
		target := fmt.Sprintf("%s%d", col, row)
		f.SetCellValue(sheet, target, cell.DisplayValue)
		f.SetCellStyle(sheet, target, target, boldStyle)
	}

	f.SetColWidth(sheet, "A", "A", 26)
}

// writeTCOSheet TCO 明细
func (s *ExportService) writeTCOSheet(f *excelize.File, calcs []*engine.TCOCalculation, boldStyle int) {
	sheet := "TCO分析"
	f.NewSheet(sheet)

	headers := []string{"供应商", "采购成本", "运维成本", "总拥有成本", "年均成本", "单件成本", "TCO得分", "TCO排名"}
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	for _, calc := range calcs {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), calc.VendorName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), round2(calc.AcquisitionCost))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), round2(calc.OperationalCost))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), round2(calc.TotalTCO))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), round2(calc.TCOPerYear))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), round2(calc.TCOPerUnit))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), round2(calc.TCOScore))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), calc.TCORank)
		row++
	}

	f.SetColWidth(sheet, "A", "A", 24)
}

// ExportResultsCSV 导出评分结果为 GBK 编码 CSV, 便于 Excel 直接打开
func (s *ExportService) ExportResultsCSV(evaluation *entity.Evaluation, outcome *EvaluationOutcome) ([]byte, string, error) {
	var buf bytes.Buffer
	encoder := transform.NewWriter(&buf, simplifiedchinese.GBK.NewEncoder())
	writer := csv.NewWriter(encoder)

	if err := writer.Write(resultExportHeaders); err != nil {
		return nil, "", err
	}
	for _, result := range outcome.Results {
		record := []string{
			fmt.Sprintf("%d", result.Rank),
			result.VendorCode,
			result.VendorName,
			result.BidReference,
			fmt.Sprintf("%.1f", result.PriceScore),
			fmt.Sprintf("%.1f", result.QualityScore),
			fmt.Sprintf("%.1f", result.DeliveryScore),
			fmt.Sprintf("%.1f", result.ComplianceScore),
			fmt.Sprintf("%.2f", result.TotalWeightedScore),
			recommendationLabel(result.Recommendation),
			result.RecommendationNotes,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}
	if err := encoder.Close(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("评标结果_%s_%s.csv", evaluation.Name, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// recommendationLabel 推荐等级中文标签
func recommendationLabel(recommendation string) string {
	switch recommendation {
	case engine.RecommendationHighlyRecommended:
		return "强烈推荐"
	case engine.RecommendationRecommended:
		return "推荐"
	case engine.RecommendationAcceptable:
		return "可接受"
	case engine.RecommendationNotRecommended:
		return "不推荐"
	case engine.RecommendationDisqualified:
		return "淘汰"
	}
	return recommendation
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
