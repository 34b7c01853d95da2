package engine

import (
	"errors"
	"fmt"
	"sort"
)

// MatrixCell 对比矩阵单元格
type MatrixCell struct {
	VendorID     string  `json:"vendor_id"`
	VendorName   string  `json:"vendor_name"`
	Value        float64 `json:"value"`
	DisplayValue string  `json:"display_value"`
	IsBest       bool    `json:"is_best"`
	IsWorst      bool    `json:"is_worst"`
	Rank         int     `json:"rank"`
}

// MatrixRow 对比矩阵行, 对应一个评分项
type MatrixRow struct {
	CriteriaName string       `json:"criteria_name"`
	Category     string       `json:"category"`
	Weight       float64      `json:"weight"`
	Cells        []MatrixCell `json:"cells"`
	MaxValue     float64      `json:"max_value"`
	MinValue     float64      `json:"min_value"`
}

// ComparisonMatrix 供应商横向对比矩阵
type ComparisonMatrix struct {
	EvaluationID    string       `json:"evaluation_id"`
	EvaluationName  string       `json:"evaluation_name"`
	VendorCount     int          `json:"vendor_count"`
	CriteriaCount   int          `json:"criteria_count"`
	VendorIDs       []string     `json:"vendor_ids"`
	VendorNames     []string     `json:"vendor_names"`
	Rows            []MatrixRow  `json:"rows"`
	TotalScores     []MatrixCell `json:"total_scores"`
	BestVendorID    string       `json:"best_vendor_id"`
	BestVendorName  string       `json:"best_vendor_name"`
	WorstVendorID   string       `json:"worst_vendor_id"`
	WorstVendorName string       `json:"worst_vendor_name"`
}

// ErrEmptyMatrix 无评估结果时无法生成矩阵
var ErrEmptyMatrix = errors.New("cannot generate matrix without results")

// GenerateMatrix 由评估结果生成对比矩阵
// 行顺序取自首个结果的评分项顺序, 各行按原始分标注最优最差与名次
func GenerateMatrix(evaluationID, evaluationName string, results []*TBEResult) (*ComparisonMatrix, error) {
	if len(results) == 0 {
		return nil, ErrEmptyMatrix
	}

	matrix := &ComparisonMatrix{
		EvaluationID:   evaluationID,
		EvaluationName: evaluationName,
		VendorCount:    len(results),
		VendorIDs:      make([]string, len(results)),
		VendorNames:    make([]string, len(results)),
	}
	for i, result := range results {
		matrix.VendorIDs[i] = result.VendorID
		matrix.VendorNames[i] = result.VendorName
	}

	for _, score := range results[0].Scores {
		values := make([]float64, len(results))
		for i, result := range results {
			values[i] = findScore(result, score.CriteriaName)
		}
		row := MatrixRow{
			CriteriaName: score.CriteriaName,
			Category:     score.Category,
			Weight:       score.Weight,
			Cells:        buildCells(results, values, "%.1f"),
		}
		row.MaxValue, row.MinValue = minMax(values)
		matrix.Rows = append(matrix.Rows, row)
	}
	matrix.CriteriaCount = len(matrix.Rows)

	totals := make([]float64, len(results))
	for i, result := range results {
		totals[i] = result.TotalWeightedScore
	}
	matrix.TotalScores = buildCells(results, totals, "%.2f")

	bestIdx, worstIdx := 0, 0
	for i, v := range totals {
		if v > totals[bestIdx] {
			bestIdx = i
		}
		if v < totals[worstIdx] {
			worstIdx = i
		}
	}
	matrix.BestVendorID = results[bestIdx].VendorID
	matrix.BestVendorName = results[bestIdx].VendorName
	if worstIdx != bestIdx {
		matrix.WorstVendorID = results[worstIdx].VendorID
		matrix.WorstVendorName = results[worstIdx].VendorName
	}
	return matrix, nil
}

func findScore(result *TBEResult, criteriaName string) float64 {
	for _, score := range result.Scores {
		if score.CriteriaName == criteriaName {
			return score.RawScore
		}
	}
	return 0
}

// buildCells 生成一行单元格, 并列最高均标记最优, 全行相同时不标记最差
func buildCells(results []*TBEResult, values []float64, format string) []MatrixCell {
	max, min := minMax(values)

	ranks := make([]int, len(values))
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})
	for rank, idx := range order {
		ranks[idx] = rank + 1
	}

	cells := make([]MatrixCell, len(results))
	for i, result := range results {
		cells[i] = MatrixCell{
			VendorID:     result.VendorID,
			VendorName:   result.VendorName,
			Value:        values[i],
			DisplayValue: fmt.Sprintf(format, values[i]),
			IsBest:       values[i] == max,
			IsWorst:      values[i] == min && max != min,
			Rank:         ranks[i],
		}
	}
	return cells
}

func minMax(values []float64) (max, min float64) {
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}
