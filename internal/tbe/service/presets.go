package service

import (
	"fmt"

	"github.com/bitfantasy/nimo-tbe/internal/tbe/engine"
)

// WeightPreset 权重预设
type WeightPreset struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Weights     engine.CriteriaWeights `json:"weights"`
}

// 权重预设名称
const (
	PresetDefault           = "default"
	PresetBalanced          = "balanced"
	PresetCostFocused       = "cost_focused"
	PresetQualityFocused    = "quality_focused"
	PresetTimeCritical      = "time_critical"
	PresetComplianceFocused = "compliance_focused"
)

var weightPresets = []WeightPreset{
	{
		Name:        PresetDefault,
		Description: "标准采购权重: 价格 40%、质量 25%、交期 20%、合规 15%",
		Weights:     engine.CriteriaWeights{Price: 0.40, Quality: 0.25, Delivery: 0.20, Compliance: 0.15},
	},
	{
		Name:        PresetBalanced,
		Description: "四项准则等权, 各占 25%",
		Weights:     engine.CriteriaWeights{Price: 0.25, Quality: 0.25, Delivery: 0.25, Compliance: 0.25},
	},
	{
		Name:        PresetCostFocused,
		Description: "成本优先, 价格权重提升至 50%",
		Weights:     engine.CriteriaWeights{Price: 0.50, Quality: 0.20, Delivery: 0.15, Compliance: 0.15},
	},
	{
		Name:        PresetQualityFocused,
		Description: "质量优先, 适用于关键件采购",
		Weights:     engine.CriteriaWeights{Price: 0.20, Quality: 0.45, Delivery: 0.15, Compliance: 0.20},
	},
	{
		Name:        PresetTimeCritical,
		Description: "交期优先, 适用于紧急采购",
		Weights:     engine.CriteriaWeights{Price: 0.25, Quality: 0.20, Delivery: 0.40, Compliance: 0.15},
	},
	{
		Name:        PresetComplianceFocused,
		Description: "合规优先, 适用于强监管行业",
		Weights:     engine.CriteriaWeights{Price: 0.20, Quality: 0.25, Delivery: 0.15, Compliance: 0.40},
	},
}

// ListWeightPresets 返回全部权重预设
func ListWeightPresets() []WeightPreset {
	presets := make([]WeightPreset, len(weightPresets))
	copy(presets, weightPresets)
	return presets
}

// GetWeightPreset 按名称查找权重预设
func GetWeightPreset(name string) (WeightPreset, error) {
	for _, preset := range weightPresets {
		if preset.Name == name {
			return preset, nil
		}
	}
	return WeightPreset{}, fmt.Errorf("未知的权重预设: %s", name)
}
