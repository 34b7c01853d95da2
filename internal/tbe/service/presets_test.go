package service

import "testing"

func TestWeightPresetsAreNormalized(t *testing.T) {
	presets := ListWeightPresets()
	if len(presets) != 6 {
		t.Fatalf("expected 6 presets, got %d", len(presets))
	}
	for _, preset := range presets {
		if err := preset.Weights.Validate(); err != nil {
			t.Fatalf("preset %s has invalid weights: %v", preset.Name, err)
		}
	}
}

func TestGetWeightPreset(t *testing.T) {
	preset, err := GetWeightPreset(PresetCostFocused)
	if err != nil {
		t.Fatalf("failed to get preset: %v", err)
	}
	if preset.Weights.Price != 0.50 {
		t.Fatalf("expected cost_focused price weight 0.50, got %f", preset.Weights.Price)
	}

	if _, err := GetWeightPreset("nonsense"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestResolveWeights(t *testing.T) {
	// Preset only
	weights, name, err := resolveWeights(PresetQualityFocused, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != PresetQualityFocused || weights.Quality != 0.45 {
		t.Fatalf("unexpected resolution: %s %+v", name, weights)
	}

	// Explicit overrides mark the result custom
	price := 0.45
	quality := 0.20
	weights, name, err = resolveWeights("", &price, &quality, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "custom" || weights.Price != 0.45 {
		t.Fatalf("unexpected custom resolution: %s %+v", name, weights)
	}

	// Overrides that break normalization are rejected
	bad := 0.9
	if _, _, err := resolveWeights("", &bad, nil, nil, nil); err == nil {
		t.Fatal("expected error for non-normalized override")
	}
}
