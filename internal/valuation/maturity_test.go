package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bound(v float64) *float64 { return &v }

func testRules() []MaturityRule {
	return []MaturityRule{
		{
			Level: MaturityAdvanced,
			Conditions: map[string]Condition{
				"dataReadiness":     {Min: bound(4)},
				"adoptionReadiness": {Min: bound(4)},
			},
			Range:      Range{Min: 30, Max: 45},
			Confidence: ConfidenceHigh,
		},
		{
			Level: MaturityDeveloping,
			Conditions: map[string]Condition{
				"dataReadiness": {Min: bound(2), Max: bound(5)},
			},
			Range:      Range{Min: 15, Max: 25},
			Confidence: ConfidenceMedium,
		},
		{
			Level:      MaturityFoundational,
			Range:      Range{Min: 5, Max: 12},
			Confidence: ConfidenceLow,
		},
	}
}

func TestDeriveMaturityLevel(t *testing.T) {
	tests := []struct {
		name          string
		scores        map[string]float64
		expectedLevel MaturityLevel
		expectedRange Range
	}{
		{
			name:          "advanced conditions met",
			scores:        map[string]float64{"dataReadiness": 5, "adoptionReadiness": 4},
			expectedLevel: MaturityAdvanced,
			expectedRange: Range{Min: 30, Max: 45},
		},
		{
			name:          "developing when advanced misses",
			scores:        map[string]float64{"dataReadiness": 3, "adoptionReadiness": 2},
			expectedLevel: MaturityDeveloping,
			expectedRange: Range{Min: 15, Max: 25},
		},
		{
			name:          "foundational fallback via empty condition set",
			scores:        map[string]float64{"dataReadiness": 1},
			expectedLevel: MaturityFoundational,
			expectedRange: Range{Min: 5, Max: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveMaturityLevel(tt.scores, testRules())
			assert.Equal(t, tt.expectedLevel, got.Level)
			assert.Equal(t, tt.expectedRange, got.Range)
		})
	}
}

func TestDeriveMaturityLevel_FirstMatchWins(t *testing.T) {
	// Scores satisfy both the advanced and the developing rule; list order
	// decides, not specificity scoring.
	scores := map[string]float64{"dataReadiness": 5, "adoptionReadiness": 5}

	got := DeriveMaturityLevel(scores, testRules())
	assert.Equal(t, MaturityAdvanced, got.Level)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
	assert.Equal(t, []string{"adoptionReadiness", "dataReadiness"}, got.MatchedConditions)
}

func TestDeriveMaturityLevel_MissingScoreFailsRule(t *testing.T) {
	// adoptionReadiness is absent, so the advanced rule cannot match even
	// though dataReadiness alone would satisfy it.
	scores := map[string]float64{"dataReadiness": 5}

	got := DeriveMaturityLevel(scores, testRules())
	assert.Equal(t, MaturityDeveloping, got.Level)
}

func TestDeriveMaturityLevel_FoundationalTagFallback(t *testing.T) {
	rules := []MaturityRule{
		{
			Level:      MaturityAdvanced,
			Conditions: map[string]Condition{"dataReadiness": {Min: bound(4)}},
			Range:      Range{Min: 30, Max: 45},
			Confidence: ConfidenceHigh,
		},
		{
			Level:      MaturityFoundational,
			Conditions: map[string]Condition{"dataReadiness": {Min: bound(3)}},
			Range:      Range{Min: 5, Max: 12},
			Confidence: ConfidenceLow,
		},
	}

	// Nothing matches, but a foundational rule exists: its level and range
	// are used even though its own conditions failed.
	got := DeriveMaturityLevel(map[string]float64{"dataReadiness": 1}, rules)
	assert.Equal(t, MaturityFoundational, got.Level)
	assert.Equal(t, Range{Min: 5, Max: 12}, got.Range)
}

func TestDeriveMaturityLevel_HardDefault(t *testing.T) {
	rules := []MaturityRule{
		{
			Level:      MaturityAdvanced,
			Conditions: map[string]Condition{"dataReadiness": {Min: bound(4)}},
			Range:      Range{Min: 30, Max: 45},
			Confidence: ConfidenceHigh,
		},
	}

	got := DeriveMaturityLevel(map[string]float64{}, rules)
	assert.Equal(t, MaturityFoundational, got.Level)
	assert.Equal(t, Range{Min: 0, Max: 10}, got.Range)
	assert.Equal(t, ConfidenceLow, got.Confidence)

	// Empty rule list never panics either.
	got = DeriveMaturityLevel(nil, nil)
	assert.Equal(t, MaturityFoundational, got.Level)
}

func TestDeriveMaturityLevel_MaxBoundFailsRule(t *testing.T) {
	rules := []MaturityRule{
		{
			Level:      MaturityDeveloping,
			Conditions: map[string]Condition{"technicalComplexity": {Max: bound(3)}},
			Range:      Range{Min: 15, Max: 25},
			Confidence: ConfidenceMedium,
		},
	}

	got := DeriveMaturityLevel(map[string]float64{"technicalComplexity": 4}, rules)
	assert.Equal(t, MaturityFoundational, got.Level)
}
