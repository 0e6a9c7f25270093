package kpilibrary

import (
	"os"
	"path/filepath"
	"testing"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/valuation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLibrary = `{
	"kpis": [
		{
			"id": "kpi-quote-conversion",
			"name": "Quote Conversion Rate",
			"unit": "percent",
			"direction": "increase",
			"applicableProcesses": ["Quote & Bind", "Sales and Distribution"],
			"maturityRules": [
				{
					"level": "advanced",
					"conditions": {
						"dataReadiness": {"min": 4},
						"adoptionReadiness": {"min": 4}
					},
					"range": {"min": 30, "max": 45},
					"confidence": "high"
				},
				{
					"level": "foundational",
					"range": {"min": 5, "max": 12},
					"confidence": "low"
				}
			]
		}
	],
	"benchmarks": [
		{
			"kpiId": "kpi-quote-conversion",
			"process": "quote and bind",
			"baselineValue": 125,
			"baselineUnit": "gbp_per_transaction",
			"improvementRange": {"min": 10, "max": 20},
			"tierRanges": {
				"developing": {"min": 15, "max": 25}
			}
		}
	]
}`

func TestParse_ValidLibrary(t *testing.T) {
	lib, err := Parse([]byte(validLibrary))
	require.NoError(t, err)

	require.Len(t, lib.Kpis, 1)
	kpi := lib.Kpis[0]
	assert.Equal(t, "kpi-quote-conversion", kpi.ID)
	assert.Equal(t, valuation.DirectionIncrease, kpi.Direction)
	require.Len(t, kpi.MaturityRules, 2)
	assert.Equal(t, valuation.MaturityAdvanced, kpi.MaturityRules[0].Level)
	require.NotNil(t, kpi.MaturityRules[0].Conditions["dataReadiness"].Min)
	assert.Equal(t, 4.0, *kpi.MaturityRules[0].Conditions["dataReadiness"].Min)

	b := lib.Benchmark("kpi-quote-conversion", "quote and bind")
	require.NotNil(t, b)
	assert.True(t, b.Monetary())
	assert.Equal(t, valuation.Range{Min: 15, Max: 25}, b.TierRanges[valuation.MaturityDeveloping])
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi-library.json")
	require.NoError(t, os.WriteFile(path, []byte(validLibrary), 0o644))

	lib, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, lib.Kpis, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "not JSON",
			body: `{kpis:`,
		},
		{
			name: "missing kpis key",
			body: `{"benchmarks": []}`,
		},
		{
			name: "kpi without maturity rules",
			body: `{"kpis": [{"id": "k", "name": "K", "unit": "percent", "applicableProcesses": ["Claims"], "maturityRules": []}]}`,
		},
		{
			name: "bad maturity level",
			body: `{"kpis": [{"id": "k", "name": "K", "unit": "percent", "applicableProcesses": ["Claims"], "maturityRules": [{"level": "expert", "range": {"min": 1, "max": 2}, "confidence": "high"}]}]}`,
		},
		{
			name: "duplicate kpi id",
			body: `{"kpis": [
				{"id": "k", "name": "K", "unit": "percent", "applicableProcesses": ["Claims"], "maturityRules": [{"level": "foundational", "range": {"min": 1, "max": 2}, "confidence": "low"}]},
				{"id": "k", "name": "K2", "unit": "percent", "applicableProcesses": ["Claims"], "maturityRules": [{"level": "foundational", "range": {"min": 1, "max": 2}, "confidence": "low"}]}
			]}`,
		},
		{
			name: "inverted rule range",
			body: `{"kpis": [{"id": "k", "name": "K", "unit": "percent", "applicableProcesses": ["Claims"], "maturityRules": [{"level": "foundational", "range": {"min": 9, "max": 2}, "confidence": "low"}]}]}`,
		},
		{
			name: "benchmark references unknown kpi",
			body: `{"kpis": [{"id": "k", "name": "K", "unit": "percent", "applicableProcesses": ["Claims"], "maturityRules": [{"level": "foundational", "range": {"min": 1, "max": 2}, "confidence": "low"}]}],
				"benchmarks": [{"kpiId": "other", "process": "claims", "baselineValue": 10, "baselineUnit": "gbp", "improvementRange": {"min": 1, "max": 2}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, lib)

			if stdErr, ok := err.(*errors.StandardError); ok {
				assert.Equal(t, errors.ErrCodeKpiLibraryInvalid, stdErr.Code)
			}
		})
	}
}
