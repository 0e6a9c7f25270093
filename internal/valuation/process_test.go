package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProcessName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Sales & Distribution", "sales and distribution"},
		{"sales and distribution (including broker relationships)", "sales and distribution"},
		{"Claims  Handling", "claims handling"},
		{"Under-Writing_and_Triage", "under writing and triage"},
		{"  Pricing &  Actuarial ", "pricing and actuarial"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeProcessName(tt.in), "input %q", tt.in)
	}
}

func TestFindMatchingProcess(t *testing.T) {
	tests := []struct {
		name       string
		process    string
		candidates []string
		expected   string
		found      bool
	}{
		{
			name:       "punctuation variants match",
			process:    "Sales & Distribution (Including Broker Relationships)",
			candidates: []string{"sales and distribution"},
			expected:   "sales and distribution",
			found:      true,
		},
		{
			name:       "substring containment matches",
			process:    "Claims",
			candidates: []string{"claims handling"},
			expected:   "claims handling",
			found:      true,
		},
		{
			name:       "unrelated processes do not match",
			process:    "Claims",
			candidates: []string{"Underwriting & Triage"},
			found:      false,
		},
		{
			name:       "first matching candidate wins",
			process:    "Sales & Distribution",
			candidates: []string{"underwriting", "sales and distribution", "distribution"},
			expected:   "sales and distribution",
			found:      true,
		},
		{
			name:       "empty tag never matches",
			process:    "",
			candidates: []string{"claims handling"},
			found:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindMatchingProcess(tt.process, tt.candidates)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApplicableKpis(t *testing.T) {
	library := Library{
		Kpis: []KpiDefinition{
			{
				ID:                  "cycle-time",
				Name:                "Claims cycle time reduction",
				ApplicableProcesses: []string{"claims handling"},
			},
			{
				ID:                  "quote-conversion",
				Name:                "Quote conversion uplift",
				ApplicableProcesses: []string{"sales and distribution"},
			},
		},
		Benchmarks: []IndustryBenchmark{
			{
				KpiID:         "quote-conversion",
				Process:       "sales and distribution",
				BaselineValue: 125,
				BaselineUnit:  UnitGBPPerItem,
			},
		},
	}

	got := ApplicableKpis([]string{"Sales & Distribution (Including Broker Relationships)"}, library)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "quote-conversion", got[0].Kpi.ID)
		assert.Equal(t, "sales and distribution", got[0].CanonicalProcess)
		assert.Equal(t, []string{"Sales & Distribution (Including Broker Relationships)"}, got[0].MatchedProcesses)
		if assert.NotNil(t, got[0].Benchmark) {
			assert.Equal(t, 125.0, got[0].Benchmark.BaselineValue)
		}
	}

	got = ApplicableKpis([]string{"Claims", "Sales & Distribution"}, library)
	assert.Len(t, got, 2)

	got = ApplicableKpis([]string{"Finance"}, library)
	assert.Empty(t, got)
}
