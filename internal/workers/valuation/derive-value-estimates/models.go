// internal/workers/valuation/derive-value-estimates/models.go
package derivevalueestimates

import (
	"assessment-workers/internal/scoring"
	"assessment-workers/internal/valuation"
)

// Input carries processes and levers inline, or a use case id to resolve
// them from the store. VolumeMultiplier scales monetary benchmarks to the
// use case's transaction volume; zero falls back to configuration.
type Input struct {
	UseCaseID         string               `json:"useCaseId"`
	BusinessProcesses []string             `json:"businessProcesses,omitempty"`
	Levers            *scoring.LeverScores `json:"levers,omitempty"`
	VolumeMultiplier  float64              `json:"volumeMultiplier,omitempty"`
}

type Output struct {
	UseCaseID  string                    `json:"useCaseId"`
	Estimates  []valuation.ValueEstimate `json:"estimates"`
	TotalValue valuation.MoneyRange      `json:"totalAnnualValue"`
}
