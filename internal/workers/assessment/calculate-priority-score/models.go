// internal/workers/assessment/calculate-priority-score/models.go
package calculatepriorityscore

import "assessment-workers/internal/scoring"

// Input carries either the lever ratings inline or just a use case id to
// resolve against the assessment store.
type Input struct {
	UseCaseID string                  `json:"useCaseId"`
	Levers    *scoring.LeverScores    `json:"levers,omitempty"`
	Override  *scoring.ManualOverride `json:"override,omitempty"`
}

// Assessment is the stored lever/override pair for one use case.
type Assessment struct {
	Levers   scoring.LeverScores     `json:"levers"`
	Override *scoring.ManualOverride `json:"override,omitempty"`
}

type Output struct {
	UseCaseID string `json:"useCaseId"`

	// Calculated values, always derived from the levers.
	ImpactScore float64 `json:"impactScore"`
	EffortScore float64 `json:"effortScore"`

	// Effective values after per-field override resolution.
	EffectiveImpactScore float64 `json:"effectiveImpactScore"`
	EffectiveEffortScore float64 `json:"effectiveEffortScore"`
	Quadrant             string  `json:"quadrant"`

	Overridden     bool   `json:"overridden"`
	OverrideReason string `json:"overrideReason,omitempty"`

	// Per-lever ratings behind each axis, keyed by lever name.
	ImpactLevers map[string]int `json:"impactLevers"`
	EffortLevers map[string]int `json:"effortLevers"`
}
