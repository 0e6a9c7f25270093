// internal/workers/assessment/apply-score-override/models.go
package applyscoreoverride

type Input struct {
	UseCaseID string `json:"useCaseId"`

	ImpactScore *float64 `json:"manualImpactScore,omitempty"`
	EffortScore *float64 `json:"manualEffortScore,omitempty"`
	Quadrant    *string  `json:"manualQuadrant,omitempty"`
	Reason      string   `json:"overrideReason,omitempty"`

	// Clear removes any stored override instead of setting one.
	Clear bool `json:"clear,omitempty"`
}

type Output struct {
	UseCaseID string `json:"useCaseId"`
	Applied   bool   `json:"applied"`
	Cleared   bool   `json:"cleared"`

	EffectiveImpactScore float64 `json:"effectiveImpactScore"`
	EffectiveEffortScore float64 `json:"effectiveEffortScore"`
	Quadrant             string  `json:"quadrant"`
}
