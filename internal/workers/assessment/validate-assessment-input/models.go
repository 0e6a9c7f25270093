// internal/workers/assessment/validate-assessment-input/models.go
package validateassessmentinput

import "assessment-workers/internal/scoring"

type Input struct {
	UseCaseID string                  `json:"useCaseId"`
	Levers    map[string]interface{}  `json:"levers"`
	Override  *scoring.ManualOverride `json:"override,omitempty"`
}

type Output struct {
	UseCaseID string   `json:"useCaseId"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"validationErrors,omitempty"`
}
