// Package models holds the plain records exchanged between workers, the
// database layer and workflow variables.
package models

import (
	"time"

	"assessment-workers/internal/scoring"
)

// Lifecycle phases a use case moves through in the portfolio.
const (
	PhaseIdeation   = "ideation"
	PhasePilot      = "pilot"
	PhaseProduction = "production"
	PhaseRetired    = "retired"
)

// TrackedMetrics are the explicit value figures recorded once a use case
// graduates from estimates to measured results.
type TrackedMetrics struct {
	CumulativeValueGbp float64    `json:"cumulativeValueGbp"`
	BreakEvenDate      *time.Time `json:"breakEvenDate,omitempty"`
}

// UseCase is one AI use case in the assessment portfolio. Lever ratings
// are the only scoring inputs stored; impact, effort and quadrant are
// derived on demand so they can never silently diverge from their levers.
// The manual override triple is the single sanctioned divergence and
// always carries a reason.
type UseCase struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	Phase             string              `json:"phase"`
	BusinessProcesses []string            `json:"businessProcesses"`
	Levers            scoring.LeverScores `json:"levers"`

	Override *scoring.ManualOverride `json:"override,omitempty"`

	InvestmentGbp *float64        `json:"investmentGbp,omitempty"`
	Metrics       *TrackedMetrics `json:"metrics,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tracked reports whether the use case carries explicit investment and
// cumulative-value figures.
func (u UseCase) Tracked() bool {
	return u.InvestmentGbp != nil && u.Metrics != nil
}
