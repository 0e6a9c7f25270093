// internal/workers/valuation/aggregate-portfolio-value/models.go
package aggregateportfoliovalue

import "assessment-workers/internal/valuation"

type Input struct {
	// Phase filters the portfolio to one lifecycle phase when set.
	Phase string `json:"phase,omitempty"`

	// Refresh bypasses the summary cache.
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	Summary valuation.PortfolioValueSummary `json:"summary"`
}
