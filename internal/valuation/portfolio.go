package valuation

import (
	"time"

	"assessment-workers/internal/scoring"
)

// AggregatePortfolioValue reduces per-use-case figures into a portfolio
// summary. Tracked entries (explicit investment + cumulative value) feed
// everything: totals, phase/quadrant breakdowns, ROI, break-even.
// Estimated-only entries feed the grand totals alone; attributing a rough
// estimate to a phase or quadrant bucket would overstate its confidence.
// The reduction is a single commutative pass, so caller-side parallel
// per-use-case preparation needs no ordering.
func AggregatePortfolioValue(entries []PortfolioEntry, now time.Time) PortfolioValueSummary {
	summary := PortfolioValueSummary{
		TotalUseCases: len(entries),
		ByPhase:       make(map[string]BucketBreakdown),
		ByQuadrant:    make(map[scoring.Quadrant]BucketBreakdown),
	}

	var breakEvenMonths []float64

	for _, e := range entries {
		if e.Tracked() {
			summary.TrackedUseCases++
			summary.TotalInvestment += *e.Investment
			summary.CumulativeValue += *e.CumulativeValue

			phase := e.Phase
			if phase == "" {
				phase = "unassigned"
			}
			pb := summary.ByPhase[phase]
			pb.UseCases++
			pb.TotalInvestment += *e.Investment
			pb.CumulativeValue += *e.CumulativeValue
			summary.ByPhase[phase] = pb

			if e.Quadrant.Valid() {
				qb := summary.ByQuadrant[e.Quadrant]
				qb.UseCases++
				qb.TotalInvestment += *e.Investment
				qb.CumulativeValue += *e.CumulativeValue
				summary.ByQuadrant[e.Quadrant] = qb
			}

			if m, ok := monthsUntil(now, e.BreakEvenDate); ok {
				breakEvenMonths = append(breakEvenMonths, m)
			}
			continue
		}

		if e.EstimatedValue != nil {
			summary.EstimatedValue.Min += e.EstimatedValue.Min
			summary.EstimatedValue.Max += e.EstimatedValue.Max
		}
	}

	summary.TotalValueLowerBound = summary.CumulativeValue + summary.EstimatedValue.Min
	summary.TotalValueUpperBound = summary.CumulativeValue + summary.EstimatedValue.Max

	// ROI is undefined without investment: nil, never zero or infinity.
	if summary.TotalInvestment > 0 {
		roi := (summary.CumulativeValue - summary.TotalInvestment) / summary.TotalInvestment * 100
		summary.ROIPercent = &roi
	}

	if len(breakEvenMonths) > 0 {
		var sum float64
		for _, m := range breakEvenMonths {
			sum += m
		}
		avg := sum / float64(len(breakEvenMonths))
		summary.AvgBreakEvenMonths = &avg
	}

	return summary
}

// monthsUntil returns the whole months from now to the break-even date.
// Only positive, future dates participate in the average.
func monthsUntil(now time.Time, breakEven *time.Time) (float64, bool) {
	if breakEven == nil || !breakEven.After(now) {
		return 0, false
	}

	months := (breakEven.Year()-now.Year())*12 + int(breakEven.Month()-now.Month())
	if breakEven.Day() < now.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return float64(months), true
}
