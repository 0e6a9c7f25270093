package valuation

import "math"

// DeriveValueEstimates produces one estimate per applicable KPI for a use
// case. For each KPI the maturity level is derived from the lever scores;
// when a benchmark defines a range for that tier it supersedes the generic
// rule range. The percentage-or-hours range then converts to an annual
// currency range, both bounds independently:
//
//	monetary baseline:  baseline * (pct/100) * volumeMultiplier
//	hours baseline, or no benchmark:  monthlyHours * hourlyRate * 12
//
// Output is a reporting estimate, rounded to whole currency units.
func DeriveValueEstimates(
	processes []string,
	scores map[string]float64,
	library Library,
	volumeMultiplier float64,
	opts EstimateOptions,
) []ValueEstimate {
	if volumeMultiplier <= 0 {
		volumeMultiplier = 1
	}

	var estimates []ValueEstimate
	for _, applicable := range ApplicableKpis(processes, library) {
		maturity := DeriveMaturityLevel(scores, applicable.Kpi.MaturityRules)

		improvement := maturity.Range
		benchmarkApplied := false
		if b := applicable.Benchmark; b != nil {
			if tier, ok := b.TierRanges[maturity.Level]; ok {
				improvement = tier
				benchmarkApplied = true
			}
		}

		estimates = append(estimates, ValueEstimate{
			KpiID:            applicable.Kpi.ID,
			KpiName:          applicable.Kpi.Name,
			Unit:             applicable.Kpi.Unit,
			MatchedProcess:   applicable.CanonicalProcess,
			Maturity:         maturity,
			ImprovementRange: improvement,
			BenchmarkApplied: benchmarkApplied,
			AnnualValue:      annualValue(improvement, applicable.Benchmark, volumeMultiplier, opts),
		})
	}

	return estimates
}

// annualValue converts an improvement range into currency. Min and max are
// converted independently so the output stays a range, never a point value.
func annualValue(improvement Range, benchmark *IndustryBenchmark, volume float64, opts EstimateOptions) MoneyRange {
	convert := func(bound float64) float64 {
		if benchmark != nil && benchmark.Monetary() {
			return math.Round(benchmark.BaselineValue * (bound / 100) * volume)
		}
		// Hours semantics: the bound is monthly hours saved.
		return math.Round(bound * opts.HourlyRate * 12)
	}

	return MoneyRange{
		Min:      convert(improvement.Min),
		Max:      convert(improvement.Max),
		Currency: opts.CurrencyCode,
	}
}

// TotalEstimatedValue sums a use case's per-KPI estimate ranges into one
// range, the figure portfolio aggregation falls back to for use cases
// without tracked investment data.
func TotalEstimatedValue(estimates []ValueEstimate) Range {
	var total Range
	for _, e := range estimates {
		total.Min += e.AnnualValue.Min
		total.Max += e.AnnualValue.Max
	}
	return total
}
