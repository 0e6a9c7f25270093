package scoring

import "math"

// Round1 rounds a score to one decimal place. Applied once, where a score
// is finalised; intermediate sums stay unrounded.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ComputeImpactScore aggregates the five impact levers into a single score
// on the same 1-5 scale as the inputs.
func ComputeImpactScore(levers LeverScores, weights LeverWeights) float64 {
	return weightedAverage(levers.ImpactLevers(), weights)
}

// ComputeEffortScore aggregates the five effort levers into a single score
// on the same 1-5 scale as the inputs.
func ComputeEffortScore(levers LeverScores, weights LeverWeights) float64 {
	return weightedAverage(levers.EffortLevers(), weights)
}

// weightedAverage computes sum(value*weight)/sum(weight) over the supplied
// levers. A lever with no weight entry contributes nothing (a de-weighting
// policy may legitimately omit levers), and the divisor is the weight
// actually used, so a partial weight map still yields a valid average
// instead of a deflated score. A zero or negative total weight returns 0
// rather than NaN.
func weightedAverage(values map[string]int, weights LeverWeights) float64 {
	var sum, total float64
	for name, v := range values {
		w, ok := weights[name]
		if !ok || w <= 0 {
			continue
		}
		sum += float64(v) * w
		total += w
	}
	if total <= 0 {
		return 0
	}
	return Round1(sum / total)
}
