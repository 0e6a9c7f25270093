package scoring

// Quadrant is one of the four prioritisation labels derived from an
// (impact, effort) pair.
type Quadrant string

const (
	QuadrantQuickWin     Quadrant = "Quick Win"
	QuadrantStrategicBet Quadrant = "Strategic Bet"
	QuadrantExperimental Quadrant = "Experimental"
	QuadrantWatchlist    Quadrant = "Watchlist"
)

// DefaultQuadrantThreshold is the midpoint of the 0-5 score scale.
const DefaultQuadrantThreshold = 2.5

// Valid reports whether q is one of the four known labels.
func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantQuickWin, QuadrantStrategicBet, QuadrantExperimental, QuadrantWatchlist:
		return true
	}
	return false
}

// ClassifyQuadrant maps an (impact, effort) pair to a quadrant. The
// boundary rule is inclusive on the high side of both axes: a score equal
// to the threshold counts as high impact / high effort, so exactly
// (threshold, threshold) classifies as Strategic Bet. Total over all
// finite inputs.
func ClassifyQuadrant(impact, effort, threshold float64) Quadrant {
	highImpact := impact >= threshold
	highEffort := effort >= threshold

	switch {
	case highImpact && !highEffort:
		return QuadrantQuickWin
	case highImpact && highEffort:
		return QuadrantStrategicBet
	case !highImpact && !highEffort:
		return QuadrantExperimental
	default:
		return QuadrantWatchlist
	}
}
