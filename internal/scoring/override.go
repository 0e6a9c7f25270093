package scoring

// ManualOverride holds reviewer-entered values that supersede calculated
// scores for a single use case. Each field overrides independently: a nil
// field falls back to the calculated value. Overrides never modify the
// underlying lever ratings, and the write path requires a non-empty
// Reason whenever any field is set.
type ManualOverride struct {
	ImpactScore *float64  `json:"manualImpactScore,omitempty"`
	EffortScore *float64  `json:"manualEffortScore,omitempty"`
	Quadrant    *Quadrant `json:"manualQuadrant,omitempty"`
	Reason      string    `json:"overrideReason,omitempty"`
}

// Active reports whether any manual field is set. Safe on a nil receiver.
func (o *ManualOverride) Active() bool {
	if o == nil {
		return false
	}
	return o.ImpactScore != nil || o.EffortScore != nil || o.Quadrant != nil
}

// Resolver resolves the effective (display) impact, effort and quadrant
// for a use case, honouring per-field manual overrides. The caller owns
// the configuration lifecycle; a Resolver is just that configuration
// captured for a batch of calls.
type Resolver struct {
	ImpactWeights LeverWeights
	EffortWeights LeverWeights
	Threshold     float64
}

// NewResolver builds a Resolver, filling in defaults for any zero-valued
// configuration.
func NewResolver(impactWeights, effortWeights LeverWeights, threshold float64) Resolver {
	if impactWeights == nil {
		impactWeights = DefaultImpactWeights()
	}
	if effortWeights == nil {
		effortWeights = DefaultEffortWeights()
	}
	if threshold == 0 {
		threshold = DefaultQuadrantThreshold
	}
	return Resolver{
		ImpactWeights: impactWeights,
		EffortWeights: effortWeights,
		Threshold:     threshold,
	}
}

// EffectiveImpactScore returns the manual impact score when set, otherwise
// the calculated weighted average.
func (r Resolver) EffectiveImpactScore(levers LeverScores, o *ManualOverride) float64 {
	if o != nil && o.ImpactScore != nil {
		return *o.ImpactScore
	}
	return ComputeImpactScore(levers, r.ImpactWeights)
}

// EffectiveEffortScore returns the manual effort score when set, otherwise
// the calculated weighted average.
func (r Resolver) EffectiveEffortScore(levers LeverScores, o *ManualOverride) float64 {
	if o != nil && o.EffortScore != nil {
		return *o.EffortScore
	}
	return ComputeEffortScore(levers, r.EffortWeights)
}

// EffectiveQuadrant returns the manual quadrant when set; otherwise it
// classifies from the *effective* impact and effort, so a use case with a
// manual effort score but no manual quadrant gets a quadrant consistent
// with the score it displays, never a stale calculated one.
func (r Resolver) EffectiveQuadrant(levers LeverScores, o *ManualOverride) Quadrant {
	if o != nil && o.Quadrant != nil {
		return *o.Quadrant
	}
	impact := r.EffectiveImpactScore(levers, o)
	effort := r.EffectiveEffortScore(levers, o)
	return ClassifyQuadrant(impact, effort, r.Threshold)
}

// HasManualOverrides reports whether the record carries any manual value.
func HasManualOverrides(o *ManualOverride) bool {
	return o.Active()
}
