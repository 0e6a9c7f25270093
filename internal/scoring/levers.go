// Package scoring implements the impact/effort prioritisation core: lever
// score aggregation, quadrant classification and manual-override resolution.
// Everything here is pure computation; configuration (weights, thresholds)
// is threaded in by the caller on every call.
package scoring

// Canonical lever names. The five impact levers and five effort levers are
// fixed; weight maps and maturity rules refer to levers by these names.
const (
	LeverRevenueImpact           = "revenueImpact"
	LeverCostSavings             = "costSavings"
	LeverRiskReduction           = "riskReduction"
	LeverBrokerPartnerExperience = "brokerPartnerExperience"
	LeverStrategicFit            = "strategicFit"

	LeverDataReadiness       = "dataReadiness"
	LeverTechnicalComplexity = "technicalComplexity"
	LeverChangeImpact        = "changeImpact"
	LeverModelRisk           = "modelRisk"
	LeverAdoptionReadiness   = "adoptionReadiness"
)

// ImpactLeverNames lists the impact levers in display order.
var ImpactLeverNames = []string{
	LeverRevenueImpact,
	LeverCostSavings,
	LeverRiskReduction,
	LeverBrokerPartnerExperience,
	LeverStrategicFit,
}

// EffortLeverNames lists the effort levers in display order.
var EffortLeverNames = []string{
	LeverDataReadiness,
	LeverTechnicalComplexity,
	LeverChangeImpact,
	LeverModelRisk,
	LeverAdoptionReadiness,
}

// LeverScores holds the ten 1-5 ratings entered for a use case. Range
// validation happens at the input boundary (validate-assessment-input);
// this package assumes clean values.
type LeverScores struct {
	RevenueImpact           int `json:"revenueImpact"`
	CostSavings             int `json:"costSavings"`
	RiskReduction           int `json:"riskReduction"`
	BrokerPartnerExperience int `json:"brokerPartnerExperience"`
	StrategicFit            int `json:"strategicFit"`

	DataReadiness       int `json:"dataReadiness"`
	TechnicalComplexity int `json:"technicalComplexity"`
	ChangeImpact        int `json:"changeImpact"`
	ModelRisk           int `json:"modelRisk"`
	AdoptionReadiness   int `json:"adoptionReadiness"`
}

// ImpactLevers returns the impact-axis ratings keyed by lever name.
func (l LeverScores) ImpactLevers() map[string]int {
	return map[string]int{
		LeverRevenueImpact:           l.RevenueImpact,
		LeverCostSavings:             l.CostSavings,
		LeverRiskReduction:           l.RiskReduction,
		LeverBrokerPartnerExperience: l.BrokerPartnerExperience,
		LeverStrategicFit:            l.StrategicFit,
	}
}

// EffortLevers returns the effort-axis ratings keyed by lever name.
func (l LeverScores) EffortLevers() map[string]int {
	return map[string]int{
		LeverDataReadiness:       l.DataReadiness,
		LeverTechnicalComplexity: l.TechnicalComplexity,
		LeverChangeImpact:        l.ChangeImpact,
		LeverModelRisk:           l.ModelRisk,
		LeverAdoptionReadiness:   l.AdoptionReadiness,
	}
}

// All returns every lever rating keyed by name, used by maturity rules
// which may condition on levers from either axis.
func (l LeverScores) All() map[string]int {
	all := l.ImpactLevers()
	for name, v := range l.EffortLevers() {
		all[name] = v
	}
	return all
}

// LeverWeights maps lever name to its weight. Weights follow a
// sum-to-100 percentage convention, but the aggregator divides by the
// total weight actually supplied, so partial maps stay well-formed.
type LeverWeights map[string]float64

// DefaultImpactWeights returns the equal-weight default for the impact axis.
func DefaultImpactWeights() LeverWeights {
	return LeverWeights{
		LeverRevenueImpact:           20,
		LeverCostSavings:             20,
		LeverRiskReduction:           20,
		LeverBrokerPartnerExperience: 20,
		LeverStrategicFit:            20,
	}
}

// DefaultEffortWeights returns the equal-weight default for the effort axis.
func DefaultEffortWeights() LeverWeights {
	return LeverWeights{
		LeverDataReadiness:       20,
		LeverTechnicalComplexity: 20,
		LeverChangeImpact:        20,
		LeverModelRisk:           20,
		LeverAdoptionReadiness:   20,
	}
}
