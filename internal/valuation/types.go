// Package valuation derives KPI maturity levels and estimated annual value
// ranges from a use case's lever scores and business processes, and
// aggregates per-use-case figures into a portfolio summary. Like the
// scoring package it is pure: the KPI library, benchmarks and rate
// configuration are passed in by the caller.
package valuation

import (
	"time"

	"assessment-workers/internal/scoring"
)

// MaturityLevel classifies how well a use case's readiness levers satisfy
// a KPI's conditions.
type MaturityLevel string

const (
	MaturityAdvanced     MaturityLevel = "advanced"
	MaturityDeveloping   MaturityLevel = "developing"
	MaturityFoundational MaturityLevel = "foundational"
)

// Confidence labels how much trust a maturity rule's range carries.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Direction says whether a KPI improves by increasing or decreasing.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// Range is an inclusive numeric interval. Units depend on context:
// percentage improvement, monthly hours, or currency.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Condition bounds one named lever score. A nil bound is unconstrained.
type Condition struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// MaturityRule is one entry in a KPI's ordered rule list. Conditions are
// keyed by lever name; a rule with no conditions always matches and acts
// as the list's fallback.
type MaturityRule struct {
	Level      MaturityLevel        `json:"level"`
	Conditions map[string]Condition `json:"conditions,omitempty"`
	Range      Range                `json:"range"`
	Confidence Confidence           `json:"confidence"`
}

// KpiDefinition is static reference data describing one benchmarked
// business metric. Rules must be ordered most stringent first; the
// derivation takes the first full match.
type KpiDefinition struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Unit                string         `json:"unit"`
	Direction           Direction      `json:"direction"`
	ApplicableProcesses []string       `json:"applicableProcesses"`
	MaturityRules       []MaturityRule `json:"maturityRules"`
}

// Baseline units understood by the estimator. Monetary baselines convert
// via volume, hour-based baselines via an hourly rate.
const (
	UnitGBP            = "gbp"
	UnitGBPPerItem     = "gbp_per_transaction"
	UnitHoursPerMonth  = "hours_per_month"
	UnitFTEHoursPerMth = "fte_hours_per_month"
)

// IndustryBenchmark is reference data for one KPI within one canonical
// business process: a baseline value plus improvement ranges, optionally
// refined per maturity tier.
type IndustryBenchmark struct {
	KpiID            string                  `json:"kpiId"`
	Process          string                  `json:"process"`
	BaselineValue    float64                 `json:"baselineValue"`
	BaselineUnit     string                  `json:"baselineUnit"`
	ImprovementRange Range                   `json:"improvementRange"`
	TierRanges       map[MaturityLevel]Range `json:"tierRanges,omitempty"`
}

// Monetary reports whether the benchmark baseline is expressed in currency
// rather than hours.
func (b IndustryBenchmark) Monetary() bool {
	switch b.BaselineUnit {
	case UnitGBP, UnitGBPPerItem:
		return true
	}
	return false
}

// Library is the full KPI reference set handed to the estimator on each
// call. Loaded from configuration by pkg/kpilibrary; read-only here.
type Library struct {
	Kpis       []KpiDefinition     `json:"kpis"`
	Benchmarks []IndustryBenchmark `json:"benchmarks,omitempty"`
}

// Benchmark looks up the benchmark for a KPI within a canonical process
// name, or nil when none is defined.
func (l Library) Benchmark(kpiID, process string) *IndustryBenchmark {
	for i := range l.Benchmarks {
		b := &l.Benchmarks[i]
		if b.KpiID == kpiID && b.Process == process {
			return b
		}
	}
	return nil
}

// MaturityResult is the outcome of rule derivation for one KPI.
type MaturityResult struct {
	Level             MaturityLevel `json:"level"`
	Range             Range         `json:"range"`
	Confidence        Confidence    `json:"confidence"`
	MatchedConditions []string      `json:"matchedConditions,omitempty"`
}

// MoneyRange is an estimated annual value interval in whole currency units.
type MoneyRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// ValueEstimate is the derived, ephemeral estimate for one use case / KPI
// pair. Recomputed on demand; never authoritative.
type ValueEstimate struct {
	KpiID            string         `json:"kpiId"`
	KpiName          string         `json:"kpiName"`
	Unit             string         `json:"unit"`
	MatchedProcess   string         `json:"matchedProcess"`
	Maturity         MaturityResult `json:"maturity"`
	ImprovementRange Range          `json:"improvementRange"`
	BenchmarkApplied bool           `json:"benchmarkApplied"`
	AnnualValue      MoneyRange     `json:"annualValue"`
}

// EstimateOptions carries the rate configuration used to convert hour-based
// improvements into currency.
type EstimateOptions struct {
	HourlyRate   float64
	CurrencyCode string
}

// PortfolioEntry is the per-use-case slice of data the portfolio
// aggregation consumes. Tracked figures (Investment + CumulativeValue) take
// precedence over the estimate range when both are present.
type PortfolioEntry struct {
	UseCaseID       string
	Phase           string
	Quadrant        scoring.Quadrant
	Investment      *float64
	CumulativeValue *float64
	BreakEvenDate   *time.Time
	EstimatedValue  *Range
}

// Tracked reports whether the entry carries explicit investment and value
// figures rather than a derived estimate.
func (e PortfolioEntry) Tracked() bool {
	return e.Investment != nil && e.CumulativeValue != nil
}

// BucketBreakdown accumulates tracked figures for one phase or quadrant.
type BucketBreakdown struct {
	UseCases        int     `json:"useCases"`
	TotalInvestment float64 `json:"totalInvestment"`
	CumulativeValue float64 `json:"cumulativeValue"`
}

// PortfolioValueSummary is the derived portfolio-level report. Tracked and
// estimated figures are kept apart: only tracked entries feed the phase and
// quadrant breakdowns, ROI and break-even averaging, while estimated-only
// entries contribute to the grand totals alone.
type PortfolioValueSummary struct {
	TotalUseCases   int `json:"totalUseCases"`
	TrackedUseCases int `json:"trackedUseCases"`

	TotalInvestment      float64 `json:"totalInvestment"`
	CumulativeValue      float64 `json:"cumulativeValue"`
	EstimatedValue       Range   `json:"estimatedValue"`
	TotalValueLowerBound float64 `json:"totalValueLowerBound"`
	TotalValueUpperBound float64 `json:"totalValueUpperBound"`

	ByPhase    map[string]BucketBreakdown           `json:"byPhase"`
	ByQuadrant map[scoring.Quadrant]BucketBreakdown `json:"byQuadrant"`

	ROIPercent         *float64 `json:"roiPercent,omitempty"`
	AvgBreakEvenMonths *float64 `json:"avgBreakEvenMonths,omitempty"`
}
