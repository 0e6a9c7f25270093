// internal/workers/assessment/calculate-priority-score/config.go
package calculatepriorityscore

import (
	"time"

	"assessment-workers/internal/scoring"
)

type Config struct {
	CacheTTL          time.Duration
	Timeout           time.Duration
	ImpactWeights     scoring.LeverWeights
	EffortWeights     scoring.LeverWeights
	QuadrantThreshold float64
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  30 * time.Second,
	}
}
