// internal/workers/assessment/apply-score-override/config.go
package applyscoreoverride

import (
	"time"

	"assessment-workers/internal/scoring"
)

type Config struct {
	Timeout           time.Duration
	ImpactWeights     scoring.LeverWeights
	EffortWeights     scoring.LeverWeights
	QuadrantThreshold float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
