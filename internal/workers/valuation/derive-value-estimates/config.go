// internal/workers/valuation/derive-value-estimates/config.go
package derivevalueestimates

import (
	"time"

	"assessment-workers/internal/valuation"
)

type Config struct {
	Library *valuation.Library

	HourlyRate       float64
	CurrencyCode     string
	VolumeMultiplier float64

	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig(library *valuation.Library) *Config {
	return &Config{
		Library:          library,
		HourlyRate:       55.0,
		CurrencyCode:     "GBP",
		VolumeMultiplier: 1.0,
		CacheTTL:         30 * time.Minute,
		Timeout:          15 * time.Second,
	}
}
