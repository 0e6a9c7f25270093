package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyQuadrant(t *testing.T) {
	tests := []struct {
		name     string
		impact   float64
		effort   float64
		expected Quadrant
	}{
		{"high impact low effort", 4.0, 1.5, QuadrantQuickWin},
		{"high impact high effort", 4.0, 4.0, QuadrantStrategicBet},
		{"low impact low effort", 1.5, 1.5, QuadrantExperimental},
		{"low impact high effort", 1.5, 4.0, QuadrantWatchlist},
		{"impact exactly at threshold counts as high", 2.5, 1.0, QuadrantQuickWin},
		{"effort exactly at threshold counts as high", 4.0, 2.5, QuadrantStrategicBet},
		{"both exactly at threshold", 2.5, 2.5, QuadrantStrategicBet},
		{"just under threshold on both axes", 2.4, 2.4, QuadrantExperimental},
		{"zero scores", 0, 0, QuadrantExperimental},
		{"maximum scores", 5, 5, QuadrantStrategicBet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyQuadrant(tt.impact, tt.effort, DefaultQuadrantThreshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyQuadrant_BoundaryIsStable(t *testing.T) {
	// Regression: the boundary rule at exactly (2.5, 2.5) is documented as
	// Strategic Bet and must not drift between calls.
	for i := 0; i < 50; i++ {
		assert.Equal(t, QuadrantStrategicBet, ClassifyQuadrant(2.5, 2.5, 2.5))
	}
}

func TestClassifyQuadrant_CustomThreshold(t *testing.T) {
	assert.Equal(t, QuadrantStrategicBet, ClassifyQuadrant(3.0, 3.0, 3.0))
	assert.Equal(t, QuadrantQuickWin, ClassifyQuadrant(3.0, 2.9, 3.0))
	assert.Equal(t, QuadrantWatchlist, ClassifyQuadrant(2.9, 3.0, 3.0))
}

func TestQuadrantValid(t *testing.T) {
	assert.True(t, QuadrantQuickWin.Valid())
	assert.True(t, QuadrantWatchlist.Valid())
	assert.False(t, Quadrant("Moonshot").Valid())
	assert.False(t, Quadrant("").Valid())
}
