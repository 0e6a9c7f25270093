package calculatepriorityscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  5 * time.Second,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testLevers(impact, effort int) scoring.LeverScores {
	return scoring.LeverScores{
		RevenueImpact:           impact,
		CostSavings:             impact,
		RiskReduction:           impact,
		BrokerPartnerExperience: impact,
		StrategicFit:            impact,
		DataReadiness:           effort,
		TechnicalComplexity:     effort,
		ChangeImpact:            effort,
		ModelRisk:               effort,
		AdoptionReadiness:       effort,
	}
}

func f64(v float64) *float64 { return &v }

func TestHandler_Execute_InlineLevers(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	levers := testLevers(5, 1)
	output, err := h.Execute(context.Background(), &Input{
		UseCaseID: "uc-1",
		Levers:    &levers,
	})
	require.NoError(t, err)

	assert.Equal(t, 5.0, output.ImpactScore)
	assert.Equal(t, 1.0, output.EffortScore)
	assert.Equal(t, 5.0, output.EffectiveImpactScore)
	assert.Equal(t, 1.0, output.EffectiveEffortScore)
	assert.Equal(t, string(scoring.QuadrantQuickWin), output.Quadrant)
	assert.False(t, output.Overridden)
	assert.Len(t, output.ImpactLevers, 5)
	assert.Len(t, output.EffortLevers, 5)
}

func TestHandler_Execute_InlineOverride(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	levers := testLevers(4, 4)
	output, err := h.Execute(context.Background(), &Input{
		UseCaseID: "uc-2",
		Levers:    &levers,
		Override: &scoring.ManualOverride{
			EffortScore: f64(1.5),
			Reason:      "platform team absorbs the integration work",
		},
	})
	require.NoError(t, err)

	// Calculated values stay untouched; only the effective effort moves.
	assert.Equal(t, 4.0, output.ImpactScore)
	assert.Equal(t, 4.0, output.EffortScore)
	assert.Equal(t, 4.0, output.EffectiveImpactScore)
	assert.Equal(t, 1.5, output.EffectiveEffortScore)
	assert.Equal(t, string(scoring.QuadrantQuickWin), output.Quadrant)
	assert.True(t, output.Overridden)
	assert.Equal(t, "platform team absorbs the integration work", output.OverrideReason)
}

func TestHandler_Execute_FetchFromStore(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	levers := testLevers(2, 4)
	leversJSON, _ := json.Marshal(levers)

	mock.ExpectQuery("SELECT levers, override").
		WithArgs("uc-3").
		WillReturnRows(sqlmock.NewRows([]string{"levers", "override"}).
			AddRow(leversJSON, nil))

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{UseCaseID: "uc-3"})
	require.NoError(t, err)

	assert.Equal(t, 2.0, output.ImpactScore)
	assert.Equal(t, 4.0, output.EffortScore)
	assert.Equal(t, string(scoring.QuadrantWatchlist), output.Quadrant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_StoredOverrideResolved(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	levers := testLevers(2, 4)
	leversJSON, _ := json.Marshal(levers)
	overrideJSON := `{"manualQuadrant":"Strategic Bet","overrideReason":"board mandate"}`

	mock.ExpectQuery("SELECT levers, override").
		WithArgs("uc-4").
		WillReturnRows(sqlmock.NewRows([]string{"levers", "override"}).
			AddRow(leversJSON, overrideJSON))

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{UseCaseID: "uc-4"})
	require.NoError(t, err)

	// Scores stay calculated; only the quadrant is manual.
	assert.Equal(t, 2.0, output.EffectiveImpactScore)
	assert.Equal(t, 4.0, output.EffectiveEffortScore)
	assert.Equal(t, string(scoring.QuadrantStrategicBet), output.Quadrant)
	assert.True(t, output.Overridden)
	assert.Equal(t, "board mandate", output.OverrideReason)
}

func TestHandler_Execute_CachesAssessment(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	levers := testLevers(3, 3)
	leversJSON, _ := json.Marshal(levers)

	// The store is hit once; the second call is served from cache.
	mock.ExpectQuery("SELECT levers, override").
		WithArgs("uc-5").
		WillReturnRows(sqlmock.NewRows([]string{"levers", "override"}).
			AddRow(leversJSON, nil))

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	first, err := h.Execute(context.Background(), &Input{UseCaseID: "uc-5"})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{UseCaseID: "uc-5"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT levers, override").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{UseCaseID: "missing"})
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestHandler_Execute_NoInput(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	h := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{})
	assert.Error(t, err)
}

func TestHandler_Execute_CustomWeights(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	cfg := createTestConfig()
	cfg.ImpactWeights = scoring.LeverWeights{
		"revenueImpact": 50,
		"costSavings":   50,
	}

	h := NewHandler(cfg, db, setupTestRedis(t), logger.NewTestLogger(t))

	levers := scoring.LeverScores{
		RevenueImpact: 5,
		CostSavings:   2,
		// Remaining impact levers carry no weight and are ignored.
		RiskReduction:           1,
		BrokerPartnerExperience: 1,
		StrategicFit:            1,
		DataReadiness:           3,
		TechnicalComplexity:     3,
		ChangeImpact:            3,
		ModelRisk:               3,
		AdoptionReadiness:       3,
	}

	output, err := h.Execute(context.Background(), &Input{UseCaseID: "uc-6", Levers: &levers})
	require.NoError(t, err)
	assert.Equal(t, 3.5, output.ImpactScore)
}
