package applyscoreoverride

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func storedLeversJSON(t *testing.T, impact, effort int) []byte {
	levers := scoring.LeverScores{
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
	data, err := json.Marshal(levers)
	require.NoError(t, err)
	return data
}

func f64(v float64) *float64 { return &v }

func strptr(s string) *string { return &s }

func assertStandardError(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok, "expected *errors.StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
}

func TestExecute_ApplyEffortOverride(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	redisClient, mr := setupTestRedis(t)

	// Pre-seed a cache entry to verify invalidation.
	mr.Set("usecase:assessment:uc-1", "stale")

	mock.ExpectQuery("UPDATE use_cases").
		WithArgs("uc-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"levers"}).AddRow(storedLeversJSON(t, 4, 4)))

	h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		UseCaseID:   "uc-1",
		EffortScore: f64(1.5),
		Reason:      "platform team absorbs the integration work",
	})
	require.NoError(t, err)

	assert.True(t, output.Applied)
	assert.Equal(t, 4.0, output.EffectiveImpactScore)
	assert.Equal(t, 1.5, output.EffectiveEffortScore)
	assert.Equal(t, string(scoring.QuadrantQuickWin), output.Quadrant)

	assert.False(t, mr.Exists("usecase:assessment:uc-1"), "cache entry should be invalidated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_ApplyManualQuadrant(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	redisClient, _ := setupTestRedis(t)

	mock.ExpectQuery("UPDATE use_cases").
		WithArgs("uc-2", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"levers"}).AddRow(storedLeversJSON(t, 2, 2)))

	h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		UseCaseID: "uc-2",
		Quadrant:  strptr("Strategic Bet"),
		Reason:    "board mandate",
	})
	require.NoError(t, err)

	// Calculated scores are untouched; only the quadrant label is manual.
	assert.Equal(t, 2.0, output.EffectiveImpactScore)
	assert.Equal(t, 2.0, output.EffectiveEffortScore)
	assert.Equal(t, string(scoring.QuadrantStrategicBet), output.Quadrant)
}

func TestExecute_ReasonRequired(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	redisClient, _ := setupTestRedis(t)

	h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		UseCaseID:   "uc-3",
		ImpactScore: f64(4.0),
		Reason:      "   ",
	})
	require.Error(t, err)
	assertStandardError(t, err, errors.ErrCodeOverrideReasonRequired)
}

func TestExecute_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{
			name:  "no manual value",
			input: Input{UseCaseID: "uc-4", Reason: "why not"},
		},
		{
			name:  "impact out of range",
			input: Input{UseCaseID: "uc-4", ImpactScore: f64(5.5), Reason: "r"},
		},
		{
			name:  "effort out of range",
			input: Input{UseCaseID: "uc-4", EffortScore: f64(0.5), Reason: "r"},
		},
		{
			name:  "unknown quadrant",
			input: Input{UseCaseID: "uc-4", Quadrant: strptr("Moonshot"), Reason: "r"},
		},
		{
			name:  "missing use case id",
			input: Input{ImpactScore: f64(3.0), Reason: "r"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := setupMockDB(t)
			defer db.Close()
			redisClient, _ := setupTestRedis(t)

			h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assertStandardError(t, err, errors.ErrCodeOverrideInvalid)
		})
	}
}

func TestExecute_UseCaseNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	redisClient, _ := setupTestRedis(t)

	mock.ExpectQuery("UPDATE use_cases").
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		UseCaseID:   "missing",
		ImpactScore: f64(3.0),
		Reason:      "recalibration",
	})
	require.Error(t, err)
	assertStandardError(t, err, errors.ErrCodeUseCaseNotFound)
}

func TestExecute_ClearOverride(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	redisClient, mr := setupTestRedis(t)
	mr.Set("usecase:assessment:uc-5", "stale")

	mock.ExpectQuery("UPDATE use_cases").
		WithArgs("uc-5").
		WillReturnRows(sqlmock.NewRows([]string{"levers"}).AddRow(storedLeversJSON(t, 3, 2)))

	h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{UseCaseID: "uc-5", Clear: true})
	require.NoError(t, err)

	assert.True(t, output.Cleared)
	assert.False(t, output.Applied)
	assert.Equal(t, 3.0, output.EffectiveImpactScore)
	assert.Equal(t, 2.0, output.EffectiveEffortScore)
	assert.Equal(t, string(scoring.QuadrantQuickWin), output.Quadrant)
	assert.False(t, mr.Exists("usecase:assessment:uc-5"))
}

func TestExecute_PersistFailureIsRetryable(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	redisClient, _ := setupTestRedis(t)

	mock.ExpectQuery("UPDATE use_cases").
		WithArgs("uc-6", sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)

	h := NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		UseCaseID:   "uc-6",
		EffortScore: f64(2.0),
		Reason:      "vendor quote received",
	})
	require.Error(t, err)
	assertStandardError(t, err, errors.ErrCodeOverridePersistFailed)
	assert.True(t, errors.IsRetryableErrorCode(errors.ErrCodeOverridePersistFailed))
}
