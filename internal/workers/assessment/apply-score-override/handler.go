// internal/workers/assessment/apply-score-override/handler.go
package applyscoreoverride

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const TaskType = "apply-score-override"

type Handler struct {
	config       *Config
	db           *sql.DB
	redis        *redis.Client
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        redisClient,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job,
			errors.NewOverrideInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UseCaseID == "" {
		return nil, errors.NewOverrideInvalidError("useCaseId is required")
	}

	if input.Clear {
		return h.clearOverride(ctx, input.UseCaseID)
	}

	override, err := h.buildOverride(input)
	if err != nil {
		return nil, err
	}

	overrideJSON, err := json.Marshal(override)
	if err != nil {
		return nil, errors.NewOverrideInvalidError(err.Error())
	}

	levers, err := h.persistOverride(ctx, input.UseCaseID, overrideJSON)
	if err != nil {
		return nil, err
	}

	h.invalidateCache(ctx, input.UseCaseID)
	h.recordOverrideMetrics(override)

	resolver := scoring.NewResolver(h.config.ImpactWeights, h.config.EffortWeights, h.config.QuadrantThreshold)
	output := &Output{
		UseCaseID:            input.UseCaseID,
		Applied:              true,
		EffectiveImpactScore: resolver.EffectiveImpactScore(levers, override),
		EffectiveEffortScore: resolver.EffectiveEffortScore(levers, override),
		Quadrant:             string(resolver.EffectiveQuadrant(levers, override)),
	}

	h.logger.Info("override applied", map[string]interface{}{
		"useCaseId": input.UseCaseID,
		"quadrant":  output.Quadrant,
		"reason":    override.Reason,
	})

	return output, nil
}

// buildOverride validates the payload into a ManualOverride. The reason is
// mandatory on the write path whenever any manual value is present.
func (h *Handler) buildOverride(input *Input) (*scoring.ManualOverride, error) {
	override := &scoring.ManualOverride{
		ImpactScore: input.ImpactScore,
		EffortScore: input.EffortScore,
		Reason:      strings.TrimSpace(input.Reason),
	}
	if input.Quadrant != nil {
		q := scoring.Quadrant(*input.Quadrant)
		if !q.Valid() {
			return nil, errors.NewOverrideInvalidError(fmt.Sprintf("unknown quadrant %q", *input.Quadrant))
		}
		override.Quadrant = &q
	}

	if !override.Active() {
		return nil, errors.NewOverrideInvalidError("no manual value supplied; set clear=true to remove an override")
	}
	if override.Reason == "" {
		return nil, errors.NewOverrideReasonRequiredError(input.UseCaseID)
	}
	if override.ImpactScore != nil && (*override.ImpactScore < 1 || *override.ImpactScore > 5) {
		return nil, errors.NewOverrideInvalidError(fmt.Sprintf("manual impact score %.1f outside [1,5]", *override.ImpactScore))
	}
	if override.EffortScore != nil && (*override.EffortScore < 1 || *override.EffortScore > 5) {
		return nil, errors.NewOverrideInvalidError(fmt.Sprintf("manual effort score %.1f outside [1,5]", *override.EffortScore))
	}

	return override, nil
}

func (h *Handler) persistOverride(ctx context.Context, useCaseID string, overrideJSON []byte) (scoring.LeverScores, error) {
	var leversRaw []byte
	err := h.db.QueryRowContext(ctx, `
		UPDATE use_cases
		SET override = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING levers`, useCaseID, overrideJSON).Scan(&leversRaw)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return scoring.LeverScores{}, errors.NewUseCaseNotFoundError(useCaseID)
		}
		return scoring.LeverScores{}, errors.NewOverridePersistFailedError(err)
	}

	var levers scoring.LeverScores
	if err := json.Unmarshal(leversRaw, &levers); err != nil {
		return scoring.LeverScores{}, errors.NewOverridePersistFailedError(err)
	}
	return levers, nil
}

func (h *Handler) clearOverride(ctx context.Context, useCaseID string) (*Output, error) {
	var leversRaw []byte
	err := h.db.QueryRowContext(ctx, `
		UPDATE use_cases
		SET override = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING levers`, useCaseID).Scan(&leversRaw)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewUseCaseNotFoundError(useCaseID)
		}
		return nil, errors.NewOverridePersistFailedError(err)
	}

	var levers scoring.LeverScores
	if err := json.Unmarshal(leversRaw, &levers); err != nil {
		return nil, errors.NewOverridePersistFailedError(err)
	}

	h.invalidateCache(ctx, useCaseID)

	resolver := scoring.NewResolver(h.config.ImpactWeights, h.config.EffortWeights, h.config.QuadrantThreshold)
	return &Output{
		UseCaseID:            useCaseID,
		Cleared:              true,
		EffectiveImpactScore: resolver.EffectiveImpactScore(levers, nil),
		EffectiveEffortScore: resolver.EffectiveEffortScore(levers, nil),
		Quadrant:             string(resolver.EffectiveQuadrant(levers, nil)),
	}, nil
}

func (h *Handler) invalidateCache(ctx context.Context, useCaseID string) {
	if err := h.redis.Del(ctx, "usecase:assessment:"+useCaseID).Err(); err != nil {
		h.logger.Warn("cache invalidation failed", map[string]interface{}{
			"useCaseId": useCaseID,
			"error":     err,
		})
	}
}

func (h *Handler) recordOverrideMetrics(o *scoring.ManualOverride) {
	if o.ImpactScore != nil {
		metrics.ScoreOverridesApplied.WithLabelValues("impactScore").Inc()
	}
	if o.EffortScore != nil {
		metrics.ScoreOverridesApplied.WithLabelValues("effortScore").Inc()
	}
	if o.Quadrant != nil {
		metrics.ScoreOverridesApplied.WithLabelValues("quadrant").Inc()
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
