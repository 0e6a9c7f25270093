// internal/workers/assessment/calculate-priority-score/handler.go
package calculatepriorityscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
	"assessment-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "calculate-priority-score"
)

var (
	ErrAssessmentNotFound = errors.New("ASSESSMENT_NOT_FOUND")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		if errors.Is(err, ErrAssessmentNotFound) {
			h.failJob(client, job, "USE_CASE_NOT_FOUND", err.Error())
			return
		}
		h.failJob(client, job, "SCORE_CALCULATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	assessment, err := h.resolveAssessment(ctx, input)
	if err != nil {
		return nil, err
	}

	resolver := scoring.NewResolver(h.config.ImpactWeights, h.config.EffortWeights, h.config.QuadrantThreshold)

	impact := scoring.ComputeImpactScore(assessment.Levers, resolver.ImpactWeights)
	effort := scoring.ComputeEffortScore(assessment.Levers, resolver.EffortWeights)
	quadrant := resolver.EffectiveQuadrant(assessment.Levers, assessment.Override)

	output := &Output{
		UseCaseID:            input.UseCaseID,
		ImpactScore:          impact,
		EffortScore:          effort,
		EffectiveImpactScore: resolver.EffectiveImpactScore(assessment.Levers, assessment.Override),
		EffectiveEffortScore: resolver.EffectiveEffortScore(assessment.Levers, assessment.Override),
		Quadrant:             string(quadrant),
		Overridden:           assessment.Override.Active(),
		ImpactLevers:         assessment.Levers.ImpactLevers(),
		EffortLevers:         assessment.Levers.EffortLevers(),
	}
	if assessment.Override.Active() {
		output.OverrideReason = assessment.Override.Reason
	}

	metrics.QuadrantClassifications.WithLabelValues(string(quadrant)).Inc()

	h.logger.Info("priority score calculated", map[string]interface{}{
		"useCaseId":   input.UseCaseID,
		"impactScore": output.EffectiveImpactScore,
		"effortScore": output.EffectiveEffortScore,
		"quadrant":    output.Quadrant,
		"overridden":  output.Overridden,
	})

	return output, nil
}

// resolveAssessment prefers inline levers from the process variables and
// falls back to the assessment store, with a cache in front.
func (h *Handler) resolveAssessment(ctx context.Context, input *Input) (*Assessment, error) {
	if input.Levers != nil {
		return &Assessment{Levers: *input.Levers, Override: input.Override}, nil
	}
	if input.UseCaseID == "" {
		return nil, fmt.Errorf("either levers or useCaseId is required")
	}
	return h.getAssessment(ctx, input.UseCaseID)
}

func (h *Handler) getAssessment(ctx context.Context, useCaseID string) (*Assessment, error) {
	cacheKey := "usecase:assessment:" + useCaseID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var assessment Assessment
		if err := json.Unmarshal([]byte(val), &assessment); err == nil {
			return &assessment, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT levers, override
		FROM use_cases WHERE id = $1`, useCaseID)

	var leversRaw []byte
	var overrideRaw sql.NullString
	if err := row.Scan(&leversRaw, &overrideRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, useCaseID)
		}
		return nil, err
	}

	var assessment Assessment
	if err := json.Unmarshal(leversRaw, &assessment.Levers); err != nil {
		return nil, fmt.Errorf("decode levers for %s: %w", useCaseID, err)
	}
	if overrideRaw.Valid && overrideRaw.String != "" {
		var o scoring.ManualOverride
		if err := json.Unmarshal([]byte(overrideRaw.String), &o); err == nil {
			assessment.Override = &o
		}
	}

	data, _ := json.Marshal(assessment)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &assessment, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
