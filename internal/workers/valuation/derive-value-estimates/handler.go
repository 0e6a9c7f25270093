// internal/workers/valuation/derive-value-estimates/handler.go
package derivevalueestimates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/scoring"
	"assessment-workers/internal/valuation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const TaskType = "derive-value-estimates"

var (
	ErrUseCaseNotFound = errors.New("USE_CASE_NOT_FOUND")
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
		if errors.Is(err, ErrUseCaseNotFound) {
			h.failJob(client, job, "USE_CASE_NOT_FOUND", err.Error())
			return
		}
		h.failJob(client, job, "VALUE_ESTIMATE_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	processes, levers, err := h.resolveInputs(ctx, input)
	if err != nil {
		return nil, err
	}

	// Estimates are ephemeral; the cache only saves recomputation for
	// repeated reporting calls on an unchanged use case.
	cacheKey := ""
	if input.UseCaseID != "" && input.Levers == nil {
		cacheKey = "usecase:estimates:" + input.UseCaseID
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached Output
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	volume := input.VolumeMultiplier
	if volume <= 0 {
		volume = h.config.VolumeMultiplier
	}

	estimates := valuation.DeriveValueEstimates(
		processes,
		leverScoreMap(levers),
		*h.config.Library,
		volume,
		valuation.EstimateOptions{
			HourlyRate:   h.config.HourlyRate,
			CurrencyCode: h.config.CurrencyCode,
		},
	)

	total := valuation.TotalEstimatedValue(estimates)
	output := &Output{
		UseCaseID: input.UseCaseID,
		Estimates: estimates,
		TotalValue: valuation.MoneyRange{
			Min:      total.Min,
			Max:      total.Max,
			Currency: h.config.CurrencyCode,
		},
	}

	if cacheKey != "" {
		if data, err := json.Marshal(output); err == nil {
			h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
		}
	}

	h.logger.Info("value estimates derived", map[string]interface{}{
		"useCaseId": input.UseCaseID,
		"kpis":      len(estimates),
		"totalMin":  output.TotalValue.Min,
		"totalMax":  output.TotalValue.Max,
	})

	return output, nil
}

func (h *Handler) resolveInputs(ctx context.Context, input *Input) ([]string, scoring.LeverScores, error) {
	if input.Levers != nil && len(input.BusinessProcesses) > 0 {
		return input.BusinessProcesses, *input.Levers, nil
	}
	if input.UseCaseID == "" {
		return nil, scoring.LeverScores{}, fmt.Errorf("either businessProcesses+levers or useCaseId is required")
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT business_processes, levers
		FROM use_cases WHERE id = $1`, input.UseCaseID)

	var processesRaw, leversRaw []byte
	if err := row.Scan(&processesRaw, &leversRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, scoring.LeverScores{}, fmt.Errorf("%w: %s", ErrUseCaseNotFound, input.UseCaseID)
		}
		return nil, scoring.LeverScores{}, err
	}

	var processes []string
	if err := json.Unmarshal(processesRaw, &processes); err != nil {
		return nil, scoring.LeverScores{}, fmt.Errorf("decode business processes for %s: %w", input.UseCaseID, err)
	}
	var levers scoring.LeverScores
	if err := json.Unmarshal(leversRaw, &levers); err != nil {
		return nil, scoring.LeverScores{}, fmt.Errorf("decode levers for %s: %w", input.UseCaseID, err)
	}

	return processes, levers, nil
}

// leverScoreMap exposes every lever to the maturity rules, which may
// condition on either axis.
func leverScoreMap(levers scoring.LeverScores) map[string]float64 {
	all := levers.All()
	scores := make(map[string]float64, len(all))
	for name, v := range all {
		scores[name] = float64(v)
	}
	return scores
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
