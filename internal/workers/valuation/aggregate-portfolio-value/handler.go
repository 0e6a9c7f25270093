// internal/workers/valuation/aggregate-portfolio-value/handler.go
package aggregateportfoliovalue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/valuation"
	"assessment-workers/internal/workers/valuation/aggregate-portfolio-value/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const TaskType = "aggregate-portfolio-value"

type Handler struct {
	config       *Config
	db           *sql.DB
	redis        *redis.Client
	logger       logger.Logger
	errorHandler *errors.ErrorHandler

	// now is swappable for tests; break-even averaging depends on it.
	now func() time.Time
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        redisClient,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
		now:          time.Now,
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
			errors.NewPortfolioQueryFailedError(fmt.Errorf("parse input: %w", err)))
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
	cacheKey := "portfolio:summary"
	if input.Phase != "" {
		cacheKey += ":" + input.Phase
	}

	if !input.Refresh {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached Output
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	entries, err := queries.PortfolioEntries(ctx, h.db, input.Phase)
	if err != nil {
		return nil, errors.NewPortfolioQueryFailedError(err)
	}

	summary := valuation.AggregatePortfolioValue(entries, h.now())
	output := &Output{Summary: summary}

	if data, err := json.Marshal(output); err == nil {
		h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
	}

	h.logger.Info("portfolio aggregated", map[string]interface{}{
		"totalUseCases":   summary.TotalUseCases,
		"trackedUseCases": summary.TrackedUseCases,
		"totalInvestment": summary.TotalInvestment,
		"cumulativeValue": summary.CumulativeValue,
	})

	return output, nil
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
