// internal/workers/assessment/validate-assessment-input/handler.go
package validateassessmentinput

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "validate-assessment-input"

// leverSchema requires all ten levers as integers in [1,5].
var leverSchema = map[string]interface{}{
	"type":                 "object",
	"required":             allLeverNames(),
	"additionalProperties": false,
	"properties":           leverProperties(),
}

func allLeverNames() []interface{} {
	names := make([]interface{}, 0, 10)
	for _, n := range scoring.ImpactLeverNames {
		names = append(names, n)
	}
	for _, n := range scoring.EffortLeverNames {
		names = append(names, n)
	}
	return names
}

func leverProperties() map[string]interface{} {
	props := make(map[string]interface{}, 10)
	for _, n := range append(append([]string{}, scoring.ImpactLeverNames...), scoring.EffortLeverNames...) {
		props[n] = map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 5,
		}
	}
	return props
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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

	output := h.execute(&input)
	h.completeJob(client, job, output)
}

// execute returns a validation verdict rather than an error: a failed
// check completes the job with valid=false so the process can route to a
// correction step.
func (h *Handler) execute(input *Input) *Output {
	var errs []string

	errs = append(errs, h.validateLevers(input.Levers)...)
	errs = append(errs, h.validateOverride(input.Override)...)

	output := &Output{
		UseCaseID: input.UseCaseID,
		Valid:     len(errs) == 0,
		Errors:    errs,
	}

	if !output.Valid {
		h.logger.Warn("assessment input rejected", map[string]interface{}{
			"useCaseId": input.UseCaseID,
			"errors":    strings.Join(errs, "; "),
		})
	}

	return output
}

func (h *Handler) validateLevers(levers map[string]interface{}) []string {
	if levers == nil {
		return []string{"levers: required"}
	}

	schemaLoader := gojsonschema.NewGoLoader(leverSchema)
	documentLoader := gojsonschema.NewGoLoader(levers)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return []string{fmt.Sprintf("levers: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, len(result.Errors()))
	for i, e := range result.Errors() {
		errs[i] = "levers: " + e.String()
	}
	sort.Strings(errs)
	return errs
}

// validateOverride enforces the write-path invariant: any active override
// needs a reason, manual scores stay within the lever scale, and a manual
// quadrant must be one of the four labels.
func (h *Handler) validateOverride(o *scoring.ManualOverride) []string {
	if !o.Active() {
		return nil
	}

	var errs []string
	if strings.TrimSpace(o.Reason) == "" {
		errs = append(errs, "override: reason is required when any manual value is set")
	}
	if o.ImpactScore != nil && (*o.ImpactScore < 1 || *o.ImpactScore > 5) {
		errs = append(errs, fmt.Sprintf("override: manual impact score %.1f outside [1,5]", *o.ImpactScore))
	}
	if o.EffortScore != nil && (*o.EffortScore < 1 || *o.EffortScore > 5) {
		errs = append(errs, fmt.Sprintf("override: manual effort score %.1f outside [1,5]", *o.EffortScore))
	}
	if o.Quadrant != nil && !o.Quadrant.Valid() {
		errs = append(errs, fmt.Sprintf("override: unknown quadrant %q", string(*o.Quadrant)))
	}
	return errs
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

func (h *Handler) Execute(input *Input) *Output {
	return h.execute(input)
}
