// Package errors provides standardized error handling for BPMN workflow
// integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAssessmentValidationFailed ErrorCode = "ASSESSMENT_VALIDATION_FAILED"
	ErrCodeLeverScoreOutOfRange       ErrorCode = "LEVER_SCORE_OUT_OF_RANGE"
	ErrCodeScoreCalculationFailed     ErrorCode = "SCORE_CALCULATION_FAILED"

	ErrCodeOverrideReasonRequired ErrorCode = "OVERRIDE_REASON_REQUIRED"
	ErrCodeOverrideInvalid        ErrorCode = "OVERRIDE_INVALID"
	ErrCodeOverridePersistFailed  ErrorCode = "OVERRIDE_PERSIST_FAILED"

	ErrCodeUseCaseNotFound ErrorCode = "USE_CASE_NOT_FOUND"

	ErrCodeKpiLibraryInvalid    ErrorCode = "KPI_LIBRARY_INVALID"
	ErrCodeValueEstimateFailed  ErrorCode = "VALUE_ESTIMATE_FAILED"
	ErrCodePortfolioQueryFailed ErrorCode = "PORTFOLIO_QUERY_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// NewAssessmentValidationFailedError flags lever input that failed schema
// or range validation. Not retryable: the input itself is wrong.
func NewAssessmentValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentValidationFailed,
		Message:   "Assessment input failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLeverScoreOutOfRangeError flags a lever rating outside [1,5].
func NewLeverScoreOutOfRangeError(lever string, value int) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeverScoreOutOfRange,
		Message:   "Lever score outside the allowed range",
		Details:   fmt.Sprintf("lever: %s, value: %d, allowed: [1,5]", lever, value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoreCalculationFailedError wraps an unexpected scoring failure.
func NewScoreCalculationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreCalculationFailed,
		Message:   "Priority score calculation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOverrideReasonRequiredError enforces the write-path invariant that an
// active override always carries a reason.
func NewOverrideReasonRequiredError(useCaseID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOverrideReasonRequired,
		Message:   "A manual override requires a non-empty reason",
		Details:   fmt.Sprintf("useCaseId: %s", useCaseID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOverrideInvalidError flags an override payload that cannot be applied.
func NewOverrideInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOverrideInvalid,
		Message:   "Manual override payload is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOverridePersistFailedError wraps a database failure on the override
// write path. Retryable.
func NewOverridePersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOverridePersistFailed,
		Message:   "Failed to persist manual override",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUseCaseNotFoundError flags a lookup for an unknown use case.
func NewUseCaseNotFoundError(useCaseID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUseCaseNotFound,
		Message:   "Use case not found",
		Details:   fmt.Sprintf("useCaseId: %s", useCaseID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKpiLibraryInvalidError flags malformed KPI reference data.
func NewKpiLibraryInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeKpiLibraryInvalid,
		Message:   "KPI library configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValueEstimateFailedError wraps a failure while deriving estimates.
func NewValueEstimateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeValueEstimateFailed,
		Message:   "Value estimate derivation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPortfolioQueryFailedError wraps a database failure while collecting
// the portfolio. Retryable.
func NewPortfolioQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePortfolioQueryFailed,
		Message:   "Portfolio query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError wraps a transient failure in an external system.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError wraps a timeout against an external system.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceNotFoundError flags a missing resource in an external system.
func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError flags a rejected credential against an external
// system, such as the workflow gateway.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_FAILED",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBusinessRuleError flags a non-retryable business rule violation.
func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeOverridePersistFailed,
		ErrCodePortfolioQueryFailed:
		return 3

	case ErrCodeQueryTimeout:
		return 2

	default:
		return 0 // Business and validation errors: no retry.
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the reporting category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "OVERRIDE"):
		return "OVERRIDE"
	case strings.Contains(codeStr, "KPI") || strings.Contains(codeStr, "VALUE") || strings.Contains(codeStr, "PORTFOLIO"):
		return "VALUATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "RANGE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SCORE") || strings.Contains(codeStr, "USE_CASE"):
		return "SCORING"
	default:
		return "OTHER"
	}
}
