// Package errors provides the structured error contract shared by the
// prediction core, the HTTP API, and the workflow workers.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeArtifactNotFound: model artifact missing at the configured path.
	// The failure is cached; the service keeps running with scoring disabled.
	ErrCodeArtifactNotFound ErrorCode = "ARTIFACT_NOT_FOUND"
	// ErrCodeArtifactInvalid: artifact exists but cannot be parsed or fails
	// manifest validation. Cached like a missing artifact.
	ErrCodeArtifactInvalid ErrorCode = "ARTIFACT_INVALID"
	// ErrCodeValidation: one or more applicant fields missing, mistyped, or
	// outside their domain.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeScoring: the pipeline raised during inference. Deterministic
	// computation, never retried.
	ErrCodeScoring ErrorCode = "SCORING_ERROR"
	// ErrCodeInternal: anything unexpected (panics, config faults).
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Prediction stages recorded on errors so callers can tell which step of an
// attempt failed without parsing message text.
const (
	StageBuildRecord = "build_record"
	StageLoadModel   = "load_model"
	StageScore       = "score"
)

// StandardError represents a structured application error. Message is safe to
// surface to callers; Details carries internal context for logs only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Stage     string                 `json:"stage,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// FieldError describes a single invalid input field. A validation failure
// carries the full list so callers can report every problem at once.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Field-level validation codes.
const (
	FieldCodeMissingRequired = "MISSING_REQUIRED"
	FieldCodeInvalidType     = "INVALID_TYPE"
	FieldCodeInvalidValue    = "INVALID_VALUE"
	FieldCodeBelowMinimum    = "BELOW_MINIMUM"
)

// ==========================
// 2. Error Constructors
// ==========================

// NewArtifactNotFoundError reports a missing model artifact. Non-retryable:
// the path is fixed for the process lifetime and the result is cached.
func NewArtifactNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactNotFound,
		Message:   "Model artifact not found; scoring is unavailable",
		Details:   fmt.Sprintf("artifactPath: %s", path),
		Stage:     StageLoadModel,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactInvalidError reports an artifact that exists but cannot be used.
func NewArtifactInvalidError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactInvalid,
		Message:   "Model artifact is invalid; scoring is unavailable",
		Details:   fmt.Sprintf("artifactPath: %s, error: %s", path, err.Error()),
		Stage:     StageLoadModel,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports out-of-domain or malformed applicant fields.
func NewValidationError(fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Applicant data failed validation",
		Details:   fmt.Sprintf("%d invalid field(s)", len(fields)),
		Stage:     StageBuildRecord,
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringError wraps a pipeline inference failure. The underlying error
// text stays in Details and is never shown to callers.
func NewScoringError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoring,
		Message:   "Scoring failed for the submitted application",
		Details:   err.Error(),
		Stage:     StageScore,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Inspection Helpers
// ==========================

// AsStandard normalizes any error to a StandardError, wrapping unknown errors
// as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// FieldErrors extracts the per-field failures from a validation error, or nil.
func FieldErrors(err error) []FieldError {
	stdErr := AsStandard(err)
	if stdErr.Code != ErrCodeValidation || stdErr.Metadata == nil {
		return nil
	}
	fields, _ := stdErr.Metadata["fields"].([]FieldError)
	return fields
}

// HTTPStatus maps an error code to the status the API surface returns.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation:
		return 400
	case ErrCodeArtifactNotFound, ErrCodeArtifactInvalid:
		return 503
	default:
		return 500
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeArtifactNotFound, ErrCodeArtifactInvalid:
		return "MODEL"
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodeScoring:
		return "SCORING"
	default:
		return "OTHER"
	}
}

// ==========================
// 4. BPMN Error Integration
// ==========================

// BPMNError represents an error thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// GetRetryCount returns the retry budget for a code. Every prediction error
// is deterministic, so the budget is always zero; the Camunda transport still
// asks through this function rather than assuming.
func GetRetryCount(code ErrorCode) int {
	return 0
}

// ConvertToBPMNError converts a StandardError for the workflow engine. BPMN
// error codes are identical to the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if stdErr.Stage != "" {
		vars["stage"] = stdErr.Stage
	}
	if fields, ok := stdErr.Metadata["fields"]; ok {
		vars["validationErrors"] = fields
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: vars,
	}
}
