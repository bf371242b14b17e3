// Package validation provides field-extraction rules for raw applicant
// input. Every helper returns the parsed value and a nil FieldError on
// success; callers accumulate the failures instead of stopping at the first.
package validation

import (
	"fmt"
	"math"

	"loan-approval-service/internal/common/errors"
)

// RequireStringEnum extracts a string field constrained to a fixed set.
func RequireStringEnum(raw map[string]interface{}, field string, allowed []string) (string, *errors.FieldError) {
	value, ok := raw[field]
	if !ok || value == nil {
		return "", missing(field)
	}
	s, ok := value.(string)
	if !ok {
		return "", invalidType(field, "string", value)
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", &errors.FieldError{
		Field:   field,
		Code:    errors.FieldCodeInvalidValue,
		Message: fmt.Sprintf("must be one of %v", allowed),
	}
}

// RequireNonNegativeNumber extracts a numeric field that must be >= 0.
func RequireNonNegativeNumber(raw map[string]interface{}, field string) (float64, *errors.FieldError) {
	value, ok := raw[field]
	if !ok || value == nil {
		return 0, missing(field)
	}
	n, ok := coerceNumber(value)
	if !ok {
		return 0, invalidType(field, "number", value)
	}
	if n < 0 {
		return 0, &errors.FieldError{
			Field:   field,
			Code:    errors.FieldCodeBelowMinimum,
			Message: "must be greater than or equal to 0",
		}
	}
	return n, nil
}

// RequireNumberEnum extracts a numeric field constrained to a fixed set of
// values (e.g. a 1.0/0.0 flag).
func RequireNumberEnum(raw map[string]interface{}, field string, allowed []float64) (float64, *errors.FieldError) {
	value, ok := raw[field]
	if !ok || value == nil {
		return 0, missing(field)
	}
	n, ok := coerceNumber(value)
	if !ok {
		return 0, invalidType(field, "number", value)
	}
	for _, a := range allowed {
		if n == a {
			return n, nil
		}
	}
	return 0, &errors.FieldError{
		Field:   field,
		Code:    errors.FieldCodeInvalidValue,
		Message: fmt.Sprintf("must be one of %v", allowed),
	}
}

// RequireIntFromSet extracts an integer field constrained to a fixed set.
// Fractional values are rejected, not truncated.
func RequireIntFromSet(raw map[string]interface{}, field string, allowed []int) (int, *errors.FieldError) {
	value, ok := raw[field]
	if !ok || value == nil {
		return 0, missing(field)
	}
	n, ok := coerceNumber(value)
	if !ok {
		return 0, invalidType(field, "integer", value)
	}
	if n != math.Trunc(n) {
		return 0, invalidType(field, "integer", value)
	}
	i := int(n)
	for _, a := range allowed {
		if i == a {
			return i, nil
		}
	}
	return 0, &errors.FieldError{
		Field:   field,
		Code:    errors.FieldCodeInvalidValue,
		Message: fmt.Sprintf("must be one of %v", allowed),
	}
}

func missing(field string) *errors.FieldError {
	return &errors.FieldError{
		Field:   field,
		Code:    errors.FieldCodeMissingRequired,
		Message: "required field missing",
	}
}

func invalidType(field, expected string, value interface{}) *errors.FieldError {
	return &errors.FieldError{
		Field:   field,
		Code:    errors.FieldCodeInvalidType,
		Message: fmt.Sprintf("expected %s, got %T", expected, value),
	}
}

// coerceNumber accepts the numeric representations JSON decoding and
// workflow variables produce.
func coerceNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
