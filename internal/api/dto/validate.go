package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// validator collects per-field messages into one validation error.
type validator struct {
	fields map[string]string
}

func (v *validator) fail(field, message string) {
	if v.fields == nil {
		v.fields = map[string]string{}
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "is required")
	}
}

// length checks the rune count of value. max <= 0 means unbounded.
func (v *validator) length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n < min:
		v.fail(field, fmt.Sprintf("must be at least %d characters", min))
	case max > 0 && n > max:
		v.fail(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// text checks the rune count of value after trimming surrounding space,
// which is the form the services store.
func (v *validator) text(field, value string, min, max int) {
	v.length(field, strings.TrimSpace(value), min, max)
}

// maxBytes bounds the encoded size of value.
func (v *validator) maxBytes(field, value string, max int) {
	if len(value) > max {
		v.fail(field, fmt.Sprintf("must be at most %d bytes", max))
	}
}

func (v *validator) between(field string, value, low, high int) {
	if value < low || value > high {
		v.fail(field, fmt.Sprintf("must be between %d and %d", low, high))
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	details := make(map[string]any, len(v.fields))
	for k, msg := range v.fields {
		details[k] = msg
	}
	return apperrors.NewValidationError("invalid payload", details)
}
