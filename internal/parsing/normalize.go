// Package parsing turns untrusted model output into validated structured values.
//
// Bracket patching in NormalizeArray is only a best-effort repair. The
// validators are the real gate: a value is returned only when its shape
// has been checked field by field.
package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

// ValidationError describes why a decoded payload was rejected.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

func invalid(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// NormalizeArray repairs common formatting slips around a JSON array:
// code fences, line breaks and missing outer brackets.
func NormalizeArray(raw string) string {
	s := utils.StripFences(raw)
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		s = "[" + s
	}
	if !strings.HasSuffix(s, "]") {
		s = s + "]"
	}
	return s
}

// decode parses s into a provisional untyped value.
func decode(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// ParseStringArray normalizes raw and validates it as a non-empty list of non-empty strings.
func ParseStringArray(raw string) ([]string, error) {
	v, err := decode(NormalizeArray(raw))
	if err != nil {
		return nil, err
	}
	return validateStringList("", v, true)
}

func validateStringList(path string, v any, requireItems bool) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, invalid(path, "expected an array, got %T", v)
	}
	if requireItems && len(items) == 0 {
		return nil, invalid(path, "array is empty")
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(fmt.Sprintf("%s[%d]", path, i), "expected a string, got %T", item)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, invalid(fmt.Sprintf("%s[%d]", path, i), "empty string")
		}
		out = append(out, s)
	}
	return out, nil
}
