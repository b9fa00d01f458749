// Package evaluator normalizes the vendor's call-outcome signal to a bool.
// The vendor emits strings, booleans, numbers, or nested JSON for the same
// field; everything funnels through Success so the rest of the pipeline only
// ever sees a bool.
package evaluator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Exact-match values that count as success once lowercased and trimmed.
var allowList = []string{
	"successful", "success", "qualified", "completed",
	"good", "excellent", "true", "1", "yes", "passed",
}

// Substring matches that count as failure.
var denyList = []string{
	"unsuccessful", "failed", "failure", "error", "bad",
	"poor", "false", "0", "no", "incomplete",
}

// Keys probed inside nested evaluation objects, in order.
var nestedKeys = []string{"success", "result", "evaluation", "outcome"}

// Success reports whether an arbitrary evaluation value means the call
// succeeded. Unknown values are failures, not "unevaluated" — downstream
// dashboards rely on that exact behavior. Never panics; nil is false.
func Success(raw any) bool {
	if raw == nil {
		return false
	}

	if m, ok := raw.(map[string]any); ok {
		for _, k := range nestedKeys {
			if v, ok := m[k]; ok {
				return Success(v)
			}
		}
		return false
	}

	s := strings.ToLower(strings.TrimSpace(coerce(raw)))
	for _, a := range allowList {
		if s == a {
			return true
		}
	}

	switch v := raw.(type) {
	case bool:
		if v {
			return true
		}
	case float64:
		if v == 1 {
			return true
		}
	case int:
		if v == 1 {
			return true
		}
	}

	for _, d := range denyList {
		if strings.Contains(s, d) {
			return false
		}
	}
	return false
}

// SuccessFromJSON evaluates a raw JSON evaluation value as stored on the
// ingestion envelope. Empty or malformed JSON is a failure.
func SuccessFromJSON(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// not JSON; treat the bytes as a bare string
		return Success(strings.Trim(string(raw), `"`))
	}
	return Success(v)
}

func coerce(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
