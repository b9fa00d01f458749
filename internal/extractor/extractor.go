// Package extractor derives typed field/value pairs from completed calls.
// Two sources feed it: the vendor's structured function-call capture
// (high trust) and a regex pass over the raw transcript (fallback).
package extractor

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"voice-leads-go/internal/config"
	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/types"
)

// FieldValue is one field extracted from free text.
type FieldValue struct {
	Field string
	Value string
}

// FieldExtractor pulls named fields out of a transcript. The real-estate
// pattern set is the default implementation; other domains can supply their
// own without touching the pipeline.
type FieldExtractor interface {
	Extract(transcript string) []FieldValue
}

type Engine struct {
	cfg        config.ExtractionConfig
	transcript FieldExtractor
}

func NewEngine(cfg config.ExtractionConfig, fe FieldExtractor) *Engine {
	return &Engine{cfg: cfg, transcript: fe}
}

// FromFunctionCall maps function-call parameters directly to responses.
// Malformed or empty parameters are skipped, never an error.
func (e *Engine) FromFunctionCall(callID, assistantID string, p types.FunctionCallPayload) []types.ExtractedResponse {
	log := logger.Component("extractor").WithField("call_id", callID)

	var out []types.ExtractedResponse
	for name, raw := range p.Parameters {
		value, answerType, ok := normalizeValue(raw)
		if !ok {
			continue
		}
		out = append(out, types.ExtractedResponse{
			ID:          uuid.New().String(),
			CallID:      callID,
			AssistantID: assistantID,
			Field:       name,
			Answer:      value,
			AnswerType:  answerType,
			Confidence:  e.cfg.FunctionCallConfidence,
			Source:      types.SourceFunctionCall,
			CreatedAt:   time.Now().UTC(),
		})
	}
	log.WithField("fields", len(out)).Debug("function-call extraction done")
	return out
}

// FromTranscript runs the pattern extractor over the caller's side of the
// conversation.
func (e *Engine) FromTranscript(callID, assistantID string, msgs []types.TranscriptMessage) []types.ExtractedResponse {
	if e.transcript == nil {
		return nil
	}
	text := UserText(msgs)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []types.ExtractedResponse
	for _, fv := range e.transcript.Extract(text) {
		out = append(out, types.ExtractedResponse{
			ID:          uuid.New().String(),
			CallID:      callID,
			AssistantID: assistantID,
			Field:       fv.Field,
			Answer:      fv.Value,
			AnswerType:  "string",
			Confidence:  e.cfg.TranscriptConfidence,
			Source:      types.SourceTranscript,
			CreatedAt:   time.Now().UTC(),
		})
	}
	return out
}

// UserText concatenates the user-role message contents in order.
func UserText(msgs []types.TranscriptMessage) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.Role != "user" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

// Dedupe keeps one response per field name: the strictly higher confidence
// wins, ties keep the first seen. Idempotent.
func Dedupe(responses []types.ExtractedResponse) []types.ExtractedResponse {
	byField := map[string]int{}
	var out []types.ExtractedResponse
	for _, r := range responses {
		idx, seen := byField[r.Field]
		if !seen {
			byField[r.Field] = len(out)
			out = append(out, r)
			continue
		}
		if r.Confidence > out[idx].Confidence {
			out[idx] = r
		}
	}
	return out
}

// normalizeValue flattens a parameter value to its string form. Returns
// ok=false for values that carry no answer (nil, empty string, empty array).
func normalizeValue(raw any) (value, answerType string, ok bool) {
	switch v := raw.(type) {
	case nil:
		return "", "", false
	case string:
		if strings.TrimSpace(v) == "" {
			return "", "", false
		}
		return strings.TrimSpace(v), "string", true
	case bool:
		return strconv.FormatBool(v), "boolean", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), "number", true
	case int:
		return strconv.Itoa(v), "number", true
	case []any:
		var parts []string
		for _, item := range v {
			if s, _, ok := normalizeValue(item); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", "", false
		}
		return strings.Join(parts, ", "), "array", true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", "", false
		}
		return string(data), "string", true
	}
}
