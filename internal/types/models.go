package types

import (
	"encoding/json"
	"time"
)

// RawCall is the ingestion envelope for a completed call. Field names and
// duration units vary by source table, so aliases are tolerated here and
// normalized into a CallRecord exactly once.
type RawCall struct {
	ID                string          `json:"id"`
	AssistantID       string          `json:"assistant_id"`
	CallerNumber      string          `json:"caller_number"`
	StartedAt         time.Time       `json:"started_at"`
	EndedAt           time.Time       `json:"ended_at"`
	Duration          *float64        `json:"duration,omitempty"`
	DurationSeconds   *float64        `json:"duration_seconds,omitempty"`
	DurationMinutes   *float64        `json:"duration_minutes,omitempty"`
	Cost              float64         `json:"cost"`
	Evaluation        json.RawMessage `json:"evaluation,omitempty"`
	SuccessEvaluation json.RawMessage `json:"success_evaluation,omitempty"`
	Transcript        string          `json:"transcript,omitempty"`
	Summary           string          `json:"summary,omitempty"`
	StructuredData    map[string]any  `json:"structured_data,omitempty"`
}

// NormalizedDuration resolves the three duration aliases to whole seconds.
// Bare "duration" is assumed to already be seconds.
func (r *RawCall) NormalizedDuration() int {
	switch {
	case r.DurationSeconds != nil:
		return int(*r.DurationSeconds)
	case r.Duration != nil:
		return int(*r.Duration)
	case r.DurationMinutes != nil:
		return int(*r.DurationMinutes * 60)
	}
	return 0
}

// RawEvaluation returns whichever evaluation alias the source populated.
func (r *RawCall) RawEvaluation() json.RawMessage {
	if len(r.Evaluation) > 0 {
		return r.Evaluation
	}
	return r.SuccessEvaluation
}

// CallRecord is a completed call after normalization: duration always in
// seconds, the vendor's polymorphic evaluation resolved to a bool. Immutable
// once written; only ExtractedResponse rows are appended afterward.
type CallRecord struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	AssistantID  string    `gorm:"index" json:"assistant_id"`
	CallerNumber string    `json:"caller_number"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	DurationSec  int       `json:"duration_sec"`
	Cost         float64   `json:"cost"`
	Success      bool      `json:"success"`
	Transcript   string    `gorm:"type:text" json:"transcript,omitempty"`
	Summary      string    `gorm:"type:text" json:"summary,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Assistant mirrors the remote voice-platform assistant we track calls for.
type Assistant struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}

type ResponseSource string

const (
	SourceFunctionCall ResponseSource = "function_call"
	SourceTranscript   ResponseSource = "transcript"
)

// ExtractedResponse is one structured field derived from a call. Several
// rows may exist per field from different sources; consumers dedupe by
// confidence.
type ExtractedResponse struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	CallID      string         `gorm:"index" json:"call_id"`
	AssistantID string         `json:"assistant_id"`
	Field       string         `json:"field"`
	Answer      string         `json:"answer"`
	AnswerType  string         `json:"answer_type"`
	Confidence  float64        `json:"confidence"`
	Source      ResponseSource `json:"source"`
	CreatedAt   time.Time      `json:"created_at"`
}

type SyncAction string

const (
	ActionDisable SyncAction = "disable"
	ActionEnable  SyncAction = "enable"
	ActionDelete  SyncAction = "delete"
	ActionUpdate  SyncAction = "update"
)

// SyncJob is a queued remote-state-change request. Rows are never deleted:
// success stamps ProcessedAt, failures bump RetryCount until the processor
// gives up.
type SyncJob struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	AssistantID string     `gorm:"index" json:"assistant_id"`
	Action      SyncAction `json:"action"`
	Reason      string     `json:"reason"`
	Payload     string     `gorm:"type:text" json:"payload,omitempty"` // JSON fields for update actions
	Priority    int        `json:"priority"`
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

// TranscriptMessage is one turn of a call transcript.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FunctionCallPayload is the vendor's structured function-call capture.
type FunctionCallPayload struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Result     map[string]any `json:"result,omitempty"`
}
