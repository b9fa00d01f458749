// Package service wires the pipeline together: normalize raw call payloads,
// evaluate success, extract structured fields, and serve dashboard rollups.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voice-leads-go/internal/aggregator"
	"voice-leads-go/internal/evaluator"
	"voice-leads-go/internal/extractor"
	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/scoring"
	"voice-leads-go/internal/store"
	"voice-leads-go/internal/types"
)

type Service struct {
	calls      *store.CallRepository
	responses  *store.ResponseRepository
	assistants *store.AssistantRepository
	engine     *extractor.Engine
	scorer     *scoring.Engine
	fetchLimit int
}

func New(calls *store.CallRepository, responses *store.ResponseRepository, assistants *store.AssistantRepository,
	engine *extractor.Engine, scorer *scoring.Engine, fetchLimit int) *Service {
	if fetchLimit <= 0 {
		fetchLimit = 100
	}
	return &Service{
		calls:      calls,
		responses:  responses,
		assistants: assistants,
		engine:     engine,
		scorer:     scorer,
		fetchLimit: fetchLimit,
	}
}

// IngestRequest is one completed call plus whatever structured capture the
// vendor attached to it.
type IngestRequest struct {
	Call          types.RawCall               `json:"call"`
	Messages      []types.TranscriptMessage   `json:"messages,omitempty"`
	FunctionCalls []types.FunctionCallPayload `json:"function_calls,omitempty"`
}

// IngestCall normalizes and persists one call, then derives its extracted
// responses. A failure persisting responses degrades to a logged warning:
// the call record itself is already durable and the dashboard must stay
// available.
func (s *Service) IngestCall(ctx context.Context, req IngestRequest) (*types.CallRecord, error) {
	log := logger.Component("service.ingest")

	raw := req.Call
	if raw.ID == "" {
		raw.ID = uuid.New().String()
	}

	rec := &types.CallRecord{
		ID:           raw.ID,
		AssistantID:  raw.AssistantID,
		CallerNumber: raw.CallerNumber,
		StartedAt:    raw.StartedAt,
		EndedAt:      raw.EndedAt,
		DurationSec:  raw.NormalizedDuration(),
		Cost:         raw.Cost,
		Success:      evaluator.SuccessFromJSON(raw.RawEvaluation()),
		Transcript:   raw.Transcript,
		Summary:      raw.Summary,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.calls.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist call: %w", err)
	}

	responses := s.extract(rec, req)
	if len(responses) > 0 {
		if err := s.responses.CreateBatch(ctx, responses); err != nil {
			log.WithError(err).WithField("call_id", rec.ID).Warn("responses not persisted")
		}
	}

	log.WithField("call_id", rec.ID).
		WithField("success", rec.Success).
		WithField("fields", len(responses)).
		Info("call ingested")
	return rec, nil
}

// extract runs every available source through the engine and dedupes by
// confidence. Never errors; empty inputs produce empty output.
func (s *Service) extract(rec *types.CallRecord, req IngestRequest) []types.ExtractedResponse {
	var all []types.ExtractedResponse

	for _, fc := range req.FunctionCalls {
		all = append(all, s.engine.FromFunctionCall(rec.ID, rec.AssistantID, fc)...)
	}
	if len(req.Call.StructuredData) > 0 {
		blob := types.FunctionCallPayload{Name: "structured_data", Parameters: req.Call.StructuredData}
		all = append(all, s.engine.FromFunctionCall(rec.ID, rec.AssistantID, blob)...)
	}

	msgs := req.Messages
	if len(msgs) == 0 && rec.Transcript != "" {
		// flat transcript exports carry only the caller's side
		msgs = []types.TranscriptMessage{{Role: "user", Content: rec.Transcript}}
	}
	all = append(all, s.engine.FromTranscript(rec.ID, rec.AssistantID, msgs)...)

	return extractor.Dedupe(all)
}

// ScoredCall is one call with its deduplicated responses and analysis.
type ScoredCall struct {
	Call      types.CallRecord          `json:"call"`
	Responses []types.ExtractedResponse `json:"responses"`
	Analysis  scoring.Analysis          `json:"analysis"`
}

// ScoreCall loads a call and runs the scoring engine. Scoring errors
// propagate; one bad call must not poison a caller iterating many.
func (s *Service) ScoreCall(ctx context.Context, callID string) (*ScoredCall, error) {
	call, err := s.calls.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.GetByCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	deduped := extractor.Dedupe(responses)

	analysis, err := s.scorer.Analyze(scoring.Input{
		Transcript:  call.Transcript,
		Responses:   deduped,
		DurationSec: call.DurationSec,
		Cost:        call.Cost,
	})
	if err != nil {
		return nil, fmt.Errorf("score call %s: %w", callID, err)
	}

	return &ScoredCall{Call: *call, Responses: deduped, Analysis: analysis}, nil
}

// Dashboard computes the rollup from a bounded window of recent data.
// Source fetches run concurrently and tolerate partial availability.
func (s *Service) Dashboard(ctx context.Context, now time.Time) types.Dashboard {
	src := store.FetchSources(ctx, s.calls, s.assistants, s.fetchLimit)
	return aggregator.BuildDashboard(src.Calls, src.Assistants, now)
}

// RegisterAssistant mirrors a platform assistant locally.
func (s *Service) RegisterAssistant(ctx context.Context, a *types.Assistant) error {
	if a.ID == "" {
		return fmt.Errorf("assistant id required")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return s.assistants.Upsert(ctx, a)
}
