// Package syncqueue propagates local assistant state changes to the remote
// voice platform through a durable retry queue.
//
// Delivery is at-least-once: the remote side offers no idempotency token,
// so a job that fails after its remote call landed can duplicate the side
// effect on retry. The in-flight guard is per-process only; multiple
// service instances can race on the same rows.
package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"voice-leads-go/internal/config"
	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/store"
	"voice-leads-go/internal/types"
	"voice-leads-go/internal/voiceapi"
)

type Queue struct {
	jobs *store.SyncJobRepository
}

func NewQueue(jobs *store.SyncJobRepository) *Queue {
	return &Queue{jobs: jobs}
}

// Enqueue appends one job. Lower priority numbers drain first.
func (q *Queue) Enqueue(ctx context.Context, action types.SyncAction, assistantID, reason string, priority int) (*types.SyncJob, error) {
	job := &types.SyncJob{
		ID:          uuid.New().String(),
		AssistantID: assistantID,
		Action:      action,
		Reason:      reason,
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
	}
	if err := q.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	logger.Component("syncqueue").
		WithField("job_id", job.ID).
		WithField("action", string(action)).
		WithField("assistant_id", assistantID).
		Info("job enqueued")
	return job, nil
}

type Processor struct {
	jobs       *store.SyncJobRepository
	assistants *store.AssistantRepository
	client     voiceapi.Client
	cfg        config.SyncQueueConfig
	running    atomic.Bool
}

func NewProcessor(jobs *store.SyncJobRepository, assistants *store.AssistantRepository, client voiceapi.Client, cfg config.SyncQueueConfig) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Processor{jobs: jobs, assistants: assistants, client: client, cfg: cfg}
}

// Drain processes one batch of pending jobs. At most one drain runs per
// process at a time; a concurrent call returns immediately with zero
// counts. Jobs that exhaust their attempts are left unprocessed with the
// last error recorded.
func (p *Processor) Drain(ctx context.Context) (processed, failed int, err error) {
	if !p.running.CompareAndSwap(false, true) {
		return 0, 0, nil
	}
	defer p.running.Store(false)

	log := logger.Component("syncqueue.processor")

	batch, err := p.jobs.NextBatch(ctx, p.cfg.BatchSize, p.cfg.MaxAttempts)
	if err != nil {
		return 0, 0, fmt.Errorf("load batch: %w", err)
	}

	for _, job := range batch {
		jobLog := log.WithField("job_id", job.ID).
			WithField("action", string(job.Action)).
			WithField("assistant_id", job.AssistantID).
			WithField("attempt", job.RetryCount+1)

		if applyErr := p.apply(ctx, job); applyErr != nil {
			failed++
			jobLog.WithError(applyErr).Warn("job failed")
			if markErr := p.jobs.MarkFailed(ctx, job.ID, applyErr); markErr != nil {
				jobLog.WithError(markErr).Error("could not record failure")
			}
			continue
		}
		processed++
		if markErr := p.jobs.MarkProcessed(ctx, job.ID); markErr != nil {
			jobLog.WithError(markErr).Error("could not stamp processed_at")
			continue
		}
		jobLog.Info("job processed")
	}

	if len(batch) > 0 {
		log.WithField("processed", processed).WithField("failed", failed).Info("drain finished")
	}
	return processed, failed, nil
}

// Run drains on a fixed interval until the context is cancelled.
func (p *Processor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	log := logger.Component("syncqueue.processor").WithField("interval", interval.String())
	log.Info("periodic drain started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("periodic drain stopped")
			return
		case <-ticker.C:
			if _, _, err := p.Drain(ctx); err != nil {
				log.WithError(err).Error("drain pass failed")
			}
		}
	}
}

func (p *Processor) apply(ctx context.Context, job types.SyncJob) error {
	switch job.Action {
	case types.ActionDisable:
		if err := p.client.SetAssistantEnabled(ctx, job.AssistantID, false); err != nil {
			return err
		}
		return p.assistants.SetDisabled(ctx, job.AssistantID, true)
	case types.ActionEnable:
		if err := p.client.SetAssistantEnabled(ctx, job.AssistantID, true); err != nil {
			return err
		}
		return p.assistants.SetDisabled(ctx, job.AssistantID, false)
	case types.ActionDelete:
		return p.client.DeleteAssistant(ctx, job.AssistantID)
	case types.ActionUpdate:
		fields := map[string]any{}
		if job.Payload != "" {
			if err := json.Unmarshal([]byte(job.Payload), &fields); err != nil {
				return fmt.Errorf("decode update payload: %w", err)
			}
		}
		return p.client.UpdateAssistant(ctx, job.AssistantID, fields)
	default:
		return fmt.Errorf("unknown action %q", job.Action)
	}
}
