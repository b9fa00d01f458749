// Package usage enforces plan limits by queueing assistant state changes
// when a threshold is crossed. It is a side-channel of usage updates, not
// part of the analytics pipeline.
package usage

import (
	"context"
	"fmt"

	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/syncqueue"
	"voice-leads-go/internal/types"
)

const (
	disablePriority = 1 // over-limit shutoffs drain before re-enables
	enablePriority  = 2
)

type Checker struct {
	queue *syncqueue.Queue
}

func NewChecker(queue *syncqueue.Queue) *Checker {
	return &Checker{queue: queue}
}

// Check compares used minutes against the plan limit and enqueues the
// matching state change. Returns the enqueued job, or nil when no
// transition is needed. A non-positive limit means unlimited.
func (c *Checker) Check(ctx context.Context, assistantID string, usedMinutes, limitMinutes int, currentlyDisabled bool) (*types.SyncJob, error) {
	log := logger.Component("usage").
		WithField("assistant_id", assistantID).
		WithField("used", usedMinutes).
		WithField("limit", limitMinutes)

	if limitMinutes <= 0 {
		return nil, nil
	}

	switch {
	case usedMinutes >= limitMinutes && !currentlyDisabled:
		reason := fmt.Sprintf("usage limit exceeded: %d/%d minutes", usedMinutes, limitMinutes)
		log.Warn("over limit, queueing disable")
		return c.queue.Enqueue(ctx, types.ActionDisable, assistantID, reason, disablePriority)
	case usedMinutes < limitMinutes && currentlyDisabled:
		reason := fmt.Sprintf("usage back under limit: %d/%d minutes", usedMinutes, limitMinutes)
		log.Info("under limit, queueing enable")
		return c.queue.Enqueue(ctx, types.ActionEnable, assistantID, reason, enablePriority)
	}
	return nil, nil
}
