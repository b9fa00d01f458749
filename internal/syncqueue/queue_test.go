package syncqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"voice-leads-go/internal/config"
	"voice-leads-go/internal/store"
	"voice-leads-go/internal/testutil"
	"voice-leads-go/internal/types"
)

// fakeClient fails the first failures calls, then succeeds.
type fakeClient struct {
	failures int
	calls    int
	block    chan struct{}
	applied  []string
}

func (f *fakeClient) record(op, id string) error {
	if f.block != nil {
		<-f.block
	}
	f.calls++
	if f.calls <= f.failures {
		return errors.New("remote unavailable")
	}
	f.applied = append(f.applied, op+":"+id)
	return nil
}

func (f *fakeClient) SetAssistantEnabled(ctx context.Context, id string, enabled bool) error {
	if enabled {
		return f.record("enable", id)
	}
	return f.record("disable", id)
}
func (f *fakeClient) UpdateAssistant(ctx context.Context, id string, fields map[string]any) error {
	return f.record("update", id)
}
func (f *fakeClient) DeleteAssistant(ctx context.Context, id string) error {
	return f.record("delete", id)
}

func setup(t *testing.T, client *fakeClient) (*Queue, *Processor, *store.SyncJobRepository, *store.AssistantRepository) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	jobs := store.NewSyncJobRepository(db)
	assistants := store.NewAssistantRepository(db)
	q := NewQueue(jobs)
	p := NewProcessor(jobs, assistants, client, config.SyncQueueConfig{BatchSize: 10, MaxAttempts: 3})
	return q, p, jobs, assistants
}

func TestDrainProcessesJob(t *testing.T) {
	client := &fakeClient{}
	q, p, jobs, assistants := setup(t, client)
	ctx := context.Background()

	if err := assistants.Upsert(ctx, &types.Assistant{ID: "a1", Name: "Buyer Bot"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	job, err := q.Enqueue(ctx, types.ActionDisable, "a1", "usage limit exceeded", 1)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	processed, failed, err := p.Drain(ctx)
	if err != nil || processed != 1 || failed != 0 {
		t.Fatalf("drain = (%d,%d,%v), want (1,0,nil)", processed, failed, err)
	}

	got, err := jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.ProcessedAt == nil {
		t.Error("processed_at not stamped")
	}
	list, _ := assistants.List(ctx)
	if len(list) != 1 || !list[0].Disabled {
		t.Errorf("local mirror not disabled: %+v", list)
	}
}

func TestDrainRetriesThenGivesUp(t *testing.T) {
	client := &fakeClient{failures: 10} // never succeeds within 3 attempts
	q, p, jobs, _ := setup(t, client)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, types.ActionDelete, "a1", "cleanup", 1)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, failed, err := p.Drain(ctx); err != nil || failed != 1 {
			t.Fatalf("pass %d: failed=%d err=%v", i, failed, err)
		}
	}

	got, _ := jobs.GetByID(ctx, job.ID)
	if got.RetryCount != 3 {
		t.Errorf("retry_count = %d, want 3", got.RetryCount)
	}
	if got.LastError == "" {
		t.Error("last_error not recorded")
	}
	if got.ProcessedAt != nil {
		t.Error("exhausted job should not be stamped processed")
	}

	// exhausted: no further attempts
	processed, failed, err := p.Drain(ctx)
	if err != nil || processed != 0 || failed != 0 {
		t.Errorf("exhausted job picked up again: (%d,%d,%v)", processed, failed, err)
	}
	if client.calls != 3 {
		t.Errorf("remote called %d times, want 3", client.calls)
	}
}

func TestDrainPriorityOrder(t *testing.T) {
	client := &fakeClient{}
	q, p, _, _ := setup(t, client)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, types.ActionDelete, "low", "later", 5); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond) // distinct created_at
	if _, err := q.Enqueue(ctx, types.ActionDelete, "high", "first", 1); err != nil {
		t.Fatal(err)
	}

	if _, _, err := p.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(client.applied) != 2 || client.applied[0] != "delete:high" {
		t.Errorf("applied order = %v, want high-priority first", client.applied)
	}
}

func TestDrainSingleFlight(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	q, p, _, _ := setup(t, client)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, types.ActionDelete, "a1", "cleanup", 1); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Drain(ctx)
	}()

	// wait until the first drain is inside the remote call
	time.Sleep(20 * time.Millisecond)
	processed, failed, err := p.Drain(ctx)
	if processed != 0 || failed != 0 || err != nil {
		t.Errorf("concurrent drain = (%d,%d,%v), want immediate no-op", processed, failed, err)
	}

	close(client.block)
	<-done
}

func TestEnqueuePersistsFields(t *testing.T) {
	client := &fakeClient{}
	q, _, jobs, _ := setup(t, client)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, types.ActionEnable, "a9", "under limit again", 2)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	got, err := jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Action != types.ActionEnable || got.Reason != "under limit again" || got.Priority != 2 || got.RetryCount != 0 {
		t.Errorf("job = %+v", got)
	}
}
