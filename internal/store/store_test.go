package store

import (
	"context"
	"testing"
	"time"

	"voice-leads-go/internal/testutil"
	"voice-leads-go/internal/types"
)

func TestCallRepositoryRecentLimit(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewCallRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		err := repo.Create(ctx, &types.CallRecord{
			ID:          string(rune('a' + i)),
			AssistantID: "a1",
			StartedAt:   now.Add(-time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	calls, err := repo.Recent(ctx, 3)
	if err != nil || len(calls) != 3 {
		t.Fatalf("Recent err=%v len=%d", err, len(calls))
	}
	if calls[0].ID != "a" {
		t.Errorf("newest first expected, got %s", calls[0].ID)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 5 {
		t.Errorf("Count = %d err=%v", n, err)
	}
}

func TestResponseRepositoryBatch(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewResponseRepository(db)
	ctx := context.Background()

	if err := repo.CreateBatch(ctx, nil); err != nil {
		t.Fatalf("empty batch should no-op: %v", err)
	}

	batch := []types.ExtractedResponse{
		{ID: "r1", CallID: "c1", Field: "full_name", Answer: "Jane", Confidence: 0.95},
		{ID: "r2", CallID: "c1", Field: "budget", Answer: "450k", Confidence: 0.75},
		{ID: "r3", CallID: "c2", Field: "email", Answer: "a@b.com", Confidence: 0.75},
	}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	got, err := repo.GetByCall(ctx, "c1")
	if err != nil || len(got) != 2 {
		t.Fatalf("GetByCall err=%v len=%d", err, len(got))
	}
}

func TestAssistantUpsertRefreshes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewAssistantRepository(db)
	ctx := context.Background()

	a := &types.Assistant{ID: "a1", Name: "Old Name", CreatedAt: time.Now().UTC()}
	if err := repo.Upsert(ctx, a); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a.Name = "New Name"
	if err := repo.Upsert(ctx, a); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List err=%v len=%d", err, len(list))
	}
	if list[0].Name != "New Name" {
		t.Errorf("name = %q, want New Name", list[0].Name)
	}
}

func TestFetchSourcesTolerantOfContext(t *testing.T) {
	db := testutil.OpenTestDB(t)
	calls := NewCallRepository(db)
	assistants := NewAssistantRepository(db)
	ctx := context.Background()

	if err := assistants.Upsert(ctx, &types.Assistant{ID: "a1", Name: "Bot"}); err != nil {
		t.Fatal(err)
	}
	if err := calls.Create(ctx, &types.CallRecord{ID: "c1", AssistantID: "a1", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	src := FetchSources(ctx, calls, assistants, 100)
	if len(src.Calls) != 1 || len(src.Assistants) != 1 {
		t.Errorf("sources = %d calls, %d assistants", len(src.Calls), len(src.Assistants))
	}

	// cancelled context: fetches fail, sources degrade to zero rows
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	src = FetchSources(cancelled, calls, assistants, 100)
	if len(src.Calls) != 0 || len(src.Assistants) != 0 {
		t.Errorf("cancelled fetch should yield zero rows: %+v", src)
	}
}
