package store

import (
	"context"
	"sync"

	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/types"
)

// Sources is the bounded data set one dashboard computation works from.
type Sources struct {
	Calls      []types.CallRecord
	Assistants []types.Assistant
}

// FetchSources loads calls and assistants concurrently. The fetches are
// read-only and independent, so ordering doesn't matter; a failed source
// contributes zero rows rather than failing the dashboard.
func FetchSources(ctx context.Context, calls *CallRepository, assistants *AssistantRepository, callLimit int) Sources {
	log := logger.Component("store.sources")

	var src Sources
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		rows, err := calls.Recent(ctx, callLimit)
		if err != nil {
			log.WithError(err).Warn("call fetch failed, using zero rows")
			return
		}
		src.Calls = rows
	}()

	go func() {
		defer wg.Done()
		rows, err := assistants.List(ctx)
		if err != nil {
			log.WithError(err).Warn("assistant fetch failed, using zero rows")
			return
		}
		src.Assistants = rows
	}()

	wg.Wait()
	return src
}
