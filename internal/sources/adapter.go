// Package sources fetches job postings from external boards and maps their
// source-native payloads into the canonical record shape.
package sources

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RawRecord is one source-native job payload. Adapters return records with
// whatever field names the source uses; Normalize maps them to the canonical
// shape.
type RawRecord = map[string]any

// Adapter fetches source-native records from one external board. Fetch must
// not fail on empty results, only on transport or auth failure.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, query, location string) ([]RawRecord, error)
}

// Orchestrator runs all configured adapters and collects their results.
type Orchestrator struct {
	adapters []Adapter
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOrchestrator builds an orchestrator over the given adapters. Each
// adapter call is bounded by timeout.
func NewOrchestrator(adapters []Adapter, timeout time.Duration, logger *zap.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Orchestrator{adapters: adapters, timeout: timeout, logger: logger}
}

// FetchAll fetches from every adapter concurrently. A failing adapter is
// logged and skipped; it never aborts its siblings, so the result is partial
// rather than failed.
func (o *Orchestrator) FetchAll(ctx context.Context, query, location string) []RawRecord {
	var mu sync.Mutex
	var all []RawRecord

	var wg sync.WaitGroup
	for _, adapter := range o.adapters {
		wg.Add(1)
		go func(a Adapter) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			records, err := a.Fetch(fetchCtx, query, location)
			if err != nil {
				o.logger.Warn("source fetch failed",
					zap.String("source", a.Name()), zap.Error(err))
				return
			}

			o.logger.Info("source fetch complete",
				zap.String("source", a.Name()), zap.Int("records", len(records)))

			mu.Lock()
			all = append(all, records...)
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	return all
}
