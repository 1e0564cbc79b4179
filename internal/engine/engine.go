// Package engine owns the published index snapshot and orchestrates
// searches against it.
//
// Snapshots are immutable; the engine publishes them through an atomic
// pointer so in-flight searches always see either the fully-old or the
// fully-new index, never a partial build. Writers (full rebuilds and
// incremental upserts/removals) are serialized by a mutex; readers never
// lock.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/securedesk/policysearch/index"
	"github.com/securedesk/policysearch/internal/metrics"
	"github.com/securedesk/policysearch/internal/search"
	"github.com/securedesk/policysearch/model"
)

// Engine is the in-process search engine. The zero value is not usable;
// call New.
type Engine struct {
	mu       sync.Mutex // serializes snapshot writers
	snapshot atomic.Pointer[index.Snapshot]
	metrics  *metrics.Metrics // optional
}

// Stats describes the published snapshot.
type Stats struct {
	Documents      int `json:"documents"`
	VocabularySize int `json:"vocabulary_size"`
}

// New creates an engine with an empty published snapshot. Searching before
// the first BuildIndex returns no hits. The metrics collector may be nil.
func New(m *metrics.Metrics) *Engine {
	e := &Engine{metrics: m}
	e.snapshot.Store(index.Build(nil))
	return e
}

// BuildIndex replaces the published snapshot with a full rebuild from the
// given corpus. Inactive documents are skipped by the builder.
func (e *Engine) BuildIndex(docs []model.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publish(index.Build(docs))
}

// Upsert incrementally adds or replaces one document in the published
// snapshot. Upserting an inactive document removes it from the index.
func (e *Engine) Upsert(doc model.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publish(e.snapshot.Load().WithUpsert(doc))
}

// Remove incrementally deletes one document from the published snapshot.
func (e *Engine) Remove(id uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publish(e.snapshot.Load().WithRemove(id))
}

// publish swaps in a new snapshot. Callers must hold e.mu.
func (e *Engine) publish(snap *index.Snapshot) {
	e.snapshot.Store(snap)
	if e.metrics != nil {
		e.metrics.IndexBuildsTotal.Inc()
		e.metrics.IndexedDocuments.Set(float64(snap.DocCount()))
		e.metrics.VocabularySize.Set(float64(snap.TermCount()))
	}
}

// Snapshot returns the currently published index snapshot.
func (e *Engine) Snapshot() *index.Snapshot {
	return e.snapshot.Load()
}

// Stats reports the size of the published snapshot.
func (e *Engine) Stats() Stats {
	snap := e.snapshot.Load()
	return Stats{Documents: snap.DocCount(), VocabularySize: snap.TermCount()}
}

// Search runs a ranked query against the published snapshot. The snapshot
// is pinned once at entry, so concurrent rebuilds cannot change the result
// set mid-query. ctx bounds the fuzzy vocabulary scan.
func (e *Engine) Search(ctx context.Context, query string, limit int) (search.Result, error) {
	start := time.Now()
	snap := e.snapshot.Load()

	hits, err := search.Run(ctx, snap, query, limit)
	if err != nil {
		e.observeSearch("error", start, nil)
		return search.Result{}, err
	}

	outcome := "ok"
	if len(hits) == 0 {
		outcome = "empty"
	}
	e.observeSearch(outcome, start, hits)

	return search.Result{
		Hits:    hits,
		Total:   len(hits),
		Took:    time.Since(start).Milliseconds(),
		QueryID: uuid.New().String(),
	}, nil
}

func (e *Engine) observeSearch(outcome string, start time.Time, hits []search.DocumentMatch) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	e.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	if outcome == "error" {
		return
	}
	e.metrics.SearchResultsCount.Observe(float64(len(hits)))
	for _, hit := range hits {
		fuzzy := false
		for _, m := range hit.Matches {
			if m.Fuzzy {
				fuzzy = true
				break
			}
		}
		if fuzzy {
			e.metrics.FuzzyFallbacksTotal.Inc()
			break
		}
	}
}
