package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/securedesk/policysearch/model"
)

func testDocs() []model.Document {
	return []model.Document{
		{
			ID:       1,
			Name:     "Password Policy",
			Category: "Security",
			Content:  "Passwords rotate quarterly.",
			Active:   true,
		},
		{
			ID:       2,
			Name:     "VPN Setup Guide",
			Category: "Remote Access",
			Content:  "Install the VPN client.",
			Active:   true,
		},
	}
}

func TestSearchBeforeBuildReturnsNoHits(t *testing.T) {
	eng := New(nil)

	result, err := eng.Search(context.Background(), "password", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
}

func TestBuildIndexAndSearch(t *testing.T) {
	eng := New(nil)
	eng.BuildIndex(testDocs())

	result, err := eng.Search(context.Background(), "password", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total = %d, want 1", result.Total)
	}
	if result.Hits[0].Document.ID != 1 {
		t.Errorf("top hit ID = %d, want 1", result.Hits[0].Document.ID)
	}
	if result.QueryID == "" {
		t.Error("QueryID not set")
	}
}

func TestStats(t *testing.T) {
	eng := New(nil)
	eng.BuildIndex(testDocs())

	stats := eng.Stats()
	if stats.Documents != 2 {
		t.Errorf("Documents = %d, want 2", stats.Documents)
	}
	if stats.VocabularySize == 0 {
		t.Error("VocabularySize = 0, want > 0")
	}
}

func TestUpsertAddsToSearchResults(t *testing.T) {
	eng := New(nil)
	eng.BuildIndex(testDocs())

	eng.Upsert(model.Document{
		ID:      3,
		Name:    "Incident Response Policy",
		Content: "Report incidents within two hours.",
		Active:  true,
	})

	result, err := eng.Search(context.Background(), "incident", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total = %d, want 1", result.Total)
	}
	if result.Hits[0].Document.ID != 3 {
		t.Errorf("hit ID = %d, want 3", result.Hits[0].Document.ID)
	}
}

func TestRemoveDropsFromSearchResults(t *testing.T) {
	eng := New(nil)
	eng.BuildIndex(testDocs())
	eng.Remove(1)

	result, err := eng.Search(context.Background(), "password", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0 after removal", result.Total)
	}
	if eng.Stats().Documents != 1 {
		t.Errorf("Documents = %d, want 1", eng.Stats().Documents)
	}
}

func TestConcurrentSearchesDuringRebuilds(t *testing.T) {
	eng := New(nil)
	eng.BuildIndex(testDocs())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				result, err := eng.Search(context.Background(), "password vpn", 10)
				if err != nil {
					t.Errorf("Search returned error: %v", err)
					return
				}
				// Every pinned snapshot is internally consistent, so a hit
				// count outside the corpus bounds means a torn read.
				if result.Total > 3 {
					t.Errorf("Total = %d, want <= 3", result.Total)
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		eng.BuildIndex(testDocs())
		eng.Upsert(model.Document{
			ID:      3,
			Name:    fmt.Sprintf("Draft Policy %d", i),
			Content: "password handling draft",
			Active:  true,
		})
		eng.Remove(3)
	}
	wg.Wait()
}

func TestSnapshotPinnedDuringSearch(t *testing.T) {
	eng := New(nil)
	eng.BuildIndex(testDocs())

	snap := eng.Snapshot()
	eng.Remove(1)

	// The previously obtained snapshot still sees the removed document.
	if _, ok := snap.Document(1); !ok {
		t.Error("pinned snapshot lost a document after Remove")
	}
	if _, ok := eng.Snapshot().Document(1); ok {
		t.Error("published snapshot still has the removed document")
	}
}
