package join

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rpattn/indexjoin/internal/domain"
)

func previewSearcher() *mockSearcher {
	return &mockSearcher{
		docs: map[string][]map[string]any{
			"orders": {
				{"customerId": "c-1"},
				{"customerId": "c-1"},
				{"customerId": "c-2"},
				{"customerId": "c-404"},
			},
			"customers": {
				{"id": "c-1"},
				{"id": "c-2"},
				{"id": "c-3"},
			},
		},
		fail: map[string]bool{},
	}
}

func TestPreview_SummaryAndDistribution(t *testing.T) {
	engine := NewEngine(previewSearcher(), nil)

	result, err := engine.Preview(context.Background(), PreviewRequest{
		LeftIndex: "orders", RightIndex: "customers",
		LeftField: "customerId", RightField: "id",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := result.Summary
	if s.LeftTotal != 4 || s.RightTotal != 3 {
		t.Fatalf("unexpected totals %+v", s)
	}
	// Two orders on c-1, one on c-2, one unmatched; c-3 never referenced.
	if s.MatchedCount != 3 || s.LeftOnlyCount != 1 || s.RightOnlyCount != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}

	if len(result.KeyDistribution) == 0 {
		t.Fatalf("expected a key distribution")
	}
	top := result.KeyDistribution[0]
	if top.Key != "c-1" || top.Count != 3 {
		t.Fatalf("expected c-1 with three occurrences on top, got %+v", top)
	}
}

func TestPreview_SampleCap(t *testing.T) {
	searcher := previewSearcher()
	docs := make([]map[string]any, 0, 50)
	for i := 0; i < 50; i++ {
		docs = append(docs, map[string]any{"customerId": fmt.Sprintf("c-%d", i)})
	}
	searcher.docs["orders"] = docs

	engine := NewEngine(searcher, nil, WithPreviewSampleSize(5))

	result, err := engine.Preview(context.Background(), PreviewRequest{
		LeftIndex: "orders", RightIndex: "customers",
		LeftField: "customerId", RightField: "id",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.SampleTuples) != 5 {
		t.Fatalf("expected the sample capped at 5, got %d", len(result.SampleTuples))
	}
	// Summary still reflects the full bounded fetch, not the sample.
	if result.Summary.LeftTotal != 50 {
		t.Fatalf("summary must cover the full fetch, got %+v", result.Summary)
	}
}

func TestPreview_TopKeysCap(t *testing.T) {
	engine := NewEngine(previewSearcher(), nil, WithPreviewTopKeys(2))

	result, err := engine.Preview(context.Background(), PreviewRequest{
		LeftIndex: "orders", RightIndex: "customers",
		LeftField: "customerId", RightField: "id",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.KeyDistribution) != 2 {
		t.Fatalf("expected two distribution entries, got %d", len(result.KeyDistribution))
	}
}

func TestPreview_MissingParams(t *testing.T) {
	engine := NewEngine(previewSearcher(), nil)

	_, err := engine.Preview(context.Background(), PreviewRequest{LeftIndex: "orders"})

	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Problems) != 3 {
		t.Fatalf("expected three missing-parameter problems, got %v", cfgErr.Problems)
	}
}

func TestPreview_FetchFailure(t *testing.T) {
	searcher := previewSearcher()
	searcher.fail["customers"] = true
	engine := NewEngine(searcher, nil)

	_, err := engine.Preview(context.Background(), PreviewRequest{
		LeftIndex: "orders", RightIndex: "customers",
		LeftField: "customerId", RightField: "id",
	})

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Index != "customers" {
		t.Fatalf("expected failing index \"customers\", got %q", fetchErr.Index)
	}
}
