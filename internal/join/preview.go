package join

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rpattn/indexjoin/internal/domain"
)

// Source ids used for the two sides of a preview. Synthetic so that a
// preview of an index against itself still keeps both records apart.
const (
	previewLeftSourceID  = "left"
	previewRightSourceID = "right"
)

// PreviewRequest is the single-pair input of a preview: two raw indices and
// one field on each side.
type PreviewRequest struct {
	LeftIndex  string
	RightIndex string
	LeftField  string
	RightField string
}

func (r PreviewRequest) validate() error {
	var problems []string
	if r.LeftIndex == "" {
		problems = append(problems, "leftIndex is required")
	}
	if r.RightIndex == "" {
		problems = append(problems, "rightIndex is required")
	}
	if r.LeftField == "" {
		problems = append(problems, "leftField is required")
	}
	if r.RightField == "" {
		problems = append(problems, "rightField is required")
	}
	if len(problems) > 0 {
		return &domain.ConfigurationError{Problems: problems}
	}
	return nil
}

// Preview runs the fetch-flatten-join pipeline for one source pair under full
// join semantics, with summary counts over the whole bounded fetch and a
// capped tuple sample plus key distribution for interactive feedback. The
// result is approximate and never authoritative for final output.
func (e *Engine) Preview(ctx context.Context, req PreviewRequest) (domain.PreviewResult, error) {
	if err := req.validate(); err != nil {
		return domain.PreviewResult{}, err
	}

	leftSrc := domain.JoinSource{ID: previewLeftSourceID, Kind: domain.SourceKindIndex, Reference: req.LeftIndex}
	rightSrc := domain.JoinSource{ID: previewRightSourceID, Kind: domain.SourceKindIndex, Reference: req.RightIndex}

	var leftRecords, rightRecords []domain.FetchedRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leftRecords, err = e.fetchSource(gctx, leftSrc, e.previewFetchLimit)
		return err
	})
	g.Go(func() error {
		var err error
		rightRecords, err = e.fetchSource(gctx, rightSrc, e.previewFetchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.PreviewResult{}, err
	}

	leftKeyed := keyTuples(tuplesFromRecords(leftRecords), previewLeftSourceID, req.LeftField)
	rightKeyed := keyRecords(rightRecords, req.RightField)

	out := hashJoin(leftKeyed, rightKeyed, domain.JoinTypeFull)

	samples := out.tuples
	if len(samples) > e.previewSampleSize {
		samples = samples[:e.previewSampleSize]
	}

	return domain.PreviewResult{
		Summary:         out.summary,
		SampleTuples:    samples,
		KeyDistribution: keyDistribution(leftKeyed, rightKeyed, e.previewTopKeys),
	}, nil
}

// keyDistribution counts canonical key occurrences across both sampled sides
// and keeps the top n, most frequent first, ties broken by key.
func keyDistribution(left []keyedTuple, right []keyedRecord, n int) []domain.KeyCount {
	counts := make(map[string]int)
	for _, lt := range left {
		if lt.hasKey {
			counts[lt.key]++
		}
	}
	for _, r := range right {
		if r.hasKey {
			counts[r.key]++
		}
	}

	distribution := make([]domain.KeyCount, 0, len(counts))
	for key, count := range counts {
		distribution = append(distribution, domain.KeyCount{Key: key, Count: count})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Key < distribution[j].Key
	})
	if len(distribution) > n {
		distribution = distribution[:n]
	}
	return distribution
}
