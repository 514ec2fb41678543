package join

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpattn/indexjoin/internal/domain"
	"github.com/rpattn/indexjoin/internal/search"
)

// SavedQueryResolver loads stored queries referenced by joinSources of kind
// storedQuery. Implemented by the saved-query repository.
type SavedQueryResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedQuery, error)
}

// Engine runs multi-index joins: validate, fetch bounded record sets per
// source, hash-join under the configured semantics, chain stages for more
// than two sources, consolidate and paginate. Every call builds its own
// state, so concurrent executions are independent.
type Engine struct {
	searcher          search.Searcher
	savedQueries      SavedQueryResolver
	defaultFetchLimit int
	previewFetchLimit int
	previewSampleSize int
	previewTopKeys    int
}

type Option func(*Engine)

func WithDefaultFetchLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 && limit <= domain.MaxPerSourceFetchLimit {
			e.defaultFetchLimit = limit
		}
	}
}

func WithPreviewFetchLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 && limit <= domain.MaxPerSourceFetchLimit {
			e.previewFetchLimit = limit
		}
	}
}

func WithPreviewSampleSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.previewSampleSize = size
		}
	}
}

func WithPreviewTopKeys(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.previewTopKeys = n
		}
	}
}

func NewEngine(searcher search.Searcher, savedQueries SavedQueryResolver, opts ...Option) *Engine {
	engine := &Engine{
		searcher:          searcher,
		savedQueries:      savedQueries,
		defaultFetchLimit: domain.DefaultPerSourceFetchLimit,
		previewFetchLimit: domain.DefaultPerSourceFetchLimit,
		previewSampleSize: 20,
		previewTopKeys:    10,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Execute runs the full pipeline for a configuration and returns the
// requested page of consolidated rows. Validation failures and fetch
// failures abort before any partial result is produced.
func (e *Engine) Execute(ctx context.Context, cfg domain.JoinConfiguration) (domain.JoinResult, error) {
	if err := ValidateConfiguration(cfg); err != nil {
		return domain.JoinResult{}, err
	}

	limit := cfg.PerSourceFetchLimit
	if limit == 0 {
		limit = e.defaultFetchLimit
	}

	out, err := e.runStages(ctx, cfg, limit)
	if err != nil {
		return domain.JoinResult{}, err
	}

	rows := Consolidate(out.tuples, cfg.IncludedFields())
	return domain.JoinResult{
		Summary:   out.summary,
		Rows:      paginate(rows, cfg.From, cfg.Size),
		TotalRows: len(rows),
	}, nil
}

// ExecuteAll runs the same pipeline but returns every consolidated row,
// ignoring pagination. Exports use this to write the complete result set.
func (e *Engine) ExecuteAll(ctx context.Context, cfg domain.JoinConfiguration) (domain.JoinResult, error) {
	cfg.From = 0
	if cfg.Size == 0 {
		cfg.Size = 1
	}
	if err := ValidateConfiguration(cfg); err != nil {
		return domain.JoinResult{}, err
	}

	limit := cfg.PerSourceFetchLimit
	if limit == 0 {
		limit = e.defaultFetchLimit
	}

	out, err := e.runStages(ctx, cfg, limit)
	if err != nil {
		return domain.JoinResult{}, err
	}

	rows := Consolidate(out.tuples, cfg.IncludedFields())
	return domain.JoinResult{
		Summary:   out.summary,
		Rows:      rows,
		TotalRows: len(rows),
	}, nil
}

// runStages applies the conditions in configuration order. The first stage
// fetches both sides concurrently; each later stage joins the accumulated
// tuple set against one freshly fetched source.
func (e *Engine) runStages(ctx context.Context, cfg domain.JoinConfiguration, limit int) (stageOutput, error) {
	first := cfg.Conditions[0]
	leftSrc, _ := cfg.SourceByID(first.LeftSourceID)
	rightSrc, _ := cfg.SourceByID(first.RightSourceID)

	var leftRecords, rightRecords []domain.FetchedRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leftRecords, err = e.fetchSource(gctx, leftSrc, limit)
		return err
	})
	g.Go(func() error {
		var err error
		rightRecords, err = e.fetchSource(gctx, rightSrc, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return stageOutput{}, err
	}

	out := hashJoin(
		keyTuples(tuplesFromRecords(leftRecords), first.LeftSourceID, first.LeftField),
		keyRecords(rightRecords, first.RightField),
		first.JoinType,
	)

	joined := map[string]bool{first.LeftSourceID: true, first.RightSourceID: true}
	for _, cond := range cfg.Conditions[1:] {
		cond = orient(cond, joined)
		src, _ := cfg.SourceByID(cond.RightSourceID)
		records, err := e.fetchSource(ctx, src, limit)
		if err != nil {
			return stageOutput{}, err
		}
		out = hashJoin(
			keyTuples(out.tuples, cond.LeftSourceID, cond.LeftField),
			keyRecords(records, cond.RightField),
			cond.JoinType,
		)
		joined[cond.RightSourceID] = true
	}
	return out, nil
}

// orient flips a condition whose already-joined side was written on the
// right, so the accumulated tuples always drive the probe. Left and right
// semantics swap along with the sides.
func orient(cond domain.JoinCondition, joined map[string]bool) domain.JoinCondition {
	if joined[cond.LeftSourceID] {
		return cond
	}
	joinType := cond.JoinType
	switch joinType {
	case domain.JoinTypeLeft:
		joinType = domain.JoinTypeRight
	case domain.JoinTypeRight:
		joinType = domain.JoinTypeLeft
	}
	return domain.JoinCondition{
		ID:            cond.ID,
		LeftSourceID:  cond.RightSourceID,
		LeftField:     cond.RightField,
		RightSourceID: cond.LeftSourceID,
		RightField:    cond.LeftField,
		JoinType:      joinType,
	}
}

type resolvedSource struct {
	index string
	query json.RawMessage
}

// resolveSource maps a join-source descriptor to the effective index and
// scoping query. Stored-query sources inherit both from the saved query; an
// inline scoping query on the source still wins when present.
func (e *Engine) resolveSource(ctx context.Context, src domain.JoinSource) (resolvedSource, error) {
	switch src.Kind {
	case domain.SourceKindStoredQuery:
		id, err := uuid.Parse(src.Reference)
		if err != nil {
			return resolvedSource{}, fmt.Errorf("source %q: invalid stored query id %q: %w", src.ID, src.Reference, err)
		}
		if e.savedQueries == nil {
			return resolvedSource{}, fmt.Errorf("source %q: stored queries are not available", src.ID)
		}
		saved, err := e.savedQueries.GetByID(ctx, id)
		if err != nil {
			return resolvedSource{}, fmt.Errorf("source %q: load stored query: %w", src.ID, err)
		}
		resolved := resolvedSource{index: saved.Index, query: saved.Query}
		if len(src.ScopingQuery) > 0 {
			resolved.query = src.ScopingQuery
		}
		return resolved, nil
	default:
		return resolvedSource{index: src.Reference, query: src.ScopingQuery}, nil
	}
}

// fetchSource issues the single bounded search for one source. Any failure,
// resolution included, surfaces as a FetchError naming the source.
func (e *Engine) fetchSource(ctx context.Context, src domain.JoinSource, limit int) ([]domain.FetchedRecord, error) {
	resolved, err := e.resolveSource(ctx, src)
	if err != nil {
		return nil, &domain.FetchError{SourceID: src.ID, Index: resolved.index, Err: err}
	}

	docs, err := e.searcher.Search(ctx, resolved.index, resolved.query, limit)
	if err != nil {
		return nil, &domain.FetchError{SourceID: src.ID, Index: resolved.index, Err: err}
	}

	records := make([]domain.FetchedRecord, len(docs))
	for i, doc := range docs {
		records[i] = domain.NewFetchedRecord(src.ID, doc)
	}
	return records, nil
}
