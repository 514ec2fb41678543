package join

import (
	"fmt"

	"github.com/rpattn/indexjoin/internal/domain"
)

// ValidateConfiguration runs every structural check over a join configuration
// before any fetch is issued. Structural problems are collected into a single
// ConfigurationError; a cycle in the join graph is reported separately as a
// CyclicJoinError once the structure is otherwise sound.
func ValidateConfiguration(cfg domain.JoinConfiguration) error {
	var problems []string

	sourceIDs := make(map[string]bool, len(cfg.Sources))
	for i, src := range cfg.Sources {
		if src.ID == "" {
			problems = append(problems, fmt.Sprintf("source %d has no id", i))
			continue
		}
		if sourceIDs[src.ID] {
			problems = append(problems, fmt.Sprintf("duplicate source id %q", src.ID))
			continue
		}
		sourceIDs[src.ID] = true
		switch src.Kind {
		case domain.SourceKindIndex, domain.SourceKindStoredQuery:
		default:
			problems = append(problems, fmt.Sprintf("source %q has unknown kind %q", src.ID, src.Kind))
		}
		if src.Reference == "" {
			problems = append(problems, fmt.Sprintf("source %q has no index or stored query reference", src.ID))
		}
	}

	if len(cfg.Sources) < 2 {
		problems = append(problems, "at least two sources are required")
	}
	if len(cfg.Conditions) == 0 {
		problems = append(problems, "at least one join condition is required")
	}

	seenPairs := make(map[string]bool, len(cfg.Conditions))
	joined := make(map[string]bool)
	for i, cond := range cfg.Conditions {
		if !cond.JoinType.Valid() {
			problems = append(problems, fmt.Sprintf("condition %d has unknown join type %q", i, cond.JoinType))
		}
		if !sourceIDs[cond.LeftSourceID] {
			problems = append(problems, fmt.Sprintf("condition %d references unknown source %q", i, cond.LeftSourceID))
		}
		if !sourceIDs[cond.RightSourceID] {
			problems = append(problems, fmt.Sprintf("condition %d references unknown source %q", i, cond.RightSourceID))
		}
		if cond.LeftSourceID != "" && cond.LeftSourceID == cond.RightSourceID {
			problems = append(problems, fmt.Sprintf("condition %d joins source %q to itself", i, cond.LeftSourceID))
		}
		if cond.LeftField == "" || cond.RightField == "" {
			problems = append(problems, fmt.Sprintf("condition %d is missing a join field", i))
		}

		pair := conditionPairKey(cond)
		if seenPairs[pair] {
			problems = append(problems, fmt.Sprintf("condition %d duplicates an earlier condition on the same sources and fields", i))
		}
		seenPairs[pair] = true

		// Each condition after the first must attach to the tuple set built
		// so far; a detached condition has no side to extract its key from.
		if i > 0 && !joined[cond.LeftSourceID] && !joined[cond.RightSourceID] {
			problems = append(problems, fmt.Sprintf("condition %d is not connected to any earlier join stage", i))
		}
		joined[cond.LeftSourceID] = true
		joined[cond.RightSourceID] = true
	}

	included := 0
	for i, field := range cfg.ConsolidatedFields {
		if !field.Include {
			continue
		}
		included++
		if !sourceIDs[field.SourceID] {
			problems = append(problems, fmt.Sprintf("consolidated field %d references unknown source %q", i, field.SourceID))
		}
		if field.SourceField == "" {
			problems = append(problems, fmt.Sprintf("consolidated field %d has no source field", i))
		}
	}
	if included == 0 {
		problems = append(problems, "no consolidated fields selected for output")
	}

	if cfg.From < 0 {
		problems = append(problems, "from must not be negative")
	}
	if cfg.Size <= 0 {
		problems = append(problems, "size must be positive")
	}
	if cfg.PerSourceFetchLimit < 0 || cfg.PerSourceFetchLimit > domain.MaxPerSourceFetchLimit {
		problems = append(problems, fmt.Sprintf("perSourceFetchLimit must be between 1 and %d", domain.MaxPerSourceFetchLimit))
	}

	if len(problems) > 0 {
		return &domain.ConfigurationError{Problems: problems}
	}

	if cycle := findCycle(cfg); cycle != nil {
		return &domain.CyclicJoinError{SourceIDs: cycle}
	}
	return nil
}

// conditionPairKey builds an order-insensitive identity for a condition so
// that (A.x, B.y) and (B.y, A.x) count as the same condition.
func conditionPairKey(cond domain.JoinCondition) string {
	left := cond.LeftSourceID + "\x00" + cond.LeftField
	right := cond.RightSourceID + "\x00" + cond.RightField
	if left > right {
		left, right = right, left
	}
	return left + "\x01" + right
}

type adjacency struct {
	to   string
	edge int
}

// findCycle runs a depth-first traversal over the undirected join graph,
// tracking the active recursion stack. The edge used to reach a node is
// skipped by id, so two distinct conditions between the same pair of sources
// also register as a cycle. Returns the source ids on the cycle, or nil.
func findCycle(cfg domain.JoinConfiguration) []string {
	adj := make(map[string][]adjacency, len(cfg.Sources))
	for i, cond := range cfg.Conditions {
		adj[cond.LeftSourceID] = append(adj[cond.LeftSourceID], adjacency{to: cond.RightSourceID, edge: i})
		adj[cond.RightSourceID] = append(adj[cond.RightSourceID], adjacency{to: cond.LeftSourceID, edge: i})
	}

	visited := make(map[string]bool, len(cfg.Sources))
	onStack := make(map[string]bool, len(cfg.Sources))
	var path []string

	var walk func(node string, viaEdge int) []string
	walk = func(node string, viaEdge int) []string {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range adj[node] {
			if next.edge == viaEdge {
				continue
			}
			if onStack[next.to] {
				for i, n := range path {
					if n == next.to {
						return append([]string(nil), path[i:]...)
					}
				}
			}
			if !visited[next.to] {
				if cycle := walk(next.to, next.edge); cycle != nil {
					return cycle
				}
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
		return nil
	}

	for _, src := range cfg.Sources {
		if !visited[src.ID] {
			if cycle := walk(src.ID, -1); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
