package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports every structural problem found in a join
// configuration. It is raised before any fetch happens.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid join configuration: " + strings.Join(e.Problems, "; ")
}

// CyclicJoinError reports a cycle in the join graph, listing the sources on
// the offending path.
type CyclicJoinError struct {
	SourceIDs []string
}

func (e *CyclicJoinError) Error() string {
	return fmt.Sprintf("join conditions form a cycle between sources [%s]", strings.Join(e.SourceIDs, " -> "))
}

// FetchError identifies which source's fetch failed so the caller can correct
// the configuration instead of retrying blindly.
type FetchError struct {
	SourceID string
	Index    string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for source %q (index %q): %v", e.SourceID, e.Index, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
