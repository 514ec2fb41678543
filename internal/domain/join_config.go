package domain

import (
	"encoding/json"
)

// SourceKind describes where the records for one side of a join come from.
type SourceKind string

const (
	SourceKindIndex       SourceKind = "index"
	SourceKindStoredQuery SourceKind = "storedQuery"
)

// JoinType selects the matching semantics for one join condition.
type JoinType string

const (
	JoinTypeInner JoinType = "inner"
	JoinTypeLeft  JoinType = "left"
	JoinTypeRight JoinType = "right"
	JoinTypeFull  JoinType = "full"
)

func (jt JoinType) Valid() bool {
	switch jt {
	case JoinTypeInner, JoinTypeLeft, JoinTypeRight, JoinTypeFull:
		return true
	}
	return false
}

// Fetch bounds for a single source. Limits exist to cap the worst-case
// cross-product size on duplicate-key-heavy data.
const (
	DefaultPerSourceFetchLimit = 1000
	MaxPerSourceFetchLimit     = 1000
)

// JoinSource identifies one side of a join: either a raw index name or a
// reference to a stored query that carries its own index and scoping query.
type JoinSource struct {
	ID           string          `json:"id"`
	Kind         SourceKind      `json:"kind"`
	Reference    string          `json:"reference"`
	ScopingQuery json.RawMessage `json:"scopingQuery,omitempty"`
}

// JoinCondition correlates a field of one source with a field of another.
type JoinCondition struct {
	ID            string   `json:"id"`
	LeftSourceID  string   `json:"leftSourceId"`
	LeftField     string   `json:"leftField"`
	RightSourceID string   `json:"rightSourceId"`
	RightField    string   `json:"rightField"`
	JoinType      JoinType `json:"joinType"`
}

// ConsolidatedField defines one output column of the consolidated result.
type ConsolidatedField struct {
	ID          string `json:"id"`
	SourceID    string `json:"sourceId"`
	SourceField string `json:"sourceField"`
	Alias       string `json:"alias"`
	Include     bool   `json:"include"`
}

// JoinConfiguration is the full request for a multi-index join. Conditions are
// applied in order; for more than two sources each condition after the first
// extends the already-joined tuple set by one fresh source.
type JoinConfiguration struct {
	Sources             []JoinSource        `json:"sources"`
	Conditions          []JoinCondition     `json:"joins"`
	ConsolidatedFields  []ConsolidatedField `json:"consolidatedFields"`
	From                int                 `json:"from"`
	Size                int                 `json:"size"`
	PerSourceFetchLimit int                 `json:"perSourceFetchLimit,omitempty"`
}

// IncludedFields returns the consolidated fields selected for output.
func (c JoinConfiguration) IncludedFields() []ConsolidatedField {
	fields := make([]ConsolidatedField, 0, len(c.ConsolidatedFields))
	for _, f := range c.ConsolidatedFields {
		if f.Include {
			fields = append(fields, f)
		}
	}
	return fields
}

// SourceByID looks up a source declared in the configuration.
func (c JoinConfiguration) SourceByID(id string) (JoinSource, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return JoinSource{}, false
}
