package domain

// MatchStatus records how a joined tuple was produced.
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusLeftOnly  MatchStatus = "leftOnly"
	MatchStatusRightOnly MatchStatus = "rightOnly"
)

// NoJoinKeyLabel stands in for the join key of tuples whose join field was
// absent or null. Such records never enter the hash index.
const NoJoinKeyLabel = "N/A"

// JoinedTuple is one row of a join stage's output: the canonical key it was
// matched on (or NoJoinKeyLabel) and the participating records keyed by
// source id. A source absent from Records was unmatched on that side.
type JoinedTuple struct {
	JoinKey string                    `json:"joinKey"`
	Status  MatchStatus               `json:"matchStatus"`
	Records map[string]*FetchedRecord `json:"recordsBySourceId"`
}

// Record returns the sub-record contributed by the given source, if any.
func (t JoinedTuple) Record(sourceID string) (*FetchedRecord, bool) {
	rec, ok := t.Records[sourceID]
	return rec, ok
}

// JoinSummary counts the outcome of the final join stage.
type JoinSummary struct {
	LeftTotal      int `json:"leftTotal"`
	RightTotal     int `json:"rightTotal"`
	MatchedCount   int `json:"matchedCount"`
	LeftOnlyCount  int `json:"leftOnlyCount"`
	RightOnlyCount int `json:"rightOnlyCount"`
}

// JoinResult is the consolidated, paginated output of an execute call.
type JoinResult struct {
	Summary   JoinSummary      `json:"summary"`
	Rows      []map[string]any `json:"rows"`
	TotalRows int              `json:"totalRows"`
}

// KeyCount is one entry of a preview's key distribution.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PreviewResult is the capped, approximate output of a preview call. Summary
// counts cover the full bounded fetch; SampleTuples and KeyDistribution are
// truncated for interactive display and must not be treated as authoritative.
type PreviewResult struct {
	Summary         JoinSummary   `json:"summary"`
	SampleTuples    []JoinedTuple `json:"sampleTuples"`
	KeyDistribution []KeyCount    `json:"sampleKeyDistribution"`
}
