package domain

// FetchedRecord is one raw document pulled from a source during a join
// execution, together with its flattened view. Records live only for the
// duration of a single execute or preview call.
type FetchedRecord struct {
	SourceID  string         `json:"sourceId"`
	Raw       map[string]any `json:"rawDocument"`
	Flattened map[string]any `json:"flattened"`
}

// NewFetchedRecord flattens the raw document eagerly so key extraction and
// consolidation are plain map lookups afterwards.
func NewFetchedRecord(sourceID string, raw map[string]any) FetchedRecord {
	return FetchedRecord{
		SourceID:  sourceID,
		Raw:       raw,
		Flattened: Flatten(raw),
	}
}

// Flatten converts a nested document into dot-path keys. Arrays are kept as
// single opaque leaf values, never expanded into indexed sub-paths, even when
// their elements are objects.
func Flatten(doc map[string]any) map[string]any {
	flattened := make(map[string]any, len(doc))
	flattenInto(flattened, "", doc)
	return flattened
}

func flattenInto(out map[string]any, prefix string, doc map[string]any) {
	for key, value := range doc {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(out, path, nested)
			continue
		}
		out[path] = value
	}
}
