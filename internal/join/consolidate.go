package join

import (
	"github.com/rpattn/indexjoin/internal/domain"
)

// Consolidate projects joined tuples into flat output rows, one cell per
// selected consolidated field. A missing source record or missing path yields
// a nil cell. Alias collisions are not deduplicated here; the last field with
// a given alias wins, which is the caller's responsibility to avoid.
func Consolidate(tuples []domain.JoinedTuple, fields []domain.ConsolidatedField) []map[string]any {
	rows := make([]map[string]any, 0, len(tuples))
	for _, tuple := range tuples {
		row := make(map[string]any, len(fields))
		for _, field := range fields {
			alias := field.Alias
			if alias == "" {
				alias = field.SourceField
			}
			rec, ok := tuple.Records[field.SourceID]
			if !ok || rec == nil {
				row[alias] = nil
				continue
			}
			value, ok := rec.Flattened[field.SourceField]
			if !ok {
				row[alias] = nil
				continue
			}
			row[alias] = value
		}
		rows = append(rows, row)
	}
	return rows
}

// paginate slices the already-computed row list; it never re-fetches.
func paginate(rows []map[string]any, from, size int) []map[string]any {
	if from >= len(rows) {
		return []map[string]any{}
	}
	end := from + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[from:end]
}
