package join

import (
	"encoding/json"
	"strconv"

	"github.com/rpattn/indexjoin/internal/domain"
)

// CanonicalKey converts an extracted join-key value into the string form used
// for hashing and equality. All scalar types collapse to strings, so numeric 5
// and "5" match; this mirrors how the interactive tool has always behaved.
// Arrays and objects are compared wholesale via their JSON encoding, never
// element by element. The second return is false when the value carries no
// joinable key (null, or an unencodable value).
func CanonicalKey(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	default:
		// Arrays and nested objects left opaque by the flattener.
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
}

// ExtractKey looks up fieldPath in a flattened record and canonicalizes it.
// A missing path means the record has no joinable key: it is excluded from
// hash-bucket membership but still surfaces as unmatched under left, right
// and full semantics.
func ExtractKey(rec domain.FetchedRecord, fieldPath string) (string, bool) {
	value, ok := rec.Flattened[fieldPath]
	if !ok {
		return "", false
	}
	return CanonicalKey(value)
}
