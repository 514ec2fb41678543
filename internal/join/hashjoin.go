package join

import (
	"github.com/rpattn/indexjoin/internal/domain"
)

// keyedRecord is a freshly fetched record with its canonical stage key.
type keyedRecord struct {
	record domain.FetchedRecord
	key    string
	hasKey bool
}

// keyedTuple is an accumulated tuple with the key it contributes to the
// current stage, re-extracted from the sub-record the condition names.
type keyedTuple struct {
	tuple  domain.JoinedTuple
	key    string
	hasKey bool
}

type stageOutput struct {
	tuples  []domain.JoinedTuple
	summary domain.JoinSummary
}

func keyRecords(records []domain.FetchedRecord, field string) []keyedRecord {
	keyed := make([]keyedRecord, len(records))
	for i, rec := range records {
		key, ok := ExtractKey(rec, field)
		keyed[i] = keyedRecord{record: rec, key: key, hasKey: ok}
	}
	return keyed
}

// keyTuples extracts each tuple's key for the next stage from the sub-record
// belonging to sourceID. A tuple missing that sub-record (an earlier stage
// marked it absent) has no key and flows through left/full semantics.
func keyTuples(tuples []domain.JoinedTuple, sourceID, field string) []keyedTuple {
	keyed := make([]keyedTuple, len(tuples))
	for i, tuple := range tuples {
		keyed[i] = keyedTuple{tuple: tuple}
		rec, ok := tuple.Records[sourceID]
		if !ok || rec == nil {
			continue
		}
		if key, hasKey := ExtractKey(*rec, field); hasKey {
			keyed[i].key = key
			keyed[i].hasKey = true
		}
	}
	return keyed
}

// tuplesFromRecords wraps one side's records as single-record tuples so the
// first stage and every chained stage share the same join primitive.
func tuplesFromRecords(records []domain.FetchedRecord) []domain.JoinedTuple {
	tuples := make([]domain.JoinedTuple, len(records))
	for i := range records {
		rec := records[i]
		tuples[i] = domain.JoinedTuple{
			JoinKey: domain.NoJoinKeyLabel,
			Records: map[string]*domain.FetchedRecord{rec.SourceID: &rec},
		}
	}
	return tuples
}

// hashJoin is the two-way primitive: it indexes the right side by canonical
// key (one-to-many) and probes it with each left tuple. Duplicate keys emit
// the full cross product. Right records matched at least once are marked
// consumed; under right/full semantics every unconsumed right record is
// emitted once as rightOnly afterwards.
func hashJoin(left []keyedTuple, right []keyedRecord, joinType domain.JoinType) stageOutput {
	index := make(map[string][]int, len(right))
	for i, r := range right {
		if r.hasKey {
			index[r.key] = append(index[r.key], i)
		}
	}
	consumed := make([]bool, len(right))

	out := stageOutput{
		tuples: make([]domain.JoinedTuple, 0, len(left)),
		summary: domain.JoinSummary{
			LeftTotal:  len(left),
			RightTotal: len(right),
		},
	}

	for _, lt := range left {
		var matches []int
		if lt.hasKey {
			matches = index[lt.key]
		}
		if len(matches) == 0 {
			if joinType == domain.JoinTypeLeft || joinType == domain.JoinTypeFull {
				out.tuples = append(out.tuples, unmatchedLeftTuple(lt))
				out.summary.LeftOnlyCount++
			}
			continue
		}
		for _, ri := range matches {
			consumed[ri] = true
			out.tuples = append(out.tuples, matchedTuple(lt, right[ri]))
			out.summary.MatchedCount++
		}
	}

	if joinType == domain.JoinTypeRight || joinType == domain.JoinTypeFull {
		for i, r := range right {
			if consumed[i] {
				continue
			}
			out.tuples = append(out.tuples, unmatchedRightTuple(r))
			out.summary.RightOnlyCount++
		}
	}

	return out
}

func matchedTuple(lt keyedTuple, r keyedRecord) domain.JoinedTuple {
	records := make(map[string]*domain.FetchedRecord, len(lt.tuple.Records)+1)
	for id, rec := range lt.tuple.Records {
		records[id] = rec
	}
	rec := r.record
	records[rec.SourceID] = &rec
	return domain.JoinedTuple{
		JoinKey: lt.key,
		Status:  domain.MatchStatusMatched,
		Records: records,
	}
}

func unmatchedLeftTuple(lt keyedTuple) domain.JoinedTuple {
	key := lt.key
	if !lt.hasKey {
		key = domain.NoJoinKeyLabel
	}
	records := make(map[string]*domain.FetchedRecord, len(lt.tuple.Records))
	for id, rec := range lt.tuple.Records {
		records[id] = rec
	}
	return domain.JoinedTuple{
		JoinKey: key,
		Status:  domain.MatchStatusLeftOnly,
		Records: records,
	}
}

func unmatchedRightTuple(r keyedRecord) domain.JoinedTuple {
	key := r.key
	if !r.hasKey {
		key = domain.NoJoinKeyLabel
	}
	rec := r.record
	return domain.JoinedTuple{
		JoinKey: key,
		Status:  domain.MatchStatusRightOnly,
		Records: map[string]*domain.FetchedRecord{rec.SourceID: &rec},
	}
}
