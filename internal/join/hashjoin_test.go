package join

import (
	"testing"

	"github.com/rpattn/indexjoin/internal/domain"
)

func makeRecords(sourceID string, docs ...map[string]any) []domain.FetchedRecord {
	records := make([]domain.FetchedRecord, len(docs))
	for i, doc := range docs {
		records[i] = domain.NewFetchedRecord(sourceID, doc)
	}
	return records
}

// The scenario shared by the inner/left/full tests below:
// left  = [{id:1 k:a} {id:2 k:b}], right = [{id:10 k:a} {id:11 k:c}]
func scenarioSides() ([]keyedTuple, []keyedRecord) {
	left := makeRecords("L",
		map[string]any{"id": float64(1), "k": "a"},
		map[string]any{"id": float64(2), "k": "b"},
	)
	right := makeRecords("R",
		map[string]any{"id": float64(10), "k": "a"},
		map[string]any{"id": float64(11), "k": "c"},
	)
	return keyTuples(tuplesFromRecords(left), "L", "k"), keyRecords(right, "k")
}

func TestHashJoin_Inner(t *testing.T) {
	left, right := scenarioSides()

	out := hashJoin(left, right, domain.JoinTypeInner)

	if len(out.tuples) != 1 {
		t.Fatalf("expected exactly one tuple, got %d", len(out.tuples))
	}
	tuple := out.tuples[0]
	if tuple.Status != domain.MatchStatusMatched || tuple.JoinKey != "a" {
		t.Fatalf("unexpected tuple %+v", tuple)
	}
	if tuple.Records["L"].Flattened["id"] != float64(1) || tuple.Records["R"].Flattened["id"] != float64(10) {
		t.Fatalf("wrong records joined: %+v", tuple.Records)
	}
	if out.summary.MatchedCount != 1 || out.summary.LeftOnlyCount != 0 || out.summary.RightOnlyCount != 0 {
		t.Fatalf("unexpected summary %+v", out.summary)
	}
}

func TestHashJoin_Left(t *testing.T) {
	left, right := scenarioSides()

	out := hashJoin(left, right, domain.JoinTypeLeft)

	if len(out.tuples) != 2 {
		t.Fatalf("expected two tuples, got %d", len(out.tuples))
	}
	var matched, leftOnly int
	for _, tuple := range out.tuples {
		switch tuple.Status {
		case domain.MatchStatusMatched:
			matched++
		case domain.MatchStatusLeftOnly:
			leftOnly++
			if _, ok := tuple.Records["R"]; ok {
				t.Fatalf("leftOnly tuple must not carry a right record: %+v", tuple)
			}
			if tuple.JoinKey != "b" {
				t.Fatalf("expected leftOnly key \"b\", got %q", tuple.JoinKey)
			}
		default:
			t.Fatalf("unexpected status %q", tuple.Status)
		}
	}
	if matched != 1 || leftOnly != 1 {
		t.Fatalf("expected 1 matched and 1 leftOnly, got %d/%d", matched, leftOnly)
	}
}

func TestHashJoin_Full(t *testing.T) {
	left, right := scenarioSides()

	out := hashJoin(left, right, domain.JoinTypeFull)

	if len(out.tuples) != 3 {
		t.Fatalf("expected three tuples, got %d", len(out.tuples))
	}
	byStatus := map[domain.MatchStatus]domain.JoinedTuple{}
	for _, tuple := range out.tuples {
		byStatus[tuple.Status] = tuple
	}
	if byStatus[domain.MatchStatusMatched].JoinKey != "a" {
		t.Fatalf("expected matched key \"a\", got %+v", byStatus[domain.MatchStatusMatched])
	}
	if byStatus[domain.MatchStatusLeftOnly].JoinKey != "b" {
		t.Fatalf("expected leftOnly key \"b\", got %+v", byStatus[domain.MatchStatusLeftOnly])
	}
	if byStatus[domain.MatchStatusRightOnly].JoinKey != "c" {
		t.Fatalf("expected rightOnly key \"c\", got %+v", byStatus[domain.MatchStatusRightOnly])
	}

	s := out.summary
	if s.MatchedCount+s.LeftOnlyCount+s.RightOnlyCount != len(out.tuples) {
		t.Fatalf("full join counts must add up to the tuple count: %+v", s)
	}
}

func TestHashJoin_Right(t *testing.T) {
	left, right := scenarioSides()

	out := hashJoin(left, right, domain.JoinTypeRight)

	var matched, rightOnly int
	for _, tuple := range out.tuples {
		switch tuple.Status {
		case domain.MatchStatusMatched:
			matched++
		case domain.MatchStatusRightOnly:
			rightOnly++
			if _, ok := tuple.Records["L"]; ok {
				t.Fatalf("rightOnly tuple must not carry a left record: %+v", tuple)
			}
		default:
			t.Fatalf("unexpected status %q", tuple.Status)
		}
	}
	if matched != 1 || rightOnly != 1 {
		t.Fatalf("expected 1 matched and 1 rightOnly, got %d/%d", matched, rightOnly)
	}
}

func TestHashJoin_DuplicateKeysCrossProduct(t *testing.T) {
	left := keyTuples(tuplesFromRecords(makeRecords("L",
		map[string]any{"id": float64(1), "k": "a"},
		map[string]any{"id": float64(2), "k": "a"},
	)), "L", "k")
	right := keyRecords(makeRecords("R",
		map[string]any{"id": float64(10), "k": "a"},
		map[string]any{"id": float64(11), "k": "a"},
		map[string]any{"id": float64(12), "k": "a"},
	), "k")

	out := hashJoin(left, right, domain.JoinTypeInner)

	if len(out.tuples) != 6 {
		t.Fatalf("expected 2x3 cross product, got %d tuples", len(out.tuples))
	}
	if out.summary.MatchedCount != 6 {
		t.Fatalf("unexpected matched count %d", out.summary.MatchedCount)
	}
}

func TestHashJoin_MissingKeysNeverMatch(t *testing.T) {
	// 3 of 10 left records lack the join field entirely.
	docs := make([]map[string]any, 0, 10)
	for i := 0; i < 10; i++ {
		doc := map[string]any{"id": float64(i)}
		if i >= 3 {
			doc["k"] = "present"
		}
		docs = append(docs, doc)
	}
	left := keyTuples(tuplesFromRecords(makeRecords("L", docs...)), "L", "k")
	right := keyRecords(makeRecords("R", map[string]any{"k": "present"}), "k")

	out := hashJoin(left, right, domain.JoinTypeLeft)

	if out.summary.MatchedCount != 7 || out.summary.LeftOnlyCount != 3 {
		t.Fatalf("expected 7 matched and 3 leftOnly, got %+v", out.summary)
	}
	if out.summary.LeftTotal != out.summary.MatchedCount+out.summary.LeftOnlyCount {
		t.Fatalf("left totals do not reconcile: %+v", out.summary)
	}
	for _, tuple := range out.tuples {
		if tuple.Status == domain.MatchStatusLeftOnly && tuple.JoinKey != domain.NoJoinKeyLabel {
			t.Fatalf("keyless tuples must carry the %q label, got %q", domain.NoJoinKeyLabel, tuple.JoinKey)
		}
	}
}

func TestHashJoin_KeylessRightRecordsSurfaceUnderFull(t *testing.T) {
	left := keyTuples(tuplesFromRecords(makeRecords("L", map[string]any{"k": "a"})), "L", "k")
	right := keyRecords(makeRecords("R",
		map[string]any{"k": "a"},
		map[string]any{"other": "no join field"},
	), "k")

	out := hashJoin(left, right, domain.JoinTypeFull)

	if out.summary.MatchedCount != 1 || out.summary.RightOnlyCount != 1 {
		t.Fatalf("unexpected summary %+v", out.summary)
	}
	for _, tuple := range out.tuples {
		if tuple.Status == domain.MatchStatusRightOnly && tuple.JoinKey != domain.NoJoinKeyLabel {
			t.Fatalf("keyless right record should carry the %q label, got %q", domain.NoJoinKeyLabel, tuple.JoinKey)
		}
	}
}

func TestKeyTuples_MissingSubRecordHasNoKey(t *testing.T) {
	// A tuple whose earlier stage marked source "R" absent must flow through
	// the next stage as keyless when that stage extracts from "R".
	tuple := domain.JoinedTuple{
		JoinKey: "a",
		Status:  domain.MatchStatusLeftOnly,
		Records: map[string]*domain.FetchedRecord{},
	}

	keyed := keyTuples([]domain.JoinedTuple{tuple}, "R", "k")
	if keyed[0].hasKey {
		t.Fatalf("tuple without the named sub-record must have no key")
	}
}
