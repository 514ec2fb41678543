package join

import (
	"errors"
	"strings"
	"testing"

	"github.com/rpattn/indexjoin/internal/domain"
)

func validConfig() domain.JoinConfiguration {
	return domain.JoinConfiguration{
		Sources: []domain.JoinSource{
			{ID: "A", Kind: domain.SourceKindIndex, Reference: "index-a"},
			{ID: "B", Kind: domain.SourceKindIndex, Reference: "index-b"},
		},
		Conditions: []domain.JoinCondition{
			{ID: "c1", LeftSourceID: "A", LeftField: "k", RightSourceID: "B", RightField: "k", JoinType: domain.JoinTypeInner},
		},
		ConsolidatedFields: []domain.ConsolidatedField{
			{ID: "f1", SourceID: "A", SourceField: "k", Alias: "key", Include: true},
		},
		From: 0,
		Size: 50,
	}
}

func configProblems(t *testing.T, err error) []string {
	t.Helper()
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	return cfgErr.Problems
}

func TestValidateConfiguration_Valid(t *testing.T) {
	if err := ValidateConfiguration(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateConfiguration_CycleDetected(t *testing.T) {
	cfg := validConfig()
	cfg.Sources = append(cfg.Sources, domain.JoinSource{ID: "C", Kind: domain.SourceKindIndex, Reference: "index-c"})
	cfg.Conditions = []domain.JoinCondition{
		{ID: "c1", LeftSourceID: "A", LeftField: "k", RightSourceID: "B", RightField: "k", JoinType: domain.JoinTypeInner},
		{ID: "c2", LeftSourceID: "B", LeftField: "k", RightSourceID: "C", RightField: "k", JoinType: domain.JoinTypeInner},
		{ID: "c3", LeftSourceID: "C", LeftField: "k", RightSourceID: "A", RightField: "k", JoinType: domain.JoinTypeInner},
	}

	err := ValidateConfiguration(cfg)
	var cycleErr *domain.CyclicJoinError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CyclicJoinError, got %v", err)
	}
	if len(cycleErr.SourceIDs) != 3 {
		t.Fatalf("expected the three sources on the cycle, got %v", cycleErr.SourceIDs)
	}
}

func TestValidateConfiguration_ParallelConditionsAreACycle(t *testing.T) {
	cfg := validConfig()
	cfg.Conditions = append(cfg.Conditions, domain.JoinCondition{
		ID: "c2", LeftSourceID: "A", LeftField: "other", RightSourceID: "B", RightField: "other", JoinType: domain.JoinTypeInner,
	})

	err := ValidateConfiguration(cfg)
	var cycleErr *domain.CyclicJoinError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("two distinct conditions between the same sources must register as a cycle, got %v", err)
	}
}

func TestValidateConfiguration_DuplicateCondition(t *testing.T) {
	cfg := validConfig()
	// Same source+field pair, written in the reverse order.
	cfg.Conditions = append(cfg.Conditions, domain.JoinCondition{
		ID: "c2", LeftSourceID: "B", LeftField: "k", RightSourceID: "A", RightField: "k", JoinType: domain.JoinTypeInner,
	})

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, "duplicates an earlier condition") {
		t.Fatalf("expected duplicate condition problem, got %v", problems)
	}
}

func TestValidateConfiguration_UnknownSource(t *testing.T) {
	cfg := validConfig()
	cfg.Conditions[0].RightSourceID = "missing"

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, `unknown source "missing"`) {
		t.Fatalf("expected unknown source problem, got %v", problems)
	}
}

func TestValidateConfiguration_SelfJoin(t *testing.T) {
	cfg := validConfig()
	cfg.Conditions[0].RightSourceID = "A"

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, "to itself") {
		t.Fatalf("expected self-join problem, got %v", problems)
	}
}

func TestValidateConfiguration_NoOutputFields(t *testing.T) {
	cfg := validConfig()
	cfg.ConsolidatedFields[0].Include = false

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, "no consolidated fields selected") {
		t.Fatalf("expected empty output problem, got %v", problems)
	}
}

func TestValidateConfiguration_ConsolidatedFieldUnknownSource(t *testing.T) {
	cfg := validConfig()
	cfg.ConsolidatedFields = append(cfg.ConsolidatedFields, domain.ConsolidatedField{
		ID: "f2", SourceID: "nope", SourceField: "x", Include: true,
	})

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, `references unknown source "nope"`) {
		t.Fatalf("expected unknown consolidated source problem, got %v", problems)
	}
}

func TestValidateConfiguration_Bounds(t *testing.T) {
	cfg := validConfig()
	cfg.From = -1
	cfg.Size = 0
	cfg.PerSourceFetchLimit = domain.MaxPerSourceFetchLimit + 1

	problems := configProblems(t, ValidateConfiguration(cfg))
	for _, expected := range []string{"from must not be negative", "size must be positive", "perSourceFetchLimit"} {
		if !containsSubstring(problems, expected) {
			t.Fatalf("expected problem containing %q, got %v", expected, problems)
		}
	}
}

func TestValidateConfiguration_DetachedCondition(t *testing.T) {
	cfg := validConfig()
	cfg.Sources = append(cfg.Sources,
		domain.JoinSource{ID: "C", Kind: domain.SourceKindIndex, Reference: "index-c"},
		domain.JoinSource{ID: "D", Kind: domain.SourceKindIndex, Reference: "index-d"},
	)
	cfg.Conditions = append(cfg.Conditions, domain.JoinCondition{
		ID: "c2", LeftSourceID: "C", LeftField: "k", RightSourceID: "D", RightField: "k", JoinType: domain.JoinTypeInner,
	})

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, "not connected to any earlier join stage") {
		t.Fatalf("expected detached condition problem, got %v", problems)
	}
}

func TestValidateConfiguration_UnknownKindAndJoinType(t *testing.T) {
	cfg := validConfig()
	cfg.Sources[0].Kind = "mystery"
	cfg.Conditions[0].JoinType = "outer"

	problems := configProblems(t, ValidateConfiguration(cfg))
	if !containsSubstring(problems, `unknown kind "mystery"`) {
		t.Fatalf("expected unknown kind problem, got %v", problems)
	}
	if !containsSubstring(problems, `unknown join type "outer"`) {
		t.Fatalf("expected unknown join type problem, got %v", problems)
	}
}

func containsSubstring(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
