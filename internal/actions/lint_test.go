package actions

import (
	"reflect"
	"testing"
)

func TestLint(t *testing.T) {
	plans, err := Compile(`
actions:
  - id: a
    title: A
    steps: [ls]
  - title: no id
  - id: a
    title: dup
  - id: b
    steps:
      - run: ""
        note: fill me in
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	issues := Lint(plans)
	var codes []IssueCode
	for _, is := range issues {
		codes = append(codes, is.Code)
	}
	want := []IssueCode{IssueMissingID, IssueDuplicateID, IssueMissingTitle, IssueEmptyRun}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("expected %v, got %v", want, codes)
	}
	if issues[1].Plan != 3 || issues[1].ID != "a" {
		t.Fatalf("expected duplicate on plan 3 id a, got %+v", issues[1])
	}
	if issues[3].Step != 1 {
		t.Fatalf("expected empty run on step 1, got %+v", issues[3])
	}
}

func TestLint_Clean(t *testing.T) {
	issues := Lint([]ActionPlan{{ID: "a", Title: "A", Steps: []Step{{Run: "ls"}}}})
	if issues == nil || len(issues) != 0 {
		t.Fatalf("expected empty non-nil issues, got %v", issues)
	}
}

func TestDuplicateIDs(t *testing.T) {
	tests := []struct {
		name  string
		plans []ActionPlan
		want  []string
	}{
		{"none", []ActionPlan{{ID: "a"}, {ID: "b"}}, []string{}},
		{"one dup", []ActionPlan{{ID: "a"}, {ID: "b"}, {ID: "a"}}, []string{"a"}},
		{"first seen order", []ActionPlan{{ID: "z"}, {ID: "y"}, {ID: "y"}, {ID: "z"}}, []string{"z", "y"}},
		{"empty ids ignored", []ActionPlan{{}, {}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DuplicateIDs(tt.plans); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
