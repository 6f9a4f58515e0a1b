package search

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		criterion Criterion
		want      []string
	}{
		{
			name:      "valid defaults",
			criterion: Criterion{ID: "1", Column: "status", Term: "active"},
		},
		{
			name:      "valid explicit operators",
			criterion: Criterion{ID: "1", Column: "cpu_count", Term: "8", Operator: And, ComparisonOperator: GreaterOrEqual},
		},
		{
			name:      "empty column",
			criterion: Criterion{ID: "2", Column: " ", Term: "active"},
			want:      []string{"Search criterion 2 has empty column"},
		},
		{
			name:      "empty term",
			criterion: Criterion{ID: "3", Column: "status", Term: ""},
			want:      []string{"Search criterion 3 has empty search term"},
		},
		{
			name:      "bad logical operator",
			criterion: Criterion{ID: "4", Column: "status", Term: "x", Operator: "XOR"},
			want:      []string{"Search criterion 4 has invalid operator: XOR"},
		},
		{
			name:      "bad comparison operator",
			criterion: Criterion{ID: "5", Column: "status", Term: "x", ComparisonOperator: "=="},
			want:      []string{"Search criterion 5 has invalid comparison operator: =="},
		},
		{
			name:      "everything wrong",
			criterion: Criterion{ID: "6", Operator: "or", ComparisonOperator: "like"},
			want: []string{
				"Search criterion 6 has empty column",
				"Search criterion 6 has empty search term",
				"Search criterion 6 has invalid operator: or",
				"Search criterion 6 has invalid comparison operator: like",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate([]Criterion{tt.criterion})
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Validate()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLogicWarnings(t *testing.T) {
	tests := []struct {
		name     string
		criteria []Criterion
		contains []string
	}{
		{
			name: "OR equality is fine",
			criteria: []Criterion{
				{Column: "status", Term: "a", Operator: Or},
				{Column: "status", Term: "b", Operator: Or},
			},
		},
		{
			name: "single AND is fine",
			criteria: []Criterion{
				{Column: "status", Term: "a", Operator: And},
				{Column: "status", Term: "b", Operator: Or},
			},
		},
		{
			name: "AND equality and inequality",
			criteria: []Criterion{
				{Column: "status", Term: "a", Operator: And},
				{Column: "status", Term: "b", Operator: And, ComparisonOperator: NotEqual},
			},
			contains: []string{"both equality and inequality"},
		},
		{
			name: "AND with two equality values",
			criteria: []Criterion{
				{Column: "env", Term: "prod", Operator: And},
				{Column: "env", Term: "qa", Operator: And, ComparisonOperator: Equal},
			},
			contains: []string{`env cannot be "prod" AND "qa" simultaneously`},
		},
		{
			name: "AND ranges are fine",
			criteria: []Criterion{
				{Column: "cpu_count", Term: "4", Operator: And, ComparisonOperator: Greater},
				{Column: "cpu_count", Term: "16", Operator: And, ComparisonOperator: Less},
			},
		},
		{
			name: "different columns never conflict",
			criteria: []Criterion{
				{Column: "a", Term: "1", Operator: And},
				{Column: "b", Term: "2", Operator: And},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogicWarnings(tt.criteria)
			if len(got) != len(tt.contains) {
				t.Fatalf("LogicWarnings() = %q, want %d warnings", got, len(tt.contains))
			}
			for i, sub := range tt.contains {
				if !strings.Contains(got[i], sub) {
					t.Errorf("warning %q does not contain %q", got[i], sub)
				}
			}
		})
	}
}

func TestCriterion_Complete(t *testing.T) {
	tests := []struct {
		c    Criterion
		want bool
	}{
		{Criterion{Column: "status", Term: "active"}, true},
		{Criterion{Column: "", Term: "active"}, false},
		{Criterion{Column: "status", Term: "   "}, false},
		{Criterion{Column: PlaceholderColumn, Term: "active"}, false},
	}

	for _, tt := range tests {
		if got := tt.c.Complete(); got != tt.want {
			t.Errorf("%+v.Complete() = %v, want %v", tt.c, got, tt.want)
		}
	}
}
