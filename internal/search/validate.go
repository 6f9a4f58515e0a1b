package search

import (
	"fmt"
	"strings"
)

// Validate returns one message per problem found in criteria: an empty
// column or term, an unknown logical operator, or an unknown comparison
// operator. An empty result means every criterion is well formed.
// Problems are advisory; callers log them and send what is usable.
func Validate(criteria []Criterion) []string {
	var problems []string
	for _, c := range criteria {
		if strings.TrimSpace(c.Column) == "" {
			problems = append(problems, fmt.Sprintf("Search criterion %s has empty column", c.ID))
		}
		if strings.TrimSpace(c.Term) == "" {
			problems = append(problems, fmt.Sprintf("Search criterion %s has empty search term", c.ID))
		}
		if c.Operator != "" && !c.Operator.Valid() {
			problems = append(problems, fmt.Sprintf("Search criterion %s has invalid operator: %s", c.ID, c.Operator))
		}
		if c.ComparisonOperator != "" && !c.ComparisonOperator.Valid() {
			problems = append(problems, fmt.Sprintf("Search criterion %s has invalid comparison operator: %s", c.ID, c.ComparisonOperator))
		}
	}
	return problems
}

// LogicWarnings flags AND-joined criteria on one column that cannot all
// hold for a scalar column: equality mixed with inequality, or two
// different equality terms.
func LogicWarnings(criteria []Criterion) []string {
	var warnings []string
	for _, g := range groupByColumn(criteria) {
		if len(g.criteria) < 2 {
			continue
		}

		var ands []Criterion
		for _, c := range g.criteria {
			if c.Operator == And {
				ands = append(ands, c)
			}
		}
		if len(ands) < 2 {
			continue
		}

		var equalityTerms []string
		hasInequality := false
		for _, c := range ands {
			if c.IsEquality() {
				equalityTerms = append(equalityTerms, c.Term)
			}
			if c.ComparisonOperator == NotEqual {
				hasInequality = true
			}
		}

		if len(equalityTerms) > 0 && hasInequality {
			warnings = append(warnings, fmt.Sprintf(
				"Column %q: Using AND with both equality and inequality might not return any results (e.g., %s = \"value1\" AND %s != \"value2\")",
				g.column, g.column, g.column))
		}
		if len(equalityTerms) > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"Column %q: Using AND with multiple equality values will never match (%s cannot be %q AND %q simultaneously)",
				g.column, g.column, equalityTerms[0], equalityTerms[1]))
		}
	}
	return warnings
}
