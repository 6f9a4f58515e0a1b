// Package search converts the flat search criteria edited in the dashboard
// into the nested structured-search grammar Farm Core accepts, and back.
package search

import "strings"

// LogicalOperator joins a criterion to its siblings on the same column.
type LogicalOperator string

// Logical operators accepted by Farm Core.
const (
	And LogicalOperator = "AND"
	Or  LogicalOperator = "OR"
)

// Valid reports whether o is AND or OR.
func (o LogicalOperator) Valid() bool {
	return o == And || o == Or
}

// ComparisonOperator compares a column against a term.
type ComparisonOperator string

// Comparison operators accepted by Farm Core.
const (
	Equal          ComparisonOperator = "="
	NotEqual       ComparisonOperator = "!="
	Greater        ComparisonOperator = ">"
	Less           ComparisonOperator = "<"
	GreaterOrEqual ComparisonOperator = ">="
	LessOrEqual    ComparisonOperator = "<="
	Like           ComparisonOperator = "LIKE"
)

var comparisonOperators = map[ComparisonOperator]bool{
	Equal: true, NotEqual: true, Greater: true, Less: true,
	GreaterOrEqual: true, LessOrEqual: true, Like: true,
}

// Valid reports whether o is one of the supported comparison operators.
func (o ComparisonOperator) Valid() bool {
	return comparisonOperators[o]
}

// PlaceholderColumn is the column value the column picker holds before the
// user chooses one. Criteria still carrying it are never sent.
const PlaceholderColumn = "Search by Column"

// Criterion is one search condition in the dashboard's flat representation.
type Criterion struct {
	ID                 string             `json:"id"`
	Column             string             `json:"column"`
	Term               string             `json:"term"`
	Operator           LogicalOperator    `json:"operator,omitempty"`
	ComparisonOperator ComparisonOperator `json:"comparisonOperator,omitempty"`
}

// IsEquality reports whether the criterion compares with "=", which is
// also implied when no comparison operator is set.
func (c Criterion) IsEquality() bool {
	return c.ComparisonOperator == "" || c.ComparisonOperator == Equal
}

// Complete reports whether the criterion names a real column and a
// non-blank term.
func (c Criterion) Complete() bool {
	return c.Column != "" &&
		c.Column != PlaceholderColumn &&
		strings.TrimSpace(c.Term) != ""
}

func (c Criterion) logical() LogicalOperator {
	if c.Operator == "" {
		return Or
	}
	return c.Operator
}

type columnGroup struct {
	column   string
	criteria []Criterion
}

// groupByColumn groups criteria by column in first-seen column order.
func groupByColumn(criteria []Criterion) []columnGroup {
	index := make(map[string]int)
	var groups []columnGroup
	for _, c := range criteria {
		i, ok := index[c.Column]
		if !ok {
			i = len(groups)
			index[c.Column] = i
			groups = append(groups, columnGroup{column: c.Column})
		}
		groups[i].criteria = append(groups[i].criteria, c)
	}
	return groups
}
