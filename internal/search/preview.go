package search

import (
	"fmt"
	"strings"
)

// Preview renders s as an approximate SQL condition for display. The output
// is not meant to be executed. Bare strings render as `col = "v"`, a single
// operation as `col op "v"`, several equality terms as `col IN (...)` and
// anything else as a parenthesised chain joined by each term's logical
// operator. Columns are joined with AND.
func Preview(s Structured) string {
	parts := make([]string, 0, len(s.columns))
	for _, col := range s.columns {
		parts = append(parts, previewColumn(col))
	}
	return strings.Join(parts, " AND ")
}

func previewColumn(col Column) string {
	if col.IsLiteral() {
		return fmt.Sprintf("%s = %q", col.Name, col.Literal)
	}

	if len(col.Terms) == 1 {
		t := col.Terms[0]
		return fmt.Sprintf("%s %s %q", col.Name, t.op(), t.Value)
	}

	allEquality := true
	for _, t := range col.Terms {
		if !t.equality() {
			allEquality = false
			break
		}
	}

	if allEquality {
		terms := make([]string, len(col.Terms))
		for i, t := range col.Terms {
			terms[i] = fmt.Sprintf("%q", t.Value)
		}
		return fmt.Sprintf("%s IN (%s)", col.Name, strings.Join(terms, ", "))
	}

	var b strings.Builder
	b.WriteByte('(')
	for i, t := range col.Terms {
		if i > 0 {
			logical := t.Logical
			if logical == "" {
				logical = Or
			}
			fmt.Fprintf(&b, " %s ", logical)
		}
		fmt.Fprintf(&b, "%s %s %q", col.Name, t.op(), t.Value)
	}
	b.WriteByte(')')
	return b.String()
}
