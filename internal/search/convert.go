package search

import "strconv"

// ToStructured groups criteria by column and encodes them in the structured
// format.
//
// A column with a single equality criterion becomes a bare string. Any other
// column becomes a nested object keyed by term, whose values are the logical
// operator (equality) or an {"op","logical"} pair. The logical operator
// defaults to OR. Two criteria with the same column and term collapse into
// one entry; the later one wins.
func ToStructured(criteria []Criterion) Structured {
	var s Structured
	for _, g := range groupByColumn(criteria) {
		if len(g.criteria) == 1 && g.criteria[0].IsEquality() {
			s.SetLiteral(g.column, g.criteria[0].Term)
			continue
		}
		for _, c := range g.criteria {
			t := Term{Value: c.Term, Logical: c.logical()}
			if !c.IsEquality() {
				t.Op = c.ComparisonOperator
				t.Detailed = true
			}
			s.SetTerm(g.column, t)
		}
	}
	return s
}

// FromStructured expands a structured search into flat criteria with
// sequential ids starting at "1". Bare strings and plain nested terms come
// back with comparison "="; object terms keep their op and logical values.
func FromStructured(s Structured) []Criterion {
	var out []Criterion
	id := 1
	next := func() string {
		v := strconv.Itoa(id)
		id++
		return v
	}

	for _, col := range s.columns {
		if col.IsLiteral() {
			out = append(out, Criterion{
				ID:                 next(),
				Column:             col.Name,
				Term:               col.Literal,
				ComparisonOperator: Equal,
			})
			continue
		}
		for _, t := range col.Terms {
			out = append(out, Criterion{
				ID:                 next(),
				Column:             col.Name,
				Term:               t.Value,
				Operator:           t.Logical,
				ComparisonOperator: t.op(),
			})
		}
	}
	return out
}
