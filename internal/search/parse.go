package search

import (
	"fmt"
	"strings"
)

// expression operators, longest first so ">=" wins over ">".
var expressionOperators = []struct {
	token string
	op    ComparisonOperator
}{
	{">=", GreaterOrEqual},
	{"<=", LessOrEqual},
	{"!=", NotEqual},
	{"=", Equal},
	{">", Greater},
	{"<", Less},
	{"~", Like},
}

// Parse reads a one-line criterion such as "status=active",
// "OR:cpu_count>=8" or "AND:host_name~web". The optional AND:/OR: prefix
// sets the logical operator and "~" stands for LIKE. The returned criterion
// has no id.
func Parse(expr string) (Criterion, error) {
	var c Criterion
	rest := strings.TrimSpace(expr)

	if prefix, tail, ok := strings.Cut(rest, ":"); ok {
		switch LogicalOperator(strings.ToUpper(strings.TrimSpace(prefix))) {
		case And:
			c.Operator, rest = And, tail
		case Or:
			c.Operator, rest = Or, tail
		}
	}

	at, token := -1, ""
	for i := 0; i < len(rest) && at < 0; i++ {
		for _, candidate := range expressionOperators {
			if strings.HasPrefix(rest[i:], candidate.token) {
				at, token = i, candidate.token
				c.ComparisonOperator = candidate.op
				break
			}
		}
	}
	if at < 0 {
		return Criterion{}, fmt.Errorf("search: no comparison operator in %q", expr)
	}

	c.Column = strings.TrimSpace(rest[:at])
	c.Term = strings.TrimSpace(rest[at+len(token):])
	if c.Column == "" {
		return Criterion{}, fmt.Errorf("search: missing column in %q", expr)
	}
	if c.Term == "" {
		return Criterion{}, fmt.Errorf("search: missing term in %q", expr)
	}
	return c, nil
}

// ParseAll parses each expression and numbers the criteria from "1".
func ParseAll(exprs []string) ([]Criterion, error) {
	out := make([]Criterion, 0, len(exprs))
	for i, expr := range exprs {
		c, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		c.ID = fmt.Sprintf("%d", i+1)
		out = append(out, c)
	}
	return out, nil
}
