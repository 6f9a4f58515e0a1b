package search

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Structured is a parsed structured search: an ordered mapping from column
// to either a literal term (implied equality) or a set of terms, each with
// its own logical and optional comparison operator.
//
// The zero value is an empty search. Column and term order survive
// marshalling, so a value always encodes to the same bytes.
type Structured struct {
	columns []Column
}

// Column is one entry of a Structured search.
type Column struct {
	Name string
	// Literal is the term of the bare-string form. Only meaningful when
	// Terms is nil.
	Literal string
	// Terms holds the nested form, keyed by Term.Value.
	Terms []Term
}

// IsLiteral reports whether the column uses the bare-string form.
func (c Column) IsLiteral() bool {
	return c.Terms == nil
}

// Term is one term of a nested column.
type Term struct {
	Value   string
	Logical LogicalOperator
	// Op is the comparison operator of the object form. It may be empty
	// even when Detailed is set, in which case "=" is meant.
	Op ComparisonOperator
	// Detailed selects the {"op","logical"} object form over the plain
	// logical-operator string.
	Detailed bool
}

func (t Term) equality() bool {
	return !t.Detailed || t.Op == "" || t.Op == Equal
}

func (t Term) op() ComparisonOperator {
	if t.Op == "" {
		return Equal
	}
	return t.Op
}

// Len returns the number of columns.
func (s Structured) Len() int {
	return len(s.columns)
}

// Columns returns the columns in insertion order.
func (s Structured) Columns() []Column {
	return append([]Column(nil), s.columns...)
}

// Column returns the named column.
func (s Structured) Column(name string) (Column, bool) {
	if i := s.indexOf(name); i >= 0 {
		return s.columns[i], true
	}
	return Column{}, false
}

// SetLiteral sets column to the bare-string equality form, replacing any
// previous value while keeping its position.
func (s *Structured) SetLiteral(column, term string) {
	col := Column{Name: column, Literal: term}
	if i := s.indexOf(column); i >= 0 {
		s.columns[i] = col
		return
	}
	s.columns = append(s.columns, col)
}

// SetTerm adds t to column's nested form. A term with the same value
// replaces the earlier entry in place, as a JSON object key would.
func (s *Structured) SetTerm(column string, t Term) {
	col := s.nested(column)
	for j := range col.Terms {
		if col.Terms[j].Value == t.Value {
			col.Terms[j] = t
			return
		}
	}
	col.Terms = append(col.Terms, t)
}

// nested returns column in nested form, adding it or converting a literal.
func (s *Structured) nested(column string) *Column {
	i := s.indexOf(column)
	if i < 0 {
		s.columns = append(s.columns, Column{Name: column})
		i = len(s.columns) - 1
	}
	col := &s.columns[i]
	if col.Terms == nil {
		col.Terms = []Term{}
		col.Literal = ""
	}
	return col
}

func (s Structured) indexOf(column string) int {
	for i, c := range s.columns {
		if c.Name == column {
			return i
		}
	}
	return -1
}

// String returns the JSON wire form sent in the search query parameter.
func (s Structured) String() string {
	b, _ := s.MarshalJSON()
	return string(b)
}

type operation struct {
	Op      ComparisonOperator `json:"op,omitempty"`
	Logical LogicalOperator    `json:"logical"`
}

// MarshalJSON encodes the search with columns and terms in insertion order.
func (s Structured) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range s.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, col.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if col.IsLiteral() {
			if err := writeJSON(&buf, col.Literal); err != nil {
				return nil, err
			}
			continue
		}
		buf.WriteByte('{')
		for j, t := range col.Terms {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(&buf, t.Value); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			var v any = t.Logical
			if t.Detailed {
				v = operation{Op: t.Op, Logical: t.Logical}
			}
			if err := writeJSON(&buf, v); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON encodes v without HTML escaping so comparison operators stay
// readable on the wire.
func writeJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON decodes the wire form, keeping key order.
func (s *Structured) UnmarshalJSON(data []byte) error {
	var out Structured
	err := decodeObject(data, func(column string, raw json.RawMessage) error {
		switch firstByte(raw) {
		case '"':
			var term string
			if err := json.Unmarshal(raw, &term); err != nil {
				return err
			}
			out.SetLiteral(column, term)
			return nil
		case '{':
			out.nested(column)
			return decodeObject(raw, func(value string, raw json.RawMessage) error {
				t, err := decodeTerm(value, raw)
				if err != nil {
					return fmt.Errorf("column %q: %w", column, err)
				}
				out.SetTerm(column, t)
				return nil
			})
		default:
			return fmt.Errorf("column %q: expected string or object", column)
		}
	})
	if err != nil {
		return fmt.Errorf("search: decode structured search: %w", err)
	}
	*s = out
	return nil
}

func decodeTerm(value string, raw json.RawMessage) (Term, error) {
	switch firstByte(raw) {
	case '"':
		var logical LogicalOperator
		if err := json.Unmarshal(raw, &logical); err != nil {
			return Term{}, err
		}
		return Term{Value: value, Logical: logical}, nil
	case '{':
		var op operation
		if err := json.Unmarshal(raw, &op); err != nil {
			return Term{}, err
		}
		return Term{Value: value, Logical: op.Logical, Op: op.Op, Detailed: true}, nil
	default:
		return Term{}, fmt.Errorf("term %q: expected string or object", value)
	}
}

// decodeObject walks the members of a JSON object in document order.
func decodeObject(data []byte, member func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := member(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func firstByte(raw json.RawMessage) byte {
	b := bytes.TrimLeft(raw, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
