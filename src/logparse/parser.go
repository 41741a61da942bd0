// Package logparse extracts named numeric fields from controller log lines.
package logparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Pattern is a compiled field pattern: one capture group per named field, in order.
type Pattern struct {
	re     *regexp.Regexp
	fields []string
}

// NewPattern compiles expr and checks that it has exactly one capture group per field.
func NewPattern(expr string, fields ...string) (*Pattern, error) {
	if len(fields) == 0 {
		return nil, errors.New("at least one field is required")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			return nil, errors.New("field names must not be empty")
		}
		if _, dup := seen[f]; dup {
			return nil, fmt.Errorf("duplicate field %q", f)
		}
		seen[f] = struct{}{}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	if re.NumSubexp() != len(fields) {
		return nil, fmt.Errorf("pattern has %d capture groups, but %d fields are declared", re.NumSubexp(), len(fields))
	}
	return &Pattern{re: re, fields: append([]string(nil), fields...)}, nil
}

// MustPattern is NewPattern for built-in patterns; it panics on error.
func MustPattern(expr string, fields ...string) *Pattern {
	p, err := NewPattern(expr, fields...)
	if err != nil {
		panic(err)
	}
	return p
}

// Fields returns the declared field names in capture-group order.
func (p *Pattern) Fields() []string { return append([]string(nil), p.fields...) }

// String returns the source expression.
func (p *Pattern) String() string { return p.re.String() }

// MalformedMatchError reports a line the pattern matched whose captured text is not a number.
type MalformedMatchError struct {
	Field string
	Text  string
	Err   error
}

func (e *MalformedMatchError) Error() string {
	return fmt.Sprintf("field %s: cannot convert %q: %v", e.Field, e.Text, e.Err)
}

func (e *MalformedMatchError) Unwrap() error { return e.Err }

// Parse searches line for the pattern (anywhere in the line). Lines without a match return ok=false
// and no error. A match whose captured text does not convert yields a *MalformedMatchError.
func (p *Pattern) Parse(line string) (Record, bool, error) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false, nil
	}
	vals := make([]float64, len(p.fields))
	for i, f := range p.fields {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return Record{}, false, &MalformedMatchError{Field: f, Text: m[i+1], Err: err}
		}
		vals[i] = v
	}
	return Record{fields: p.fields, values: vals}, true, nil
}

// Record is one parsed line: one value per declared field.
type Record struct {
	fields []string
	values []float64
}

// NewRecord builds a record from parallel name/value slices.
func NewRecord(fields []string, values []float64) Record {
	return Record{fields: append([]string(nil), fields...), values: append([]float64(nil), values...)}
}

// Len is the record arity.
func (r Record) Len() int { return len(r.values) }

// Field returns the name and value at position i.
func (r Record) Field(i int) (string, float64) { return r.fields[i], r.values[i] }

// Get returns the value for name.
func (r Record) Get(name string) (float64, bool) {
	for i, f := range r.fields {
		if f == name {
			return r.values[i], true
		}
	}
	return 0, false
}
