// Package series accumulates parsed records into aligned numeric series.
package series

import (
	"errors"
	"fmt"
	"math"

	"github.com/GKD-RM-Lab/logplot/src/logparse"
)

// ErrEmptyDataset is returned when ingestion produced no records.
var ErrEmptyDataset = errors.New("no matching records in log")

// Transform is a named per-field step applied once when a value is stored.
type Transform struct {
	Name  string
	Apply func(float64) float64
}

var (
	Identity = Transform{Name: "identity", Apply: func(v float64) float64 { return v }}
	// Negate flips the sign; the friction-wheel logs record the left wheel with inverted sign.
	Negate = Transform{Name: "negate", Apply: func(v float64) float64 { return -v }}
)

// TransformByName resolves "", "identity" and "negate".
func TransformByName(name string) (Transform, error) {
	switch name {
	case "", Identity.Name:
		return Identity, nil
	case Negate.Name:
		return Negate, nil
	default:
		return Transform{}, fmt.Errorf("unknown transform %q", name)
	}
}

// Table maps field names to their transform; missing fields use Identity.
type Table map[string]Transform

func (t Table) lookup(field string) Transform {
	if tr, ok := t[field]; ok && tr.Apply != nil {
		return tr
	}
	return Identity
}

// Store appends records into parallel sequences. All sequences always have the same length.
type Store struct {
	fields []string
	index  map[string]int
	tr     []Transform
	values [][]float64
}

// NewStore prepares a store for the given fields.
func NewStore(fields []string, table Table) *Store {
	s := &Store{
		fields: append([]string(nil), fields...),
		index:  make(map[string]int, len(fields)),
		tr:     make([]Transform, len(fields)),
		values: make([][]float64, len(fields)),
	}
	for i, f := range fields {
		s.index[f] = i
		s.tr[i] = table.lookup(f)
	}
	return s
}

// Append stores one record. A record that does not carry exactly the store's fields is rejected
// before anything is written, so alignment is kept.
func (s *Store) Append(rec logparse.Record) error {
	if rec.Len() != len(s.fields) {
		return fmt.Errorf("record has %d fields, store expects %d", rec.Len(), len(s.fields))
	}
	row := make([]float64, len(s.fields))
	filled := make([]bool, len(s.fields))
	for i := 0; i < rec.Len(); i++ {
		name, v := rec.Field(i)
		j, ok := s.index[name]
		if !ok || filled[j] {
			return fmt.Errorf("unexpected field %q in record", name)
		}
		row[j] = s.tr[j].Apply(v)
		filled[j] = true
	}
	for j, v := range row {
		s.values[j] = append(s.values[j], v)
	}
	return nil
}

// Len is the number of stored records.
func (s *Store) Len() int {
	if len(s.values) == 0 {
		return 0
	}
	return len(s.values[0])
}

// Set freezes the store contents. ErrEmptyDataset when nothing was appended.
func (s *Store) Set() (*Set, error) {
	if s.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	out := &Set{fields: append([]string(nil), s.fields...), values: make(map[string][]float64, len(s.fields))}
	for i, f := range s.fields {
		out.values[f] = append([]float64(nil), s.values[i]...)
	}
	out.n = s.Len()
	return out, nil
}

// Ingest appends records in order and returns the resulting set.
func Ingest(records []logparse.Record, fields []string, table Table) (*Set, error) {
	st := NewStore(fields, table)
	for i, r := range records {
		if err := st.Append(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return st.Set()
}

// Set is a read-only collection of aligned series indexed by record number.
type Set struct {
	fields []string
	values map[string][]float64
	n      int
}

// Fields returns field names in declaration order.
func (s *Set) Fields() []string { return append([]string(nil), s.fields...) }

// Len is the shared length of every series.
func (s *Set) Len() int { return s.n }

// Values returns the series for field. Callers must not modify it.
func (s *Set) Values(field string) []float64 { return s.values[field] }

// Window returns the half-open index range [from, to) of field, clamped to the series bounds.
func (s *Set) Window(field string, from, to int) []float64 {
	from, to = clampRange(from, to, s.n)
	return s.values[field][from:to]
}

// Bounds returns min and max over all fields within [from, to). ok is false when the range is empty
// or holds only NaNs.
func (s *Set) Bounds(from, to int) (lo, hi float64, ok bool) {
	from, to = clampRange(from, to, s.n)
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, f := range s.fields {
		for _, v := range s.values[f][from:to] {
			if math.IsNaN(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			ok = true
		}
	}
	return lo, hi, ok
}

func clampRange(from, to, n int) (int, int) {
	from = min(max(from, 0), n)
	to = min(max(to, 0), n)
	if from > to {
		from = to
	}
	return from, to
}
