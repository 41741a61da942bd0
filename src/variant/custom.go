package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/GKD-RM-Lab/logplot/src/logparse"
	"github.com/GKD-RM-Lab/logplot/src/series"
)

// FieldDef is the configuration form of a Field.
type FieldDef struct {
	Name      string `yaml:"name" toml:"name"`
	Label     string `yaml:"label" toml:"label"`
	Color     string `yaml:"color" toml:"color"`
	Transform string `yaml:"transform" toml:"transform"`
}

// Def is the configuration form of a Variant.
type Def struct {
	Name       string     `yaml:"name" toml:"name"`
	Pattern    string     `yaml:"pattern" toml:"pattern"`
	Fields     []FieldDef `yaml:"fields" toml:"fields"`
	Prefix     string     `yaml:"prefix" toml:"prefix"`
	DefaultLog string     `yaml:"default_log" toml:"default_log"`
	Detail     bool       `yaml:"detail" toml:"detail"`
	Title      string     `yaml:"title" toml:"title"`
	Example    string     `yaml:"example" toml:"example"`
}

var palette = []string{ColorBlue, ColorOrange, ColorGreen, ColorRed}

// FromDef validates d and builds a Variant from it.
func FromDef(d Def) (*Variant, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	if d.Pattern == "" {
		return nil, errors.New("pattern is required")
	}
	if len(d.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}
	names := make([]string, len(d.Fields))
	fields := make([]Field, len(d.Fields))
	for i, fd := range d.Fields {
		tr, err := series.TransformByName(strings.ToLower(strings.TrimSpace(fd.Transform)))
		if err != nil {
			return nil, fmt.Errorf("fields[%d] (%s): %w", i, fd.Name, err)
		}
		color := strings.TrimPrefix(strings.TrimSpace(fd.Color), "#")
		if color == "" {
			color = palette[i%len(palette)]
		}
		label := fd.Label
		if label == "" {
			label = fd.Name
		}
		names[i] = fd.Name
		fields[i] = Field{Name: fd.Name, Label: label, Color: color, Transform: tr}
	}
	p, err := logparse.NewPattern(d.Pattern, names...)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	prefix := d.Prefix
	if prefix == "" {
		prefix = name
	}
	return &Variant{
		Name:       name,
		Pattern:    p,
		Fields:     fields,
		Prefix:     prefix,
		DefaultLog: d.DefaultLog,
		Detail:     d.Detail,
		Title:      d.Title,
		Example:    d.Example,
	}, nil
}

// Registry resolves variant names against configured variants first, then built-ins.
type Registry struct {
	custom map[string]*Variant
}

// NewRegistry builds a registry from configured definitions.
func NewRegistry(defs []Def) (*Registry, error) {
	r := &Registry{custom: map[string]*Variant{}}
	for i, d := range defs {
		v, err := FromDef(d)
		if err != nil {
			return nil, fmt.Errorf("variants[%d] (%s): %w", i, d.Name, err)
		}
		key := strings.ToLower(v.Name)
		if _, dup := r.custom[key]; dup {
			return nil, fmt.Errorf("variants[%d]: duplicate name %q", i, v.Name)
		}
		r.custom[key] = v
	}
	return r, nil
}

// Lookup finds a variant by name.
func (r *Registry) Lookup(name string) (*Variant, error) {
	if r != nil {
		if v, ok := r.custom[strings.ToLower(strings.TrimSpace(name))]; ok {
			return v, nil
		}
	}
	return Lookup(name)
}

// All returns built-ins followed by configured variants.
func (r *Registry) All() []*Variant {
	var out []*Variant
	for _, n := range Names() {
		out = append(out, builtins[n])
	}
	if r == nil {
		return out
	}
	var keys []string
	for k := range r.custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, r.custom[k])
	}
	return out
}
