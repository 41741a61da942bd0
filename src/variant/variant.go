// Package variant defines the supported log line layouts and how each is plotted.
package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GKD-RM-Lab/logplot/src/logparse"
	"github.com/GKD-RM-Lab/logplot/src/series"
)

// Tab palette, hex without leading #.
const (
	ColorBlue   = "1f77b4"
	ColorOrange = "ff7f0e"
	ColorGreen  = "2ca02c"
	ColorRed    = "d62728"
)

// Field describes one plotted series.
type Field struct {
	Name      string
	Label     string
	Color     string // hex, no leading #
	Transform series.Transform
}

// Variant binds a line pattern to its fields, transforms and output conventions.
type Variant struct {
	Name    string
	Pattern *logparse.Pattern
	Fields  []Field
	// Prefix is the output image name prefix: <prefix>_plot_<timestamp>.png.
	Prefix string
	// DefaultLog is the log path used when none is configured.
	DefaultLog string
	// Detail adds the first-window detail panel to static figures.
	Detail bool
	// Title of the overview panel; %s is replaced by the log path when present.
	Title string
	// Example is a sample matching line, shown when a log yields no data.
	Example string
}

// FieldNames returns the field names in pattern order.
func (v *Variant) FieldNames() []string {
	out := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		out[i] = f.Name
	}
	return out
}

// Table returns the per-field transform table for ingestion.
func (v *Variant) Table() series.Table {
	t := series.Table{}
	for _, f := range v.Fields {
		if f.Transform.Apply != nil {
			t[f.Name] = f.Transform
		}
	}
	return t
}

// Field looks up a field by name.
func (v *Variant) Field(name string) (Field, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// OverviewTitle renders Title for the given log path.
func (v *Variant) OverviewTitle(logPath string) string {
	if v.Title == "" {
		return "Overview of All Data"
	}
	if strings.Contains(v.Title, "%s") {
		return fmt.Sprintf(v.Title, logPath)
	}
	return v.Title
}

var builtins = map[string]*Variant{
	"fric": {
		Name:    "fric",
		Pattern: logparse.MustPattern(`left:\s*(-?\d+\.\d+),\s*right:\s*(-?\d+\.\d+)`, "left", "right"),
		Fields: []Field{
			{Name: "left", Label: "left", Color: ColorBlue, Transform: series.Negate},
			{Name: "right", Label: "right", Color: ColorOrange, Transform: series.Identity},
		},
		Prefix:     "fric",
		DefaultLog: "fric_log.txt",
		Detail:     true,
		Example:    "left: x, right: y",
	},
	"fric_set": {
		Name:    "fric_set",
		Pattern: logparse.MustPattern(`set:\s*(-?\d+\.\d+),\s*left:\s*(-?\d+\.\d+),\s*right:\s*(-?\d+\.\d+)`, "set", "left", "right"),
		Fields: []Field{
			{Name: "set", Label: "set", Color: ColorGreen, Transform: series.Identity},
			{Name: "left", Label: "left(inverted)", Color: ColorBlue, Transform: series.Negate},
			{Name: "right", Label: "right", Color: ColorOrange, Transform: series.Identity},
		},
		Prefix:     "fric",
		DefaultLog: "../log/fric_log.txt",
		Detail:     true,
		Example:    "set: 0.0, left: 0.0, right: -0.0012401",
	},
	"trigger": {
		Name:    "trigger",
		Pattern: logparse.MustPattern(`set:\s*(-?\d+\.?\d*),\s*trigger:\s*(-?\d+\.?\d*)`, "set", "trigger"),
		Fields: []Field{
			{Name: "set", Label: "set", Color: ColorGreen, Transform: series.Identity},
			{Name: "trigger", Label: "trigger", Color: ColorRed, Transform: series.Identity},
		},
		Prefix:     "set_trigger",
		DefaultLog: "../log/trigger_log.txt",
		Detail:     false,
		Title:      "Overview of Set and Trigger Data (%s)",
		Example:    "set: -0.05, trigger: -20",
	},
}

// aliases keep the A/B/C letters working.
var aliases = map[string]string{"a": "fric", "b": "fric_set", "c": "trigger"}

// Lookup returns a built-in variant by name or letter.
func Lookup(name string) (*Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[key]; ok {
		key = a
	}
	v, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return v, nil
}

// Names lists built-in variant names, sorted.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for k := range builtins {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
