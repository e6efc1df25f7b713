package filter

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Range is an inclusive [Min, Max] facet value.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Normalize swaps the bounds when Min > Max.
func (r Range) Normalize() Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// Clamp keeps both bounds within def.
func (r Range) Clamp(def Range) Range {
	r.Min = min(max(r.Min, def.Min), def.Max)
	r.Max = min(max(r.Max, def.Min), def.Max)
	return r
}

// From returns the lower bound if it differs from the default one.
func (r Range) From(def Range) (int, bool) {
	return r.Min, r.Min != def.Min
}

// To returns the upper bound if it differs from the default one.
func (r Range) To(def Range) (int, bool) {
	return r.Max, r.Max != def.Max
}

func (r Range) IsDefault(def Range) bool {
	return r == def
}

// Label renders the range the way the filter chips show it: "Any" when both
// bounds are default, "No Min"/"No Max" for a single open bound.
func (r Range) Label(def Range, format func(int) string) string {
	if r.IsDefault(def) {
		return "Any"
	}

	minLabel := "No Min"
	if r.Min != def.Min {
		minLabel = format(r.Min)
	}

	maxLabel := "No Max"
	if r.Max != def.Max {
		maxLabel = format(r.Max)
	}

	return fmt.Sprintf("%s - %s", minLabel, maxLabel)
}

func FormatPrice(v int) string {
	return "$" + humanize.Comma(int64(v))
}

func FormatCount(v int) string {
	return fmt.Sprintf("%d", v)
}
