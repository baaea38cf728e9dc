// Package query turns loosely typed request parameters into a FilterSpec and
// applies it to an ordered list of plots.
package query

import (
	"strconv"
	"strings"
)

// Parameter names accepted by every transport.
const (
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamLocation = "location"
)

// FilterSpec holds the optional predicates of one query. A nil field is
// absent. MinPrice > MaxPrice is allowed and matches nothing.
type FilterSpec struct {
	MinPrice          *float64
	MaxPrice          *float64
	LocationSubstring *string
}

// IsEmpty reports whether no predicate is set.
func (s FilterSpec) IsEmpty() bool {
	return s.MinPrice == nil && s.MaxPrice == nil && s.LocationSubstring == nil
}

// Key is a canonical encoding of s. Specs that select the same plots from
// any catalog share a key; the location is compared case-folded.
func (s FilterSpec) Key() string {
	var b strings.Builder
	b.WriteString("min=")
	if s.MinPrice != nil {
		b.WriteString(strconv.FormatFloat(*s.MinPrice, 'g', -1, 64))
	}
	b.WriteString(";max=")
	if s.MaxPrice != nil {
		b.WriteString(strconv.FormatFloat(*s.MaxPrice, 'g', -1, 64))
	}
	b.WriteString(";loc=")
	if s.LocationSubstring != nil {
		b.WriteString(strconv.Quote(fold(*s.LocationSubstring)))
	}
	return b.String()
}

// Fields renders s for structured logs.
func (s FilterSpec) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if s.MinPrice != nil {
		fields["minPrice"] = *s.MinPrice
	}
	if s.MaxPrice != nil {
		fields["maxPrice"] = *s.MaxPrice
	}
	if s.LocationSubstring != nil {
		fields["location"] = *s.LocationSubstring
	}
	return fields
}
