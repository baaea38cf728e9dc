package query

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFilterFormat is returned by ParseStrict for a price parameter
// that is present but not a finite number.
var ErrInvalidFilterFormat = errors.New("invalid filter format")

// decimalNumber is the accepted price grammar: an optional sign, decimal
// digits with an optional fraction, and an optional exponent. Go literal
// forms such as 1_000 or 0x1p4 do not match.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Parse builds a FilterSpec from raw parameters. It never fails: a price
// that does not parse as a finite number is treated as absent, and an empty
// location is absent. Unknown keys are ignored.
func Parse(raw map[string]string) FilterSpec {
	spec, _ := parse(raw)
	return spec
}

// ParseStrict is Parse, except that malformed prices are reported. The error
// wraps ErrInvalidFilterFormat and names every offending parameter; the
// returned spec still carries the fields that did parse.
func ParseStrict(raw map[string]string) (FilterSpec, error) {
	spec, invalid := parse(raw)
	if len(invalid) > 0 {
		return spec, fmt.Errorf("%w: %s", ErrInvalidFilterFormat, strings.Join(invalid, ", "))
	}
	return spec, nil
}

func parse(raw map[string]string) (FilterSpec, []string) {
	var (
		spec    FilterSpec
		invalid []string
	)

	if v, ok := raw[ParamMinPrice]; ok {
		n, valid := parseNumber(v)
		switch {
		case n != nil:
			spec.MinPrice = n
		case !valid:
			invalid = append(invalid, fmt.Sprintf("%s=%q", ParamMinPrice, v))
		}
	}
	if v, ok := raw[ParamMaxPrice]; ok {
		n, valid := parseNumber(v)
		switch {
		case n != nil:
			spec.MaxPrice = n
		case !valid:
			invalid = append(invalid, fmt.Sprintf("%s=%q", ParamMaxPrice, v))
		}
	}
	if v, ok := raw[ParamLocation]; ok && v != "" {
		loc := v
		spec.LocationSubstring = &loc
	}

	return spec, invalid
}

// parseNumber returns (nil, true) for a blank value and (nil, false) for a
// value that is not a finite decimal number.
func parseNumber(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if !decimalNumber.MatchString(s) {
		return nil, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, false
	}
	return &n, true
}
