package query

import (
	"strings"

	"plot-query-service/internal/models"

	"golang.org/x/text/cases"
)

// fold returns the case-folded form of s. Casers must not be shared
// between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Filter returns the plots that satisfy every predicate in spec, in their
// original order. With no predicates it returns records unchanged. Neither
// argument is modified.
func Filter(records []models.Plot, spec FilterSpec) []models.Plot {
	if spec.IsEmpty() {
		return records
	}

	m := newMatcher(spec)
	out := make([]models.Plot, 0, len(records))
	for _, p := range records {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

type matcher struct {
	spec   FilterSpec
	caser  cases.Caser
	needle string
}

func newMatcher(spec FilterSpec) *matcher {
	m := &matcher{spec: spec}
	if spec.LocationSubstring != nil {
		m.caser = cases.Fold()
		m.needle = m.caser.String(*spec.LocationSubstring)
	}
	return m
}

func (m *matcher) match(p models.Plot) bool {
	if m.spec.MinPrice != nil && !(p.Price >= *m.spec.MinPrice) {
		return false
	}
	if m.spec.MaxPrice != nil && !(p.Price <= *m.spec.MaxPrice) {
		return false
	}
	if m.spec.LocationSubstring != nil && !strings.Contains(m.caser.String(p.Location), m.needle) {
		return false
	}
	return true
}
