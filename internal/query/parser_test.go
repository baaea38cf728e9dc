package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// ==========================
// Parse
// ==========================

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]string
		expected FilterSpec
	}{
		{name: "nil params", raw: nil, expected: FilterSpec{}},
		{name: "no params", raw: map[string]string{}, expected: FilterSpec{}},
		{
			name:     "all params",
			raw:      map[string]string{"minPrice": "150000", "maxPrice": "250000", "location": "Valley"},
			expected: FilterSpec{MinPrice: ptr(150000.0), MaxPrice: ptr(250000.0), LocationSubstring: ptr("Valley")},
		},
		{name: "not a number", raw: map[string]string{"minPrice": "abc"}, expected: FilterSpec{}},
		{name: "trailing garbage", raw: map[string]string{"maxPrice": "150000abc"}, expected: FilterSpec{}},
		{name: "NaN", raw: map[string]string{"minPrice": "NaN"}, expected: FilterSpec{}},
		{name: "infinity", raw: map[string]string{"maxPrice": "Inf"}, expected: FilterSpec{}},
		{name: "overflow", raw: map[string]string{"maxPrice": "1e400"}, expected: FilterSpec{}},
		{name: "digit separators", raw: map[string]string{"minPrice": "1_000"}, expected: FilterSpec{}},
		{name: "hex float", raw: map[string]string{"maxPrice": "0x1p4"}, expected: FilterSpec{}},
		{name: "hex integer", raw: map[string]string{"maxPrice": "0X10"}, expected: FilterSpec{}},
		{name: "spelled infinity", raw: map[string]string{"maxPrice": "+Infinity"}, expected: FilterSpec{}},
		{name: "leading dot", raw: map[string]string{"minPrice": ".5"}, expected: FilterSpec{MinPrice: ptr(0.5)}},
		{name: "trailing dot", raw: map[string]string{"minPrice": "5."}, expected: FilterSpec{MinPrice: ptr(5.0)}},
		{name: "explicit plus", raw: map[string]string{"minPrice": "+5"}, expected: FilterSpec{MinPrice: ptr(5.0)}},
		{name: "negative accepted", raw: map[string]string{"minPrice": "-5"}, expected: FilterSpec{MinPrice: ptr(-5.0)}},
		{name: "decimal", raw: map[string]string{"minPrice": "199999.5"}, expected: FilterSpec{MinPrice: ptr(199999.5)}},
		{name: "exponent", raw: map[string]string{"maxPrice": "2.5e5"}, expected: FilterSpec{MaxPrice: ptr(250000.0)}},
		{name: "surrounding spaces", raw: map[string]string{"minPrice": " 100 "}, expected: FilterSpec{MinPrice: ptr(100.0)}},
		{name: "empty price", raw: map[string]string{"minPrice": ""}, expected: FilterSpec{}},
		{name: "empty location", raw: map[string]string{"location": ""}, expected: FilterSpec{}},
		{name: "location case preserved", raw: map[string]string{"location": "MeTrO"}, expected: FilterSpec{LocationSubstring: ptr("MeTrO")}},
		{name: "whitespace location kept", raw: map[string]string{"location": " "}, expected: FilterSpec{LocationSubstring: ptr(" ")}},
		{name: "unknown keys ignored", raw: map[string]string{"sort": "price", "page": "2"}, expected: FilterSpec{}},
		{name: "inverted range kept", raw: map[string]string{"minPrice": "300000", "maxPrice": "100000"}, expected: FilterSpec{MinPrice: ptr(300000.0), MaxPrice: ptr(100000.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.raw))
		})
	}
}

func TestParse_DoesNotAliasInput(t *testing.T) {
	raw := map[string]string{"location": "Valley"}
	spec := Parse(raw)
	raw["location"] = "Metro"
	assert.Equal(t, "Valley", *spec.LocationSubstring)
}

// ==========================
// ParseStrict
// ==========================

func TestParseStrict(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		spec, err := ParseStrict(map[string]string{"minPrice": "1", "location": "x"})
		require.NoError(t, err)
		assert.Equal(t, FilterSpec{MinPrice: ptr(1.0), LocationSubstring: ptr("x")}, spec)
	})

	t.Run("empty price is not an error", func(t *testing.T) {
		spec, err := ParseStrict(map[string]string{"minPrice": "", "maxPrice": "  "})
		require.NoError(t, err)
		assert.True(t, spec.IsEmpty())
	})

	t.Run("one malformed price", func(t *testing.T) {
		spec, err := ParseStrict(map[string]string{"minPrice": "abc", "maxPrice": "10"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidFilterFormat))
		assert.Contains(t, err.Error(), `minPrice="abc"`)
		assert.NotContains(t, err.Error(), "maxPrice")
		assert.Equal(t, ptr(10.0), spec.MaxPrice)
		assert.Nil(t, spec.MinPrice)
	})

	t.Run("go literal syntax is malformed", func(t *testing.T) {
		_, err := ParseStrict(map[string]string{"minPrice": "1_000", "maxPrice": "0x1p4"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `minPrice="1_000"`)
		assert.Contains(t, err.Error(), `maxPrice="0x1p4"`)
	})

	t.Run("every malformed price is named", func(t *testing.T) {
		_, err := ParseStrict(map[string]string{"minPrice": "abc", "maxPrice": "NaN"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `minPrice="abc"`)
		assert.Contains(t, err.Error(), `maxPrice="NaN"`)
	})
}

// ==========================
// FilterSpec
// ==========================

func TestFilterSpec_Key(t *testing.T) {
	a := Parse(map[string]string{"minPrice": "100", "location": "Valley"})
	b := Parse(map[string]string{"minPrice": "100.0", "location": "VALLEY"})
	c := Parse(map[string]string{"maxPrice": "100", "location": "Valley"})

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, FilterSpec{}.Key(), FilterSpec{LocationSubstring: ptr("")}.Key())
}

func TestFilterSpec_Fields(t *testing.T) {
	spec := Parse(map[string]string{"maxPrice": "5", "location": "Lake"})
	assert.Equal(t, map[string]interface{}{"maxPrice": 5.0, "location": "Lake"}, spec.Fields())
	assert.Empty(t, FilterSpec{}.Fields())
}
