package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"100":        "100",
		" 12.5 ":     "12.5",
		"0,75":       "0.75",
		"0":          "0",
		"1 200,50":   "1200.5",
		"0.1":        "0.1",
		"1000000.01": "1000000.01",
	}
	for in, want := range valid {
		got, ok := ParseAmount(in)
		if assert.True(t, ok, in) {
			assert.Equal(t, want, Amount(got), in)
		}
	}

	for _, in := range []string{"", "abc", "-5", "1,2,3", "1e3", "12.5.1", "NaN"} {
		_, ok := ParseAmount(in)
		assert.False(t, ok, in)
	}
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "92.35", Fixed(decimal.RequireFromString("92.345"), 2))
	assert.Equal(t, "0.9210", Fixed(decimal.RequireFromString("0.921"), 4))
}

func TestPointers(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	require.NotNil(t, OptionalString("ivan"))
	assert.Equal(t, "ivan", *OptionalString("ivan"))
}
