package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCorrections_CommonTypos(t *testing.T) {
	// The typo-corrected variant comes first; the normalized form of the
	// original (typo intact, title-cased) follows because it differs from
	// both the input and the correction.
	got := SuggestCorrections("callle mayor 5", 3)
	assert.Equal(t, []string{"Calle Mayor 5", "Callle Mayor 5"}, got)

	got = SuggestCorrections("stret of dreams", 3)
	assert.Equal(t, []string{"Street Of Dreams", "Stret Of Dreams"}, got)
}

func TestSuggestCorrections_Compounding(t *testing.T) {
	// Two typos: each hit appends the cumulative correction.
	got := SuggestCorrections("callle near the plasa", 5)
	assert.Equal(t, []string{
		"Calle Near The Plasa",
		"Calle Near The Plaza",
		"Callle Near The Plasa",
	}, got)
}

func TestSuggestCorrections_AppendsNormalizedVariant(t *testing.T) {
	// No typos, but the abbreviation expands under default-language
	// normalization.
	got := SuggestCorrections("c/ gran via 25", 3)
	assert.Equal(t, []string{"Calle Gran Via 25"}, got)
}

func TestSuggestCorrections_Cap(t *testing.T) {
	got := SuggestCorrections("callle plasa avendia stret", 2)
	assert.Len(t, got, 2)
}

func TestSuggestCorrections_Empty(t *testing.T) {
	assert.Nil(t, SuggestCorrections("", 3))
}

func TestSuggestCorrections_AlreadyNormalized(t *testing.T) {
	// No typos and the input is already in normalized form: nothing to
	// suggest.
	assert.Empty(t, SuggestCorrections("Calle Gran Via", 3))
}
