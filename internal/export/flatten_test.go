package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Axewc/reverse-geocoding/internal/model"
)

func TestFlatten_NestedBlocksBecomePrefixedKeys(t *testing.T) {
	lat := 40.42
	rec := &model.AddressRecord{
		Address: "Calle Gran Via 25",
		Timezone: &model.TimezoneInfo{
			Name:      "Europe/Madrid",
			OffsetSec: 3600,
		},
	}
	rec.Lat = &lat

	row, err := Flatten(rec)
	require.NoError(t, err)

	assert.Equal(t, "Calle Gran Via 25", row.Value("address"))
	assert.Equal(t, "Europe/Madrid", row.Value("timezone_name"))
	assert.Nil(t, row.Value("timezone"), "the nested object itself is replaced")

	sec, err := cellString(row.Value("timezone_offset_sec"))
	require.NoError(t, err)
	assert.Equal(t, "3600", sec)
}

func TestFlatten_KeyOrderFollowsDeclaration(t *testing.T) {
	type sample struct {
		First  string `json:"first"`
		Nested struct {
			A string `json:"a"`
			B string `json:"b"`
		} `json:"nested"`
		Last string `json:"last"`
	}

	row, err := Flatten(sample{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "nested_a", "nested_b", "last"}, row.Keys())
}

func TestFlatten_ArraysStayStructured(t *testing.T) {
	type sample struct {
		Suggestions []string `json:"suggestions"`
	}

	row, err := Flatten(sample{Suggestions: []string{"a", "b"}})
	require.NoError(t, err)

	cell, err := cellString(row.Value("suggestions"))
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, cell)
}

func TestFlatten_NotAnObject(t *testing.T) {
	_, err := Flatten([]string{"not", "an", "object"})
	require.Error(t, err)
}

func TestHeader_UnionFirstSeenOrder(t *testing.T) {
	type a struct {
		X string `json:"x"`
		Y string `json:"y"`
	}
	type b struct {
		Y string `json:"y"`
		Z string `json:"z"`
	}

	rowA, err := Flatten(a{})
	require.NoError(t, err)
	rowB, err := Flatten(b{})
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "z"}, Header([]*Row{rowA, rowB}))
}

func TestCellString_Scalars(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"texto", "texto"},
		{true, "true"},
		{float64(0.9), "0.9"},
		{float64(3600), "3600"},
	} {
		got, err := cellString(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
