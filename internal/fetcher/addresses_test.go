package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAddresses_FullColumns(t *testing.T) {
	input := "id,address,lat,lng\nr1,Calle Gran Via 25,40.42,-3.70\nr2,Plaza Mayor 1,,\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "Calle Gran Via 25", records[0].Address)
	require.NotNil(t, records[0].Lat)
	assert.Equal(t, 40.42, *records[0].Lat)
	require.NotNil(t, records[0].Lng)
	assert.Equal(t, -3.70, *records[0].Lng)

	assert.Equal(t, "r2", records[1].ID)
	assert.Nil(t, records[1].Lat)
	assert.Nil(t, records[1].Lng)
}

func TestReadAddresses_AddressOnly(t *testing.T) {
	input := "address\nCalle Mayor 5, Madrid\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Calle Mayor 5, Madrid", records[0].Address)
	assert.Empty(t, records[0].ID)
}

func TestReadAddresses_UnquotedCommaInTrailingAddress(t *testing.T) {
	input := "id,address\nr1,Calle Mayor 5, Centro, Madrid\nr2,Plaza Mayor 1\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Calle Mayor 5, Centro, Madrid", records[0].Address)
	assert.Equal(t, "Plaza Mayor 1", records[1].Address)
}

func TestReadAddresses_QuotedCommaMidColumn(t *testing.T) {
	input := "address,lat,lng\n\"Calle Mayor 5, Madrid\",40.42,-3.70\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Calle Mayor 5, Madrid", records[0].Address)
	require.NotNil(t, records[0].Lat)
	assert.Equal(t, 40.42, *records[0].Lat)
}

func TestReadAddresses_HalfCoordinatePairDropped(t *testing.T) {
	input := "address,latitude,longitude\nGran Via,40.42,\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Lat, "latitude without longitude is not a coordinate")
	assert.Nil(t, records[0].Lng)
}

func TestReadAddresses_InvalidCoordinateIgnored(t *testing.T) {
	input := "address,lat,lon\nGran Via,north,-3.7\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Lat)
	assert.Equal(t, "Gran Via", records[0].Address)
}

func TestReadAddresses_EmptyRowsDropped(t *testing.T) {
	input := "id,address,lat,lng\n,,,\nr2,Plaza Mayor 1,,\n"

	records, err := ReadAddresses(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r2", records[0].ID)
}

func TestReadAddresses_MissingAddressColumn(t *testing.T) {
	_, err := ReadAddresses(context.Background(), strings.NewReader("lat,lng\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address column")
}
