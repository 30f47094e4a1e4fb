package enhance

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Axewc/reverse-geocoding/internal/model"
	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

func TestEnrich_WithExplicitCoordinates(t *testing.T) {
	fake := &fakeGeocoder{
		reverseFn: func(_, _ float64, _ opencage.LookupOptions) ([]opencage.Candidate, error) {
			return candidates(madridCandidate()), nil
		},
	}
	e := New(fake)

	rec := &model.AddressRecord{Address: "gran via"}
	e.Enrich(context.Background(), rec, &model.Coordinates{Lat: 40.4, Lng: -3.7}, Options{})

	assert.Equal(t, 0, fake.forwardCalls, "explicit coordinates skip the forward lookup")
	require.NotNil(t, rec.Timezone)
	assert.Equal(t, "Europe/Madrid", rec.Timezone.Name)
	assert.Equal(t, 3600, rec.Timezone.OffsetSec)

	require.NotNil(t, rec.AdministrativeLevels)
	assert.Equal(t, "Spain", rec.AdministrativeLevels.Country)
	assert.Equal(t, "es", rec.AdministrativeLevels.CountryCode)
	assert.Equal(t, "Madrid", rec.AdministrativeLevels.City)
	assert.Equal(t, "", rec.AdministrativeLevels.Village, "absent levels default to empty")

	require.NotNil(t, rec.GeographicInfo)
	assert.Equal(t, "28013", rec.GeographicInfo.Postcode)
	assert.Equal(t, "Europe", rec.GeographicInfo.Continent)
	assert.Equal(t, 34, rec.GeographicInfo.CallingCode)
	assert.Equal(t, "ezjmgtwu", rec.GeographicInfo.Geohash)

	require.NotNil(t, rec.QualityInfo)
	assert.Equal(t, "30TVK4074", rec.QualityInfo.MGRS)
	assert.Equal(t, "IN80dk", rec.QualityInfo.Maidenhead)

	require.NotNil(t, rec.CoordinateSystems, "DMS annotation present")
	assert.Equal(t, "30TVK4074", rec.CoordinateSystems.MGRS)

	assert.Equal(t, "1.0", rec.EnrichmentVersion)
	ts, err := time.Parse(time.RFC3339, rec.EnrichmentTimestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
	assert.Empty(t, rec.EnrichmentError)
}

func TestEnrich_ResolvesCoordinatesFromAddress(t *testing.T) {
	fake := &fakeGeocoder{
		forwardFn: func(query string, _ opencage.LookupOptions) ([]opencage.Candidate, error) {
			assert.Equal(t, "gran via madrid", query)
			return candidates(madridCandidate()), nil
		},
		reverseFn: func(lat, lng float64, _ opencage.LookupOptions) ([]opencage.Candidate, error) {
			assert.InDelta(t, 40.4201, lat, 1e-6)
			assert.InDelta(t, -3.7058, lng, 1e-6)
			return candidates(madridCandidate()), nil
		},
	}
	e := New(fake)

	rec := &model.AddressRecord{Address: "gran via madrid"}
	e.Enrich(context.Background(), rec, nil, Options{})

	assert.Equal(t, 1, fake.forwardCalls)
	assert.Equal(t, 1, fake.reverseCalls)
	require.NotNil(t, rec.Coordinates)
	assert.InDelta(t, 40.4201, rec.Coordinates.Lat, 1e-6)
	require.NotNil(t, rec.AdministrativeLevels)
}

func TestEnrich_NoCoordinatesNoAddress(t *testing.T) {
	fake := &fakeGeocoder{}
	e := New(fake)

	rec := &model.AddressRecord{}
	e.Enrich(context.Background(), rec, nil, Options{})

	assert.Equal(t, 0, fake.forwardCalls)
	assert.Equal(t, 0, fake.reverseCalls)
	assert.Nil(t, rec.AdministrativeLevels)
	// Timestamp and version are stamped regardless.
	assert.Equal(t, "1.0", rec.EnrichmentVersion)
	assert.NotEmpty(t, rec.EnrichmentTimestamp)
}

func TestEnrich_ProviderFailureIsPartial(t *testing.T) {
	fake := &fakeGeocoder{
		forwardFn: func(_ string, _ opencage.LookupOptions) ([]opencage.Candidate, error) {
			return candidates(madridCandidate()), nil
		},
		reverseFn: func(_, _ float64, _ opencage.LookupOptions) ([]opencage.Candidate, error) {
			return nil, eris.New("timeout")
		},
	}
	e := New(fake)

	rec := &model.AddressRecord{Address: "gran via madrid"}
	e.Enrich(context.Background(), rec, nil, Options{})

	assert.Contains(t, rec.EnrichmentError, "timeout")
	// The coordinates resolved before the failure survive.
	require.NotNil(t, rec.Coordinates)
	assert.Nil(t, rec.AdministrativeLevels)
	assert.Equal(t, "1.0", rec.EnrichmentVersion)
	assert.NotEmpty(t, rec.EnrichmentTimestamp)
}

func TestEnrich_NoDMSNoCoordinateSystems(t *testing.T) {
	plain := madridCandidate()
	plain.Annotations.DMS = nil

	fake := &fakeGeocoder{
		reverseFn: func(_, _ float64, _ opencage.LookupOptions) ([]opencage.Candidate, error) {
			return candidates(plain), nil
		},
	}
	e := New(fake)

	rec := &model.AddressRecord{}
	e.Enrich(context.Background(), rec, &model.Coordinates{Lat: 1, Lng: 2}, Options{})

	assert.Nil(t, rec.CoordinateSystems)
	require.NotNil(t, rec.QualityInfo)
}

func TestEnrich_SuppressedAnnotations(t *testing.T) {
	bare := madridCandidate()
	bare.Annotations = nil

	var gotSuppress bool
	fake := &fakeGeocoder{
		reverseFn: func(_, _ float64, opts opencage.LookupOptions) ([]opencage.Candidate, error) {
			gotSuppress = opts.SuppressAnnotations
			return candidates(bare), nil
		},
	}
	e := New(fake)

	rec := &model.AddressRecord{}
	e.Enrich(context.Background(), rec, &model.Coordinates{Lat: 1, Lng: 2}, Options{Clean: true})

	assert.True(t, gotSuppress)
	require.NotNil(t, rec.Timezone)
	assert.Equal(t, "", rec.Timezone.Name, "missing annotation block yields zero values")
	require.NotNil(t, rec.AdministrativeLevels)
	assert.Equal(t, "Spain", rec.AdministrativeLevels.Country)
}
