package enhance

import (
	"context"

	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// fakeGeocoder satisfies Geocoder with canned fixtures. Nil funcs return
// empty candidate lists.
type fakeGeocoder struct {
	forwardFn func(query string, opts opencage.LookupOptions) ([]opencage.Candidate, error)
	reverseFn func(lat, lng float64, opts opencage.LookupOptions) ([]opencage.Candidate, error)

	forwardCalls int
	reverseCalls int
}

func (f *fakeGeocoder) Forward(_ context.Context, query string, opts opencage.LookupOptions) ([]opencage.Candidate, error) {
	f.forwardCalls++
	if f.forwardFn == nil {
		return nil, nil
	}
	return f.forwardFn(query, opts)
}

func (f *fakeGeocoder) Reverse(_ context.Context, lat, lng float64, opts opencage.LookupOptions) ([]opencage.Candidate, error) {
	f.reverseCalls++
	if f.reverseFn == nil {
		return nil, nil
	}
	return f.reverseFn(lat, lng, opts)
}

// madridCandidate is a representative reverse/forward match with full
// annotations.
func madridCandidate() opencage.Candidate {
	return opencage.Candidate{
		Formatted: "Calle Gran Vía, 28013 Madrid, Spain",
		Components: map[string]any{
			"road":         "Calle Gran Vía",
			"city":         "Madrid",
			"state":        "Community of Madrid",
			"postcode":     "28013",
			"country":      "Spain",
			"country_code": "es",
		},
		Geometry:   opencage.Geometry{Lat: 40.4201, Lng: -3.7058},
		Confidence: 9,
		Annotations: &opencage.Annotations{
			Timezone: &opencage.TimezoneAnnotation{
				Name:         "Europe/Madrid",
				OffsetSec:    3600,
				OffsetString: "+0100",
			},
			Continent:   "Europe",
			Currency:    map[string]any{"iso_code": "EUR", "symbol": "€"},
			CallingCode: 34,
			Flag:        "🇪🇸",
			Geohash:     "ezjmgtwu",
			What3Words:  map[string]any{"words": "spoon.fork.knife"},
			MGRS:        "30TVK4074",
			Maidenhead:  "IN80dk",
			Mercator:    map[string]any{"x": -412508.6},
			OSM:         map[string]any{"url": "https://osm.org/..."},
			UNM49:       map[string]any{"regions": map[string]any{"EUROPE": "150"}},
			DMS:         map[string]any{"lat": "40° 25' 12''", "lng": "3° 42' 21''"},
		},
	}
}

func candidates(c ...opencage.Candidate) []opencage.Candidate { return c }
