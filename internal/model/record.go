// Package model defines the record types shared across the enhancement pipeline.
package model

import (
	"github.com/Axewc/reverse-geocoding/internal/address"
)

// Method identifies which completion strategy produced a record's address.
type Method string

const (
	MethodNone    Method = "none"
	MethodReverse Method = "reverse_geocoding"
	MethodForward Method = "forward_geocoding"
	MethodError   Method = "error"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TimezoneInfo holds timezone data derived from a reverse lookup.
type TimezoneInfo struct {
	Name         string `json:"name"`
	OffsetSec    int    `json:"offset_sec"`
	OffsetString string `json:"offset_string"`
}

// AdministrativeLevels holds the administrative hierarchy for a location.
// Every level is present in the output, empty when the provider did not
// report it.
type AdministrativeLevels struct {
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	State         string `json:"state"`
	StateCode     string `json:"state_code"`
	Province      string `json:"province"`
	County        string `json:"county"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
}

// GeographicInfo holds postal and geographic annotations.
type GeographicInfo struct {
	Postcode    string         `json:"postcode"`
	Continent   string         `json:"continent"`
	Currency    map[string]any `json:"currency"`
	CallingCode int            `json:"calling_code"`
	Flag        string         `json:"flag"`
	Geohash     string         `json:"geohash"`
	What3Words  map[string]any `json:"what3words"`
}

// QualityInfo holds grid-reference annotations from the provider.
type QualityInfo struct {
	MGRS       string         `json:"mgrs"`
	Maidenhead string         `json:"maidenhead"`
	Mercator   map[string]any `json:"mercator"`
	OSM        map[string]any `json:"osm"`
	UNM49      map[string]any `json:"un_m49"`
}

// CoordinateSystems is only attached when the provider reports a DMS
// annotation.
type CoordinateSystems struct {
	DMS        map[string]any `json:"dms"`
	MGRS       string         `json:"mgrs"`
	Maidenhead string         `json:"maidenhead"`
}

// QualityMetrics summarizes how a record fared through the pipeline.
type QualityMetrics struct {
	CompletenessScore   float64 `json:"completeness_score"`
	HasCoordinates      bool    `json:"has_coordinates"`
	MethodUsed          Method  `json:"method_used"`
	ProcessingTimestamp string  `json:"processing_timestamp"`
}

// CompletionResult holds the outcome of a single address completion attempt.
type CompletionResult struct {
	OriginalAddress  string         `json:"original_address"`
	CompletedAddress string         `json:"completed_address"`
	MethodUsed       Method         `json:"method_used"`
	Confidence       float64        `json:"confidence"`
	Components       map[string]any `json:"components"`
	Suggestions      []string       `json:"suggestions"`
	Coordinates      *Coordinates   `json:"coordinates,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// AddressRecord accumulates everything the pipeline learns about one input
// item. It is created once per input row and mutated in place through the
// pipeline stages; absent fields mean "not computed", never "computed as
// empty".
type AddressRecord struct {
	ID      string   `json:"id,omitempty"`
	Address string   `json:"address,omitempty"` // raw input address
	Lat     *float64 `json:"lat,omitempty"`     // raw input latitude
	Lng     *float64 `json:"lng,omitempty"`     // raw input longitude

	OriginalAddress   string         `json:"original_address,omitempty"`
	CompletedAddress  string         `json:"completed_address,omitempty"`
	NormalizedAddress string         `json:"normalized_address,omitempty"`
	MethodUsed        Method         `json:"method_used,omitempty"`
	Confidence        *float64       `json:"confidence,omitempty"`
	Components        map[string]any `json:"components,omitempty"`
	Coordinates       *Coordinates   `json:"coordinates,omitempty"`
	Suggestions       []string       `json:"suggestions,omitempty"`

	PostalValidation *address.Validation `json:"postal_validation,omitempty"`

	Timezone             *TimezoneInfo         `json:"timezone,omitempty"`
	AdministrativeLevels *AdministrativeLevels `json:"administrative_levels,omitempty"`
	GeographicInfo       *GeographicInfo       `json:"geographic_info,omitempty"`
	QualityInfo          *QualityInfo          `json:"quality_info,omitempty"`
	CoordinateSystems    *CoordinateSystems    `json:"coordinate_systems,omitempty"`
	EnrichmentTimestamp  string                `json:"enrichment_timestamp,omitempty"`
	EnrichmentVersion    string                `json:"enrichment_version,omitempty"`

	QualityMetrics *QualityMetrics `json:"quality_metrics,omitempty"`

	Error           string `json:"error,omitempty"`
	EnrichmentError string `json:"enrichment_error,omitempty"`
	ProcessingError string `json:"processing_error,omitempty"`
}

// InputCoordinates returns the record's raw input coordinates, or nil when
// either component is missing.
func (r *AddressRecord) InputCoordinates() *Coordinates {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &Coordinates{Lat: *r.Lat, Lng: *r.Lng}
}
