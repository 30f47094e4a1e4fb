package opencage

// Geometry is a candidate's resolved coordinate pair.
type Geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TimezoneAnnotation holds the timezone block of a candidate's annotations.
type TimezoneAnnotation struct {
	Name         string `json:"name"`
	OffsetSec    int    `json:"offset_sec"`
	OffsetString string `json:"offset_string"`
}

// Annotations carries the auxiliary metadata OpenCage attaches to a
// candidate. Blocks we only pass through are kept as raw maps.
type Annotations struct {
	Timezone    *TimezoneAnnotation `json:"timezone,omitempty"`
	Continent   string              `json:"continent,omitempty"`
	Currency    map[string]any      `json:"currency,omitempty"`
	CallingCode int                 `json:"callingcode,omitempty"`
	Flag        string              `json:"flag,omitempty"`
	Geohash     string              `json:"geohash,omitempty"`
	What3Words  map[string]any      `json:"what3words,omitempty"`
	MGRS        string              `json:"MGRS,omitempty"`
	Maidenhead  string              `json:"Maidenhead,omitempty"`
	Mercator    map[string]any      `json:"Mercator,omitempty"`
	OSM         map[string]any      `json:"OSM,omitempty"`
	UNM49       map[string]any      `json:"UN_M49,omitempty"`
	DMS         map[string]any      `json:"DMS,omitempty"`
}

// Candidate is one geocoding match. Components values are left untyped:
// OpenCage mixes strings with ISO code lists in the same mapping.
type Candidate struct {
	Formatted   string         `json:"formatted"`
	Components  map[string]any `json:"components"`
	Geometry    Geometry       `json:"geometry"`
	Confidence  int            `json:"confidence"` // provider scale 0-10
	Annotations *Annotations   `json:"annotations,omitempty"`
}

// apiResponse is the JSON envelope of the OpenCage geocoding endpoint.
type apiResponse struct {
	Results []Candidate `json:"results"`
	Status  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Rate struct {
		Remaining int `json:"remaining"`
	} `json:"rate"`
}
