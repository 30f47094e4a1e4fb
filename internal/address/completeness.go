package address

import (
	"regexp"
	"strings"
)

// CompletenessReport describes which structural components of an address
// were detected.
type CompletenessReport struct {
	IsComplete        bool            `json:"is_complete"`
	MissingComponents []string        `json:"missing_components"`
	Confidence        float64         `json:"confidence"`
	ComponentsFound   map[string]bool `json:"components_found,omitempty"`
}

var (
	streetNumberRe = regexp.MustCompile(`\d+`)
	streetNameRe   = regexp.MustCompile(`(calle|avenida|street|avenue|road|drive|c/|av|st|rd)`)
	postalCodeRe   = regexp.MustCompile(`\b\d{5}(-\d{4})?\b|\b[A-Z]\d[A-Z]\s?\d[A-Z]\d\b`)
)

// AnalyzeCompleteness scores an address against four structural signals:
// a street number, a street-type keyword, a comma-separated locality, and a
// postal-code-shaped token. Confidence is the fraction of signals present.
func AnalyzeCompleteness(addr string) CompletenessReport {
	if addr == "" {
		return CompletenessReport{
			IsComplete:        false,
			MissingComponents: []string{"address"},
			Confidence:        0.0,
		}
	}

	lower := strings.ToLower(addr)

	hasStreetNumber := streetNumberRe.MatchString(addr)
	hasStreetName := streetNameRe.MatchString(lower)
	hasCity := len(strings.Split(addr, ",")) > 1 // coarse on purpose
	hasPostalCode := postalCodeRe.MatchString(addr)

	var missing []string
	if !hasStreetNumber {
		missing = append(missing, "street_number")
	}
	if !hasStreetName {
		missing = append(missing, "street_name")
	}
	if !hasCity {
		missing = append(missing, "city")
	}
	if !hasPostalCode {
		missing = append(missing, "postal_code")
	}

	const totalComponents = 4
	return CompletenessReport{
		IsComplete:        len(missing) == 0,
		MissingComponents: missing,
		Confidence:        float64(totalComponents-len(missing)) / totalComponents,
		ComponentsFound: map[string]bool{
			"street_number": hasStreetNumber,
			"street_name":   hasStreetName,
			"city":          hasCity,
			"postal_code":   hasPostalCode,
		},
	}
}
