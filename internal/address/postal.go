package address

import (
	"regexp"
	"strings"
)

// Validation is the structured outcome of a postal code check. Invalid codes
// are data, not errors.
type Validation struct {
	IsValid           bool   `json:"is_valid"`
	CountryCode       string `json:"country_code,omitempty"`
	PossibleCountry   string `json:"possible_country,omitempty"`
	PatternUsed       string `json:"pattern_used,omitempty"`
	CleanedPostalCode string `json:"cleaned_postal_code,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

// postalPattern binds a country code to its postal code shape. The slice
// order is the scan order when no country is given; the first matching
// country wins even when shapes are shared (the generic 5-digit pattern
// matches ES before US, MX, FR, DE, and IT).
type postalPattern struct {
	country string
	re      *regexp.Regexp
}

var postalPatterns = []postalPattern{
	{"ES", regexp.MustCompile(`^\d{5}$`)},
	{"US", regexp.MustCompile(`^\d{5}(-\d{4})?$`)},
	{"CA", regexp.MustCompile(`^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`)},
	{"MX", regexp.MustCompile(`^\d{5}$`)},
	{"GB", regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`)},
	{"FR", regexp.MustCompile(`^\d{5}$`)},
	{"DE", regexp.MustCompile(`^\d{5}$`)},
	{"IT", regexp.MustCompile(`^\d{5}$`)},
	{"BR", regexp.MustCompile(`^\d{5}-?\d{3}$`)},
	{"AR", regexp.MustCompile(`^[A-Z]?\d{4}[A-Z]{3}$|^\d{4}$`)},
	{"CO", regexp.MustCompile(`^\d{6}$`)},
}

// ValidatePostalCode checks a postal code against known per-country shapes.
// With a known country code, only that country's pattern is consulted.
// Without one, the table is scanned in declaration order and the first match
// is reported as a possible country.
func ValidatePostalCode(code, countryCode string) Validation {
	if code == "" {
		return Validation{IsValid: false, Reason: "empty_postal_code"}
	}

	cleaned := strings.ToUpper(strings.TrimSpace(code))

	if countryCode != "" {
		cc := strings.ToUpper(countryCode)
		for _, pp := range postalPatterns {
			if pp.country != cc {
				continue
			}
			return Validation{
				IsValid:           pp.re.MatchString(cleaned),
				CountryCode:       cc,
				PatternUsed:       pp.re.String(),
				CleanedPostalCode: cleaned,
			}
		}
		// Unknown country: fall through to the table scan.
	}

	for _, pp := range postalPatterns {
		if pp.re.MatchString(cleaned) {
			return Validation{
				IsValid:           true,
				PossibleCountry:   pp.country,
				PatternUsed:       pp.re.String(),
				CleanedPostalCode: cleaned,
			}
		}
	}

	return Validation{
		IsValid:           false,
		Reason:            "no_pattern_match",
		CleanedPostalCode: cleaned,
	}
}
