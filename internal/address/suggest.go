package address

import "strings"

// typoCorrection rewrites one common misspelling. The table is scanned in
// order and replacements compound on the already-corrected string.
type typoCorrection struct {
	typo       string
	correction string
}

var typoCorrections = []typoCorrection{
	// Spanish
	{"callle", "calle"},
	{"avenída", "avenida"},
	{"avendia", "avenida"},
	{"plasa", "plaza"},
	{"carrrera", "carrera"},
	// English
	{"stret", "street"},
	{"streat", "street"},
	{"avenu", "avenue"},
	{"boulvard", "boulevard"},
}

// SuggestCorrections proposes up to max corrected variants of an address.
// Each typo-table hit appends the partially corrected, title-cased string;
// the normalized form is appended last when it differs from the original and
// from every prior candidate. Matching is by substring, not word boundary.
func SuggestCorrections(addr string, max int) []string {
	if addr == "" {
		return nil
	}

	var suggestions []string

	corrected := strings.ToLower(addr)
	for _, tc := range typoCorrections {
		if strings.Contains(corrected, tc.typo) {
			corrected = strings.ReplaceAll(corrected, tc.typo, tc.correction)
			suggestions = append(suggestions, capitalizeWords(corrected))
		}
	}

	normalized := Normalize(addr, "es")
	if normalized != addr && !contains(suggestions, normalized) {
		suggestions = append(suggestions, normalized)
	}

	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
