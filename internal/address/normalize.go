package address

import (
	"regexp"
	"strings"
	"unicode"
)

// abbreviationEntry maps a canonical street-type word to the abbreviation
// spellings it replaces. Entries are language-scoped: a normalization pass
// only applies entries matching the target language.
type abbreviationEntry struct {
	language string
	fullWord string
	patterns []*regexp.Regexp
}

// abbreviationTable is scanned in declaration order. The Spanish block comes
// first, the English block last; "pl" appears in both ("plaza" / "place") and
// resolves per the active language, a known heuristic limitation.
var abbreviationTable = buildAbbreviationTable([]struct {
	language string
	fullWord string
	abbrevs  []string
}{
	{"es", "calle", []string{"c/", `c\`, "cl", "cl.", "call"}},
	{"es", "avenida", []string{"av", "av.", "avda", "avda.", "aven"}},
	{"es", "plaza", []string{"pl", "pl.", "plz"}},
	{"es", "paseo", []string{"ps", "ps.", "pso"}},
	{"es", "carrera", []string{"cr", "cr.", "cra", "cra."}},
	{"es", "diagonal", []string{"dg", "dg.", "diag"}},
	{"es", "transversal", []string{"tv", "tv.", "trans"}},
	{"en", "street", []string{"st", "st.", "str", "str."}},
	{"en", "avenue", []string{"ave", "ave.", "av"}},
	{"en", "boulevard", []string{"blvd", "blvd.", "boul"}},
	{"en", "road", []string{"rd", "rd."}},
	{"en", "drive", []string{"dr", "dr."}},
	{"en", "lane", []string{"ln", "ln."}},
	{"en", "court", []string{"ct", "ct."}},
	{"en", "place", []string{"pl", "pl."}},
})

func buildAbbreviationTable(entries []struct {
	language string
	fullWord string
	abbrevs  []string
}) []abbreviationEntry {
	table := make([]abbreviationEntry, 0, len(entries))
	for _, e := range entries {
		patterns := make([]*regexp.Regexp, 0, len(e.abbrevs))
		for _, abbrev := range e.abbrevs {
			patterns = append(patterns, regexp.MustCompile(wholeWordPattern(abbrev)))
		}
		table = append(table, abbreviationEntry{
			language: e.language,
			fullWord: e.fullWord,
			patterns: patterns,
		})
	}
	return table
}

// wholeWordPattern builds a case-insensitive whole-word pattern for an
// abbreviation. Abbreviations ending in punctuation ("c/", "av.") anchor on
// the punctuation itself rather than a word boundary, so "c/ gran via" still
// matches.
func wholeWordPattern(abbrev string) string {
	p := "(?i)"
	if startsWithWordChar(abbrev) {
		p += `\b`
	}
	p += regexp.QuoteMeta(abbrev)
	if endsWithWordChar(abbrev) {
		p += `\b`
	}
	return p
}

func startsWithWordChar(s string) bool {
	r := rune(s[0])
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func endsWithWordChar(s string) bool {
	r := rune(s[len(s)-1])
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Normalize expands street-type abbreviations to their canonical full word
// for the target language ("es" or "en"), then title-cases every token.
// Entries for the other language are left untouched.
func Normalize(addr, targetLanguage string) string {
	if addr == "" {
		return addr
	}

	normalized := strings.ToLower(strings.TrimSpace(addr))

	for _, entry := range abbreviationTable {
		if entry.language != targetLanguage {
			continue
		}
		for _, pattern := range entry.patterns {
			normalized = pattern.ReplaceAllString(normalized, entry.fullWord)
		}
	}

	return capitalizeWords(normalized)
}

// capitalizeWords uppercases the first letter of every whitespace-separated
// token and lowercases the rest, collapsing whitespace along the way.
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
