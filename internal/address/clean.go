// Package address implements the pure text heuristics of the enhancement
// pipeline: cleaning, completeness scoring, abbreviation normalization, typo
// correction, and postal code validation. Nothing in this package performs
// network calls.
package address

import (
	"strings"
)

// strippedSymbols are always removed from address text. The set matches what
// downstream tabular consumers choke on; language-specific letters are kept.
const strippedSymbols = "?¿!¡@#$%^&*()_+=<>{}[]|\\/:;\"'`~"

// accentFolds maps accented Latin characters to their unaccented base letter.
// Applied only in aggressive mode, for consumers that do not handle Unicode
// well.
var accentFolds = map[rune]string{
	'á': "a", 'é': "e", 'í': "i", 'ó': "o", 'ú': "u",
	'à': "a", 'è': "e", 'ì': "i", 'ò': "o", 'ù': "u",
	'ä': "a", 'ë': "e", 'ï': "i", 'ö': "o", 'ü': "u",
	'â': "a", 'ê': "e", 'î': "i", 'ô': "o", 'û': "u",
	'ã': "a", 'ẽ': "e", 'ĩ': "i", 'õ': "o", 'ũ': "u",
	'ñ': "n", 'ç': "c", 'ß': "ss",
}

// Clean strips problematic symbols from address text, collapses runs of
// whitespace to a single space, and trims the ends. In aggressive mode it
// also folds accented characters to their base letters. Clean is total and
// idempotent; empty input is returned unchanged.
func Clean(text string, aggressive bool) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(strippedSymbols, r) {
			continue
		}
		if aggressive {
			if folded, ok := accentFolds[r]; ok {
				b.WriteString(folded)
				continue
			}
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
