package textutil

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// diacritics is the fixed substitution table for region names. It is
// applied in a single pass, so the order here has no effect.
var diacritics = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
	"Ñ", "N", "Ü", "U", "Ö", "O", "Ä", "A",
	"ö", "o", "ä", "a",
)

// FoldDiacritics replaces the accented letters that appear in Puerto Rican
// place names with their unaccented form.
func FoldDiacritics(s string) string {
	return diacritics.Replace(s)
}

// ColumnPrefix turns a region name into the prefix used for its columns,
// ex. "San Juan" -> "sanjuan", "Mayagüez" -> "mayaguez".
// Applying it to its own output returns the same string.
func ColumnPrefix(region string) string {
	region = FoldDiacritics(region)
	region = removeSpace(region)
	return strings.ToLower(region)
}

// removeSpace drops every unicode space, including the non-breaking
// spaces the page uses.
func removeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) {
			return -1
		}
		return r
	}, s)
}

// StripNumber removes thousands separators and percent signs.
func StripNumber(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, "%", "")
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseCount parses numeric page text like "1,234" or "98%".
func ParseCount(s string) (int64, error) {
	return strconv.ParseInt(StripNumber(s), 10, 64)
}

// MostSimilar returns the candidate closest to name by Jaro-Winkler
// similarity along with its score, an empty string is returned when
// there are no candidates.
func MostSimilar(name string, candidates []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := matchr.JaroWinkler(name, c, false)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}
