package vectorize

import (
	"strings"
	"unicode"

	"github.com/poiesic/cinevec/core"
)

// accented lists the lowercase Latin letters with diacritics that survive normalization.
const accented = "áàâãäåéèêëíìîïóòôõöúùûüçñýÿ"

// NormalizeText lowercases s and deletes every rune that is not an ASCII
// letter or digit, an accented Latin letter, or whitespace.
// Deleted runes are not replaced, so "Sci-Fi" becomes "scifi".
// The result is a fixed point: NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(s string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if allowedRune(r) {
			return r
		}
		return -1
	}, s)
}

func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(accented, r)
}

// RecordText assembles the text a catalog record is embedded from.
// Missing fields contribute empty strings.
func RecordText(r *core.SourceRecord) string {
	return strings.Join([]string{
		r.Type,
		r.Title,
		r.Director,
		r.Cast,
		r.Country,
		r.Year(),
		r.Rating,
		r.Duration,
		r.ListedIn,
		r.Description,
	}, " ")
}

// QueryText joins the non-empty criteria with single spaces in the order
// type, genre, tone, duration, country.
func QueryText(c core.Criteria) string {
	parts := make([]string, 0, 5)
	for _, f := range c.Fields() {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
