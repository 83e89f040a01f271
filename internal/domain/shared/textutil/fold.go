// Package textutil provides text normalization helpers for search.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritical marks so that accented and
// unaccented spellings compare equal. Vietnamese text folds to plain
// ASCII, e.g. "Áo Sơ Mi Đen" becomes "ao so mi den".
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	// The stroked d is a standalone letter, not a combining mark, so the
	// mark-removal pass leaves it untouched.
	folded = strings.Map(func(r rune) rune {
		switch r {
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}, folded)
	return strings.ToLower(strings.TrimSpace(folded))
}
