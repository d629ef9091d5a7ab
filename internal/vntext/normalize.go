// Package vntext provides Vietnamese text normalization for matching.
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RemoveAccents strips Vietnamese diacritical marks and lowercases the input.
// The đ/Đ pair does not decompose under NFD and is mapped explicitly.
func RemoveAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'đ':
			r = 'd'
		case 'Đ':
			r = 'D'
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Normalize lowercases, strips accents, trims, and collapses internal
// whitespace to single spaces. Normalize is idempotent.
func Normalize(s string) string {
	return strings.Join(strings.Fields(RemoveAccents(s)), " ")
}

// cityPrefixes are administrative tokens stripped when matching region names.
// "thanh pho" must precede "tp" so the longer token wins.
var cityPrefixes = []string{"thanh pho", "tp.", "tp", "tinh", ",", "."}

// NormalizeCityName normalizes a province or city name for containment
// matching: accents removed, administrative prefixes and punctuation dropped,
// whitespace collapsed.
func NormalizeCityName(s string) string {
	base := Normalize(s)
	for _, token := range cityPrefixes {
		base = strings.ReplaceAll(base, token, " ")
	}
	return strings.Join(strings.Fields(base), " ")
}

// NameTags builds the denormalized tag set for a product name: the lowered
// name, the accent-stripped name, both space-joined variants, and each
// individual accent-stripped word. Duplicates are removed, order is stable.
func NameTags(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	noAccent := RemoveAccents(lower)

	candidates := []string{
		lower,
		noAccent,
		strings.ReplaceAll(lower, " ", ""),
		strings.ReplaceAll(noAccent, " ", ""),
	}
	candidates = append(candidates, strings.Fields(noAccent)...)

	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		tags = append(tags, c)
	}
	return tags
}
