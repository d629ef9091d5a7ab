// Package pricing parses and formats the heterogeneous cost strings stored on
// product-store associations ("50.000", "50.000 – 100.000", "120000").
package pricing

import (
	"strings"
	"unicode"
)

// Price is the normalized form of a raw cost string. All fields are nil when
// the input was empty or unparseable. Min and Max are both set for a range or
// a single price; Fixed always equals Min when present.
type Price struct {
	Min   *int
	Max   *int
	Fixed *int
}

// IsZero reports whether no price information was parsed.
func (p Price) IsZero() bool {
	return p.Min == nil && p.Max == nil && p.Fixed == nil
}

// Parse normalizes a raw cost string into a Price. Dash variants (en dash,
// em dash) are folded to ASCII hyphen and thousands separators are stripped
// before parsing. A range whose bounds arrive out of order is swapped so that
// Min <= Max always holds.
func Parse(raw string) Price {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Price{}
	}

	text = normalizeDashes(text)
	text = strings.NewReplacer(".", "", ",", "", " ", "").Replace(text)

	if strings.Contains(text, "-") {
		parts := strings.Split(text, "-")
		if len(parts) != 2 || !allDigits(parts[0]) || !allDigits(parts[1]) {
			return Price{}
		}
		lo, hi := atoi(parts[0]), atoi(parts[1])
		if lo > hi {
			lo, hi = hi, lo
		}
		fixed := lo
		return Price{Min: &lo, Max: &hi, Fixed: &fixed}
	}

	if !allDigits(text) {
		return Price{}
	}
	n := atoi(text)
	nMax, fixed := n, n
	return Price{Min: &n, Max: &nMax, Fixed: &fixed}
}

// normalizeDashes folds every dash-category rune to an ASCII hyphen.
func normalizeDashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Pd, r) {
			b.WriteRune('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// FormatVND renders an amount with "." as the thousands separator, the
// conventional Vietnamese display form (50000 -> "50.000").
func FormatVND(n int) string {
	if n < 0 {
		return "-" + FormatVND(-n)
	}
	s := itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// FormatRange renders a parsed price for display: a single amount when the
// bounds coincide, an en-dash-joined pair for a range, empty when unparsed.
func FormatRange(p Price) string {
	if p.Min == nil || p.Max == nil {
		return ""
	}
	if *p.Min == *p.Max {
		return FormatVND(*p.Min)
	}
	return FormatVND(*p.Min) + " – " + FormatVND(*p.Max)
}
