package vntext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain ascii", "banh mi", "banh mi"},
		{"full diacritics", "Bánh mì", "banh mi"},
		{"d with stroke", "bánh đậu xanh", "banh dau xanh"},
		{"upper d with stroke", "Đà Nẵng", "da nang"},
		{"mixed case", "PHỞ Bò", "pho bo"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RemoveAccents(tc.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims and collapses", "  Bánh   mì  ", "banh mi"},
		{"tabs and newlines", "bánh\tmì\nsandwich", "banh mi sandwich"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Bánh đậu xanh Hải Dương", "  Tỉnh   Quảng Ninh ", "TP. Hồ Chí Minh", ""}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestNormalizeCityName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tinh prefix", "Tỉnh Quảng Ninh", "quang ninh"},
		{"thanh pho prefix", "Thành phố Đà Nẵng", "da nang"},
		{"tp dot prefix", "TP. Hồ Chí Minh", "ho chi minh"},
		{"tp prefix", "TP Hà Nội", "ha noi"},
		{"commas and periods", "Hà Nội, Việt Nam.", "ha noi viet nam"},
		{"no prefix", "Bến Tre", "ben tre"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeCityName(tc.input))
		})
	}
}

func TestNameTags(t *testing.T) {
	tags := NameTags("Bánh mì")

	assert.Contains(t, tags, "bánh mì")
	assert.Contains(t, tags, "banh mi")
	assert.Contains(t, tags, "bánhmì")
	assert.Contains(t, tags, "banhmi")
	assert.Contains(t, tags, "banh")
	assert.Contains(t, tags, "mi")

	seen := make(map[string]int)
	for _, tag := range tags {
		seen[tag]++
	}
	for tag, n := range seen {
		assert.Equal(t, 1, n, "tag %q duplicated", tag)
	}
}

func TestNameTagsSingleWord(t *testing.T) {
	tags := NameTags("Phở")
	assert.Contains(t, tags, "phở")
	assert.Contains(t, tags, "pho")
	assert.NotContains(t, tags, "")
}
