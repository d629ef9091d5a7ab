package search

import (
	"strings"

	"github.com/dacsanviet/discovery-engine/internal/vntext"
)

// Score tiers for the primary matcher. Anything below the subsequence tier
// means "no match" and excludes the candidate from ranked results.
const (
	ScorePerfect     = 1000
	ScoreSubsequence = 900
)

// Score computes the relevance of a candidate name for a query. Both sides
// are accent-stripped and lowercased first. An exact match takes the perfect
// tier; otherwise every query word must appear, in order, as a prefix of some
// candidate word (not necessarily contiguous) for the subsequence tier.
// Everything else scores zero.
func Score(query, name string) int {
	q := vntext.Normalize(query)
	n := vntext.Normalize(name)

	if q == "" {
		return 0
	}
	if q == n {
		return ScorePerfect
	}

	qWords := strings.Fields(q)
	j := 0
	for _, word := range strings.Fields(n) {
		if strings.HasPrefix(word, qWords[j]) {
			j++
			if j == len(qWords) {
				return ScoreSubsequence
			}
		}
	}
	return 0
}

// TaggedName precomputes the matching material for the richer tag-based
// scorer: the raw name, its space-joined accent-stripped form, and the
// denormalized tag set.
type TaggedName struct {
	Raw    string
	joined string
	tags   []string
}

// NewTaggedName builds the tag set for a product name. Extra tags, such as
// the curated keywords stored on the product row, join the generated set.
func NewTaggedName(name string, extraTags ...string) *TaggedName {
	tags := vntext.NameTags(name)
	for _, tag := range extraTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return &TaggedName{
		Raw:    name,
		joined: strings.ReplaceAll(vntext.RemoveAccents(name), " ", ""),
		tags:   tags,
	}
}

// SplitTags splits the comma-separated tag column into individual keywords.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// TagScore computes the additive tag-based relevance of a candidate for a
// keyword. The keyword and every tag are compared space-joined and
// accent-stripped: exact name match +5, substring +3 with positional credit
// (+2 at the start, +1 within the first third), then per tag exact +3,
// substring +1, prefix +1. The result is never negative.
func TagScore(keyword string, candidate *TaggedName) int {
	kw := strings.ReplaceAll(vntext.RemoveAccents(keyword), " ", "")
	if kw == "" {
		return 0
	}

	score := 0
	if kw == candidate.joined {
		score += 5
	} else if idx := strings.Index(candidate.joined, kw); idx >= 0 {
		score += 3
		if idx == 0 {
			score += 2
		} else if idx < len(candidate.joined)/3 {
			score++
		}
	}

	for _, tag := range candidate.tags {
		t := strings.ReplaceAll(vntext.RemoveAccents(tag), " ", "")
		switch {
		case kw == t:
			score += 3
		case strings.Contains(t, kw):
			score++
			if strings.HasPrefix(t, kw) {
				score++
			}
		}
	}
	return score
}
