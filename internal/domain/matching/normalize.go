package matching

import (
	"math"
	"strings"
	"unicode"
)

// minKeywordLen is the shortest token ExtractKeywords keeps.
const minKeywordLen = 3

func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold reports whether needle occurs in haystack, ignoring case and
// surrounding whitespace. An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}

// ExtractKeywords lowercases text, splits it on whitespace and punctuation and
// drops tokens shorter than three characters.
func ExtractKeywords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minKeywordLen {
			continue
		}
		out = append(out, f)
	}
	return out
}

// CountOverlap returns the needles found as a substring of any haystack entry.
func CountOverlap(needles, haystack []string) (int, []string) {
	matched := make([]string, 0)
	for _, n := range needles {
		for _, h := range haystack {
			if ContainsFold(h, n) {
				matched = append(matched, Normalize(n))
				break
			}
		}
	}
	return len(matched), matched
}

func Clamp(v, minV, maxV float64) float64 {
	if math.IsNaN(v) {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
