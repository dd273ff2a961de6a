// Package fuzzy ranks spellings by edit distance.
// mlarg uses it for collision suggestions and "did you mean" hints.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher finds close spellings within a maximum edit distance.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher that accepts candidates at most maxDistance
// edits away from the input.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2,
	}
}

// Match is a single ranked candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate, or "" when nothing is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within range, best first.
// Exact (case-insensitive) matches are not reported.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}

	var matches []Match
	input = strings.ToLower(input)

	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if input == lower {
			continue
		}

		distance := boundedDistance(input, lower, m.maxDistance)
		if distance > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: distance,
			Score:    score(input, lower, distance),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// score weighs edit distance, shared prefix, length similarity and shared
// characters into a value between 0 and 1.
func score(input, candidate string, distance int) float64 {
	maxLen := max(len(input), len(candidate))
	if maxLen == 0 {
		return 1.0
	}

	s := 1.0 - float64(distance)/float64(maxLen)

	if p := commonPrefixLength(input, candidate); p > 0 {
		s += float64(p) / float64(min(len(input), len(candidate))) * 0.3
	}

	lengthDiff := abs(len(input) - len(candidate))
	s += (1.0 - float64(lengthDiff)/float64(maxLen)) * 0.2
	s += float64(countCommonChars(input, candidate)) / float64(maxLen) * 0.1

	return min(s, 1.0)
}

// Distance is the plain Levenshtein distance between a and b.
func Distance(a, b string) int {
	return boundedDistance(a, b, len(a)+len(b))
}

// boundedDistance computes the Levenshtein distance between a and b, giving
// up with limit+1 as soon as the result is known to exceed limit.
func boundedDistance(a, b string, limit int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if abs(len(a)-len(b)) > limit {
		return limit + 1
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i

		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}

		if rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}

	return prev[len(a)]
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func countCommonChars(a, b string) int {
	counts := make(map[rune]int)
	for _, r := range a {
		counts[r]++
	}

	common := 0
	for _, r := range b {
		if counts[r] > 0 {
			common++
			counts[r]--
		}
	}
	return common
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Nearest returns the candidate with the smallest edit distance to input,
// skipping candidates rejected by taken. Ties keep the earlier candidate.
// It returns "" when every candidate is rejected.
func Nearest(input string, candidates []string, taken func(string) bool) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if c == input || (taken != nil && taken(c)) {
			continue
		}
		d := Distance(input, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// FindSuggestions returns up to maxSuggestions close candidates for an
// error message.
func FindSuggestions(input string, candidates []string, maxDistance, maxSuggestions int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)

	suggestions := make([]string, 0, min(len(matches), maxSuggestions))
	for i, match := range matches {
		if i >= maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Value)
	}
	return suggestions
}
