//nolint:testpackage // using package name 'fuzzy' to access unexported helpers
package fuzzy

import (
	"testing"
)

func TestMatcher_FindBest(t *testing.T) {
	matcher := NewMatcher(2)

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{
			name:       "exact match excluded",
			input:      "run",
			candidates: []string{"run", "serve", "dump-config"},
			expected:   "",
		},
		{
			name:       "simple typo",
			input:      "serv",
			candidates: []string{"run", "serve", "dump-config"},
			expected:   "serve",
		},
		{
			name:       "shared prefix wins a tie",
			input:      "port",
			candidates: []string{"host", "post", "part"},
			expected:   "post",
		},
		{
			name:       "nothing close",
			input:      "xyz",
			candidates: []string{"help", "version", "verbose"},
			expected:   "",
		},
		{
			name:       "too short",
			input:      "x",
			candidates: []string{"help", "version"},
			expected:   "",
		},
		{
			name:       "case insensitive",
			input:      "SERV",
			candidates: []string{"serve", "version"},
			expected:   "serve",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.FindBest(tt.input, tt.candidates)
			if result != tt.expected {
				t.Errorf("FindBest(%q, %v) = %q, want %q", tt.input, tt.candidates, result, tt.expected)
			}
		})
	}
}

func TestMatcher_FindMatchesOrdered(t *testing.T) {
	matcher := NewMatcher(2)
	matches := matcher.FindMatches("hep", []string{"help", "heap", "deep", "version"})

	if len(matches) < 2 {
		t.Fatalf("FindMatches(hep) returned %d matches, want at least 2", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("matches not sorted by score: %f < %f", matches[i-1].Score, matches[i].Score)
		}
	}
	for _, m := range matches {
		if m.Distance > 2 {
			t.Errorf("match %q distance %d exceeds 2", m.Value, m.Distance)
		}
		if m.Score < 0 || m.Score > 1 {
			t.Errorf("match %q score %f outside [0, 1]", m.Value, m.Score)
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"abc", "axc", 1},
		{"run", "RUN", 3},
		{"dump-config", "dump_config", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.expected {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestBoundedDistanceStopsEarly(t *testing.T) {
	if got := boundedDistance("short", "verylongstring", 2); got != 3 {
		t.Errorf("boundedDistance = %d, want 3", got)
	}
}

func TestNearest(t *testing.T) {
	taken := map[string]bool{"run": true, "run-cmd": true}
	isTaken := func(s string) bool { return taken[s] }

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{"skips taken and self", "run", []string{"run", "run-cmd", "run2", "runs"}, "run2"},
		{"earliest wins ties", "run", []string{"rux", "ruy"}, "rux"},
		{"all taken", "run", []string{"run", "run-cmd"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nearest(tt.input, tt.candidates, isTaken); got != tt.expected {
				t.Errorf("Nearest(%q, %v) = %q, want %q", tt.input, tt.candidates, got, tt.expected)
			}
		})
	}
}

func TestFindSuggestionsLimit(t *testing.T) {
	got := FindSuggestions("verbos", []string{"verbose", "version", "verb"}, 3, 2)
	if len(got) == 0 || len(got) > 2 {
		t.Fatalf("FindSuggestions returned %v, want 1-2 entries", got)
	}
	if got[0] != "verbose" {
		t.Errorf("FindSuggestions()[0] = %q, want %q", got[0], "verbose")
	}
}

func TestCommonPrefixLength(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 0},
		{"abc", "abc", 3},
		{"help", "hello", 3},
		{"version", "verbose", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := commonPrefixLength(tt.a, tt.b); got != tt.expected {
				t.Errorf("commonPrefixLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCountCommonChars(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "bca", 3},
		{"abc", "def", 0},
		{"help", "hello", 3},
		{"aab", "abb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := countCommonChars(tt.a, tt.b); got != tt.expected {
				t.Errorf("countCommonChars(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
