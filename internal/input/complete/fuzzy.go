package complete

import (
	"sort"
	"strings"
	"unicode"
)

// Fuzzy returns the words matching the token under the cursor as a
// case-insensitive subsequence, best match first.
func Fuzzy(words []string, text string, cursor int) Completions {
	start, token := TokenAt(text, cursor)
	out := Completions{Start: start, End: cursor}

	if token == "" {
		for _, w := range words {
			out.Candidates = append(out.Candidates, Candidate{Text: w})
		}
		return out
	}

	pattern := []rune(strings.ToLower(token))
	for _, w := range words {
		if score, ok := fuzzyScore(pattern, w); ok {
			out.Candidates = append(out.Candidates, Candidate{Text: w, Score: score})
		}
	}

	sort.SliceStable(out.Candidates, func(i, j int) bool {
		return out.Candidates[i].Score > out.Candidates[j].Score
	})
	return out
}

// fuzzyScore matches pattern as a subsequence of text and scores the match.
// Scoring rewards consecutive matches, word-boundary matches, and prefix
// matches, and penalizes gaps and matches far from the start.
func fuzzyScore(pattern []rune, text string) (int, bool) {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))

	matches := make([]int, 0, len(pattern))
	pi := 0
	for i := 0; i < len(lower) && pi < len(pattern); i++ {
		if lower[i] == pattern[pi] {
			matches = append(matches, i)
			pi++
		}
	}
	if pi < len(pattern) {
		return 0, false
	}

	score := 100
	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += 20
		}
	}
	for _, idx := range matches {
		if isWordBoundary(runes, idx) {
			score += 15
		}
	}
	if matches[0] == 0 {
		score += 25
	}
	if len(matches) > 1 {
		gap := matches[len(matches)-1] - matches[0] - len(matches) + 1
		score -= gap * 2
	}
	score -= matches[0]
	if len(runes) < 20 {
		score += 20 - len(runes)
	}
	if score < 1 {
		score = 1
	}
	return score, true
}

// isWordBoundary reports whether the rune at idx starts a word: the first
// rune, a rune after a separator, or an uppercase rune after a lowercase
// one (camelCase).
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev := runes[idx-1]
	if prev == '_' || prev == '-' || prev == '.' || prev == '/' || unicode.IsSpace(prev) {
		return true
	}
	return unicode.IsUpper(runes[idx]) && unicode.IsLower(prev)
}
