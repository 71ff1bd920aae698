package complete

import "strings"

// Candidate is a single completion candidate.
type Candidate struct {
	// Text is the replacement text.
	Text string

	// Score is the match quality (higher is better); zero for exact
	// prefix completions, which are pre-ordered.
	Score int
}

// Completions is a finite candidate list plus the byte span of the token
// the candidates replace.
type Completions struct {
	// Start and End delimit the replaced span as byte offsets into the
	// completed text. Inserting a candidate replaces text[Start:End].
	Start int
	End   int

	// Candidates is ordered best-first.
	Candidates []Candidate
}

// Empty returns true if there are no candidates.
func (c Completions) Empty() bool {
	return len(c.Candidates) == 0
}

// TokenAt returns the start offset and content of the whitespace-delimited
// token ending at the cursor byte offset.
func TokenAt(text string, cursor int) (int, string) {
	if cursor > len(text) {
		cursor = len(text)
	}
	if cursor < 0 {
		cursor = 0
	}

	start := 0
	if i := strings.LastIndexAny(text[:cursor], " \t"); i >= 0 {
		start = i + 1
	}
	return start, text[start:cursor]
}

// Prefix returns the words beginning with the token under the cursor,
// in their original order. A case-sensitive match ranks before a
// case-insensitive one.
func Prefix(words []string, text string, cursor int) Completions {
	start, token := TokenAt(text, cursor)
	out := Completions{Start: start, End: cursor}

	if token == "" {
		for _, w := range words {
			out.Candidates = append(out.Candidates, Candidate{Text: w})
		}
		return out
	}

	lower := strings.ToLower(token)
	var caseless []Candidate
	for _, w := range words {
		switch {
		case strings.HasPrefix(w, token):
			out.Candidates = append(out.Candidates, Candidate{Text: w})
		case strings.HasPrefix(strings.ToLower(w), lower):
			caseless = append(caseless, Candidate{Text: w})
		}
	}
	out.Candidates = append(out.Candidates, caseless...)
	return out
}
