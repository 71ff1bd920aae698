package complete

import "testing"

func TestFuzzySubsequence(t *testing.T) {
	words := []string{"make_file", "filemanager", "unrelated"}

	c := Fuzzy(words, "mf", 2)
	if len(c.Candidates) != 1 {
		t.Fatalf("candidates = %v, want 1", c.Candidates)
	}
	if c.Candidates[0].Text != "make_file" {
		t.Errorf("got %q", c.Candidates[0].Text)
	}
}

func TestFuzzyRanking(t *testing.T) {
	words := []string{"xwritex", "write", "w_r_i_t_e"}

	c := Fuzzy(words, "write", 5)
	if len(c.Candidates) != 3 {
		t.Fatalf("candidates = %v, want 3", c.Candidates)
	}
	// The exact word is consecutive and a prefix match, so it wins.
	if c.Candidates[0].Text != "write" {
		t.Errorf("best = %q, want \"write\"", c.Candidates[0].Text)
	}
}

func TestFuzzyCaseInsensitive(t *testing.T) {
	c := Fuzzy([]string{"OpenFile"}, "of", 2)
	if len(c.Candidates) != 1 {
		t.Fatalf("candidates = %v", c.Candidates)
	}
}

func TestFuzzyNoMatch(t *testing.T) {
	c := Fuzzy([]string{"abc"}, "abd", 3)
	if !c.Empty() {
		t.Errorf("expected no match, got %v", c.Candidates)
	}
}

func TestFuzzyEmptyTokenOffersAll(t *testing.T) {
	c := Fuzzy([]string{"a", "b"}, "", 0)
	if len(c.Candidates) != 2 {
		t.Errorf("candidates = %v", c.Candidates)
	}
}

func TestWordBoundary(t *testing.T) {
	runes := []rune("camelCase snake_case")
	for _, tt := range []struct {
		idx  int
		want bool
	}{
		{0, true},   // first rune
		{5, true},   // 'C' after lowercase
		{10, true},  // after space
		{16, true},  // after underscore
		{2, false},  // mid-word
		{99, false}, // out of range
	} {
		if got := isWordBoundary(runes, tt.idx); got != tt.want {
			t.Errorf("isWordBoundary(%d) = %v, want %v", tt.idx, got, tt.want)
		}
	}
}
