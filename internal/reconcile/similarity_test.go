package reconcile

import "testing"

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "", 0},
		{"abcd", "abcd", 1},
		{"abcd", "abce", 0.75},
	}
	for _, tt := range tests {
		got := similarityRatio(tt.a, tt.b)
		if got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("similarityRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityRatio_Symmetric(t *testing.T) {
	a, b := "entity linking over tables", "entity linking for tables"
	if similarityRatio(a, b) != similarityRatio(b, a) {
		t.Errorf("ratio is not symmetric")
	}
}

func TestJaccard(t *testing.T) {
	score, inter := jaccard(
		[]string{"alpha", "beta", "gamma", "delta"},
		[]string{"beta", "gamma", "delta", "epsilon"},
	)
	if inter != 3 {
		t.Errorf("intersection = %d, want 3", inter)
	}
	if score < 0.6-1e-9 || score > 0.6+1e-9 {
		t.Errorf("score = %v, want 0.6", score)
	}

	if score, inter := jaccard(nil, []string{"x"}); score != 0 || inter != 0 {
		t.Errorf("empty input should yield zero score")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := levenshteinDistance([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
