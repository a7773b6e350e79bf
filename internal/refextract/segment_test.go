package refextract

import (
	"fmt"
	"strings"
	"testing"
)

func numberedBlock(n int) string {
	var b strings.Builder
	b.WriteString("References\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "[%d] Author%d, A. (201%d). A sufficiently long reference title. Journal of Testing, vol. %d, pp. 1-10.\n", i, i, i%10, i)
	}
	return b.String()
}

func TestAnchors_BracketAndDotted(t *testing.T) {
	block := "[1] first\n2. second\n3) third\n• fourth"
	anchors := Anchors(block)
	if len(anchors) != 4 {
		t.Fatalf("expected 4 anchors, got %d", len(anchors))
	}
	if anchors[0].Num != 1 || anchors[1].Num != 2 || anchors[2].Num != 3 {
		t.Errorf("expected numerals 1,2,3, got %d,%d,%d", anchors[0].Num, anchors[1].Num, anchors[2].Num)
	}
	if anchors[3].Num != 0 {
		t.Errorf("bullet anchors carry no numeral, got %d", anchors[3].Num)
	}
}

func TestSegmentByAnchors_SpansBetweenAnchors(t *testing.T) {
	block := "[1] first entry text\n[2] second entry text"
	segs := SegmentByAnchors(block)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if !strings.Contains(segs[0].Text, "first entry") || strings.Contains(segs[0].Text, "second") {
		t.Errorf("segment 0 spans to the next anchor, got %q", segs[0].Text)
	}
	if segs[1].End != len(block) {
		t.Errorf("last segment runs to end of block, got %d", segs[1].End)
	}
}

func TestLooksLikeReference(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"too short", "[1] Smith 2019", false},
		{"no year", "[1] Smith, J. A long title about something interesting. Journal of X.", false},
		{"venue marker", "[1] Smith, J. (2019). A long title about something. Journal of Testing.", true},
		{"doi marker", "[1] Smith, J. (2019). A long title about something here. 10.1234/abcd", true},
		{"author initial only", "[1] Smith, J. (2019). A plain title with no markers at all anywhere.", true},
		{"running header", "Conference on Empirical Methods page 42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeReference(tt.text); got != tt.want {
				t.Errorf("LooksLikeReference(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractSegments_Properties(t *testing.T) {
	segs := ExtractSegments(numberedBlock(8))
	if len(segs) != 8 {
		t.Fatalf("expected 8 segments, got %d", len(segs))
	}
	for _, s := range segs {
		if len(s.Text) < MinSegmentLen {
			t.Errorf("segment shorter than minimum length: %q", s.Text)
		}
		if !yearToken.MatchString(s.Text) {
			t.Errorf("segment without a year token: %q", s.Text)
		}
	}
}

func TestExtractSegments_DiscardsNoise(t *testing.T) {
	block := "[1] Author, A. (2019). A sufficiently long reference title. Journal of Testing, pp. 1-10.\n" +
		"[2] page 42\n" +
		"[3] Author, C. (2020). Another sufficiently long reference title. Journal of Testing, pp. 11-20.\n" +
		"[4] Author, D. (2021). Yet another sufficiently long title here. Journal of Testing, pp. 21-30.\n" +
		"[5] Author, E. (2021). A fifth sufficiently long reference title. Journal of Testing, pp. 31-40.\n" +
		"[6] Author, F. (2022). A sixth sufficiently long reference title. Journal of Testing, pp. 41-50.\n"

	segs := ExtractSegments(block)
	if len(segs) != 5 {
		t.Fatalf("expected noise segment to be discarded, got %d segments", len(segs))
	}
	for _, s := range segs {
		if s.Num == 2 {
			t.Errorf("segment [2] should have been filtered as noise")
		}
	}
}

func TestExtractSegments_BoundaryFallback(t *testing.T) {
	block := "Alice Smith, Bob Jones. 2019. A study of reference extraction. Journal of Testing.\n" +
		"Carol Lee, Dan Brown. 2020. Another study of segmentation heuristics. Proc. of Y.\n" +
		"Erin White, Frank Green. 2021. A third entry with enough length to pass. Journal of Z."

	segs := ExtractSegments(block)
	if len(segs) != 3 {
		t.Fatalf("expected 3 boundary-split segments, got %d", len(segs))
	}
	if !strings.Contains(segs[0].Text, "Alice Smith") || strings.Contains(segs[0].Text, "Carol") {
		t.Errorf("unexpected first segment: %q", segs[0].Text)
	}
}
