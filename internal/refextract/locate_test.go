package refextract

import (
	"strings"
	"testing"
)

func TestLocateBlock_HeadingAndTail(t *testing.T) {
	text := "Intro text.\nReferences\n[1] Smith, J. (2019). Foo. Proc. X, 2019.\nAppendix\nextra material"

	block, located := LocateBlock(text)
	if !located {
		t.Fatal("expected block to be located")
	}
	if !strings.HasPrefix(block, "References") {
		t.Errorf("block should start at the heading, got %q", block)
	}
	if strings.Contains(block, "Appendix") || strings.Contains(block, "extra material") {
		t.Errorf("block should stop before the tail heading, got %q", block)
	}
	if !strings.Contains(block, "[1] Smith") {
		t.Errorf("block should contain the reference entries, got %q", block)
	}
}

func TestLocateBlock_TakesLastOccurrence(t *testing.T) {
	text := "Table of contents\nReferences ........ 12\nbody\nReferences\n[1] real entry"

	block, located := LocateBlock(text)
	if !located {
		t.Fatal("expected block to be located")
	}
	if !strings.Contains(block, "[1] real entry") {
		t.Errorf("expected the last heading occurrence to win, got %q", block)
	}
	if strings.Contains(block, "body") {
		t.Errorf("block should not include text before the last heading, got %q", block)
	}
}

func TestLocateBlock_CaseInsensitiveVariants(t *testing.T) {
	for _, heading := range []string{"REFERENCES", "Bibliography", "Works Cited", "References and Notes"} {
		text := "body text\n" + heading + "\n[1] entry"
		if _, located := LocateBlock(text); !located {
			t.Errorf("heading %q should be recognized", heading)
		}
	}
}

func TestLocateBlock_NoHeadingFallsBackToSuffix(t *testing.T) {
	text := strings.Repeat("x", 50000)

	block, located := LocateBlock(text)
	if located {
		t.Error("expected located=false without a heading")
	}
	if len(block) != suffixWindow {
		t.Errorf("expected a %d-character suffix window, got %d", suffixWindow, len(block))
	}
}

func TestLocateBlock_ShortTextWithoutHeading(t *testing.T) {
	block, located := LocateBlock("just a short note")
	if located {
		t.Error("expected located=false")
	}
	if block != "just a short note" {
		t.Errorf("short texts should be returned whole, got %q", block)
	}
}
