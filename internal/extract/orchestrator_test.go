package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeBackend returns canned text and records how often it was asked.
type fakeBackend struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (f *fakeBackend) Name() string    { return f.name }
func (f *fakeBackend) Available() bool { return f.available }

func (f *fakeBackend) Extract(path string, lastPages int) (string, error) {
	f.calls++
	return f.text, f.err
}

// refDocument builds document text whose reference list scores n entries.
func refDocument(n int) string {
	var b strings.Builder
	b.WriteString("Some body text about the study.\n\nReferences\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "[%d] Writer, A. (2019). An adequately long reference title for scoring. Journal of Testing, pp. %d-%d.\n", i, i, i+9)
	}
	return b.String()
}

func TestBestText_PrefersHigherCount(t *testing.T) {
	weak := &fakeBackend{name: "a", available: true, text: refDocument(2)}
	strong := &fakeBackend{name: "b", available: true, text: refDocument(7)}
	o := NewOrchestrator([]Backend{weak, strong}, nil)

	r, err := o.BestText("doc.pdf", ScanFull, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Backend != "b-full" {
		t.Errorf("backend = %q, want b-full", r.Backend)
	}
	if r.Count != 7 || !r.Located {
		t.Errorf("count = %d located = %v", r.Count, r.Located)
	}
}

func TestBestText_TieKeepsEarlierBackend(t *testing.T) {
	a := &fakeBackend{name: "a", available: true, text: refDocument(6)}
	b := &fakeBackend{name: "b", available: true, text: refDocument(6)}
	o := NewOrchestrator([]Backend{a, b}, nil)

	r, _ := o.BestText("doc.pdf", ScanFull, 0)
	if r.Backend != "a-full" {
		t.Errorf("backend = %q, want a-full on tie", r.Backend)
	}
}

func TestBestText_EarlyExitStopsCascade(t *testing.T) {
	strong := &fakeBackend{name: "a", available: true, text: refDocument(12)}
	next := &fakeBackend{name: "b", available: true, text: refDocument(20)}
	o := NewOrchestrator([]Backend{strong, next}, nil)

	r, _ := o.BestText("doc.pdf", ScanFull, 0)
	if r.Count != 12 {
		t.Errorf("count = %d, want 12", r.Count)
	}
	if next.calls != 0 {
		t.Errorf("later backend should not run after a confident result")
	}
}

func TestBestText_SkipsUnavailableAndFailing(t *testing.T) {
	off := &fakeBackend{name: "a", available: false, text: refDocument(9)}
	broken := &fakeBackend{name: "b", available: true, err: errors.New("boom")}
	empty := &fakeBackend{name: "c", available: true, text: ""}
	good := &fakeBackend{name: "d", available: true, text: refDocument(6)}
	o := NewOrchestrator([]Backend{off, broken, empty, good}, nil)

	r, _ := o.BestText("doc.pdf", ScanFull, 0)
	if r.Backend != "d-full" {
		t.Errorf("backend = %q, want d-full", r.Backend)
	}
	if off.calls != 0 {
		t.Errorf("unavailable backend should never be asked")
	}
}

func TestBestText_NoUsableText(t *testing.T) {
	broken := &fakeBackend{name: "a", available: true, err: errors.New("boom")}
	o := NewOrchestrator([]Backend{broken}, nil)

	r, _ := o.BestText("doc.pdf", ScanFull, 0)
	if r.Text != "" || r.Backend != "none" || r.Note != "no_result" {
		t.Errorf("unexpected empty result: %+v", r)
	}

	count, note := o.CountRefs("doc.pdf", ScanFull, 0)
	if count != 0 || !strings.HasPrefix(note, "zero_count:none:") {
		t.Errorf("CountRefs = %d, %q", count, note)
	}
}

func TestBestText_Memoized(t *testing.T) {
	b := &fakeBackend{name: "a", available: true, text: refDocument(6)}
	o := NewOrchestrator([]Backend{b}, nil)

	first, _ := o.BestText("doc.pdf", ScanFull, 0)
	second, _ := o.BestText("doc.pdf", ScanFull, 0)
	if b.calls != 1 {
		t.Errorf("backend ran %d times, want 1", b.calls)
	}
	if first != second {
		t.Errorf("memoized call should return the identical result")
	}

	// A different window is a different key.
	o.BestText("doc.pdf", ScanTail, 4)
	if b.calls != 2 {
		t.Errorf("distinct keys must not share memo entries")
	}
}

func TestCountRefs_NoteForms(t *testing.T) {
	good := &fakeBackend{name: "a", available: true, text: refDocument(6)}
	o := NewOrchestrator([]Backend{good}, nil)

	count, note := o.CountRefs("doc.pdf", ScanFull, 0)
	if count != 6 {
		t.Errorf("count = %d, want 6", count)
	}
	if !strings.HasPrefix(note, "ok:a-full: found pattern=") {
		t.Errorf("note = %q", note)
	}
}

func TestCandidates_WindowExpansion(t *testing.T) {
	o := NewOrchestrator([]Backend{PlainBackend{}, LayoutBackend{}}, nil)

	labels := func(mode ScanMode, lastPages int) []string {
		var out []string
		for _, c := range o.candidates("doc.pdf", mode, lastPages) {
			out = append(out, c.label)
		}
		return out
	}

	got := labels(ScanAuto, 8)
	want := []string{"pdf-auto-tail", "pdf-auto-full", "pdflayout-full"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("auto candidates = %v, want %v", got, want)
	}

	got = labels(ScanTail, 8)
	want = []string{"pdf-tail", "pdflayout-full"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("tail candidates = %v, want %v", got, want)
	}

	got = labels(ScanFull, 8)
	want = []string{"pdf-full", "pdflayout-full"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("full candidates = %v, want %v", got, want)
	}
}
