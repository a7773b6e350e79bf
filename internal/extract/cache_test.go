package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) (*CacheStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenCacheStore(filepath.Join(dir, "cache", "extract.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	doc := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(doc, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
	return store, doc
}

func cachedResult() *Result {
	r := &Result{
		Text:    "References\n[1] something",
		Backend: "pdf-auto-tail",
		Count:   17,
		Located: true,
		Note:    "found pattern=segmented counts={segmented:17} contig=1.00 contig_all=1.00",
	}
	r.Estimate.Count = 17
	r.Estimate.Policy = "segmented"
	r.Estimate.Rationale = "pattern=segmented counts={segmented:17} contig=1.00 contig_all=1.00"
	return r
}

func TestCacheStore_RoundTrip(t *testing.T) {
	store, doc := openTestStore(t)
	if err := store.Put(doc, "auto", 8, "pdf,pdflayout", cachedResult()); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Get(doc, "auto", 8, "pdf,pdflayout")
	if !ok {
		t.Fatal("expected cache hit")
	}
	want := cachedResult()
	if got.Text != want.Text || got.Backend != want.Backend ||
		got.Count != want.Count || got.Located != want.Located || got.Note != want.Note {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Estimate.Policy != "segmented" || got.Estimate.Count != 17 {
		t.Errorf("estimate not recovered: %+v", got.Estimate)
	}
}

func TestCacheStore_MissOnDifferentKey(t *testing.T) {
	store, doc := openTestStore(t)
	if err := store.Put(doc, "auto", 8, "pdf", cachedResult()); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(doc, "full", 8, "pdf"); ok {
		t.Errorf("different mode should miss")
	}
	if _, ok := store.Get(doc, "auto", 4, "pdf"); ok {
		t.Errorf("different window should miss")
	}
}

func TestCacheStore_InvalidatedByMtime(t *testing.T) {
	store, doc := openTestStore(t)
	if err := store.Put(doc, "auto", 8, "pdf", cachedResult()); err != nil {
		t.Fatal(err)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(doc, later, later); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(doc, "auto", 8, "pdf"); ok {
		t.Errorf("stale entry should miss after the file changes")
	}
}

func TestCacheStore_MissingFile(t *testing.T) {
	store, _ := openTestStore(t)
	if _, ok := store.Get("/nonexistent/doc.pdf", "auto", 8, "pdf"); ok {
		t.Errorf("unstattable files can never hit")
	}
}

func TestCacheStore_SecondTierAcrossOrchestrators(t *testing.T) {
	store, doc := openTestStore(t)

	first := &fakeBackend{name: "pdf", available: true, text: refDocument(6)}
	o1 := NewOrchestrator([]Backend{first}, store)
	r1, err := o1.BestText(doc, ScanFull, 0)
	if err != nil {
		t.Fatal(err)
	}

	// A fresh orchestrator with the same backend set must be served from the
	// store without extracting again.
	second := &fakeBackend{name: "pdf", available: true, text: refDocument(6)}
	o2 := NewOrchestrator([]Backend{second}, store)
	r2, err := o2.BestText(doc, ScanFull, 0)
	if err != nil {
		t.Fatal(err)
	}
	if second.calls != 0 {
		t.Errorf("backend ran despite a persistent cache hit")
	}
	if r2.Count != r1.Count || r2.Backend != r1.Backend || r2.Text != r1.Text {
		t.Errorf("cached result diverged: %+v vs %+v", r1, r2)
	}
}

func TestPolicyFromRationale(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"pattern=segmented counts={...}", "segmented"},
		{"pattern=labels_unique_contig", "labels_unique_contig"},
		{"malformed", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := policyFromRationale(tt.in); got != tt.want {
			t.Errorf("policyFromRationale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
