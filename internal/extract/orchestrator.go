package extract

import (
	"fmt"
	"strings"

	"github.com/matsen/refcheck/internal/refextract"
)

// ScanMode selects how much of a document is read.
type ScanMode string

const (
	// ScanAuto tries the tail window first and falls back to the full
	// document when the tail looks weak.
	ScanAuto ScanMode = "auto"
	// ScanTail reads only the last pages.
	ScanTail ScanMode = "tail"
	// ScanFull reads the whole document.
	ScanFull ScanMode = "full"
)

// DefaultLastPages is the tail window used when none is configured.
const DefaultLastPages = 8

// earlyExitCount is the located-block count at which trying further
// candidates stops paying off.
const earlyExitCount = 10

// Result is the best extraction for one (document, configuration) pair.
type Result struct {
	Text     string
	Backend  string // backend+window label, e.g. "pdf-auto-tail"
	Count    int
	Located  bool
	Note     string
	Estimate refextract.Estimate
}

type cacheKey struct {
	path      string
	mode      ScanMode
	lastPages int
	backends  string
}

// Orchestrator runs the backend cascade over a document and retains the
// highest-scoring output. Results are memoized per run; an optional
// persistent store adds a second cache tier across runs. Not safe for
// concurrent use: processing is sequential by design.
type Orchestrator struct {
	backends []Backend
	memo     map[cacheKey]*Result
	store    *CacheStore
}

// NewOrchestrator creates an orchestrator over the given backend cascade.
// store may be nil to disable the persistent tier.
func NewOrchestrator(backends []Backend, store *CacheStore) *Orchestrator {
	return &Orchestrator{
		backends: backends,
		memo:     make(map[cacheKey]*Result),
		store:    store,
	}
}

// backendSet is the cache-key component describing which backends are active.
func (o *Orchestrator) backendSet() string {
	names := make([]string, len(o.backends))
	for i, b := range o.backends {
		names[i] = b.Name()
	}
	return strings.Join(names, ",")
}

// BestText extracts the document with every available backend and window
// implied by the scan mode, scores each output by its reference count plus a
// located bonus, and returns the winner. Ties keep the earlier candidate, so
// backend preference order breaks them. A Result with empty Text and a
// zero_count note means no backend produced usable text.
func (o *Orchestrator) BestText(path string, mode ScanMode, lastPages int) (*Result, error) {
	key := cacheKey{path: path, mode: mode, lastPages: lastPages, backends: o.backendSet()}
	if r, ok := o.memo[key]; ok {
		return r, nil
	}
	if o.store != nil {
		if r, ok := o.store.Get(path, string(mode), lastPages, key.backends); ok {
			o.memo[key] = r
			return r, nil
		}
	}

	best := &Result{Backend: "none", Note: "no_result"}
	bestScore := 0

	for _, cand := range o.candidates(path, mode, lastPages) {
		text, err := cand.backend.Extract(path, cand.lastPages)
		if err != nil || text == "" {
			continue
		}
		text = refextract.InsertAnchorBreaks(refextract.Normalize(text))

		block, located := refextract.LocateBlock(text)
		est := refextract.CountEntries(block)

		score := est.Count
		if located {
			score++
		}
		if score > bestScore {
			bestScore = score
			best = &Result{
				Text:     text,
				Backend:  cand.label,
				Count:    est.Count,
				Located:  located,
				Estimate: est,
			}
			confidence := "heuristic"
			if located {
				confidence = "found"
			}
			best.Note = fmt.Sprintf("%s %s", confidence, est.Rationale)
		}
		if located && est.Count >= earlyExitCount {
			break
		}
	}

	o.memo[key] = best
	if o.store != nil && best.Text != "" {
		// Persist best-effort; a failed cache write never fails the run.
		_ = o.store.Put(path, string(mode), lastPages, key.backends, best)
	}
	return best, nil
}

// CountRefs returns the best reference count for a document plus a
// diagnostic note in the `ok:`/`zero_count:` form the report expects.
func (o *Orchestrator) CountRefs(path string, mode ScanMode, lastPages int) (int, string) {
	r, err := o.BestText(path, mode, lastPages)
	if err != nil {
		return 0, fmt.Sprintf("parse_fail: %v", err)
	}
	if r.Text == "" || r.Count == 0 {
		return r.Count, fmt.Sprintf("zero_count:%s: %s", r.Backend, r.Note)
	}
	return r.Count, fmt.Sprintf("ok:%s: %s", r.Backend, r.Note)
}

type candidate struct {
	backend   Backend
	lastPages int
	label     string
}

// candidates expands (mode, lastPages) into the attempts to make, in
// preference order. Only the plain backend supports page windows; the
// layout and external backends always read the full document.
func (o *Orchestrator) candidates(path string, mode ScanMode, lastPages int) []candidate {
	var cands []candidate
	for _, b := range o.backends {
		if !b.Available() {
			continue
		}
		switch b.(type) {
		case PlainBackend:
			switch {
			case mode == ScanFull || lastPages <= 0:
				cands = append(cands, candidate{b, 0, b.Name() + "-full"})
			case mode == ScanTail:
				cands = append(cands, candidate{b, lastPages, b.Name() + "-tail"})
			default: // auto: tail first, full as fallback
				cands = append(cands, candidate{b, lastPages, b.Name() + "-auto-tail"})
				cands = append(cands, candidate{b, 0, b.Name() + "-auto-full"})
			}
		default:
			cands = append(cands, candidate{b, 0, b.Name() + "-full"})
		}
	}
	return cands
}
