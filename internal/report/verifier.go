// Package report compares declared citation counts against extracted
// estimates and produces the diagnostic report, the extraction artifact, and
// catalog annotations.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/matsen/refcheck/internal/catalog"
	"github.com/matsen/refcheck/internal/crossref"
	"github.com/matsen/refcheck/internal/extract"
	"github.com/matsen/refcheck/internal/papers"
	"github.com/matsen/refcheck/internal/reconcile"
	"github.com/matsen/refcheck/internal/refextract"
)

// ContentMode selects what the artifact stores for each resolved reference.
type ContentMode string

const (
	// ContentFull keeps the raw citation text as extracted.
	ContentFull ContentMode = "full"
	// ContentTitle keeps the canonical catalog title when the reference is
	// resolved, else a heuristic title-only reduction.
	ContentTitle ContentMode = "title"
)

// Options configures a verification run.
type Options struct {
	PapersDir   string
	ScanMode    extract.ScanMode
	LastPages   int
	ContentMode ContentMode
}

// Counts holds every count signal gathered for one entry. Nil means the
// signal was unavailable, which is distinct from a zero count.
type Counts struct {
	JSON   *int
	PDF    *int
	Online *int
	Note   string
}

// Best returns the preferred external count and its source label, or
// (nil, "") when neither signal is available. Document-derived counts win
// over online lookups.
func (c Counts) Best() (*int, string) {
	if c.PDF != nil {
		return c.PDF, "pdf"
	}
	if c.Online != nil {
		return c.Online, "online"
	}
	return nil, ""
}

// Verifier drives per-entry verification. Entries are processed one at a
// time; a failure on one entry degrades its verdict and never aborts the
// batch.
type Verifier struct {
	orch   *extract.Orchestrator
	online *crossref.Client // nil disables online lookups
	opts   Options
}

// NewVerifier creates a Verifier. online may be nil.
func NewVerifier(orch *extract.Orchestrator, online *crossref.Client, opts Options) *Verifier {
	if opts.ScanMode == "" {
		opts.ScanMode = extract.ScanAuto
	}
	if opts.ContentMode == "" {
		opts.ContentMode = ContentFull
	}
	return &Verifier{orch: orch, online: online, opts: opts}
}

// CompareCounts gathers the declared count, the document-derived estimate
// and (when enabled) the online count for one entry. All failures become
// notes.
func (v *Verifier) CompareCounts(ctx context.Context, e *catalog.Entry) Counts {
	jsonCount := len(e.Citations)
	c := Counts{JSON: &jsonCount}
	var notes []string

	if ok, idNote := catalog.ValidateID(e); !ok {
		notes = append(notes, "id:"+idNote)
	}

	if path, how := papers.Locate(v.opts.PapersDir, e); path != "" {
		count, note := v.documentCount(path)
		c.PDF = count
		notes = append(notes, fmt.Sprintf("pdf:%s:%s", how, note))
	} else {
		notes = append(notes, "pdf_missing")
	}

	if v.online != nil {
		count, note := v.online.ReferenceCount(ctx, e.DOI, e.Title)
		c.Online = count
		notes = append(notes, "online:"+note)
	}

	c.Note = strings.Join(notes, "; ")
	return c
}

// documentCount runs the extraction cascade and interprets the outcome: a
// usable text yields its count (zero included), while a run where no backend
// produced text yields no count at all.
func (v *Verifier) documentCount(path string) (*int, string) {
	r, err := v.orch.BestText(path, v.opts.ScanMode, v.opts.LastPages)
	if err != nil {
		return nil, fmt.Sprintf("parse_fail: %v", err)
	}
	if r.Text == "" {
		return nil, fmt.Sprintf("zero_count:%s: %s", r.Backend, r.Note)
	}
	count := r.Count
	if count > 0 {
		return &count, fmt.Sprintf("ok:%s: %s", r.Backend, r.Note)
	}
	return &count, fmt.Sprintf("zero_count:%s: %s", r.Backend, r.Note)
}

// ExtractCitations extracts, parses and reconciles the reference list of one
// entry, producing the artifact rows for downstream curation. A missing
// document or empty extraction yields nil, not an error.
func (v *Verifier) ExtractCitations(e *catalog.Entry, ix *reconcile.Index) []catalog.Citation {
	path, _ := papers.Locate(v.opts.PapersDir, e)
	if path == "" {
		return nil
	}

	// Segmentation wants the whole document: tail windows clip reference
	// lists that span column breaks.
	r, err := v.orch.BestText(path, extract.ScanFull, 0)
	if err != nil || r.Text == "" {
		return nil
	}

	block, _ := refextract.LocateBlock(r.Text)
	var cits []catalog.Citation
	for _, seg := range refextract.ExtractSegments(block) {
		parsed := refextract.ParseReference(seg.Text)
		id := ix.Resolve(parsed)
		cits = append(cits, catalog.Citation{
			Ref:   id,
			Title: v.content(parsed, id, ix),
		})
	}
	return cits
}

func (v *Verifier) content(parsed refextract.Parsed, id string, ix *reconcile.Index) string {
	if v.opts.ContentMode == ContentTitle {
		if id != "" {
			if t, ok := ix.TitleFor(id); ok {
				return t
			}
		}
		if parsed.Title != "" {
			return parsed.Title
		}
		return refextract.TitleOnly(parsed.Raw)
	}
	return strings.Join(strings.Fields(parsed.Raw), " ")
}
