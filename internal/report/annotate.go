package report

import (
	"context"

	"github.com/matsen/refcheck/internal/catalog"
)

// Annotate computes a count-verification object for every entry and attaches
// it (plus an idValidation note when the identifier format check fails).
// The modified slice is returned for the persistence step to write back; the
// engine itself never touches the catalog file.
func (v *Verifier) Annotate(ctx context.Context, entries []catalog.Entry) (annotated []catalog.Entry, modified, mismatches int) {
	annotated = make([]catalog.Entry, 0, len(entries))

	for i := range entries {
		e := entries[i]
		counts := v.CompareCounts(ctx, &e)
		best, source := counts.Best()

		ann := &catalog.CountVerification{
			JSON:   counts.JSON,
			PDF:    counts.PDF,
			Online: counts.Online,
			Best:   best,
			Source: source,
			Note:   counts.Note,
		}

		if !verificationEqual(e.CountVerified, ann) {
			e.CountVerified = ann
			if ok, note := catalog.ValidateID(&e); !ok {
				e.IDValidation = &catalog.IDValidation{Valid: false, Note: note}
			}
			modified++
		}

		if counts.JSON != nil && best != nil && *counts.JSON != *best {
			mismatches++
		}
		annotated = append(annotated, e)
	}

	return annotated, modified, mismatches
}

// SetExtractedCounts records len(citations extracted) per entry under
// extractedCitationsCount, returning how many entries changed.
func SetExtractedCounts(entries []catalog.Entry, extracted map[string][]catalog.Citation) int {
	updated := 0
	for i := range entries {
		cits, ok := extracted[entries[i].ID]
		if !ok {
			continue
		}
		n := len(cits)
		if entries[i].ExtractedCitationsCount == nil || *entries[i].ExtractedCitationsCount != n {
			entries[i].ExtractedCitationsCount = &n
			updated++
		}
	}
	return updated
}

func verificationEqual(a, b *catalog.CountVerification) bool {
	if a == nil || b == nil {
		return a == b
	}
	return intPtrEqual(a.JSON, b.JSON) &&
		intPtrEqual(a.PDF, b.PDF) &&
		intPtrEqual(a.Online, b.Online) &&
		intPtrEqual(a.Best, b.Best) &&
		a.Source == b.Source &&
		a.Note == b.Note
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
