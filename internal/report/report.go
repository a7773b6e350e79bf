package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/matsen/refcheck/internal/catalog"
)

// Summary aggregates the outcome of a verification run.
type Summary struct {
	Processed     int `json:"processed"`
	Mismatches    int `json:"mismatches"`
	MissingPDFs   int `json:"missing_pdfs"`
	ParseFailures int `json:"parse_failures"`
}

// BuildReport verifies every entry and renders the plain-text report. Only
// mismatched or unresolved entries are listed; matches stay silent.
func (v *Verifier) BuildReport(ctx context.Context, entries []catalog.Entry) (string, Summary) {
	var lines []string
	lines = append(lines,
		"Citation count mismatches (JSON vs PDF/Online)\n",
		"Only mismatches or unresolved entries are listed.\n",
		"")

	var sum Summary
	for i := range entries {
		e := &entries[i]
		sum.Processed++

		counts := v.CompareCounts(ctx, e)
		best, bestLabel := counts.Best()

		if best == nil {
			if strings.Contains(counts.Note, "pdf_missing") {
				sum.MissingPDFs++
			} else {
				sum.ParseFailures++
			}
			lines = append(lines, fmt.Sprintf("- %s | %s\n  json=%s pdf=%s online=%s -> unresolved (%s)",
				e.ID, e.Title,
				fmtCount(counts.JSON), fmtCount(counts.PDF), fmtCount(counts.Online),
				counts.Note))
			continue
		}

		if *counts.JSON != *best {
			sum.Mismatches++
			lines = append(lines, fmt.Sprintf("- %s | %s\n  json=%s vs %s=%d (note: %s)",
				e.ID, e.Title, fmtCount(counts.JSON), bestLabel, *best, counts.Note))
		}
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Processed: %d", sum.Processed),
		fmt.Sprintf("Mismatches: %d", sum.Mismatches),
		fmt.Sprintf("Missing PDFs: %d", sum.MissingPDFs),
		fmt.Sprintf("Parse/Lookup failures: %d", sum.ParseFailures))

	return strings.Join(lines, "\n") + "\n", sum
}

func fmtCount(n *int) string {
	if n == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *n)
}
