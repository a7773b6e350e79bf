package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/catalog"
	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/crossref"
	"github.com/matsen/refcheck/internal/reconcile"
	"github.com/matsen/refcheck/internal/report"
)

var verifyFlags struct {
	shared         sharedFlags
	reportPath     string
	online         bool
	crossrefMailto string
	updateCounts   bool
}

func init() {
	verifyFlags.shared.register(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyFlags.reportPath, "report", "", "Report output path (default reports/citation_mismatches.txt)")
	verifyCmd.Flags().BoolVar(&verifyFlags.online, "online", false, "Use Crossref lookup as a fallback count signal")
	verifyCmd.Flags().StringVar(&verifyFlags.crossrefMailto, "crossref-mailto", "", "Contact email for Crossref queries (recommended)")
	verifyCmd.Flags().BoolVar(&verifyFlags.updateCounts, "update-extracted-counts", false, "Write extractedCitationsCount back to the catalog")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify declared citation counts against source documents",
	Long: `Verify that each catalog entry's declared citation count matches the
reference list found in its source PDF (or, with --online, Crossref's
declared reference count as a fallback).

Writes a plain-text report listing mismatched and unresolved entries, and
always saves the extracted, reconciled citations as a JSON artifact for
manual curation. The catalog itself is modified only with
--update-extracted-counts.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	s := resolveSettings(&verifyFlags.shared)
	entries, all := loadEntries(s)
	orch := newOrchestrator(s)

	var online *crossref.Client
	if verifyFlags.online {
		gcfg, _ := config.LoadGlobalConfig()
		mailto := firstNonEmpty(verifyFlags.crossrefMailto, gcfg.CrossrefMailto)
		online = crossref.NewClient(crossref.WithMailto(mailto))
	}

	verifier := report.NewVerifier(orch, online, report.Options{
		PapersDir:   s.papersDir,
		ScanMode:    s.scanMode,
		LastPages:   s.lastPages,
		ContentMode: s.contentMode,
	})

	ctx := context.Background()
	text, summary := verifier.BuildReport(ctx, entries)

	reportPath := defaultReportPath(verifyFlags.reportPath, s)
	if err := os.MkdirAll(filepath.Dir(reportPath), 0755); err != nil {
		exitWithError(ExitDataError, "creating report directory: %v", err)
	}
	if err := os.WriteFile(reportPath, []byte(text), 0644); err != nil {
		exitWithError(ExitDataError, "writing report: %v", err)
	}

	// The artifact is written regardless of comparison outcome.
	ix := reconcile.NewIndex(all, s.papersDir)
	extracted := make(map[string][]catalog.Citation, len(entries))
	for i := range entries {
		cits := verifier.ExtractCitations(&entries[i], ix)
		if cits == nil {
			cits = []catalog.Citation{}
		}
		extracted[entries[i].ID] = cits
	}

	artifactPath := config.ExtractedPath(s.repoRoot)
	if err := writeJSONFile(artifactPath, extracted); err != nil {
		exitWithError(ExitDataError, "writing extracted citations: %v", err)
	}

	updated := 0
	if verifyFlags.updateCounts {
		updated = report.SetExtractedCounts(all, extracted)
		if updated > 0 {
			if err := catalog.Save(s.catalogPath, all); err != nil {
				exitWithError(ExitDataError, "updating catalog: %v", err)
			}
		}
	}

	if humanOutput {
		outputHuman("Wrote report to %s\n", reportPath)
		outputHuman("Processed=%d mismatches=%d missing_pdfs=%d parse_failures=%d\n",
			summary.Processed, summary.Mismatches, summary.MissingPDFs, summary.ParseFailures)
		outputHuman("Wrote extracted citations for %d entries to %s\n", len(extracted), artifactPath)
		if verifyFlags.updateCounts {
			outputHuman("Updated extractedCitationsCount for %d entries\n", updated)
		}
		return nil
	}
	return outputJSON(VerifyResponse{
		Status:        "ok",
		ReportPath:    reportPath,
		ArtifactPath:  artifactPath,
		Summary:       summary,
		CountsUpdated: updated,
	})
}
