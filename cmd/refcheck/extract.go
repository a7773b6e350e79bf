package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/catalog"
	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/reconcile"
	"github.com/matsen/refcheck/internal/report"
)

var extractFlags struct {
	shared      sharedFlags
	contentMode string
	outPath     string
}

func init() {
	extractFlags.shared.register(extractCmd)
	extractCmd.Flags().StringVar(&extractFlags.contentMode, "content-mode", "full", "Artifact content: full (raw citation text) or title")
	extractCmd.Flags().StringVar(&extractFlags.outPath, "out", "", "Artifact output path (default reports/extracted_citations.json)")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and reconcile citations without verifying counts",
	Long: `Extract each entry's reference list from its source PDF, reconcile the
references against the catalog, and save them as a JSON artifact mapping
entry ids to {ref, title} objects.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	s := resolveSettings(&extractFlags.shared)
	switch extractFlags.contentMode {
	case "full":
		s.contentMode = report.ContentFull
	case "title":
		s.contentMode = report.ContentTitle
	default:
		exitWithError(ExitError, "invalid content-mode: %s (valid: full, title)", extractFlags.contentMode)
	}

	entries, all := loadEntries(s)
	orch := newOrchestrator(s)

	verifier := report.NewVerifier(orch, nil, report.Options{
		PapersDir:   s.papersDir,
		ScanMode:    s.scanMode,
		LastPages:   s.lastPages,
		ContentMode: s.contentMode,
	})

	ix := reconcile.NewIndex(all, s.papersDir)
	extracted := make(map[string][]catalog.Citation, len(entries))
	withResults := 0
	for i := range entries {
		cits := verifier.ExtractCitations(&entries[i], ix)
		if len(cits) > 0 {
			withResults++
		} else {
			cits = []catalog.Citation{}
		}
		extracted[entries[i].ID] = cits
	}

	outPath := extractFlags.outPath
	if outPath == "" {
		outPath = config.ExtractedPath(s.repoRoot)
	}
	if err := writeJSONFile(outPath, extracted); err != nil {
		exitWithError(ExitDataError, "writing extracted citations: %v", err)
	}

	if humanOutput {
		outputHuman("Wrote extracted citations for %d/%d entries to %s\n",
			withResults, len(entries), outPath)
		return nil
	}
	return outputJSON(ExtractResponse{
		Status:       "ok",
		ArtifactPath: outPath,
		Entries:      len(entries),
		WithResults:  withResults,
	})
}
