package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/extract"
)

var countFlags struct {
	scanMode  string
	lastPages int
	extractor string
}

func init() {
	countCmd.Flags().StringVar(&countFlags.scanMode, "scan-mode", "auto", "PDF scanning strategy: auto, tail, or full")
	countCmd.Flags().IntVar(&countFlags.lastPages, "last-pages", extract.DefaultLastPages, "Number of last pages to scan; 0 means full")
	countCmd.Flags().StringVar(&countFlags.extractor, "extractor", "auto", "Text extractor: auto, pdf, pdflayout, or pdftotext")
	rootCmd.AddCommand(countCmd)
}

var countCmd = &cobra.Command{
	Use:   "count <pdf>",
	Short: "Count the references in a single PDF",
	Long: `Count the references in a single PDF and print the chosen estimate with
its full signal vector. Useful for debugging documents whose counts look
wrong in the verify report.`,
	Args: cobra.ExactArgs(1),
	RunE: runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	if err := config.ValidateScanMode(countFlags.scanMode); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	backends, err := extract.BackendsByName(countFlags.extractor)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	// No repository context: single-document counts run uncached.
	orch := extract.NewOrchestrator(backends, nil)
	r, err := orch.BestText(args[0], extract.ScanMode(countFlags.scanMode), countFlags.lastPages)
	if err != nil {
		exitWithError(ExitError, "extracting %s: %v", args[0], err)
	}
	if r.Text == "" {
		exitWithError(ExitDataError, "no backend produced text for %s", args[0])
	}

	if humanOutput {
		outputHuman("count:   %d\n", r.Count)
		outputHuman("backend: %s\n", r.Backend)
		outputHuman("located: %v\n", r.Located)
		outputHuman("policy:  %s\n", r.Estimate.Policy)
		for _, sig := range r.Estimate.Signals {
			outputHuman("  %-20s %d\n", sig.Label, sig.Count)
		}
		return nil
	}
	return outputJSON(CountResponse{
		Path:      args[0],
		Count:     r.Count,
		Backend:   r.Backend,
		Located:   r.Located,
		Policy:    r.Estimate.Policy,
		Rationale: r.Estimate.Rationale,
		Signals:   r.Estimate.Signals,
	})
}
