package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new refcheck repository",
	Long: `Initialize a new refcheck repository in the current directory.

Creates:
  .refcheck/
  ├── config.json     # Default config
  └── cache/          # Extraction cache (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a refcheck repository")
	}

	if err := os.MkdirAll(filepath.Join(config.RefcheckPath(root), config.CacheDir), 0755); err != nil {
		exitWithError(ExitError, "creating .refcheck directory: %v", err)
	}

	cfg := &config.Config{
		CatalogPath: "catalog.json",
		PapersDir:   "papers",
		ScanMode:    "auto",
		LastPages:   8,
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	if humanOutput {
		outputHuman("Initialized refcheck repository in %s\n", config.RefcheckPath(root))
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: config.RefcheckPath(root)})
}
