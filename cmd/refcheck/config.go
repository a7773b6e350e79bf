package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  refcheck config                        # Show all config
  refcheck config papers-dir             # Get specific value
  refcheck config papers-dir ./papers    # Set value

Keys:
  catalog     Path to the catalog JSON file
  papers-dir  Directory containing <id>.pdf source documents
  scan-mode   PDF scanning strategy (auto, tail, full)
  last-pages  Tail window size in pages`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if len(args) == 0 {
		if humanOutput {
			outputHuman("catalog:    %s\n", cfg.CatalogPath)
			outputHuman("papers-dir: %s\n", cfg.PapersDir)
			outputHuman("scan-mode:  %s\n", cfg.ScanMode)
			outputHuman("last-pages: %d\n", cfg.LastPages)
			return nil
		}
		return outputJSON(ConfigResponse{
			CatalogPath: cfg.CatalogPath,
			PapersDir:   cfg.PapersDir,
			ScanMode:    cfg.ScanMode,
			LastPages:   cfg.LastPages,
		})
	}

	key := args[0]

	if len(args) == 1 {
		var value string
		switch key {
		case "catalog":
			value = cfg.CatalogPath
		case "papers-dir":
			value = cfg.PapersDir
		case "scan-mode":
			value = cfg.ScanMode
		case "last-pages":
			value = strconv.Itoa(cfg.LastPages)
		default:
			exitWithError(ExitError, "unknown config key: %s", key)
		}
		if humanOutput {
			outputHuman("%s\n", value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	value := args[1]
	switch key {
	case "catalog":
		cfg.CatalogPath = value
	case "papers-dir":
		if err := config.ValidatePapersDir(value); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		cfg.PapersDir = value
	case "scan-mode":
		if err := config.ValidateScanMode(value); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		cfg.ScanMode = value
	case "last-pages":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			exitWithError(ExitError, "last-pages must be a non-negative integer")
		}
		cfg.LastPages = n
	default:
		exitWithError(ExitError, "unknown config key: %s", key)
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("%s = %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}
