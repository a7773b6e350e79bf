package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/catalog"
	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/extract"
	"github.com/matsen/refcheck/internal/report"
)

// runSettings are the effective inputs of a verification or extraction run,
// resolved from flags, repo config and global config in that order.
type runSettings struct {
	repoRoot    string
	catalogPath string
	papersDir   string
	scanMode    extract.ScanMode
	lastPages   int
	reportPath  string
	extractor   string
	onlyIDs     []string
	contentMode report.ContentMode
}

// sharedFlags holds the flag values common to verify and extract.
type sharedFlags struct {
	catalogPath string
	papersDir   string
	scanMode    string
	lastPages   int
	extractor   string
	onlyIDs     []string
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.catalogPath, "json", "", "Path to the catalog JSON (default from config)")
	cmd.Flags().StringVar(&f.papersDir, "papers-dir", "", "Directory containing <id>.pdf documents (default from config)")
	cmd.Flags().StringVar(&f.scanMode, "scan-mode", "", "PDF scanning strategy: auto, tail, or full (default from config)")
	cmd.Flags().IntVar(&f.lastPages, "last-pages", -1, "Number of last pages to scan; 0 means full (default from config)")
	cmd.Flags().StringVar(&f.extractor, "extractor", "auto", "Text extractor: auto, pdf, pdflayout, or pdftotext")
	cmd.Flags().StringArrayVar(&f.onlyIDs, "only-id", nil, "Process only the entry with this id (repeatable)")
}

// resolveSettings merges flags with repository and global configuration.
// Network-facing values may also arrive via .env, loaded here.
func resolveSettings(f *sharedFlags) runSettings {
	_ = godotenv.Load()

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	gcfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}

	s := runSettings{
		repoRoot:    repoRoot,
		catalogPath: firstNonEmpty(f.catalogPath, cfg.CatalogPath),
		papersDir:   firstNonEmpty(f.papersDir, cfg.PapersDir, gcfg.PapersDir),
		reportPath:  cfg.ReportPath,
		extractor:   f.extractor,
		onlyIDs:     f.onlyIDs,
		contentMode: report.ContentFull,
	}

	mode := firstNonEmpty(f.scanMode, cfg.ScanMode, "auto")
	if err := config.ValidateScanMode(mode); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	s.scanMode = extract.ScanMode(mode)

	s.lastPages = f.lastPages
	if s.lastPages < 0 {
		s.lastPages = cfg.LastPages
	}
	if s.lastPages <= 0 && s.scanMode != extract.ScanFull {
		s.lastPages = extract.DefaultLastPages
	}

	if !filepath.IsAbs(s.catalogPath) {
		s.catalogPath = filepath.Join(repoRoot, s.catalogPath)
	}
	if s.papersDir != "" && !filepath.IsAbs(s.papersDir) {
		s.papersDir = filepath.Join(repoRoot, s.papersDir)
	}
	if s.reportPath != "" && !filepath.IsAbs(s.reportPath) {
		s.reportPath = filepath.Join(repoRoot, s.reportPath)
	}

	return s
}

// defaultReportPath picks the report output path: an explicit flag wins,
// then the repository config's report_path, then the conventional location
// under the repository root.
func defaultReportPath(flag string, s runSettings) string {
	if flag != "" {
		return flag
	}
	if s.reportPath != "" {
		return s.reportPath
	}
	return config.ReportPath(s.repoRoot)
}

// newOrchestrator builds the backend cascade and opens the persistent cache.
// A cache that fails to open disables the persistent tier rather than
// failing the run.
func newOrchestrator(s runSettings) *extract.Orchestrator {
	backends, err := extract.BackendsByName(s.extractor)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	store, err := extract.OpenCacheStore(config.CacheDBPath(s.repoRoot))
	if err != nil {
		store = nil
	}
	return extract.NewOrchestrator(backends, store)
}

// loadEntries reads the catalog and applies the --only-id filter. It returns
// the filtered entries plus the full catalog (reconciliation indexes the
// whole catalog regardless of the filter).
func loadEntries(s runSettings) (filtered, all []catalog.Entry) {
	entries, err := catalog.Load(s.catalogPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if len(s.onlyIDs) == 0 {
		return entries, entries
	}

	wanted := make(map[string]bool, len(s.onlyIDs))
	for _, id := range s.onlyIDs {
		wanted[id] = true
	}
	for _, e := range entries {
		if wanted[e.ID] {
			filtered = append(filtered, e)
		}
	}
	return filtered, entries
}

// writeJSONFile writes v as indented JSON, creating parent directories.
func writeJSONFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
