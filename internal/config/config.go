// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .refcheck/config.json.
type Config struct {
	CatalogPath string `json:"catalog_path"`          // Path to the catalog JSON
	PapersDir   string `json:"papers_dir"`            // Directory containing <id>.pdf documents
	ReportPath  string `json:"report_path,omitempty"` // Default report output path
	ScanMode    string `json:"scan_mode,omitempty"`   // auto, tail, or full
	LastPages   int    `json:"last_pages,omitempty"`  // Tail window size in pages
}

const (
	RefcheckDir   = ".refcheck"
	ConfigFile    = "config.json"
	CacheDir      = "cache"
	CacheDBFile   = "extract.db"
	ReportsDir    = "reports"
	ReportFile    = "citation_mismatches.txt"
	ExtractedFile = "extracted_citations.json"
)

// ValidScanModes lists the supported scan_mode values.
var ValidScanModes = []string{"auto", "tail", "full"}

// RefcheckPath returns the path to the .refcheck directory from a root path.
func RefcheckPath(root string) string {
	return filepath.Join(root, RefcheckDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RefcheckDir, ConfigFile)
}

// CacheDBPath returns the path to the extraction cache database.
func CacheDBPath(root string) string {
	return filepath.Join(root, RefcheckDir, CacheDir, CacheDBFile)
}

// ReportPath returns the default report path from a root path.
func ReportPath(root string) string {
	return filepath.Join(root, ReportsDir, ReportFile)
}

// ExtractedPath returns the default extraction-artifact path from a root path.
func ExtractedPath(root string) string {
	return filepath.Join(root, ReportsDir, ExtractedFile)
}

// IsRepository checks if the given path contains a refcheck repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RefcheckPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a refcheck repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a refcheck repository (no .refcheck directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ValidateScanMode checks that the scan mode value is valid.
func ValidateScanMode(mode string) error {
	if mode == "" {
		return nil // Empty defaults to "auto"
	}
	for _, valid := range ValidScanModes {
		if mode == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid scan_mode: %s (valid: %v)", mode, ValidScanModes)
}

// ValidatePapersDir checks that the papers directory exists.
func ValidatePapersDir(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}

	expanded := ExpandPath(path)
	info, err := os.Stat(expanded)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expanded)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expanded)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
