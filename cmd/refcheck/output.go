package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/refcheck/internal/refextract"
	"github.com/matsen/refcheck/internal/report"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	CatalogPath string `json:"catalog_path,omitempty"`
	PapersDir   string `json:"papers_dir,omitempty"`
	ScanMode    string `json:"scan_mode,omitempty"`
	LastPages   int    `json:"last_pages,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// VerifyResponse is the response for the verify command.
type VerifyResponse struct {
	Status        string         `json:"status"`
	ReportPath    string         `json:"report_path"`
	ArtifactPath  string         `json:"artifact_path"`
	Summary       report.Summary `json:"summary"`
	CountsUpdated int            `json:"counts_updated,omitempty"`
}

// ExtractResponse is the response for the extract command.
type ExtractResponse struct {
	Status       string `json:"status"`
	ArtifactPath string `json:"artifact_path"`
	Entries      int    `json:"entries"`
	WithResults  int    `json:"with_results"`
}

// CountResponse is the response for the count command.
type CountResponse struct {
	Path      string              `json:"path"`
	Count     int                 `json:"count"`
	Backend   string              `json:"backend"`
	Located   bool                `json:"located"`
	Policy    string              `json:"policy"`
	Rationale string              `json:"rationale"`
	Signals   []refextract.Signal `json:"signals"`
}
