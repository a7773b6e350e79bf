// Package catalog defines the survey catalog: the dataset of known papers
// that extracted references are verified and reconciled against.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Citation is one element of an entry's declared citation list.
// Ref holds the catalog identifier of the cited paper when known, else "".
type Citation struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`
}

// CountVerification records the outcome of a count comparison for an entry.
// It is attached to the catalog by the persistence step, never by the engine.
type CountVerification struct {
	JSON   *int   `json:"json"`
	PDF    *int   `json:"pdf"`
	Online *int   `json:"online"`
	Best   *int   `json:"best"`
	Source string `json:"source,omitempty"`
	Note   string `json:"note"`
}

// IDValidation flags an entry whose identifier fails the format check.
type IDValidation struct {
	Valid bool   `json:"valid"`
	Note  string `json:"note"`
}

// Entry is one catalog record. Identifiers follow the YYYY_surname_slug
// convention; Year and FirstAuthor are expected to agree with the identifier
// (validated, not enforced).
type Entry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Year        int        `json:"year,omitempty"`
	FirstAuthor string     `json:"firstAuthor,omitempty"`
	Authors     []string   `json:"authors,omitempty"`
	DOI         string     `json:"doi,omitempty"`
	Citations   []Citation `json:"citations"`

	// Verification annotations, written back by the persistence step.
	ExtractedCitationsCount *int               `json:"extractedCitationsCount,omitempty"`
	CountVerified           *CountVerification `json:"citationCountVerified,omitempty"`
	IDValidation            *IDValidation      `json:"idValidation,omitempty"`
}

// Load reads a catalog JSON array from path.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return entries, nil
}

// Save writes entries back to path as an indented JSON array.
func Save(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	return nil
}

var doiURLPrefix = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)

// NormalizeDOI strips any URL scheme/host prefix and surrounding whitespace,
// so that "https://doi.org/10.1/x" and "10.1/x" compare equal.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return ""
	}
	return doiURLPrefix.ReplaceAllString(doi, "")
}

// NormalizeTitle lowercases a title, strips punctuation and collapses
// whitespace, producing the key used for exact-title reconciliation.
func NormalizeTitle(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TokenizeTitle splits a title into its significant words: normalized tokens
// of at least four characters. Short function words carry no signal for
// title matching.
func TokenizeTitle(s string) []string {
	var toks []string
	for _, t := range strings.Fields(NormalizeTitle(s)) {
		if len(t) >= 4 {
			toks = append(toks, t)
		}
	}
	return toks
}
