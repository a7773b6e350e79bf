// Package papers locates source-document PDFs for catalog entries.
package papers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/refcheck/internal/catalog"
)

// minFuzzyScore is the score floor below which a fuzzy candidate is rejected
// as spurious. A bare year match alone reaches it; anything weaker does not.
const minFuzzyScore = 3.0

// ListIDs returns the identifiers derivable from PDF basenames in dir.
func ListIDs(dir string) []string {
	var ids []string
	for _, name := range listPDFs(dir) {
		ids = append(ids, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return ids
}

// Locate finds the PDF for a catalog entry. An exact `<id>.pdf` match wins;
// otherwise a fuzzy year/surname/slug-token score over the directory picks a
// candidate. how is "exact", "fuzzy:<basename>", or "not_found".
func Locate(dir string, e *catalog.Entry) (path, how string) {
	exact := filepath.Join(dir, e.ID+".pdf")
	if _, err := os.Stat(exact); err == nil {
		return exact, "exact"
	}

	if fuzzy := bestMatch(dir, e); fuzzy != "" {
		return filepath.Join(dir, fuzzy), "fuzzy:" + fuzzy
	}
	return "", "not_found"
}

// bestMatch scores every PDF basename against the entry: +3 for a leading
// year match, +2 for the surname appearing as a token, up to +2 for slug
// tokens present, minus a small penalty for length distance.
func bestMatch(dir string, e *catalog.Entry) string {
	year := e.Year
	if year == 0 {
		year = catalog.IDYear(e.ID)
	}
	surname := catalog.IDSurname(e.ID)
	slugTokens := catalog.IDSlugTokens(e.ID)

	bestScore := -1.0
	best := ""
	for _, name := range listPDFs(dir) {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		score := 0.0
		if year != 0 && strings.HasPrefix(base, yearPrefix(year)) {
			score += 3
		}
		if surname != "" && containsToken(base, surname) {
			score += 2
		}
		hits := 0
		for _, t := range slugTokens {
			if t != "" && strings.Contains(base, t) {
				hits++
			}
		}
		if hits > 2 {
			hits = 2
		}
		score += float64(hits)
		score -= absInt(len(base)-len(e.ID)) * 0.01

		if score > bestScore {
			bestScore = score
			best = name
		}
	}

	if bestScore >= minFuzzyScore {
		return best
	}
	return ""
}

func listPDFs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	return names
}

// containsToken reports whether tok appears in s bounded by non-alphanumeric
// characters (or string edges).
func containsToken(s, tok string) bool {
	for i := 0; i+len(tok) <= len(s); i++ {
		j := strings.Index(s[i:], tok)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(tok)
		beforeOK := start == 0 || !isAlnum(s[start-1])
		afterOK := end == len(s) || !isAlnum(s[end])
		if beforeOK && afterOK {
			return true
		}
		i = start
	}
	return false
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func yearPrefix(year int) string {
	return fmt.Sprintf("%04d_", year)
}

func absInt(n int) float64 {
	if n < 0 {
		n = -n
	}
	return float64(n)
}
