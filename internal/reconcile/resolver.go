package reconcile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/refcheck/internal/catalog"
	"github.com/matsen/refcheck/internal/refextract"
)

// Resolution thresholds. Tuned defaults, not semantic constants.
const (
	minTokenOverlap   = 3    // Jaccard stage requires this many shared tokens
	minJaccardScore   = 0.4  // and at least this Jaccard similarity
	minRatioScore     = 0.72 // sequence-ratio stage acceptance floor
	minFilenameTokens = 2    // filename guess requires this many slug hits
)

var nonWord = regexp.MustCompile(`\W+`)

// Resolve maps a parsed reference to a catalog identifier, or "" when every
// stage fails (an unresolved reference, not an error). Stages run in strict
// order and the first success wins, so a DOI hit can never be overridden by
// a weaker title or filename signal.
func (ix *Index) Resolve(ref refextract.Parsed) string {
	if ref.DOI != "" {
		if id, ok := ix.byDOI[catalog.NormalizeDOI(ref.DOI)]; ok {
			return id
		}
	}

	if ref.Title != "" {
		norm := catalog.NormalizeTitle(ref.Title)
		if id, ok := ix.byTitle[norm]; ok {
			return id
		}
		if id := ix.resolveByTokens(ref); id != "" {
			return id
		}
		if id := ix.resolveByRatio(norm); id != "" {
			return id
		}
	}

	return ix.resolveByFilename(ref)
}

// resolveByTokens matches on token-set Jaccard similarity, restricted to
// entries sharing the parsed year when one is known. Score ties keep the
// earlier candidate: catalog order within a year bucket, identifier order
// over the whole catalog.
func (ix *Index) resolveByTokens(ref refextract.Parsed) string {
	refTokens := catalog.TokenizeTitle(ref.Title)
	if len(refTokens) == 0 {
		return ""
	}

	candidates := ix.byYearTitles[ref.Year]
	if ref.Year == 0 || len(candidates) == 0 {
		candidates = ix.allTitleTokens()
	}

	bestID := ""
	bestScore := 0.0
	for _, c := range candidates {
		score, inter := jaccard(c.tokens, refTokens)
		if inter >= minTokenOverlap && score > bestScore {
			bestScore = score
			bestID = c.id
		}
	}
	if bestScore >= minJaccardScore {
		return bestID
	}
	return ""
}

// resolveByRatio falls back to a sequence-similarity scan over every catalog
// title. Candidates are visited in identifier order, so a score tie resolves
// to the lexicographically smaller identifier.
func (ix *Index) resolveByRatio(normTitle string) string {
	bestID := ""
	bestRatio := 0.0
	for _, id := range ix.sortedIDs() {
		r := similarityRatio(normTitle, catalog.NormalizeTitle(ix.titleByID[id]))
		if r > bestRatio {
			bestRatio = r
			bestID = id
		}
	}
	if bestRatio >= minRatioScore {
		return bestID
	}
	return ""
}

// resolveByFilename guesses among source-document identifiers beginning with
// "{year}_{surname}_", picking the one containing the most title tokens.
func (ix *Index) resolveByFilename(ref refextract.Parsed) string {
	if ref.Year == 0 || ref.FirstAuthor == "" {
		return ""
	}
	surname := nonWord.ReplaceAllString(strings.ToLower(ref.FirstAuthor), "")
	if surname == "" {
		return ""
	}

	tokens := catalog.TokenizeTitle(ref.Title)
	if len(tokens) > 6 {
		tokens = tokens[:6]
	}

	prefix := fmt.Sprintf("%d_%s_", ref.Year, surname)
	bestID := ""
	bestHits := 0
	for _, id := range ix.fileIDsWithPrefix(prefix) {
		hits := 0
		for _, t := range tokens {
			if strings.Contains(id, t) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestID = id
		}
	}
	if bestHits >= minFilenameTokens {
		return bestID
	}
	return ""
}
