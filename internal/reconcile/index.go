// Package reconcile maps parsed references to canonical catalog identifiers.
package reconcile

import (
	"sort"
	"strings"

	"github.com/matsen/refcheck/internal/catalog"
	"github.com/matsen/refcheck/internal/papers"
)

// titleTokens pairs a catalog identifier with its tokenized title.
type titleTokens struct {
	id     string
	tokens []string
}

// Index is a read-only catalog lookup structure built once per run: DOI map,
// normalized-title map, year-bucketed title tokens, and the set of
// identifiers derivable from available source-document filenames.
type Index struct {
	byDOI        map[string]string
	byTitle      map[string]string
	titleByID    map[string]string
	byYearTitles map[int][]titleTokens
	fileIDs      []string
}

// NewIndex builds the reconciliation index from catalog entries and the
// source-document directory.
func NewIndex(entries []catalog.Entry, papersDir string) *Index {
	ix := &Index{
		byDOI:        make(map[string]string),
		byTitle:      make(map[string]string),
		titleByID:    make(map[string]string),
		byYearTitles: make(map[int][]titleTokens),
	}

	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			continue
		}
		if e.Title != "" {
			ix.titleByID[e.ID] = e.Title
			ix.byTitle[catalog.NormalizeTitle(e.Title)] = e.ID
			if e.Year != 0 {
				ix.byYearTitles[e.Year] = append(ix.byYearTitles[e.Year],
					titleTokens{id: e.ID, tokens: catalog.TokenizeTitle(e.Title)})
			}
		}
		if e.DOI != "" {
			ix.byDOI[catalog.NormalizeDOI(e.DOI)] = e.ID
		}
	}

	if papersDir != "" {
		ix.fileIDs = papers.ListIDs(papersDir)
	}

	return ix
}

// TitleFor returns the canonical catalog title for an identifier.
func (ix *Index) TitleFor(id string) (string, bool) {
	t, ok := ix.titleByID[id]
	return t, ok
}

// allTitleTokens returns every entry's tokenized title, regardless of year,
// in identifier order so downstream scoring is deterministic.
func (ix *Index) allTitleTokens() []titleTokens {
	out := make([]titleTokens, 0, len(ix.titleByID))
	for _, id := range ix.sortedIDs() {
		out = append(out, titleTokens{id: id, tokens: catalog.TokenizeTitle(ix.titleByID[id])})
	}
	return out
}

// sortedIDs returns every titled entry's identifier in lexical order.
func (ix *Index) sortedIDs() []string {
	ids := make([]string, 0, len(ix.titleByID))
	for id := range ix.titleByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// fileIDsWithPrefix returns source-document identifiers starting with prefix.
func (ix *Index) fileIDsWithPrefix(prefix string) []string {
	var out []string
	for _, id := range ix.fileIDs {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out
}
