package refextract

import (
	"regexp"
	"strconv"
	"strings"
)

// MinSegmentLen is the minimum text length for a segment to be accepted as a
// plausible reference. Shorter spans between anchors are running headers or
// column debris.
const MinSegmentLen = 40

// minAnchorSegments is the anchor count below which segmentation falls back
// to the sentence-boundary heuristic (un-numbered author-year lists).
const minAnchorSegments = 5

// Segment is a contiguous span of block text believed to represent one
// bibliographic entry. Num carries the explicit ordinal label when the source
// numbers its entries, 0 otherwise.
type Segment struct {
	Start int
	End   int
	Text  string
	Num   int
}

// Anchor marks a position believed to start a new reference entry.
type Anchor struct {
	Pos   int
	Label string
	Num   int
}

var (
	anchorPattern = regexp.MustCompile(`(?m)^[ \t]*(\[\s*(\d{1,3})\s*\]|(\d{1,3})\s*[.)]|[•\-–])\s+`)

	yearToken   = regexp.MustCompile(`(19|20)\d{2}`)
	doiToken    = regexp.MustCompile(`(?i)10\.\d{4,9}/`)
	biblioToken = regexp.MustCompile(`(?i)\b(doi|arXiv|Proc\.?|Proceedings|Journal|Conference|ACM|IEEE|Springer|Elsevier|Wiley|CEUR|LNCS|vol\.?|no\.?|pp\.?|In:)\b`)

	// Author patterns near the start of a segment: "Lastname, F." or
	// "F. Lastname" after optional list-marker debris.
	authorInitial  = regexp.MustCompile(`^[\s\[\d).\-]*[A-Z][A-Za-z\-']+,\s*[A-Z]\.`)
	initialSurname = regexp.MustCompile(`^[\s\[\d).\-]*[A-Z]\.[\s\-]*[A-Z][A-Za-z\-']+`)

	// Capitalized multi-word name followed by a comma, anchored at line
	// start. Marks entry boundaries in un-numbered author-year lists.
	authorLineStart = regexp.MustCompile(`^\s*[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'’\-]+(\s[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'’\-]+)+\s*,`)
)

// Anchors scans the block for line-start list markers: bracketed numerals,
// numerals followed by . or ), and bullet glyphs. Bullets yield Num 0.
func Anchors(block string) []Anchor {
	var anchors []Anchor
	for _, m := range anchorPattern.FindAllStringSubmatchIndex(block, -1) {
		a := Anchor{Pos: m[0], Label: block[m[2]:m[3]]}
		for _, g := range []int{4, 6} { // bracket numeral, dotted numeral
			if m[g] >= 0 {
				if n, err := strconv.Atoi(block[m[g]:m[g+1]]); err == nil {
					a.Num = n
				}
			}
		}
		anchors = append(anchors, a)
	}
	return anchors
}

// SegmentByAnchors splits the block at each anchor. Each segment runs from
// its anchor to the position before the next one (end of block for the last).
// No plausibility filtering is applied here.
func SegmentByAnchors(block string) []Segment {
	anchors := Anchors(block)
	segs := make([]Segment, 0, len(anchors))
	for i, a := range anchors {
		end := len(block)
		if i+1 < len(anchors) {
			end = anchors[i+1].Pos
		}
		segs = append(segs, Segment{
			Start: a.Pos,
			End:   end,
			Text:  strings.TrimSpace(block[a.Pos:end]),
			Num:   a.Num,
		})
	}
	return segs
}

// LooksLikeReference reports whether a segment's text is plausibly one
// bibliographic entry: long enough, carrying a year token, and carrying
// either a DOI, a recognized venue/volume marker, or an author pattern near
// the start.
func LooksLikeReference(text string) bool {
	txt := strings.TrimSpace(text)
	if len(txt) < MinSegmentLen {
		return false
	}
	if !yearToken.MatchString(txt) {
		return false
	}
	if doiToken.MatchString(txt) || biblioToken.MatchString(txt) {
		return true
	}
	return authorInitial.MatchString(txt) || initialSurname.MatchString(txt)
}

// ValidSegments returns the anchor-based segments that pass the plausibility
// filter. The counter uses these both as a detector and for label contiguity.
func ValidSegments(block string) []Segment {
	var valid []Segment
	for _, s := range SegmentByAnchors(block) {
		if LooksLikeReference(s.Text) {
			valid = append(valid, s)
		}
	}
	return valid
}

// ExtractSegments segments a reference block into candidate entries. Anchors
// are preferred; when too few are found it falls back to boundary splitting:
// a line ending with a sentence-terminal period followed by an author-style
// line closes the accumulating segment. Either way, only segments passing
// the plausibility filter are returned.
func ExtractSegments(block string) []Segment {
	segs := ValidSegments(block)
	if len(segs) >= minAnchorSegments {
		return segs
	}
	return boundarySegments(block)
}

// boundarySegments splits un-numbered author-year lists on sentence/author
// transitions.
func boundarySegments(block string) []Segment {
	lines := strings.Split(block, "\n")
	var segs []Segment
	var cur []string
	pos := 0
	start := 0

	flush := func(end int) {
		chunk := strings.TrimSpace(strings.Join(cur, " "))
		if LooksLikeReference(chunk) {
			segs = append(segs, Segment{Start: start, End: end, Text: chunk})
		}
		cur = cur[:0]
	}

	for i, ln := range lines {
		if len(cur) == 0 {
			start = pos
		}
		cur = append(cur, strings.TrimRight(ln, " \t"))
		lineEnd := pos + len(ln)

		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		if strings.HasSuffix(strings.TrimRight(ln, " \t"), ".") && authorLineStart.MatchString(next) {
			flush(lineEnd)
		}
		pos = lineEnd + 1
	}
	if len(cur) > 0 {
		flush(len(block))
	}
	return segs
}
