package refextract

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsed holds the structured fields recovered from one reference segment.
// Every field other than Raw is best-effort and may be empty.
type Parsed struct {
	Raw         string
	DOI         string
	Year        int
	Title       string
	FirstAuthor string
}

var (
	leadingMarker = regexp.MustCompile(`^\s*(\[\s*\d{1,3}\s*\]|\d{1,3}[.)])\s*`)
	yearWithMod   = regexp.MustCompile(`(19|20)\d{2}[a-z]?`)

	// Author forms, searched in the text preceding the year: "Lastname, F.",
	// then any "Word," fallback, then the last token of a leading name run.
	surnameInitial = regexp.MustCompile(`([A-Z][A-Za-z'’\-]+)\s*,\s*[A-Z]`)
	surnameComma   = regexp.MustCompile(`(^|\s)([A-Z][A-Za-z'’\-]+)\s*,`)
	nameRun        = regexp.MustCompile(`^\s*([A-Z][A-Za-z'’\-]+\s+)*([A-Z][A-Za-z'’\-]+)\s*[,.]`)

	venueMarkers = regexp.MustCompile(`(?i)^(Proceedings|In\s|arXiv|ACM|IEEE|Springer|Journal|Volume|Vol\.|No\.|pp\.|https?://)`)
)

// ParseReference extracts structured fields from one accepted segment: the
// leading list marker is stripped, then DOI, year, first-author surname and
// title are recovered heuristically. Missing fields stay zero-valued.
func ParseReference(seg string) Parsed {
	p := Parsed{Raw: seg}
	clean := leadingMarker.ReplaceAllString(strings.TrimSpace(seg), "")

	if m := doiCapture.FindString(clean); m != "" {
		p.DOI = m
	}

	yearIdx := yearWithMod.FindStringIndex(clean)
	if yearIdx != nil {
		if y, err := strconv.Atoi(clean[yearIdx[0] : yearIdx[0]+4]); err == nil {
			p.Year = y
		}
	}

	// The author run precedes the year; without a year, assume it sits in
	// the first 120 characters.
	head := clean
	if yearIdx != nil {
		head = clean[:yearIdx[0]]
	} else if len(head) > 120 {
		head = head[:120]
	}
	p.FirstAuthor = firstAuthor(head)

	tail := clean
	if yearIdx != nil {
		tail = clean[yearIdx[1]:]
	}
	p.Title = titleAfterYear(tail)

	return p
}

func firstAuthor(head string) string {
	if m := surnameInitial.FindStringSubmatch(head); m != nil {
		return m[1]
	}
	if m := surnameComma.FindStringSubmatch(head); m != nil {
		return m[2]
	}
	if m := nameRun.FindStringSubmatch(head); m != nil {
		return m[2]
	}
	return ""
}

// titleAfterYear scans the sentences after the year and returns the first
// one that is long enough and free of venue markers; short or venue-flavored
// sentences are skipped, not fatal. Empty only when no sentence qualifies,
// in which case callers fall back to the raw segment text.
func titleAfterYear(tail string) string {
	for _, part := range strings.Split(tail, ".") {
		part = strings.TrimSpace(part)
		if len(part) < 6 {
			continue
		}
		if venueMarkers.MatchString(part) {
			continue
		}
		return part
	}
	return ""
}

var (
	leadingYearFrag = regexp.MustCompile(`^\s*\d{3,4}[a-z]?\.\s*`)
	colonTitle      = regexp.MustCompile(`([A-Z][A-Za-z0-9'’\- ]{3,100}:\s+[^.]{5,200})`)
	titleStops      = regexp.MustCompile(`(?i)\bIn\b|\bProceedings\b|\bProc\.?\b|\bJournal\b|\bACM\b|\bIEEE\b|\bSpringer\b|\bElsevier\b|\barXiv\b|https?://|\bdoi\b|\bvol\.?\b|\bno\.?\b|\bpp\.?\b`)
	trailingNums    = regexp.MustCompile(`\s*,?\s*\d{1,4}(\s*,\s*\d{1,4})*$`)
	wsRuns          = regexp.MustCompile(`\s+`)
)

// TitleOnly reduces a raw segment to its likely title: markers and leading
// year fragments are dropped, colon-form titles ("Jentab: Matching tabular
// data ...") are captured directly, and everything from the first venue
// marker onward is cut.
func TitleOnly(seg string) string {
	s := wsRuns.ReplaceAllString(strings.TrimSpace(seg), " ")
	s = leadingMarker.ReplaceAllString(s, "")
	s = leadingYearFrag.ReplaceAllString(s, "")

	if m := colonTitle.FindStringSubmatch(s); m != nil {
		return strings.Trim(wsRuns.ReplaceAllString(m[1], " "), " \t\n\r\"'()[]{}.;:")
	}

	if idx := yearWithMod.FindStringIndex(s); idx != nil {
		rest := s[idx[1]:]
		rest = strings.TrimPrefix(rest, ".")
		s = strings.TrimSpace(rest)
	}

	if m := titleStops.FindStringIndex(s); m != nil {
		s = s[:m[0]]
	}

	// Long leftovers without a recognized marker still usually carry the
	// title in their first sentence.
	if len(s) > 200 {
		if i := strings.IndexByte(s, '.'); i >= 0 {
			s = s[:i]
		}
	}

	s = trailingNums.ReplaceAllString(s, "")
	return strings.Trim(s, " \t\n\r\"'()[]{}.;:")
}
