// Package refextract locates, segments, counts and parses the reference list
// of an extracted paper text. Extraction backends disagree and layouts are
// irregular, so everything in this package is heuristic: weak independent
// signals combined into a single defensible estimate with an audit trail.
package refextract

import "regexp"

var (
	lineBreaks  = regexp.MustCompile("\r\n?|­")
	nbsp        = regexp.MustCompile(" ")
	hyphenWrap  = regexp.MustCompile(`(\w)-\n(\w)`)
	hspaceRuns  = regexp.MustCompile(`[ \t]+`)
	blankBlocks = regexp.MustCompile(`\n\s+\n`)

	// Anchor tokens that should start a line but often don't when a backend
	// merges list items: [12], 12. / 12), and bullets.
	inlineBracket = regexp.MustCompile(`(\s*\[\s*\d{1,3}\s*\]\s+)`)
	inlineDotted  = regexp.MustCompile(`(\s*\d{1,3}\s*[.)]\s+)`)
	inlineBullet  = regexp.MustCompile("(\\s*[•\\-–]\\s+)")
)

// Normalize canonicalizes raw backend output: CRLF/CR and soft hyphens become
// newlines, non-breaking spaces become spaces, line-wrap hyphenation is
// healed ("exam-\nple" -> "example"), horizontal whitespace runs collapse to
// one space, and blank-line runs collapse. Idempotent.
func Normalize(text string) string {
	text = lineBreaks.ReplaceAllString(text, "\n")
	text = nbsp.ReplaceAllString(text, " ")
	text = hyphenWrap.ReplaceAllString(text, "$1$2")
	text = hspaceRuns.ReplaceAllString(text, " ")
	text = blankBlocks.ReplaceAllString(text, "\n\n")
	return text
}

// InsertAnchorBreaks inserts a synthetic newline before list-marker tokens
// that are not already at a line start, compensating for backends that merge
// logically separate reference entries onto one line.
func InsertAnchorBreaks(text string) string {
	text = breakBefore(text, inlineBracket)
	text = breakBefore(text, inlineDotted)
	text = breakBefore(text, inlineBullet)
	return text
}

// breakBefore prefixes each match of re with a newline unless the marker is
// already at a line start. Go's regexp has no lookbehind, and the patterns'
// leading \s* may swallow the newline itself, so both the preceding byte and
// the match's own whitespace prefix are checked.
func breakBefore(text string, re *regexp.Regexp) string {
	idxs := re.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return text
	}

	var b []byte
	last := 0
	for _, idx := range idxs {
		start := idx[0]
		if start > 0 && text[start-1] != '\n' && !leadingNewline(text[start:idx[1]]) {
			b = append(b, text[last:start]...)
			b = append(b, '\n')
			last = start
		}
	}
	if b == nil {
		return text
	}
	b = append(b, text[last:]...)
	return string(b)
}

// leadingNewline reports whether a match's leading whitespace run contains a
// newline, which leaves the marker at a line start already.
func leadingNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return false
}
