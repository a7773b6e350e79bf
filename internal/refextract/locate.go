package refextract

import "regexp"

// suffixWindow is the fallback slice taken from the end of the document when
// no reference heading is found anywhere.
const suffixWindow = 30000

var headingPattern = regexp.MustCompile(
	`(?i)\b(references and notes|works cited|references|reference|bibliography)\b`)

var tailPattern = regexp.MustCompile(
	`(?i)\b(acknowledgments?|appendix|supplementary|biograph(y|ies)|authors?|index)\b`)

// LocateBlock finds the reference list within normalized text. It takes the
// last heading occurrence as the block start (earlier hits are tables of
// contents or in-text mentions) and truncates at the first tail-section
// heading after it. When no heading exists, it returns a bounded suffix of
// the document with located=false so callers can treat the result as
// low-confidence.
func LocateBlock(text string) (block string, located bool) {
	idxs := headingPattern.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		if len(text) > suffixWindow {
			return text[len(text)-suffixWindow:], false
		}
		return text, false
	}

	blk := text[idxs[len(idxs)-1][0]:]
	if m := tailPattern.FindStringIndex(blk); m != nil {
		blk = blk[:m[0]]
	}
	return blk, true
}
