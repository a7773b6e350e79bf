package refextract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Detector floors and policy thresholds. These were tuned against a labeled
// sample of survey papers; treat them as defaults, not invariants.
const (
	minSignalFloor   = 5   // general floor before a secondary signal is trusted
	minCorpYearFloor = 3   // organization+year lists are rare but reliable
	maxYearLead      = 300 // year-leading lines above this are runaway matches

	segmentContigMin  = 0.5 // segment labels must look like a numbered run
	labelContigMin    = 0.6 // unique-label override needs near-unbroken numbering
	labelOverrideFrac = 0.7 // segment count below this fraction of labels defers
	strongSignalFrac  = 0.8 // secondary signal must be near the current best
	weakSignalFrac    = 0.7 // floor for clustered/organization signals
	labelCapFactor    = 1.1 // max-detector fallback is capped near label count
)

// Estimate is the counter's single chosen output plus its audit trail.
type Estimate struct {
	Count     int
	Policy    string   // which detector/policy branch produced Count
	Rationale string   // full raw-signal vector, for audit and tuning
	Signals   []Signal // every raw detector value, in fixed order
}

// Signal is one raw detector result.
type Signal struct {
	Label string
	Count int
}

var (
	squareLine = regexp.MustCompile(`(?m)^\s*\[\s*\d{1,3}\s*\]\s+`)
	dottedLine = regexp.MustCompile(`(?m)^\s*\d{1,3}\s*[.)]\s+`)
	bulletLine = regexp.MustCompile("(?m)^\\s*[•\\-–]\\s+")
	bracketAny = regexp.MustCompile(`\[(\d{1,3})\]`)

	paraYear    = regexp.MustCompile(`(?m)^\s*[A-Z][^\n]{2,200}?\(?(19|20)\d{2}\)?[.,]`)
	paraVenue   = regexp.MustCompile(`(?i)\b(doi:|vol\.|no\.|pp\.|Proc\.|Journal|Conference|ACM|IEEE|Springer)\b`)
	paraDOILine = regexp.MustCompile(`(?i)doi\s*[: ]\s*10\.[^\s]+`)
	doiCapture  = regexp.MustCompile(`(?i)10\.[0-9]{4,9}/[^\s)\]};,]+`)

	// "Lastname, F. ... 2019" at line start (author-year bibliographies).
	authorInitialLine = regexp.MustCompile(`(?m)^\s*[A-Z][A-Za-z\-']+(\s[A-Z][A-Za-z\-']+)*,\s*([A-Z]\.[\s\-]?)+.*?(19|20)\d{2}`)

	// "Firstname Lastname," at line start (common in ACL-style bibliographies).
	authorFnameLine = regexp.MustCompile(`(?m)^\s*[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'’\-]+(\s[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'’\-]+)+\s*,`)

	// "Google. 2015." style organization entries.
	corpYearLine = regexp.MustCompile(`(?m)^\s*[A-Z][A-Za-z0-9 .&/\-]{2,40}\.?\s*(19|20)\d{2}\.`)

	// A year appearing early in a line, terminated by a period.
	yearLeadLine = regexp.MustCompile(`(?m)^\s*[^\n]{0,300}?(19|20)\d{2}[a-z]?\.`)
)

// CountEntries computes independent detector counts over a reference block
// and arbitrates between them with an ordered, deterministic policy. The
// returned Estimate always carries the full raw-signal vector.
func CountEntries(block string) Estimate {
	validSegs := ValidSegments(block)
	segCount := len(validSegs)

	cSquare := len(squareLine.FindAllString(block, -1))
	cDotted := len(dottedLine.FindAllString(block, -1))
	cBullet := len(bulletLine.FindAllString(block, -1))

	uniqLabels := uniqueBracketLabels(block)
	cLabelsUnique := len(uniqLabels)

	cParas := countReferenceParagraphs(block)
	cAuthorStart := len(authorInitialLine.FindAllString(block, -1))

	fnameIdx := authorFnameLine.FindAllStringIndex(block, -1)
	cAuthorFname := len(fnameIdx)
	cAuthorClusters := clusterAnchors(fnameIdx)

	cCorpYear := len(corpYearLine.FindAllString(block, -1))
	cDOIsUnique := countUniqueDOIs(block)
	cBoundaries := countBoundaryTransitions(block)
	cYearLead := len(yearLeadLine.FindAllString(block, -1))

	contigSegs := contiguity(segmentLabels(validSegs))
	contigAll := contiguity(uniqLabels)

	signals := []Signal{
		{"segmented", segCount},
		{"square", cSquare},
		{"numbered", cDotted},
		{"bullet", cBullet},
		{"labels_unique", cLabelsUnique},
		{"paragraph", cParas},
		{"author_start", cAuthorStart},
		{"author_fname_start", cAuthorFname},
		{"corp_year", cCorpYear},
		{"dois_unique", cDOIsUnique},
		{"author_clusters", cAuthorClusters},
		{"boundaries", cBoundaries},
		{"year_lead", cYearLead},
	}

	// Baseline: the single largest detector. The policy below overrides it
	// whenever a more trustworthy signal is available.
	chosenLabel, chosen := maxSignal(signals)

	switch {
	case segCount >= minSignalFloor && (contigSegs >= segmentContigMin || cSquare > 0):
		// Segmentation looks sound. Numbered lists are reliably fully
		// labeled, so when segmentation falls far short of a near-contiguous
		// label set, the labels win.
		if cLabelsUnique >= minSignalFloor &&
			segCount < int(labelOverrideFrac*float64(cLabelsUnique)) &&
			contigAll >= labelContigMin {
			chosenLabel, chosen = "labels_unique_contig", cLabelsUnique
		} else {
			chosenLabel, chosen = "segmented", segCount
		}

	case cAuthorStart >= minSignalFloor && float64(cAuthorStart) >= float64(chosen)*strongSignalFrac:
		chosenLabel, chosen = "author_start", cAuthorStart

	case cAuthorFname >= minSignalFloor:
		if cAuthorClusters >= minSignalFloor &&
			(float64(cAuthorClusters) >= float64(chosen)*weakSignalFrac || cAuthorClusters <= maxYearLead) {
			chosenLabel, chosen = "author_clusters", cAuthorClusters
		} else {
			chosenLabel, chosen = "author_fname_start", cAuthorFname
		}

	case cCorpYear >= minCorpYearFloor && float64(cCorpYear) >= float64(chosen)*weakSignalFrac:
		chosenLabel, chosen = "corp_year", cCorpYear

	case cDOIsUnique >= minSignalFloor && float64(cDOIsUnique) >= float64(chosen)*strongSignalFrac:
		chosenLabel, chosen = "dois_unique", cDOIsUnique

	case cYearLead >= minSignalFloor && cYearLead <= maxYearLead &&
		float64(cYearLead) >= float64(max(chosen, cAuthorFname))*strongSignalFrac:
		chosenLabel, chosen = "year_lead", cYearLead

	case cBoundaries >= minSignalFloor && float64(cBoundaries) >= float64(chosen)*weakSignalFrac:
		chosenLabel, chosen = "boundaries", cBoundaries

	default:
		// Paragraph and year-lead detectors over-count prose; when bracket
		// labels exist they bound the plausible maximum.
		if cLabelsUnique > 0 && chosen > int(float64(cLabelsUnique)*labelCapFactor) {
			chosenLabel, chosen = chosenLabel+"->labels_unique_cap", cLabelsUnique
		}
	}

	var parts []string
	for _, s := range signals {
		parts = append(parts, fmt.Sprintf("%s:%d", s.Label, s.Count))
	}
	rationale := fmt.Sprintf("pattern=%s counts={%s} contig=%.2f contig_all=%.2f",
		chosenLabel, strings.Join(parts, ", "), contigSegs, contigAll)

	return Estimate{Count: chosen, Policy: chosenLabel, Rationale: rationale, Signals: signals}
}

// Contiguity returns unique/(max-min+1) over the observed numeral labels:
// 1.0 means the labels form an unbroken integer run, 0 means no labels.
func contiguity(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	uniq := uniqueSorted(labels)
	span := uniq[len(uniq)-1] - uniq[0] + 1
	if span <= 0 {
		return 0
	}
	return float64(len(uniq)) / float64(span)
}

func segmentLabels(segs []Segment) []int {
	var nums []int
	for _, s := range segs {
		if s.Num > 0 {
			nums = append(nums, s.Num)
		}
	}
	return nums
}

func uniqueBracketLabels(block string) []int {
	seen := make(map[int]bool)
	for _, m := range bracketAny.FindAllStringSubmatch(block, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 && n < 1000 {
			seen[n] = true
		}
	}
	labels := make([]int, 0, len(seen))
	for n := range seen {
		labels = append(labels, n)
	}
	sort.Ints(labels)
	return labels
}

func uniqueSorted(nums []int) []int {
	seen := make(map[int]bool, len(nums))
	var out []int
	for _, n := range nums {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// countReferenceParagraphs counts paragraphs that look like whole reference
// entries: reasonably long, opening with an author/year pattern, and naming
// a venue or carrying a DOI. Splitting on blank lines avoids counting years
// mentioned in running prose.
func countReferenceParagraphs(block string) int {
	count := 0
	for _, p := range regexp.MustCompile(`\n{2,}`).Split(block, -1) {
		p = strings.TrimSpace(p)
		if len(p) < 50 || !paraYear.MatchString(p) {
			continue
		}
		if paraVenue.MatchString(p) || paraDOILine.MatchString(p) {
			count++
		}
	}
	return count
}

func countUniqueDOIs(block string) int {
	seen := make(map[string]bool)
	for _, d := range doiCapture.FindAllString(block, -1) {
		seen[d] = true
	}
	return len(seen)
}

// countBoundaryTransitions counts period-terminated lines immediately
// followed by an author-style line, plus one for the first entry, which has
// no preceding boundary. Zero when no transition exists at all.
func countBoundaryTransitions(block string) int {
	lines := strings.Split(block, "\n")
	transitions := 0
	for i := 0; i+1 < len(lines); i++ {
		if strings.HasSuffix(strings.TrimRight(lines[i], " \t"), ".") &&
			authorLineStart.MatchString(lines[i+1]) {
			transitions++
		}
	}
	if transitions == 0 {
		return 0
	}
	return transitions + 1
}

// clusterAnchors collapses author-name anchors that sit close together into
// single entries, so multi-line references are not over-counted. The gap
// threshold is derived from the inter-quartile range of anchor distances.
func clusterAnchors(idx [][]int) int {
	if len(idx) == 0 {
		return 0
	}
	dists := make([]int, 0, len(idx)-1)
	for i := 1; i < len(idx); i++ {
		dists = append(dists, idx[i][0]-idx[i-1][0])
	}

	thr := 300.0
	if len(dists) > 0 {
		sd := append([]int(nil), dists...)
		sort.Ints(sd)
		p25 := sd[int(0.25*float64(len(sd)-1))]
		p75 := sd[int(0.75*float64(len(sd)-1))]
		iqr := p75 - p25
		if iqr < 1 {
			iqr = 1
		}
		thr = float64(p75) + 0.5*float64(iqr)
		if thr < 200 {
			thr = 200
		}
	}

	clusters := 1
	for _, d := range dists {
		if float64(d) > thr {
			clusters++
		}
	}
	return clusters
}

func maxSignal(signals []Signal) (string, int) {
	label, best := signals[0].Label, signals[0].Count
	for _, s := range signals[1:] {
		if s.Count > best {
			label, best = s.Label, s.Count
		}
	}
	return label, best
}
