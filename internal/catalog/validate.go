package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idPattern is the required identifier format: year, first-author surname,
// slug. Example: 2025_cremaschi_steellm.
var idPattern = regexp.MustCompile(`^(\d{4})_([a-z][a-z0-9]+)_([a-z0-9][a-z0-9-]+)$`)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// ValidateID checks an entry identifier against the YYYY_surname_slug format
// and cross-checks the embedded year and surname against the entry's own
// fields. It returns ok plus a short machine-readable note ("ok",
// "id_format_invalid", "year_mismatch(...)", "surname_mismatch(...)").
func ValidateID(e *Entry) (bool, string) {
	m := idPattern.FindStringSubmatch(e.ID)
	if m == nil {
		return false, "id_format_invalid"
	}

	idYear, _ := strconv.Atoi(m[1])
	if e.Year != 0 && e.Year != idYear {
		return false, fmt.Sprintf("year_mismatch(id=%d, json=%d)", idYear, e.Year)
	}

	surname := m[2]
	first := e.FirstAuthor
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	faNorm := nonAlnum.ReplaceAllString(strings.ToLower(first), "")
	if faNorm != "" && surname != faNorm {
		return false, fmt.Sprintf("surname_mismatch(id=%s, firstAuthor=%s)", surname, faNorm)
	}

	return true, "ok"
}

// IDYear returns the year embedded in an identifier, or 0 if the identifier
// does not match the expected format.
func IDYear(id string) int {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}

// IDSurname returns the surname embedded in an identifier, or "".
func IDSurname(id string) string {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return ""
	}
	return m[2]
}

// IDSlugTokens returns the slug portion of an identifier split on - and _.
func IDSlugTokens(id string) []string {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return nil
	}
	return strings.FieldsFunc(m[3], func(r rune) bool {
		return r == '-' || r == '_'
	})
}
