package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	count := 42
	entries := []Entry{
		{
			ID:          "2019_smith_deep-learning-parsing",
			Title:       "Deep Learning for Reference Parsing",
			Year:        2019,
			FirstAuthor: "Smith",
			DOI:         "10.1234/jx.2019.001",
			Citations: []Citation{
				{Ref: "2018_brown_survey", Title: "A Survey of Entity Linking Approaches"},
				{Ref: "", Title: "An uncatalogued reference"},
			},
			ExtractedCitationsCount: &count,
		},
		{ID: "2020_lee_tabular-matching", Title: "Matching Tabular Data"},
	}

	if err := Save(path, entries); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, entries)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Errorf("saved catalog should end with a newline")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Errorf("expected error for missing catalog")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected error for malformed catalog")
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10.1234/abc", "10.1234/abc"},
		{"https://doi.org/10.1234/abc", "10.1234/abc"},
		{"http://dx.doi.org/10.1234/abc", "10.1234/abc"},
		{"  10.1234/abc  ", "10.1234/abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Deep Learning, for Reference-Parsing!", "deep learning for reference parsing"},
		{"  Multiple   spaces  ", "multiple spaces"},
		{"MixedCase123", "mixedcase123"},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeTitle(t *testing.T) {
	got := TokenizeTitle("A Survey of Entity Linking Approaches")
	want := []string{"survey", "entity", "linking", "approaches"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokenizeTitle = %v, want %v", got, want)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		wantOK   bool
		wantNote string
	}{
		{
			"valid",
			Entry{ID: "2019_smith_deep-learning", Year: 2019, FirstAuthor: "Smith, J."},
			true, "ok",
		},
		{
			"valid without fields",
			Entry{ID: "2025_cremaschi_steellm"},
			true, "ok",
		},
		{
			"bad format",
			Entry{ID: "Smith2019"},
			false, "id_format_invalid",
		},
		{
			"uppercase surname",
			Entry{ID: "2019_Smith_deep-learning"},
			false, "id_format_invalid",
		},
		{
			"year mismatch",
			Entry{ID: "2019_smith_deep-learning", Year: 2020},
			false, "year_mismatch(id=2019, json=2020)",
		},
		{
			"surname mismatch",
			Entry{ID: "2019_smith_deep-learning", Year: 2019, FirstAuthor: "Jones, A."},
			false, "surname_mismatch(id=smith, firstAuthor=jones)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, note := ValidateID(&tt.entry)
			if ok != tt.wantOK || note != tt.wantNote {
				t.Errorf("ValidateID = %v, %q; want %v, %q", ok, note, tt.wantOK, tt.wantNote)
			}
		})
	}
}

func TestIDHelpers(t *testing.T) {
	id := "2019_smith_deep-learning-parsing"
	if IDYear(id) != 2019 {
		t.Errorf("IDYear = %d", IDYear(id))
	}
	if IDSurname(id) != "smith" {
		t.Errorf("IDSurname = %q", IDSurname(id))
	}
	if got := IDSlugTokens(id); !reflect.DeepEqual(got, []string{"deep", "learning", "parsing"}) {
		t.Errorf("IDSlugTokens = %v", got)
	}
	if IDYear("bogus") != 0 || IDSurname("bogus") != "" || IDSlugTokens("bogus") != nil {
		t.Errorf("malformed identifiers should yield zero values")
	}
}
