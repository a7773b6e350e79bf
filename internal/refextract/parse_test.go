package refextract

import "testing"

func TestParseReference_FullEntry(t *testing.T) {
	seg := "[3] Smith, J. (2019). Deep learning for reference parsing. Journal of X, 12, 45-67. doi:10.1234/jx.2019.001"

	p := ParseReference(seg)
	if p.Raw != seg {
		t.Errorf("raw not preserved")
	}
	if p.DOI != "10.1234/jx.2019.001" {
		t.Errorf("doi = %q", p.DOI)
	}
	if p.Year != 2019 {
		t.Errorf("year = %d, want 2019", p.Year)
	}
	if p.FirstAuthor != "Smith" {
		t.Errorf("first author = %q, want Smith", p.FirstAuthor)
	}
	if p.Title != "Deep learning for reference parsing" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestParseReference_YearModifier(t *testing.T) {
	p := ParseReference("Lee, K. 2020a. Some title here for testing purposes.")
	if p.Year != 2020 {
		t.Errorf("year = %d, want 2020", p.Year)
	}
	if p.FirstAuthor != "Lee" {
		t.Errorf("first author = %q, want Lee", p.FirstAuthor)
	}
	if p.Title != "Some title here for testing purposes" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestParseReference_DottedMarker(t *testing.T) {
	p := ParseReference("12. Brown, A. (2018). An entry with a dotted list marker in front.")
	if p.FirstAuthor != "Brown" || p.Year != 2018 {
		t.Errorf("got author=%q year=%d", p.FirstAuthor, p.Year)
	}
}

func TestParseReference_MissingFieldsStayZero(t *testing.T) {
	p := ParseReference("Anonymous technical memo without any date information at all")
	if p.Year != 0 {
		t.Errorf("year = %d, want 0", p.Year)
	}
	if p.DOI != "" {
		t.Errorf("doi = %q, want empty", p.DOI)
	}
	if p.FirstAuthor != "" {
		t.Errorf("first author = %q, want empty", p.FirstAuthor)
	}
}

func TestParseReference_SkipsVenueSentence(t *testing.T) {
	p := ParseReference("Doe, J. 2021. Journal of Z. A real title comes later. pp. 1-10")
	if p.Title != "A real title comes later" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestTitleOnly(t *testing.T) {
	tests := []struct {
		name string
		seg  string
		want string
	}{
		{
			"colon title",
			"[5] Jentab: Matching tabular data to knowledge graphs. In Proc. of SemTab.",
			"Jentab: Matching tabular data to knowledge graphs",
		},
		{
			"year then venue cut",
			"Smith, J. 2019. A study of reference extraction. In Proceedings of X, pp. 1-10.",
			"A study of reference extraction",
		},
		{
			"leading year fragment",
			"2019. Understanding something deeply. Journal of Y.",
			"Understanding something deeply",
		},
		{
			"trailing numbers trimmed",
			"Some things about graphs, 12, 345",
			"Some things about graphs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleOnly(tt.seg); got != tt.want {
				t.Errorf("TitleOnly(%q) = %q, want %q", tt.seg, got, tt.want)
			}
		})
	}
}
