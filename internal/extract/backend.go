// Package extract obtains document text from interchangeable extraction
// backends and picks the output whose reference list scores best.
package extract

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Backend is one text-extraction implementation. lastPages <= 0 means the
// whole document; backends that cannot window ignore the argument.
type Backend interface {
	// Name identifies the backend in cache keys and diagnostic notes.
	Name() string
	// Available reports whether the backend can run on this system.
	Available() bool
	// Extract returns the raw text of the document, or an error when the
	// document cannot be read at all. Empty text is not an error.
	Extract(path string, lastPages int) (string, error)
}

// PlainBackend is the primary fast backend: per-page plain text via
// ledongthuc/pdf. It supports tail windows.
type PlainBackend struct{}

func (PlainBackend) Name() string    { return "pdf" }
func (PlainBackend) Available() bool { return true }

func (PlainBackend) Extract(path string, lastPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	start := 1
	if lastPages > 0 && r.NumPage() > lastPages {
		start = r.NumPage() - lastPages + 1
	}

	var b strings.Builder
	for i := start; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // damaged pages yield nothing, not a failure
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// LayoutBackend reads text row by row, preserving line structure that the
// plain extractor loses on multi-column layouts.
type LayoutBackend struct{}

func (LayoutBackend) Name() string    { return "pdflayout" }
func (LayoutBackend) Available() bool { return true }

func (LayoutBackend) Extract(path string, lastPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	start := 1
	if lastPages > 0 && r.NumPage() > lastPages {
		start = r.NumPage() - lastPages + 1
	}

	var b strings.Builder
	for i := start; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// PdftotextBackend shells out to Poppler's pdftotext when installed. It
// always extracts the full document; windowing would require a page count,
// which defeats the point of the cheap external path.
type PdftotextBackend struct{}

func (PdftotextBackend) Name() string { return "pdftotext" }

func (PdftotextBackend) Available() bool {
	_, err := exec.LookPath("pdftotext")
	return err == nil
}

func (PdftotextBackend) Extract(path string, lastPages int) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", "-enc", "UTF-8", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("running pdftotext: %w", err)
	}
	return string(out), nil
}

// DefaultBackends returns the backend cascade in preference order.
func DefaultBackends() []Backend {
	return []Backend{PlainBackend{}, LayoutBackend{}, PdftotextBackend{}}
}

// BackendsByName resolves an --extractor value to a backend list. "auto"
// (or empty) selects the full cascade.
func BackendsByName(name string) ([]Backend, error) {
	switch name {
	case "", "auto":
		return DefaultBackends(), nil
	case "pdf":
		return []Backend{PlainBackend{}}, nil
	case "pdflayout":
		return []Backend{LayoutBackend{}}, nil
	case "pdftotext":
		return []Backend{PdftotextBackend{}}, nil
	default:
		return nil, fmt.Errorf("unknown extractor: %s (valid: auto, pdf, pdflayout, pdftotext)", name)
	}
}
