// Package pdfinfo reads page counts and bounded text excerpts from PDF
// files. It implements the validation engine's Inspector so the engine never
// touches PDF byte layout itself.
package pdfinfo

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/harrison/submittal/internal/validate"
)

// maxRawExcerpt bounds the raw-bytes fallback excerpt.
const maxRawExcerpt = 200_000

// Service inspects PDF files on disk.
type Service struct{}

// NewService returns a PDF inspector.
func NewService() *Service {
	return &Service{}
}

// Inspect returns the page count and, when withText is set, a text excerpt
// limited to maxPages pages. Extraction failures on individual pages are
// tolerated; a file that cannot be opened at all reports Err.
func (s *Service) Inspect(path string, maxPages int, withText bool) validate.Inspection {
	pages, err := PageCount(path)
	if err != nil {
		return validate.Inspection{Err: err}
	}

	ins := validate.Inspection{Pages: pages}
	if withText {
		ins.Text = ExtractText(path, maxPages)
	}
	return ins
}

// PageCount returns the number of pages in the PDF.
func PageCount(path string) (pages int, err error) {
	// The pdf library panics on some malformed inputs; surface that as an
	// error so one bad file cannot abort a run.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	return reader.NumPage(), nil
}

// ExtractText returns up to maxPages pages of text from the PDF. When the
// extractor yields nothing (scanned or synthetic PDFs), a bounded raw-bytes
// excerpt is appended so keyword scanning still has something to match.
// Extraction problems degrade to the fallback rather than erroring.
func ExtractText(path string, maxPages int) string {
	if maxPages <= 0 {
		return ""
	}

	text := extractPlainText(path, maxPages)
	if strings.TrimSpace(text) != "" {
		return text
	}
	return text + "\n" + rawExcerpt(path)
}

func extractPlainText(path string, maxPages int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var b strings.Builder
	total := reader.NumPage()
	if total > maxPages {
		total = maxPages
	}
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String()
}

// rawExcerpt reads the leading bytes of the file as-is.
func rawExcerpt(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, maxRawExcerpt)
	n, _ := f.Read(buf)
	return string(buf[:n])
}
