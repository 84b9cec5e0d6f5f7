// Package export renders generated documents (optimized CVs, cover
// letters) into downloadable formats.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Format identifies a download format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatDOC Format = "doc"
)

// MIME types served with each format.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeDOC = "application/msword"
)

// UnsupportedFormatError reports a format the exporter cannot render.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// Document is a renderable text document.
type Document struct {
	Title string
	Text  string
}

// Render produces the document bytes and MIME type for the given format.
func Render(doc Document, format Format) ([]byte, string, error) {
	switch format {
	case FormatPDF:
		data, err := renderPDF(doc)
		return data, ContentTypePDF, err
	case FormatDOC:
		return renderDOC(doc), ContentTypeDOC, nil
	default:
		return nil, "", &UnsupportedFormatError{Format: format}
	}
}

// Filename returns a download filename for the document, derived from
// its title.
func Filename(doc Document, format Format) string {
	slug := strings.ToLower(strings.TrimSpace(doc.Title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "document"
	}
	return slug + "." + string(format)
}

func renderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	if title := strings.TrimSpace(doc.Title); title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, title, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, paragraph := range strings.Split(doc.Text, "\n") {
		paragraph = strings.TrimRight(paragraph, " \t")
		if paragraph == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 5, paragraph, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// renderDOC emits the document as plain text. Word opens it as-is, which
// matches what users expect from the quick .doc download.
func renderDOC(doc Document) []byte {
	var buf bytes.Buffer
	if title := strings.TrimSpace(doc.Title); title != "" {
		buf.WriteString(title)
		buf.WriteString("\n\n")
	}
	buf.WriteString(doc.Text)
	return buf.Bytes()
}
