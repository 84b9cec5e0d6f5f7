package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PDF(t *testing.T) {
	doc := Document{Title: "Optimized CV", Text: "Jane Doe\n\nExperienced engineer."}

	data, contentType, err := Render(doc, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, ContentTypePDF, contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output should start with the PDF magic bytes")
	assert.Greater(t, len(data), 500)
}

func TestRender_DOC(t *testing.T) {
	doc := Document{Title: "Cover Letter", Text: "Dear Hiring Manager,"}

	data, contentType, err := Render(doc, FormatDOC)
	require.NoError(t, err)

	assert.Equal(t, ContentTypeDOC, contentType)
	assert.Equal(t, "Cover Letter\n\nDear Hiring Manager,", string(data))
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, _, err := Render(Document{Text: "x"}, Format("docx"))

	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, Format("docx"), formatErr.Format)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		doc    Document
		format Format
		want   string
	}{
		{"title slugged", Document{Title: "Optimized CV"}, FormatPDF, "optimized-cv.pdf"},
		{"special characters dropped", Document{Title: "Cover Letter (v2)!"}, FormatDOC, "cover-letter-v2.doc"},
		{"empty title", Document{}, FormatPDF, "document.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.doc, tt.format))
		})
	}
}
