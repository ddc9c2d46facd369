package pdftext

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfield/docfield/internal/field"
)

// buildBlankPagePDF generates a structurally valid single-page PDF with no
// content stream. Cross-reference offsets are computed, not hard-coded, so
// the fixture stays valid if the object bodies change.
func buildBlankPagePDF() []byte {
	pdf := "%PDF-1.4\n"

	obj1Start := len(pdf)
	pdf += "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"

	obj2Start := len(pdf)
	pdf += "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n"

	obj3Start := len(pdf)
	pdf += "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n"

	xrefStart := len(pdf)
	pdf += "xref\n0 4\n"
	pdf += "0000000000 65535 f \n"
	pdf += fmt.Sprintf("%010d 00000 n \n", obj1Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj2Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj3Start)
	pdf += "trailer\n<< /Size 4 /Root 1 0 R >>\n"
	pdf += fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefStart)

	return []byte(pdf)
}

// buildTextPagePDF generates a single-page PDF whose content stream draws
// the given ASCII text with the built-in Helvetica font.
func buildTextPagePDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)

	pdf := "%PDF-1.4\n"

	obj1Start := len(pdf)
	pdf += "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"

	obj2Start := len(pdf)
	pdf += "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n"

	obj3Start := len(pdf)
	pdf += "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n"

	obj4Start := len(pdf)
	pdf += "4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n"

	obj5Start := len(pdf)
	pdf += fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream)

	xrefStart := len(pdf)
	pdf += "xref\n0 6\n"
	pdf += "0000000000 65535 f \n"
	pdf += fmt.Sprintf("%010d 00000 n \n", obj1Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj2Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj3Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj4Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj5Start)
	pdf += "trailer\n<< /Size 6 /Root 1 0 R >>\n"
	pdf += fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefStart)

	return []byte(pdf)
}

// buildThreePagePDF generates a three-page PDF whose middle page has no
// content stream, for checking that blank pages keep their position.
func buildThreePagePDF(first, third string) []byte {
	stream1 := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", first)
	stream2 := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", third)

	pdf := "%PDF-1.4\n"

	obj1Start := len(pdf)
	pdf += "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"

	obj2Start := len(pdf)
	pdf += "2 0 obj\n<< /Type /Pages /Kids [3 0 R 4 0 R 5 0 R] /Count 3 >>\nendobj\n"

	obj3Start := len(pdf)
	pdf += "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 6 0 R >> >> /Contents 7 0 R >>\nendobj\n"

	obj4Start := len(pdf)
	pdf += "4 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n"

	obj5Start := len(pdf)
	pdf += "5 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 6 0 R >> >> /Contents 8 0 R >>\nendobj\n"

	obj6Start := len(pdf)
	pdf += "6 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n"

	obj7Start := len(pdf)
	pdf += fmt.Sprintf("7 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream1), stream1)

	obj8Start := len(pdf)
	pdf += fmt.Sprintf("8 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream2), stream2)

	xrefStart := len(pdf)
	pdf += "xref\n0 9\n"
	pdf += "0000000000 65535 f \n"
	for _, off := range []int{
		obj1Start, obj2Start, obj3Start, obj4Start,
		obj5Start, obj6Start, obj7Start, obj8Start,
	} {
		pdf += fmt.Sprintf("%010d 00000 n \n", off)
	}
	pdf += "trailer\n<< /Size 9 /Root 1 0 R >>\n"
	pdf += fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefStart)

	return []byte(pdf)
}

func TestAcquireEmptyInput(t *testing.T) {
	a := NewAcquirer(0)

	_, err := a.Acquire(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, field.ErrUnreadablePDF)

	_, err = a.Acquire([]byte{})
	assert.ErrorIs(t, err, field.ErrUnreadablePDF)
}

func TestAcquireCorruptBytes(t *testing.T) {
	a := NewAcquirer(0)

	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("this is not a PDF document")},
		{"binary garbage", []byte{0x00, 0xFF, 0x13, 0x37, 0x00, 0xFF}},
		{"truncated header", []byte("%PDF-1.4")},
		{"header without body", []byte("%PDF-1.4\n%%EOF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Acquire(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, field.ErrUnreadablePDF)
		})
	}
}

func TestAcquireSizeLimit(t *testing.T) {
	a := NewAcquirer(16)

	_, err := a.Acquire(buildBlankPagePDF())
	require.Error(t, err)
	assert.ErrorIs(t, err, field.ErrUnreadablePDF)
	assert.Contains(t, err.Error(), "exceeds limit")

	// No limit accepts the same document.
	unlimited := NewAcquirer(0)
	_, err = unlimited.Acquire(buildBlankPagePDF())
	assert.NoError(t, err)
}

func TestAcquireBlankPage(t *testing.T) {
	a := NewAcquirer(0)

	pages, err := a.Acquire(buildBlankPagePDF())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Index)
	assert.Empty(t, pages[0].Text)
}

func TestAcquireTextPage(t *testing.T) {
	a := NewAcquirer(0)

	pages, err := a.Acquire(buildTextPagePDF("Hello World"))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Index)
	assert.True(t, strings.Contains(pages[0].Text, "Hello World"),
		"extracted text %q should contain the drawn string", pages[0].Text)
}

func TestAcquireMultiPageKeepsBlankPage(t *testing.T) {
	a := NewAcquirer(0)

	pages, err := a.Acquire(buildThreePagePDF("First page text", "Third page text"))
	require.NoError(t, err)
	require.Len(t, pages, 3)

	// Page indices stay 0..n-1 with the blank page in place, not dropped.
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
	}
	assert.Contains(t, pages[0].Text, "First page text")
	assert.Empty(t, pages[1].Text)
	assert.Contains(t, pages[2].Text, "Third page text")
}

func TestAcquireIsRepeatable(t *testing.T) {
	a := NewAcquirer(0)
	data := buildTextPagePDF("Repeatable content")

	first, err := a.Acquire(data)
	require.NoError(t, err)
	second, err := a.Acquire(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
