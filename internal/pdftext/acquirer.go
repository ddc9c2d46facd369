// Package pdftext converts a PDF byte stream into page-ordered text.
package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docfield/docfield/internal/field"
)

// Acquirer extracts per-page plain text from in-memory PDF documents.
type Acquirer struct {
	maxFileSize int64
}

// NewAcquirer creates an acquirer with the given file size limit in bytes.
func NewAcquirer(maxFileSize int64) *Acquirer {
	return &Acquirer{maxFileSize: maxFileSize}
}

// Acquire returns one PageText per page in document order. Pages whose text
// cannot be extracted (scanned or image-only pages) yield an empty PageText
// rather than being dropped, so page indices remain stable downstream.
//
// The byte stream must be a parseable PDF container; anything else fails
// with field.ErrUnreadablePDF and no partial pages are returned.
func (a *Acquirer) Acquire(data []byte) ([]field.PageText, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty byte stream", field.ErrUnreadablePDF)
	}
	if a.maxFileSize > 0 && int64(len(data)) > a.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d bytes",
			field.ErrUnreadablePDF, len(data), a.maxFileSize)
	}

	pageCount, err := a.readContainer(data)
	if err != nil {
		return nil, err
	}

	return a.extractPages(data, pageCount)
}

// readContainer validates the PDF container structure with pdfcpu and
// returns the page count. Relaxed validation mode tolerates the structural
// sloppiness common in generated PDFs while still rejecting corrupt or
// encrypted streams.
func (a *Acquirer) readContainer(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", field.ErrUnreadablePDF, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("%w: %v", field.ErrUnreadablePDF, err)
	}

	return ctx.PageCount, nil
}

// extractPages pulls plain text for every page. Per-page extraction errors
// are tolerated: the page is emitted with empty text.
func (a *Acquirer) extractPages(data []byte, pageCount int) ([]field.PageText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", field.ErrUnreadablePDF, err)
	}

	if n := reader.NumPage(); n > 0 {
		pageCount = n
	}

	pages := make([]field.PageText, 0, pageCount)
	for num := 1; num <= pageCount; num++ {
		pages = append(pages, field.PageText{
			Index: num - 1,
			Text:  a.pageText(reader, num),
		})
	}

	return pages, nil
}

func (a *Acquirer) pageText(reader *pdf.Reader, num int) string {
	defer func() {
		// ledongthuc/pdf can panic on malformed content streams; a panic
		// degrades to an empty page, same as any other extraction failure.
		_ = recover()
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}
