package detect

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfield/docfield/internal/entity"
	"github.com/docfield/docfield/internal/field"
)

// recognizerFunc adapts a plain function to the entity.Recognizer interface
// so tests can script entity output per page.
type recognizerFunc func(text string) ([]entity.Span, error)

func (f recognizerFunc) Entities(text string) ([]entity.Span, error) {
	return f(text)
}

// noEntities is the stub for tests that only exercise the pattern strategy.
var noEntities = recognizerFunc(func(string) ([]entity.Span, error) {
	return nil, nil
})

// spanAt builds a recognizer span anchored at the substring's position.
func spanAt(t *testing.T, text, sub, label string) entity.Span {
	t.Helper()
	off := strings.Index(text, sub)
	require.GreaterOrEqual(t, off, 0, "substring %q not in text", sub)
	return entity.Span{Text: sub, Label: label, Offset: off}
}

func findByType(candidates []field.Candidate, t field.Type) []field.Candidate {
	var out []field.Candidate
	for _, c := range candidates {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func TestDetectContactLine(t *testing.T) {
	text := "Contact Jane Doe at jane.doe@example.com or 555-123-4567 on 03/04/2022"

	rec := recognizerFunc(func(pageText string) ([]entity.Span, error) {
		return []entity.Span{
			spanAt(t, pageText, "Jane Doe", entity.LabelPerson),
			spanAt(t, pageText, "03/04/2022", entity.LabelDate),
		}, nil
	})

	d := NewDetector(rec)
	candidates, err := d.Detect([]field.PageText{{Index: 0, Text: text}})
	require.NoError(t, err)

	emails := findByType(candidates, field.TypeEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, "jane.doe@example.com", emails[0].Text)
	assert.Equal(t, strings.Index(text, "jane.doe"), emails[0].Offset)

	phones := findByType(candidates, field.TypePhone)
	require.Len(t, phones, 1)
	assert.Equal(t, "555-123-4567", phones[0].Text)

	names := findByType(candidates, field.TypeName)
	require.Len(t, names, 1)
	assert.Equal(t, "Jane Doe", names[0].Text)

	dates := findByType(candidates, field.TypeDate)
	require.Len(t, dates, 1)
	assert.Equal(t, "03/04/2022", dates[0].Text)

	for _, c := range candidates {
		assert.Equal(t, 0, c.Page)
	}
}

func TestDetectOrderedByPageThenOffset(t *testing.T) {
	pages := []field.PageText{
		{Index: 0, Text: "First reach out to a@example.com then b@example.com."},
		{Index: 1, Text: "Finally c@example.com."},
	}

	d := NewDetector(noEntities)
	candidates, err := d.Detect(pages)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "a@example.com", candidates[0].Text)
	assert.Equal(t, "b@example.com", candidates[1].Text)
	assert.Equal(t, "c@example.com", candidates[2].Text)
	assert.Equal(t, []int{0, 0, 1}, []int{candidates[0].Page, candidates[1].Page, candidates[2].Page})
	assert.Less(t, candidates[0].Offset, candidates[1].Offset)
}

func TestDetectOverlapDeduplication(t *testing.T) {
	text := "Signed by Jane Doe, witnessed later by Jane Doe."

	rec := recognizerFunc(func(pageText string) ([]entity.Span, error) {
		first := strings.Index(pageText, "Jane Doe")
		last := strings.LastIndex(pageText, "Jane Doe")
		return []entity.Span{
			// Two overlapping reports of the same span plus a distinct
			// occurrence further on.
			{Text: "Jane Doe", Label: entity.LabelPerson, Offset: first},
			{Text: "Jane Doe", Label: entity.LabelPerson, Offset: first + 1},
			{Text: "Jane Doe", Label: entity.LabelPerson, Offset: last},
		}, nil
	})

	d := NewDetector(rec)
	candidates, err := d.Detect([]field.PageText{{Index: 0, Text: text}})
	require.NoError(t, err)

	names := findByType(candidates, field.TypeName)
	require.Len(t, names, 2)
	assert.Equal(t, strings.Index(text, "Jane Doe"), names[0].Offset)
	assert.Equal(t, strings.LastIndex(text, "Jane Doe"), names[1].Offset)
}

func TestDetectMinimumSpanLength(t *testing.T) {
	rec := recognizerFunc(func(pageText string) ([]entity.Span, error) {
		return []entity.Span{
			{Text: "Al", Label: entity.LabelPerson, Offset: 0},
		}, nil
	})

	d := NewDetector(rec)
	candidates, err := d.Detect([]field.PageText{{Index: 0, Text: "Al was here."}})
	require.NoError(t, err)
	assert.Empty(t, findByType(candidates, field.TypeName))
}

func TestDetectUnknownLabelsIgnored(t *testing.T) {
	rec := recognizerFunc(func(pageText string) ([]entity.Span, error) {
		return []entity.Span{
			{Text: "Acme Corp", Label: "ORG", Offset: 0},
		}, nil
	})

	d := NewDetector(rec)
	candidates, err := d.Detect([]field.PageText{{Index: 0, Text: "Acme Corp announced."}})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDetectSearchTerm(t *testing.T) {
	text := "ACME Corp signed. Later acme filed again."

	d := NewDetector(noEntities, WithSearchTerm("acme"))
	candidates, err := d.Detect([]field.PageText{{Index: 0, Text: text}})
	require.NoError(t, err)

	hits := findByType(candidates, field.TypeOther)
	require.Len(t, hits, 2)
	assert.Equal(t, "ACME", hits[0].Text)
	assert.Equal(t, "acme", hits[1].Text)
}

func TestDetectEmptySearchTermIgnored(t *testing.T) {
	d := NewDetector(noEntities, WithSearchTerm("  "))
	candidates, err := d.Detect([]field.PageText{{Index: 0, Text: "nothing to find"}})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDetectSkipsEmptyPages(t *testing.T) {
	calls := 0
	rec := recognizerFunc(func(pageText string) ([]entity.Span, error) {
		calls++
		return nil, nil
	})

	d := NewDetector(rec)
	_, err := d.Detect([]field.PageText{
		{Index: 0, Text: ""},
		{Index: 1, Text: "some text"},
		{Index: 2, Text: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDetectRecognizerError(t *testing.T) {
	wantErr := errors.New("model failure")
	rec := recognizerFunc(func(string) ([]entity.Span, error) {
		return nil, wantErr
	})

	d := NewDetector(rec)
	_, err := d.Detect([]field.PageText{{Index: 0, Text: "some text"}})
	assert.ErrorIs(t, err, wantErr)
}

func TestDetectNoCandidatesOnProseText(t *testing.T) {
	d := NewDetector(noEntities)
	candidates, err := d.Detect([]field.PageText{
		{Index: 0, Text: "This page holds prose without any contact details at all."},
	})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
