package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecognizer struct{}

func (stubRecognizer) Entities(string) ([]Span, error) { return nil, nil }

func TestSharedLifecycle(t *testing.T) {
	// Start from a clean slate regardless of test ordering.
	Release()

	_, err := Shared()
	assert.ErrorIs(t, err, ErrNotLoaded)

	stub := stubRecognizer{}
	prev := SetShared(stub)
	assert.Nil(t, prev)

	got, err := Shared()
	require.NoError(t, err)
	assert.Equal(t, stub, got)

	Release()
	_, err = Shared()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestSetSharedReturnsPrevious(t *testing.T) {
	Release()

	first := stubRecognizer{}
	SetShared(first)

	prev := SetShared(stubRecognizer{})
	assert.Equal(t, first, prev)

	Release()
}

func TestProseRecognizerEmptyText(t *testing.T) {
	r := &ProseRecognizer{}

	spans, err := r.Entities("   ")
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func dateSpans(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Label == LabelDate {
			out = append(out, s)
		}
	}
	return out
}

func TestProseRecognizerDateSpans(t *testing.T) {
	r := &ProseRecognizer{}

	text := "Signed on 03/04/2022, effective 2022-06-01, renewed March 15, 2023 and 1 Jan 2024."
	spans, err := r.Entities(text)
	require.NoError(t, err)

	dates := dateSpans(spans)
	require.Len(t, dates, 4)

	got := make(map[string]int, len(dates))
	for _, s := range dates {
		got[s.Text] = s.Offset
	}

	for _, want := range []string{"03/04/2022", "2022-06-01", "March 15, 2023", "1 Jan 2024"} {
		off, ok := got[want]
		require.True(t, ok, "missing date span %q in %v", want, got)
		assert.Equal(t, strings.Index(text, want), off)
	}
}

func TestProseRecognizerPersonOffsets(t *testing.T) {
	r := &ProseRecognizer{}

	// Repeated mentions must resolve to distinct, increasing offsets.
	text := "Barack Obama met advisers. Later Barack Obama signed the order."
	spans, err := r.Entities(text)
	require.NoError(t, err)

	var persons []Span
	for _, s := range spans {
		if s.Label == LabelPerson {
			persons = append(persons, s)
		}
	}

	seen := make(map[int]bool)
	for _, s := range persons {
		assert.False(t, seen[s.Offset], "duplicate offset %d", s.Offset)
		seen[s.Offset] = true
		require.GreaterOrEqual(t, s.Offset, 0)
		require.LessOrEqual(t, s.Offset+len(s.Text), len(text))
		assert.Equal(t, s.Text, text[s.Offset:s.Offset+len(s.Text)])
	}
}
