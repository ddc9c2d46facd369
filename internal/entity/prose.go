package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

// datePatterns tags date spans lexically: numeric day/month/year forms with
// `/` or `-` separators, and month-name forms in both orders. The
// pretrained tagger behind ProseRecognizer has no DATE class, so date spans
// are rule-tagged alongside its statistical PERSON output.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b`),
	regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`),
	regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
	regexp.MustCompile(`\b\d{1,2} (?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}\b`),
}

// ProseRecognizer recognizes PERSON spans with the prose pretrained model
// and DATE spans with the lexical patterns above.
type ProseRecognizer struct{}

// NewProseRecognizer constructs the recognizer and warms the underlying
// model with a probe document so the first real request does not pay the
// model load cost.
func NewProseRecognizer() (*ProseRecognizer, error) {
	if _, err := prose.NewDocument("Warm up."); err != nil {
		return nil, fmt.Errorf("load entity model: %w", err)
	}
	return &ProseRecognizer{}, nil
}

// Entities returns PERSON and DATE spans found in text, ordered by offset
// within each label class.
func (r *ProseRecognizer) Entities(text string) ([]Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("entity extraction: %w", err)
	}

	var spans []Span
	cursor := 0
	for _, ent := range doc.Entities() {
		if ent.Label != LabelPerson {
			continue
		}
		// prose reports entity text without positions; occurrences are
		// located left to right so repeated mentions keep distinct offsets.
		offset := strings.Index(text[cursor:], ent.Text)
		if offset < 0 {
			continue
		}
		spans = append(spans, Span{
			Text:   ent.Text,
			Label:  LabelPerson,
			Offset: cursor + offset,
		})
		cursor += offset + len(ent.Text)
	}

	for _, pattern := range datePatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{
				Text:   text[loc[0]:loc[1]],
				Label:  LabelDate,
				Offset: loc[0],
			})
		}
	}

	return spans, nil
}
