// Package detect scans page-ordered text for raw field candidates using
// two independent strategies: lexical patterns for phone and email spans,
// and named-entity recognition for name and date spans.
package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/docfield/docfield/internal/entity"
	"github.com/docfield/docfield/internal/field"
)

// Detector produces raw candidates from acquired page text.
type Detector struct {
	recognizer entity.Recognizer
	searchTerm *regexp.Regexp
}

// Option configures a Detector.
type Option func(*Detector)

// WithSearchTerm adds a literal, case-insensitive search term whose hits
// are emitted as `other`-typed candidates.
func WithSearchTerm(term string) Option {
	return func(d *Detector) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		d.searchTerm = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
	}
}

// NewDetector creates a detector over the given recognizer.
func NewDetector(recognizer entity.Recognizer, opts ...Option) *Detector {
	d := &Detector{recognizer: recognizer}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect runs both strategies over every page and unions their results.
// Candidates are ordered by page, then offset. When two candidates of the
// same type carry the same trimmed text and overlap in character range,
// only the first by (page, offset) is kept; overlaps across different
// types are all kept for validation to arbitrate.
func (d *Detector) Detect(pages []field.PageText) ([]field.Candidate, error) {
	var all []field.Candidate

	for _, page := range pages {
		if page.Text == "" {
			continue
		}

		candidates := d.patternStrategy(page)

		spans, err := d.entityStrategy(page)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, spans...)

		if d.searchTerm != nil {
			candidates = append(candidates, d.searchHits(page)...)
		}

		all = append(all, dedupeOverlaps(candidates)...)
	}

	return all, nil
}

// patternStrategy emits phone and email candidates from lexical matches.
func (d *Detector) patternStrategy(page field.PageText) []field.Candidate {
	var out []field.Candidate
	out = append(out, matchAll(page, field.TypeEmail, emailPattern)...)
	out = append(out, matchAll(page, field.TypePhone, phonePattern)...)
	return out
}

// entityStrategy emits name and date candidates from recognizer spans.
// Only PERSON and DATE labels are retained.
func (d *Detector) entityStrategy(page field.PageText) ([]field.Candidate, error) {
	spans, err := d.recognizer.Entities(page.Text)
	if err != nil {
		return nil, err
	}

	var out []field.Candidate
	for _, span := range spans {
		var t field.Type
		switch span.Label {
		case entity.LabelPerson:
			t = field.TypeName
		case entity.LabelDate:
			t = field.TypeDate
		default:
			continue
		}

		text := strings.TrimSpace(span.Text)
		if len(text) < minSpanLen[string(t)] {
			continue
		}

		out = append(out, field.Candidate{
			Type:   t,
			Text:   text,
			Page:   page.Index,
			Offset: span.Offset,
		})
	}
	return out, nil
}

func (d *Detector) searchHits(page field.PageText) []field.Candidate {
	return matchAll(page, field.TypeOther, d.searchTerm)
}

func matchAll(page field.PageText, t field.Type, pattern *regexp.Regexp) []field.Candidate {
	var out []field.Candidate
	for _, loc := range pattern.FindAllStringIndex(page.Text, -1) {
		text := strings.TrimSpace(page.Text[loc[0]:loc[1]])
		if len(text) < minSpanLen[string(t)] {
			continue
		}
		out = append(out, field.Candidate{
			Type:   t,
			Text:   text,
			Page:   page.Index,
			Offset: loc[0],
		})
	}
	return out
}

// dedupeOverlaps applies the same-type same-text overlap policy within one
// page: the first candidate by offset wins.
func dedupeOverlaps(candidates []field.Candidate) []field.Candidate {
	sortByOffset(candidates)

	kept := candidates[:0]
	for _, c := range candidates {
		if overlapsKept(kept, c) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func overlapsKept(kept []field.Candidate, c field.Candidate) bool {
	cEnd := c.Offset + len(c.Text)
	for _, k := range kept {
		if k.Type != c.Type || k.Text != c.Text {
			continue
		}
		kEnd := k.Offset + len(k.Text)
		if c.Offset < kEnd && k.Offset < cEnd {
			return true
		}
	}
	return false
}

func sortByOffset(candidates []field.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Offset < candidates[j].Offset
	})
}
