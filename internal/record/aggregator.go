// Package record merges validated fields into per-document records and
// per-batch result sets. Aggregation is pure: it only reorders and
// deduplicates already-validated input.
package record

import (
	"sort"

	"github.com/docfield/docfield/internal/field"
)

// Aggregator builds records from validated fields.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate merges validated fields for one document. Within a field type,
// two fields are duplicates when their normalized values are equal; the
// first occurrence by (page, offset) wins and first-seen order is what the
// record lists. A record with zero fields is a valid outcome.
func (a *Aggregator) Aggregate(docID string, fields []field.Validated) field.Record {
	rec := field.NewRecord(docID)

	ordered := make([]field.Validated, len(fields))
	copy(ordered, fields)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		return ordered[i].Offset < ordered[j].Offset
	})

	type key struct {
		t     field.Type
		value string
	}
	seen := make(map[key]bool)

	for _, f := range ordered {
		if !f.Valid || f.Value == "" {
			// Invalid fields never reach aggregation output.
			continue
		}
		k := key{t: f.Type, value: f.Value}
		if seen[k] {
			continue
		}
		seen[k] = true
		rec.Fields[f.Type] = append(rec.Fields[f.Type], f)
	}

	return rec
}

// FailedRecord returns the zero-field record that marks one document's
// processing failure inside an otherwise healthy batch.
func (a *Aggregator) FailedRecord(docID string, err error) field.Record {
	rec := field.NewRecord(docID)
	if err != nil {
		rec.Err = err.Error()
	}
	return rec
}

// AggregateBatch assembles the result set for one upload batch. Records
// must already be in upload order; the result set preserves it.
func (a *Aggregator) AggregateBatch(records []field.Record) field.ResultSet {
	return field.ResultSet{Records: records}
}
