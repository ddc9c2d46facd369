// Package field defines the domain model shared by every pipeline stage:
// the closed field-type tag set, raw candidates, validated fields, and the
// per-document and per-batch result shapes. It carries no dependencies so
// that detector, validator, and aggregator stay decoupled from each other.
package field

import (
	"errors"
	"fmt"
)

// Type tags a detected span with the kind of structured field it may hold.
type Type string

const (
	TypeName  Type = "name"
	TypePhone Type = "phone"
	TypeEmail Type = "email"
	TypeDate  Type = "date"
	TypeOther Type = "other"
)

// Types lists all field types in the fixed order used for rendering and
// CSV column groups.
var Types = []Type{TypeName, TypePhone, TypeEmail, TypeDate, TypeOther}

// Valid reports whether t belongs to the closed tag set.
func (t Type) Valid() bool {
	switch t {
	case TypeName, TypePhone, TypeEmail, TypeDate, TypeOther:
		return true
	}
	return false
}

// Sentinel errors for the document-processing error taxonomy.
var (
	// ErrUnreadablePDF marks a byte stream that is not a parseable PDF
	// container. Fatal for the affected document only.
	ErrUnreadablePDF = errors.New("unreadable PDF")

	// ErrInvalidCandidate marks a candidate whose field-type tag is outside
	// the closed tag set. Unreachable when candidates come from the
	// detector; surfaced so contract violations fail loudly in tests.
	ErrInvalidCandidate = errors.New("invalid candidate")
)

// PageText is one page's extracted text plus its zero-based page index.
// Pages with no extractable text are still emitted so page indices stay
// stable for offset reporting.
type PageText struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Candidate is a raw detected span thought to represent a field value.
// Candidates are consumed by validation and never persisted past it.
type Candidate struct {
	Type   Type   `json:"type"`
	Text   string `json:"text"`
	Page   int    `json:"page"`
	Offset int    `json:"offset"`
}

// Validated is a candidate that passed type-specific correctness checks.
// Value always holds the canonical form; a Validated with Valid == false
// never leaves the validator.
type Validated struct {
	Type  Type   `json:"type"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
	Note  string `json:"note,omitempty"`

	// Source position, used for first-seen ordering during aggregation.
	Page   int `json:"page"`
	Offset int `json:"offset"`
}

// Record is the validated, deduplicated field set for one document.
// Within a type, values appear in order of first validated occurrence and
// contain no duplicates.
type Record struct {
	DocumentID string               `json:"document_id"`
	Fields     map[Type][]Validated `json:"fields"`
	Err        string               `json:"error,omitempty"`
}

// NewRecord returns an empty record for the given document identifier.
func NewRecord(docID string) Record {
	return Record{
		DocumentID: docID,
		Fields:     make(map[Type][]Validated),
	}
}

// Values returns the normalized values recorded for one field type, in
// first-seen order.
func (r Record) Values(t Type) []string {
	fields := r.Fields[t]
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	return values
}

// FieldCount returns the total number of validated fields across all types.
func (r Record) FieldCount() int {
	n := 0
	for _, fields := range r.Fields {
		n += len(fields)
	}
	return n
}

// Failed reports whether the document could not be processed at all.
func (r Record) Failed() bool {
	return r.Err != ""
}

// ResultSet is the ordered collection of records for one upload batch.
// Order equals upload order regardless of per-document processing time.
type ResultSet struct {
	Records []Record `json:"records"`
}

// Len returns the number of records in the set.
func (rs ResultSet) Len() int { return len(rs.Records) }

// Upload pairs a display filename with raw PDF bytes, as received from the
// caller. The filename is a display label only.
type Upload struct {
	Filename string
	Data     []byte
}

// String implements fmt.Stringer for debugging output.
func (c Candidate) String() string {
	return fmt.Sprintf("%s %q (page %d, offset %d)", c.Type, c.Text, c.Page, c.Offset)
}
