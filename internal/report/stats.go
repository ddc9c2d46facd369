package report

import (
	"github.com/docfield/docfield/internal/field"
)

// Summary aggregates a result set for dashboard-style consumers.
type Summary struct {
	Documents       int                `json:"documents"`
	FailedDocuments int                `json:"failed_documents"`
	TotalFields     int                `json:"total_fields"`
	FieldsByType    map[field.Type]int `json:"fields_by_type"`
	SuccessRate     float64            `json:"success_rate"`
	Files           []FileSummary      `json:"files"`
}

// FileSummary is the per-document breakdown.
type FileSummary struct {
	DocumentID string `json:"document_id"`
	Fields     int    `json:"fields"`
	Failed     bool   `json:"failed"`
	Err        string `json:"error,omitempty"`
}

// Summarize computes counts per field type, the document success rate, and
// a per-file breakdown in result-set order.
func Summarize(rs field.ResultSet) Summary {
	s := Summary{
		Documents:    rs.Len(),
		FieldsByType: make(map[field.Type]int, len(field.Types)),
		Files:        make([]FileSummary, 0, rs.Len()),
	}

	for _, rec := range rs.Records {
		if rec.Failed() {
			s.FailedDocuments++
		}
		for _, t := range field.Types {
			n := len(rec.Fields[t])
			s.FieldsByType[t] += n
			s.TotalFields += n
		}
		s.Files = append(s.Files, FileSummary{
			DocumentID: rec.DocumentID,
			Fields:     rec.FieldCount(),
			Failed:     rec.Failed(),
			Err:        rec.Err,
		})
	}

	if s.Documents > 0 {
		s.SuccessRate = float64(s.Documents-s.FailedDocuments) / float64(s.Documents)
	}
	return s
}
