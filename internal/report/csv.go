// Package report flattens result sets for tabular consumers: CSV export
// and summary statistics. It owns no wire format beyond what a spreadsheet
// or dashboard needs.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/docfield/docfield/internal/field"
)

// csvJoin separates multiple values of one field type inside a single cell.
const csvJoin = "; "

// WriteCSV flattens a result set to CSV: one row per document, one column
// per field type plus the document identifier and an error column.
// Multiple values of the same type join with "; " inside their cell.
func WriteCSV(w io.Writer, rs field.ResultSet) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(field.Types)+2)
	header = append(header, "document")
	for _, t := range field.Types {
		header = append(header, string(t))
	}
	header = append(header, "error")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range rs.Records {
		row := make([]string, 0, len(header))
		row = append(row, rec.DocumentID)
		for _, t := range field.Types {
			row = append(row, strings.Join(rec.Values(t), csvJoin))
		}
		row = append(row, rec.Err)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", rec.DocumentID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
