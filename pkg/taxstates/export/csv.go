// Package export writes a record set as CSV, JSON, or Markdown. All three
// emit fields in schema column order.
package export

import (
	"encoding/csv"
	"io"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

// WriteCSV writes a header row of schema titles followed by one row per
// record. Embedded delimiters and newlines get standard CSV quoting.
func WriteCSV(w io.Writer, schema *models.Schema, records []*models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Titles()); err != nil {
		return err
	}
	row := make([]string, schema.Len())
	for _, rec := range records {
		for i, title := range schema.Titles() {
			row[i] = rec.Render(title)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
