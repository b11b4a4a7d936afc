package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

// WriteMarkdown writes the records as a pipe-delimited table: header row,
// separator row, then one row per record. Columns are padded to the widest
// value so the raw text stays readable.
func WriteMarkdown(w io.Writer, schema *models.Schema, records []*models.Record) error {
	titles := schema.Titles()

	widths := make([]int, len(titles))
	for i, title := range titles {
		widths[i] = utf8.RuneCountInString(title)
	}
	rows := make([][]string, len(records))
	for r, rec := range records {
		row := make([]string, len(titles))
		for i, title := range titles {
			row[i] = escapeMarkdown(rec.Render(title))
			if n := utf8.RuneCountInString(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
		rows[r] = row
	}

	if err := writeRow(w, titles, widths); err != nil {
		return err
	}
	separator := make([]string, len(titles))
	for i, width := range widths {
		separator[i] = strings.Repeat("-", width)
	}
	if err := writeRow(w, separator, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	var b strings.Builder
	b.WriteByte('|')
	for i, cell := range cells {
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	_, err := fmt.Fprint(w, b.String())
	return err
}

// escapeMarkdown keeps cell text from breaking the table structure.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
