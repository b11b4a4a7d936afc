// Package workbook synthesizes the styled xlsx artifact for one record set:
// typed cells, a SUBTOTAL totals row, a named table with autofilter,
// autosized columns, and a repaired container that strict readers accept.
package workbook

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

// Titles names the synthesized artifacts.
type Titles struct {
	Workbook string
	Sheet    string
	Table    string
}

const (
	// iso8601NumberFormat displays date cells.
	iso8601NumberFormat = "yyyy-mm-ddThh:MM:ss"

	// textNumberFormat is the built-in "@" format id. Every non-date cell
	// is written as an explicit string with this format so a spreadsheet
	// engine never reinterprets numeric-looking text.
	textNumberFormat = 49

	tableStyle   = "TableStyleMedium2"
	totalsLabel  = "Total"
	defaultSheet = "Sheet1"
)

// ErrEmptySchema indicates synthesis was requested without any columns.
var ErrEmptySchema = errors.New("workbook: schema has no columns")

// Synthesize builds the workbook bytes for a record set. Rows 2..N+1 hold
// one record each in schema column order, followed by a totals row whose
// last cell counts the data rows. The returned bytes have already been
// through container repair.
func Synthesize(schema *models.Schema, records []*models.Record, titles Titles) ([]byte, error) {
	colTitles := schema.Titles()
	if len(colTitles) == 0 {
		return nil, ErrEmptySchema
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := titles.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, err
		}
	}
	if titles.Workbook != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: titles.Workbook}); err != nil {
			return nil, err
		}
	}

	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: textNumberFormat})
	if err != nil {
		return nil, err
	}
	dateFormat := iso8601NumberFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return nil, err
	}

	for c, title := range colTitles {
		if err := setTextCell(f, sheet, c+1, 1, title, textStyle); err != nil {
			return nil, err
		}
	}
	for r, rec := range records {
		for c, title := range colTitles {
			value, _ := rec.Get(title)
			if err := setCell(f, sheet, c+1, r+2, value, textStyle, dateStyle); err != nil {
				return nil, err
			}
		}
	}

	totalsRow := len(records) + 2
	lastTitle := colTitles[len(colTitles)-1]
	if err := setTextCell(f, sheet, 1, totalsRow, totalsLabel, textStyle); err != nil {
		return nil, err
	}
	countCell, err := excelize.CoordinatesToCellName(len(colTitles), totalsRow)
	if err != nil {
		return nil, err
	}
	formula := fmt.Sprintf("SUBTOTAL(103,%s[%s])", titles.Table, lastTitle)
	if err := f.SetCellFormula(sheet, countCell, formula); err != nil {
		return nil, err
	}

	lastColumn, err := excelize.ColumnNumberToName(len(colTitles))
	if err != nil {
		return nil, err
	}
	showRowStripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:             fmt.Sprintf("A1:%s%d", lastColumn, totalsRow),
		Name:              titles.Table,
		StyleName:         tableStyle,
		ShowFirstColumn:   false,
		ShowLastColumn:    false,
		ShowRowStripes:    &showRowStripes,
		ShowColumnStripes: false,
	}); err != nil {
		return nil, err
	}

	if err := autosizeColumns(f, sheet, schema, records, "="+formula); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	// Excelize has no API for table totals rows or the sheet selection, so
	// both are rewritten at the container level together with the entry
	// reorder and theme patch.
	anchor, err := excelize.CoordinatesToCellName(1, totalsRow+1)
	if err != nil {
		return nil, err
	}
	table := tableXML(titles.Table, colTitles, totalsRow)
	return repair(buf.Bytes(), map[string]patchFunc{
		themeXMLName: patchTheme,
		tableXMLName: func([]byte) []byte { return table },
		sheetXMLName: func(data []byte) []byte { return anchorSelection(data, anchor) },
	})
}

// setCell writes one record value with its inferred cell type: dates get a
// date cell with the ISO-8601 display format, everything else an explicit
// text cell.
func setCell(f *excelize.File, sheet string, col, row int, value models.Value, textStyle, dateStyle int) error {
	if t, ok := value.(time.Time); ok {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, t); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, dateStyle)
	}
	return setTextCell(f, sheet, col, row, models.Render(value), textStyle)
}

func setTextCell(f *excelize.File, sheet string, col, row int, value string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// autosizeColumns sets each column's width to the character length of its
// longest cell value, header and totals row included; the last column
// counts the totals formula text. Excelize rejects widths beyond its
// maximum, so lengths are clamped there.
func autosizeColumns(f *excelize.File, sheet string, schema *models.Schema, records []*models.Record, totalsFormula string) error {
	titles := schema.Titles()
	for c, title := range titles {
		length := utf8.RuneCountInString(title)
		for _, rec := range records {
			if n := utf8.RuneCountInString(rec.Render(title)); n > length {
				length = n
			}
		}
		if n := utf8.RuneCountInString(totalsLabel); c == 0 && n > length {
			length = n
		}
		if n := utf8.RuneCountInString(totalsFormula); c == len(titles)-1 && n > length {
			length = n
		}
		if length > excelize.MaxColumnWidth {
			length = excelize.MaxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(length)); err != nil {
			return err
		}
	}
	return nil
}
