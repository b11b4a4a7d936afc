package workbook

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

func testSchema() *models.Schema {
	return models.NewSchema([]models.Pair{
		{Key: "State", Title: "State"},
		{Key: "Type", Title: "Type"},
		{Key: "Frequency", Title: "Frequency"},
		{Key: "Statute", Title: "Statute"},
		{Key: "Description", Title: "Description"},
	})
}

func testRecords(t *testing.T, schema *models.Schema, n int) []*models.Record {
	t.Helper()
	records := make([]*models.Record, 0, n)
	for i := 0; i < n; i++ {
		rec := models.NewRecord()
		rec.Set("State", fmt.Sprintf("State %d", i+1))
		rec.Set("Type", "Tax lien")
		rec.Set("Frequency", "Annual")
		rec.Set("Statute", "40-10")
		rec.Set("Description", "Sold to the highest bidder.")
		rec.Backfill(schema)
		records = append(records, rec)
	}
	return records
}

func synthesizeSample(t *testing.T, n int) ([]byte, *models.Schema) {
	t.Helper()
	schema := testSchema()
	artifact, err := Synthesize(schema, testRecords(t, schema, n), Titles{
		Workbook: "Sample states",
		Sheet:    "Sample states",
		Table:    "SampleStates",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	return artifact, schema
}

func TestSynthesizeCells(t *testing.T) {
	artifact, schema := synthesizeSample(t, 3)

	f, err := excelize.OpenReader(bytes.NewReader(artifact))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	sheet := "Sample states"

	// Header row in schema order.
	for c, title := range schema.Titles() {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
		}
		if got != title {
			t.Errorf("header %s = %q, expected %q", cell, got, title)
		}
	}

	// Data cells.
	if got, _ := f.GetCellValue(sheet, "A2"); got != "State 1" {
		t.Errorf("A2 = %q, expected \"State 1\"", got)
	}
	if got, _ := f.GetCellValue(sheet, "B4"); got != "Tax lien" {
		t.Errorf("B4 = %q, expected \"Tax lien\"", got)
	}

	// Totals row: label first, count formula last.
	if got, _ := f.GetCellValue(sheet, "A5"); got != "Total" {
		t.Errorf("A5 = %q, expected \"Total\"", got)
	}
	formula, err := f.GetCellFormula(sheet, "E5")
	if err != nil {
		t.Fatalf("GetCellFormula failed: %v", err)
	}
	if formula != "SUBTOTAL(103,SampleStates[Description])" {
		t.Errorf("E5 formula = %q", formula)
	}
}

func TestSynthesizeNumericTextStaysText(t *testing.T) {
	schema := models.NewSchema([]models.Pair{
		{Key: "State", Title: "State"},
		{Key: "Rate", Title: "Rate"},
	})
	rec := models.NewRecord()
	rec.Set("State", "Iowa")
	rec.Set("Rate", "24")
	artifact, err := Synthesize(schema, []*models.Record{rec}, Titles{Sheet: "S", Table: "T"})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(artifact))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	cellType, err := f.GetCellType("S", "B2")
	if err != nil {
		t.Fatalf("GetCellType failed: %v", err)
	}
	if cellType != excelize.CellTypeSharedString && cellType != excelize.CellTypeInlineString {
		t.Errorf("B2 cell type = %v, expected a string type", cellType)
	}
	if got, _ := f.GetCellValue("S", "B2"); got != "24" {
		t.Errorf("B2 = %q, expected \"24\"", got)
	}
}

func TestSynthesizeDateCells(t *testing.T) {
	schema := models.NewSchema([]models.Pair{
		{Key: "State", Title: "State"},
		{Key: "Updated", Title: "Updated"},
	})
	rec := models.NewRecord()
	rec.Set("State", "Iowa")
	rec.Set("Updated", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	artifact, err := Synthesize(schema, []*models.Record{rec}, Titles{Sheet: "S", Table: "T"})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(artifact))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("S", "B2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if got != "2024-03-15T09:30:00" {
		t.Errorf("B2 = %q, expected ISO-8601 display", got)
	}
	cellType, err := f.GetCellType("S", "B2")
	if err != nil {
		t.Fatalf("GetCellType failed: %v", err)
	}
	if cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString {
		t.Errorf("B2 cell type = %v, expected a date cell, not text", cellType)
	}
}

func TestSynthesizeColumnWidths(t *testing.T) {
	artifact, _ := synthesizeSample(t, 3)

	f, err := excelize.OpenReader(bytes.NewReader(artifact))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	// Column E's longest value is the totals formula text.
	width, err := f.GetColWidth("Sample states", "E")
	if err != nil {
		t.Fatalf("GetColWidth failed: %v", err)
	}
	if want := float64(len("=SUBTOTAL(103,SampleStates[Description])")); width != want {
		t.Errorf("column E width = %v, expected %v", width, want)
	}

	// Column A's longest value is a state name, longer than the totals label.
	width, err = f.GetColWidth("Sample states", "A")
	if err != nil {
		t.Fatalf("GetColWidth failed: %v", err)
	}
	if want := float64(len("State 1")); width != want {
		t.Errorf("column A width = %v, expected %v", width, want)
	}

	// Column C's longest value is the header itself.
	width, err = f.GetColWidth("Sample states", "C")
	if err != nil {
		t.Fatalf("GetColWidth failed: %v", err)
	}
	if want := float64(len("Frequency")); width != want {
		t.Errorf("column C width = %v, expected %v", width, want)
	}
}

func TestSynthesizeContainer(t *testing.T) {
	artifact, _ := synthesizeSample(t, 3)

	zr, err := zip.NewReader(bytes.NewReader(artifact), int64(len(artifact)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}

	for i, name := range firstNames {
		if zr.File[i].Name != name {
			t.Errorf("entry %d = %q, expected %q", i, zr.File[i].Name, name)
		}
	}

	table := readEntry(t, zr, tableXMLName)
	// 3 records + header + totals = rows 1..5; autofilter stops at row 4.
	for _, want := range []string{
		`ref="A1:E5"`,
		`totalsRowCount="1"`,
		`<autoFilter ref="A1:E4"/>`,
		`totalsRowLabel="Total"`,
		`totalsRowFunction="count"`,
		`<tableColumns count="5">`,
		`showRowStripes="1"`,
		`showColumnStripes="0"`,
	} {
		if !strings.Contains(table, want) {
			t.Errorf("table xml missing %s", want)
		}
	}

	sheet := readEntry(t, zr, sheetXMLName)
	if !strings.Contains(sheet, `<selection activeCell="A6" sqref="A6"/>`) {
		t.Error("sheet xml missing selection anchor below the table")
	}
}

func TestSynthesizeEmptySchema(t *testing.T) {
	if _, err := Synthesize(models.NewSchema(nil), nil, Titles{Table: "T"}); err != ErrEmptySchema {
		t.Errorf("expected ErrEmptySchema, got %v", err)
	}
}

func TestSynthesizeNoRecords(t *testing.T) {
	artifact, _ := synthesizeSample(t, 0)

	zr, err := zip.NewReader(bytes.NewReader(artifact), int64(len(artifact)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}
	table := readEntry(t, zr, tableXMLName)
	if !strings.Contains(table, `ref="A1:E2"`) {
		t.Error("table xml should cover header plus totals row only")
	}
}

func readEntry(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, zf := range zr.File {
		if zf.Name != name {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}
