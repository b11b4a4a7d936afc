package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"

	"github.com/xuri/excelize/v2"
)

const (
	contentTypesName = "[Content_Types].xml"
	workbookXMLName  = "xl/workbook.xml"
	stylesXMLName    = "xl/styles.xml"
	themeXMLName     = "xl/theme/theme1.xml"
	tableXMLName     = "xl/tables/table1.xml"
	sheetXMLName     = "xl/worksheets/sheet1.xml"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"
)

// firstNames are the entries strict readers expect at the front of the
// container, in this order.
var firstNames = []string{contentTypesName, workbookXMLName, stylesXMLName}

// patchFunc rewrites one container entry's bytes.
type patchFunc func([]byte) []byte

// repair rebuilds the workbook container with the manifest, workbook, and
// styles entries first and all other entries in their original relative
// order, applying any per-entry patches on the way. Expected entries missing
// from the source are skipped.
func repair(artifact []byte, patches map[string]patchFunc) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(artifact), int64(len(artifact)))
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*zip.File, len(zr.File))
	for _, zf := range zr.File {
		byName[zf.Name] = zf
	}

	first := make(map[string]bool, len(firstNames))
	for _, name := range firstNames {
		first[name] = true
	}
	ordered := make([]string, 0, len(zr.File))
	ordered = append(ordered, firstNames...)
	for _, zf := range zr.File {
		if !first[zf.Name] {
			ordered = append(ordered, zf.Name)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range ordered {
		zf, ok := byName[name]
		if !ok {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if patch, ok := patches[name]; ok {
			data = patch(data)
		}
		w, err := zw.Create(zf.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tableXML renders the table part with the totals-row attributes excelize
// cannot express: totalsRowCount, the first column's totals label, the last
// column's count function, and an autofilter that stops short of the totals
// row. lastRow is the totals row (header + data + 1).
func tableXML(name string, titles []string, lastRow int) []byte {
	lastColumn, err := excelize.ColumnNumberToName(len(titles))
	if err != nil {
		return nil
	}

	var b bytes.Buffer
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" id="1" name="%[1]s" displayName="%[1]s" ref="A1:%[2]s%[3]d" totalsRowCount="1">`,
		escape(name), lastColumn, lastRow)
	fmt.Fprintf(&b, `<autoFilter ref="A1:%s%d"/>`, lastColumn, lastRow-1)
	fmt.Fprintf(&b, `<tableColumns count="%d">`, len(titles))
	for i, title := range titles {
		var extra string
		if i == 0 {
			extra += ` totalsRowLabel="Total"`
		}
		if i == len(titles)-1 {
			extra += ` totalsRowFunction="count"`
		}
		fmt.Fprintf(&b, `<tableColumn id="%d" name="%s"%s/>`, i+1, escape(title), extra)
	}
	b.WriteString(`</tableColumns>`)
	fmt.Fprintf(&b, `<tableStyleInfo name="%s" showFirstColumn="0" showLastColumn="0" showRowStripes="1" showColumnStripes="0"/>`, tableStyle)
	b.WriteString(`</table>`)
	return b.Bytes()
}

var (
	selectionRe          = regexp.MustCompile(`<selection[^>]*/>`)
	sheetViewSelfCloseRe = regexp.MustCompile(`<sheetView(\s[^>]*?)?/>`)
	sheetViewOpenRe      = regexp.MustCompile(`<sheetView(\s[^>]*)?>`)
)

// anchorSelection points the sheet view's active cell and selection at cell,
// the cell directly below the table's bottom-left corner.
func anchorSelection(sheet []byte, cell string) []byte {
	selection := fmt.Sprintf(`<selection activeCell="%[1]s" sqref="%[1]s"/>`, cell)
	switch {
	case selectionRe.Match(sheet):
		return selectionRe.ReplaceAll(sheet, []byte(selection))
	case sheetViewSelfCloseRe.Match(sheet):
		return sheetViewSelfCloseRe.ReplaceAll(sheet, []byte(`<sheetView$1>`+selection+`</sheetView>`))
	case sheetViewOpenRe.Match(sheet):
		return sheetViewOpenRe.ReplaceAll(sheet, []byte(`<sheetView$1>`+selection))
	}
	return sheet
}

func escape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
