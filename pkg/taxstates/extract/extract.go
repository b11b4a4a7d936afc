// Package extract turns the semi-structured jurisdiction listing markup
// into one record per jurisdiction.
//
// The source pages lay out each jurisdiction as three loosely related
// blocks: a menu-anchored heading, a two-column key/value table, and a
// free-text notes paragraph. The table and notes blocks share one structural
// selector and occur in repeating (table, notes) pairs; the i-th pair
// belongs to the i-th heading. Extraction is best-effort over this fixed
// template: markup missing the expected markers yields an empty result
// rather than an error.
package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

const (
	// headingSelector matches the jurisdiction heading: a menu-anchor
	// marker immediately followed by a heading widget.
	headingSelector = ".elementor-widget-menu-anchor + .elementor-widget-heading .elementor-heading-title"

	// blockSelector matches the content-bearing blocks, which occur in
	// (table, notes) pairs in document order.
	blockSelector = ".e-con-inner > .e-child > .e-child .elementor-widget-text-editor"

	// notesLabel is the literal prefix stripped from notes text.
	notesLabel = "NOTES:"
)

// Extractor walks parsed listing markup and produces records.
type Extractor struct {
	log *zap.Logger
}

// New creates an extractor. A nil logger disables logging.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Records extracts one record per jurisdiction from markup. Every returned
// record carries the full schema title set, with fields absent from the
// source backfilled as empty strings. The first schema title receives the
// heading text and the last receives the notes text.
func (e *Extractor) Records(markup string, schema *models.Schema) []*models.Record {
	if schema == nil || schema.Len() == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.log.Warn("markup parse failed", zap.Error(err))
		return nil
	}

	headings := doc.Find(headingSelector)
	blocks := doc.Find(blockSelector)

	// Consecutive blocks pair up as (table, notes); an odd trailing block
	// is a table with no notes partner.
	pairs := (blocks.Length() + 1) / 2
	n := pairs
	if headings.Length() < n {
		n = headings.Length()
	}
	if pairs != headings.Length() {
		e.log.Warn("heading and block counts disagree",
			zap.Int("headings", headings.Length()),
			zap.Int("pairs", pairs))
	}

	titles := schema.Titles()
	headingTitle := titles[0]
	notesTitle := titles[len(titles)-1]

	records := make([]*models.Record, 0, n)
	for i := 0; i < n; i++ {
		table := blocks.Eq(2 * i)
		var notes *goquery.Selection
		if 2*i+1 < blocks.Length() {
			notes = blocks.Eq(2*i + 1)
		}

		rec := models.NewRecord()
		rec.Set(headingTitle, strings.TrimSpace(headings.Eq(i).Text()))
		tableValues(table, schema, rec)
		rec.Set(notesTitle, notesText(notes))
		rec.Backfill(schema)
		records = append(records, rec)
	}
	return records
}

// tableValues reads the key/value rows of a table block into rec. Rows need
// at least two cells; the first cell's trimmed text with trailing colons
// stripped is the raw key, the second cell's trimmed text is the value.
// Rows where both are empty are skipped.
func tableValues(table *goquery.Selection, schema *models.Schema, rec *models.Record) {
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := strings.TrimRight(strings.TrimSpace(cells.Eq(0).Text()), ":")
		value := strings.TrimSpace(cells.Eq(1).Text())
		if key == "" && value == "" {
			return
		}
		rec.Set(schema.Title(key), value)
	})
}

// notesText returns the trimmed notes text with the leading label removed.
func notesText(notes *goquery.Selection) string {
	if notes == nil {
		return ""
	}
	text := strings.TrimSpace(notes.Text())
	text = strings.TrimPrefix(text, notesLabel)
	return strings.TrimLeftFunc(text, unicode.IsSpace)
}
