// Package taxstates builds per-jurisdiction tax-sale rule tables: it fetches
// the published state listings, extracts one record per state, and writes
// each dataset as an Excel workbook, CSV, JSON, and Markdown.
package taxstates

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/xp1/taxstates-go/pkg/taxstates/fetch"
	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

// Dataset describes one jurisdiction-set source: where to fetch it, what to
// call its outputs, and how raw table labels map to column titles.
type Dataset struct {
	// Name labels the dataset and names its output files and directories.
	Name string
	// URI locates the source document.
	URI string
	// Table names the workbook table. Derived from Name when empty.
	Table string
	// Schema orders the output columns. Defaults to DefaultSchema.
	Schema *models.Schema
}

// TableName returns the workbook table name, deriving an identifier from
// the dataset name when none was configured.
func (d Dataset) TableName() string {
	if d.Table != "" {
		return d.Table
	}
	return identifier(d.Name)
}

// identifier strips a display name down to a valid table name, e.g.
// "Tax lien certificate states" -> "TaxLienCertificateStates".
func identifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	return b.String()
}

// DefaultSchema returns the raw-label to column-title mapping shared by the
// built-in datasets.
func DefaultSchema() *models.Schema {
	return models.NewSchema([]models.Pair{
		{Key: "State", Title: "State"},
		{Key: "Type", Title: "Type"},
		{Key: "Bidding Process", Title: "Bidding process"},
		{Key: "Frequency", Title: "Frequency"},
		{Key: "Interest Rate / Penalty", Title: "Interest rate / penalty"},
		{Key: "Redemption Period", Title: "Redemption period"},
		{Key: "Online Auction", Title: "Online auction"},
		{Key: "Over the Counter", Title: "Over the counter"},
		{Key: "Statute", Title: "Statute"},
		{Key: "Notes", Title: "Notes"},
		{Key: "Description", Title: "Description"},
	})
}

// DefaultDatasets returns the two built-in jurisdiction sets.
func DefaultDatasets() []Dataset {
	return []Dataset{
		{
			Name:   "Tax lien certificate states",
			URI:    "https://tedthomas.com/faqs/tax-lien-certificate-states/",
			Table:  "TaxLienCertificateStates",
			Schema: DefaultSchema(),
		},
		{
			Name:   "Tax deed states",
			URI:    "https://tedthomas.com/faqs/tax-deed-states/",
			Table:  "TaxDeedStates",
			Schema: DefaultSchema(),
		},
	}
}

// Options configures a build run.
type Options struct {
	// DataDir receives the raw fetched markup. Defaults to "data".
	DataDir string
	// BuildDir receives per-dataset output directories. Defaults to "build".
	BuildDir string
	// Fetch configures the HTTP client.
	Fetch fetch.Config
	// Logger reports build progress. Nil disables logging.
	Logger *zap.Logger
}

func (o Options) dataDir() string {
	if o.DataDir != "" {
		return o.DataDir
	}
	return "data"
}

func (o Options) buildDir() string {
	if o.BuildDir != "" {
		return o.BuildDir
	}
	return "build"
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
