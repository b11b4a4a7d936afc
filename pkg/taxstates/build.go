package taxstates

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/xp1/taxstates-go/pkg/taxstates/export"
	"github.com/xp1/taxstates-go/pkg/taxstates/extract"
	"github.com/xp1/taxstates-go/pkg/taxstates/fetch"
	"github.com/xp1/taxstates-go/pkg/taxstates/models"
	"github.com/xp1/taxstates-go/pkg/taxstates/workbook"
)

// Builder sequences fetch, extraction, workbook synthesis, and export for
// each configured dataset. Datasets build sequentially; the pipeline is
// single-threaded by design.
type Builder struct {
	opts    Options
	fetcher *fetch.Client
	log     *zap.Logger
}

// NewBuilder creates a builder.
func NewBuilder(opts Options) *Builder {
	log := opts.logger()
	fetchCfg := opts.Fetch
	if fetchCfg.Logger == nil {
		fetchCfg.Logger = log
	}
	return &Builder{
		opts:    opts,
		fetcher: fetch.New(fetchCfg),
		log:     log,
	}
}

// Run builds every dataset in order, stopping at the first failure.
func (b *Builder) Run(ctx context.Context, datasets []Dataset) error {
	if len(datasets) == 0 {
		return ErrNoDatasets
	}
	for _, d := range datasets {
		if err := b.Build(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Build runs the full pipeline for one dataset: fetch markup, mirror it to
// the data directory, extract records, and write the workbook, CSV, JSON,
// and Markdown artifacts. Extraction anomalies degrade to missing or empty
// fields; only fetch and I/O failures surface as errors.
func (b *Builder) Build(ctx context.Context, d Dataset) error {
	log := b.log.With(zap.String("dataset", d.Name))
	schema := d.Schema
	if schema == nil {
		schema = DefaultSchema()
	}
	layout := NewLayout(b.opts.dataDir(), b.opts.buildDir(), d)

	log.Info("fetching data", zap.String("uri", d.URI))
	markup, err := b.fetcher.Text(ctx, d.URI)
	if err != nil {
		return buildError(d.Name, "fetch", err)
	}

	log.Info("writing data", zap.String("path", layout.HTML))
	if err := os.MkdirAll(layout.DataDir, 0755); err != nil {
		return buildError(d.Name, "markup", err)
	}
	if err := os.WriteFile(layout.HTML, []byte(markup), 0644); err != nil {
		return buildError(d.Name, "markup", err)
	}

	records := extract.New(log).Records(markup, schema)
	log.Info("extracted records", zap.Int("count", len(records)))

	if err := os.MkdirAll(layout.BuildDir, 0755); err != nil {
		return buildError(d.Name, "workbook", err)
	}

	log.Info("creating workbook", zap.String("path", layout.Excel))
	artifact, err := workbook.Synthesize(schema, records, workbook.Titles{
		Workbook: d.Name,
		Sheet:    d.Name,
		Table:    d.TableName(),
	})
	if err != nil {
		return buildError(d.Name, "workbook", err)
	}
	if err := os.WriteFile(layout.Excel, artifact, 0644); err != nil {
		return buildError(d.Name, "workbook", err)
	}

	log.Info("writing CSV", zap.String("path", layout.CSV))
	if err := writeFile(layout.CSV, func(f *os.File) error {
		return export.WriteCSV(f, schema, records)
	}); err != nil {
		return buildError(d.Name, "csv", err)
	}

	log.Info("writing JSON", zap.String("path", layout.JSON))
	if err := writeFile(layout.JSON, func(f *os.File) error {
		return export.WriteJSON(f, records)
	}); err != nil {
		return buildError(d.Name, "json", err)
	}

	log.Info("writing markdown", zap.String("path", layout.Markdown))
	if err := writeFile(layout.Markdown, func(f *os.File) error {
		return export.WriteMarkdown(f, schema, records)
	}); err != nil {
		return buildError(d.Name, "markdown", err)
	}

	return nil
}

// Extract parses records out of already-fetched markup, for callers that
// mirror the source themselves.
func (b *Builder) Extract(markup string, schema *models.Schema) []*models.Record {
	if schema == nil {
		schema = DefaultSchema()
	}
	return extract.New(b.log).Records(markup, schema)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
