package taxstates

import "path/filepath"

// Layout holds the on-disk locations for one dataset's artifacts: the raw
// markup mirror under the data directory and the four output formats under
// a per-dataset build directory.
type Layout struct {
	DataDir  string
	BuildDir string

	HTML     string
	Excel    string
	CSV      string
	JSON     string
	Markdown string
}

// NewLayout computes the artifact locations for a dataset.
func NewLayout(dataDir, buildDir string, d Dataset) Layout {
	build := filepath.Join(buildDir, d.Name)
	return Layout{
		DataDir:  dataDir,
		BuildDir: build,
		HTML:     filepath.Join(dataDir, d.Name+".html"),
		Excel:    filepath.Join(build, d.Name+".xlsx"),
		CSV:      filepath.Join(build, d.Name+".csv"),
		JSON:     filepath.Join(build, d.Name+".json"),
		Markdown: filepath.Join(build, d.Name+".md"),
	}
}
