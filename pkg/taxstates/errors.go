package taxstates

import (
	"errors"
	"fmt"
)

// ErrNoDatasets indicates a build run was started without any datasets.
var ErrNoDatasets = errors.New("no datasets configured")

// BuildError tags a failure with the dataset and pipeline stage it came
// from: "fetch", "markup", "workbook", "csv", "json", or "markdown".
type BuildError struct {
	Dataset string
	Stage   string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %q (%s): %v", e.Dataset, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func buildError(dataset, stage string, err error) *BuildError {
	return &BuildError{Dataset: dataset, Stage: stage, Err: err}
}
