package taxstates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

// datasetFile is the YAML shape of a dataset configuration file:
//
//	datasets:
//	  - name: Tax deed states
//	    uri: https://example.com/tax-deed-states/
//	    table: TaxDeedStates
//	    schema:
//	      - {key: "State", title: "State"}
type datasetFile struct {
	Datasets []struct {
		Name   string        `yaml:"name"`
		URI    string        `yaml:"uri"`
		Table  string        `yaml:"table"`
		Schema []models.Pair `yaml:"schema"`
	} `yaml:"datasets"`
}

// LoadDatasets reads dataset definitions from a YAML file. Entries without
// a schema use the default schema.
func LoadDatasets(path string) ([]Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Datasets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDatasets)
	}

	datasets := make([]Dataset, 0, len(file.Datasets))
	for i, entry := range file.Datasets {
		if entry.Name == "" || entry.URI == "" {
			return nil, fmt.Errorf("%s: dataset %d needs both name and uri", path, i+1)
		}
		schema := DefaultSchema()
		if len(entry.Schema) > 0 {
			schema = models.NewSchema(entry.Schema)
		}
		datasets = append(datasets, Dataset{
			Name:   entry.Name,
			URI:    entry.URI,
			Table:  entry.Table,
			Schema: schema,
		})
	}
	return datasets, nil
}
