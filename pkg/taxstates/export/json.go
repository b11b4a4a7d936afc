package export

import (
	"encoding/json"
	"io"

	"github.com/xp1/taxstates-go/pkg/taxstates/models"
)

// WriteJSON writes the records as a pretty-printed JSON array of objects,
// indented with four spaces. Key order follows each record's title order.
func WriteJSON(w io.Writer, records []*models.Record) error {
	if records == nil {
		records = []*models.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
