package report

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/ghinventory/internal/model"
)

// JSONFormatter formats output as JSON: one object per line while
// streaming, a single array from Format.
type JSONFormatter struct{}

func (f *JSONFormatter) Header(io.Writer) error { return nil }

// Rows writes one JSON object per line.
func (f *JSONFormatter) Rows(records []model.RepositoryData, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *JSONFormatter) Footer(io.Writer) error { return nil }

// Format outputs the records as one JSON array
func (f *JSONFormatter) Format(records []model.RepositoryData, w io.Writer) error {
	if records == nil {
		records = []model.RepositoryData{}
	}
	return json.NewEncoder(w).Encode(records)
}
