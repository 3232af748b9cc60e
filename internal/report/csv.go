package report

import (
	"encoding/csv"
	"io"

	"github.com/spiffcs/ghinventory/internal/model"
)

// CSVFormatter formats output as RFC 4180 CSV
type CSVFormatter struct{}

func (f *CSVFormatter) Header(w io.Writer) error {
	return writeCSV(w, [][]string{model.Columns})
}

func (f *CSVFormatter) Rows(records []model.RepositoryData, w io.Writer) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Fields())
	}
	return writeCSV(w, rows)
}

func (f *CSVFormatter) Footer(io.Writer) error { return nil }

// Format writes the header followed by every record.
func (f *CSVFormatter) Format(records []model.RepositoryData, w io.Writer) error {
	if err := f.Header(w); err != nil {
		return err
	}
	return f.Rows(records, w)
}

// writeCSV quotes fields holding a comma, quote or line break, doubling
// embedded quotes. encoding/csv also quotes fields with a leading space or
// tab and the lone field `\.`, which readers unquote to the same value.
func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
