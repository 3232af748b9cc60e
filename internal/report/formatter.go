package report

import (
	"fmt"
	"io"

	"github.com/spiffcs/ghinventory/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of table, json, csv", s)
	}
}

// Formatter renders records. Streaming output calls Header once per
// destination, Rows per batch and Footer at shutdown; Format renders a whole
// result set in one call.
type Formatter interface {
	Header(w io.Writer) error
	Rows(records []model.RepositoryData, w io.Writer) error
	Footer(w io.Writer) error
	Format(records []model.RepositoryData, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format. color enables
// terminal styling where the format has any.
func NewFormatter(format Format, color bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TableFormatter{Color: color}
	}
}
