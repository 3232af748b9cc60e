package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spiffcs/ghinventory/internal/format"
	"github.com/spiffcs/ghinventory/internal/model"
	"golang.org/x/term"
)

// column is a table column title and its fixed display width.
type column struct {
	title string
	width int
}

var tableColumns = []column{
	{"Organization", 20},
	{"Repository", 30},
	{"Visibility", 10},
	{"Collaborators", 40},
	{"Languages", 20},
	{"Last Accessed", 23},
	{"Active PRs", 10},
	{"PRs >2w", 7},
	{"PRs >1m", 7},
}

// TableFormatter formats output as a fixed-width terminal table
type TableFormatter struct {
	// Color renders the header in bold.
	Color bool
}

// IsTerminal reports whether w is a terminal, which is when table headers
// are styled.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func border() string {
	var b strings.Builder
	b.WriteString("+")
	for _, c := range tableColumns {
		b.WriteString(strings.Repeat("-", c.width+2))
		b.WriteString("+")
	}
	return b.String()
}

// row frames cells as "| a | b |", fitting each to its column.
func row(cells []string, style func(string) string) string {
	var b strings.Builder
	b.WriteString("|")
	for i, c := range tableColumns {
		cell := format.Fit(cells[i], c.width)
		if style != nil {
			cell = style(cell)
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(" |")
	}
	return b.String()
}

func (f *TableFormatter) Header(w io.Writer) error {
	titles := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		titles[i] = c.title
	}

	var style func(string) string
	if f.Color {
		bold := color.New(color.Bold)
		// color disables itself when stdout isn't a terminal
		bold.EnableColor()
		style = func(s string) string { return bold.Sprint(s) }
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", border(), row(titles, style), border())
	return err
}

func (f *TableFormatter) Rows(records []model.RepositoryData, w io.Writer) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, row(r.Fields(), nil)); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) Footer(w io.Writer) error {
	_, err := fmt.Fprintln(w, border())
	return err
}

// Format outputs the records as a complete table
func (f *TableFormatter) Format(records []model.RepositoryData, w io.Writer) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No repositories found.")
		return err
	}
	if err := f.Header(w); err != nil {
		return err
	}
	if err := f.Rows(records, w); err != nil {
		return err
	}
	return f.Footer(w)
}
