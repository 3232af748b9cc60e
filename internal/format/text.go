// Package format provides shared text formatting for inventory output:
// column fitting, collaborator display names and timestamps.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Fit truncates s to maxWidth display columns, marking truncation with "...",
// and pads the result with spaces to exactly maxWidth columns.
// Newlines and tabs are flattened to spaces so a cell stays on one line.
func Fit(s string, maxWidth int) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(StripAnsi(s))
	width := runewidth.StringWidth(s)
	if width > maxWidth {
		if maxWidth <= 3 {
			s = runewidth.Truncate(s, maxWidth, "")
		} else {
			s = runewidth.Truncate(s, maxWidth, "...")
		}
		width = runewidth.StringWidth(s)
	}
	return PadRight(s, width, maxWidth)
}

// PadRight pads a string with spaces to reach the target visible width.
func PadRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}
