package ui

import "github.com/fatih/color"

// Style holds common output styling for CLI commands.
type Style struct {
	SuccessMark string
	FailMark    string
	Header      *color.Color
	Path        *color.Color
}

// NewStyle creates a new Style with standard colors.
func NewStyle() *Style {
	return &Style{
		SuccessMark: color.New(color.FgGreen).Sprint("✓"),
		FailMark:    color.New(color.FgRed).Sprint("✗"),
		Header:      color.New(color.FgCyan, color.Bold),
		Path:        color.New(color.FgCyan),
	}
}
