//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"errors"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors as a colored, multi-line report:
//
//	Error [E202]: config file has no [drush] section
//
//	  File:    site.cfg
//	  Section: drush
//
//	Example:
//	  [drush]
type Formatter struct {
	NoColor bool
	Writer  io.Writer

	palette map[tone]*color.Color
	title   *color.Color
	code    *color.Color
	label   *color.Color
	hint    *color.Color
	example *color.Color
}

// NewFormatter returns a Formatter writing to w. noColor disables color
// output process-wide.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}
	return &Formatter{
		NoColor: noColor,
		Writer:  w,
		palette: map[tone]*color.Color{
			toneResource: color.New(color.FgCyan),
			toneExpected: color.New(color.FgYellow),
			toneActual:   color.New(color.FgRed),
		},
		title:   color.New(color.FgRed, color.Bold),
		code:    color.New(color.FgRed),
		label:   color.New(color.FgHiBlack),
		hint:    color.New(color.FgGreen),
		example: color.New(color.FgBlue),
	}
}

// Print writes the report for err. A nil err prints nothing.
func (f *Formatter) Print(err error) {
	if err == nil || f.Writer == nil {
		return
	}
	_, _ = io.WriteString(f.Writer, f.Format(err))
}

// Format renders err. When the chain holds several drushgen errors the
// innermost one is reported, since an InstallError usually wraps the
// failure that explains it.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	r := innermost(err)
	if r == nil {
		sb.WriteString(f.title.Sprint("Error: "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
		return sb.String()
	}

	b := r.base()
	sb.WriteString(f.title.Sprint("Error"))
	if b.Code != "" {
		sb.WriteString(" " + f.code.Sprintf("[%s]", b.Code))
	}
	sb.WriteString(f.title.Sprint(": "))
	sb.WriteString(b.Message + "\n\n")

	f.writeDetails(&sb, r.details())
	if cmdErr, ok := r.(*CommandError); ok {
		f.writeOutput(&sb, cmdErr.Output)
	}
	if b.Cause != nil {
		sb.WriteString("\n  " + f.label.Sprint("Cause: ") + b.Cause.Error() + "\n")
	}
	if b.Hint != "" {
		sb.WriteString("\n" + f.hint.Sprint("Hint: "))
		sb.WriteString(strings.ReplaceAll(b.Hint, "\n", "\n      ") + "\n")
	}
	if b.Example != "" {
		sb.WriteString("\n" + f.example.Sprint("Example:") + "\n")
		for _, line := range strings.Split(b.Example, "\n") {
			sb.WriteString("  " + f.label.Sprint(line) + "\n")
		}
	}
	return sb.String()
}

func innermost(err error) reportable {
	var found reportable
	for e := err; e != nil; e = errors.Unwrap(e) {
		if r, ok := e.(reportable); ok {
			found = r
		}
	}
	return found
}

// writeDetails aligns the values of the non-empty details in one column.
func (f *Formatter) writeDetails(sb *strings.Builder, details []detail) {
	width := 0
	for _, d := range details {
		if d.value != "" && len(d.label) > width {
			width = len(d.label)
		}
	}
	for _, d := range details {
		if d.value == "" {
			continue
		}
		label := d.label + ":" + strings.Repeat(" ", width-len(d.label)+1)
		value := d.value
		if c, ok := f.palette[d.tone]; ok {
			value = c.Sprint(value)
		}
		sb.WriteString("  " + f.label.Sprint(label) + value + "\n")
	}
}

func (f *Formatter) writeOutput(sb *strings.Builder, output string) {
	output = strings.TrimSpace(output)
	if output == "" {
		return
	}
	sb.WriteString("\n")
	for _, line := range strings.Split(output, "\n") {
		sb.WriteString("    " + f.label.Sprint(line) + "\n")
	}
}
