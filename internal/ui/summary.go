package ui

import (
	"fmt"
	"io"
)

// PrintCreatedPaths lists the paths a run created or refreshed.
func PrintCreatedPaths(w io.Writer, paths []string) {
	if len(paths) == 0 {
		return
	}
	style := NewStyle()

	fmt.Fprintln(w)
	style.Header.Fprintln(w, "Created:")
	for _, p := range paths {
		fmt.Fprintf(w, "  %s %s\n", style.SuccessMark, style.Path.Sprint(p))
	}
}
