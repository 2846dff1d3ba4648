// Package wrapper renders the project-local drush launcher script.
package wrapper

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
	"github.com/terassyi/drushgen/internal/path"
)

// Mode is the permission of the generated wrapper (rwxr-xr-x).
const Mode os.FileMode = 0755

//go:embed templates/drush_wrapper.sh.tmpl
var wrapperTmpl string

// Vars holds the placeholder values substituted into the wrapper template.
type Vars struct {
	DrushCmd       string
	WWWDir         string
	CommandDirs    string
	PHP            string
	DrupalURI      string
	Generator      string
	GenerationTime time.Time
}

var tmpl = template.Must(template.New("drush_wrapper").Funcs(template.FuncMap{
	"quote": shellQuote,
}).Parse(wrapperTmpl))

// Render returns the wrapper script for vars.
func Render(vars Vars) ([]byte, error) {
	data := struct {
		Vars
		GenerationTime string
	}{
		Vars:           vars,
		GenerationTime: vars.GenerationTime.Format(time.RFC3339),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute wrapper template: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores content at dest, creating the parent directory, and sets
// Mode on the result even when dest already existed with other bits.
func Write(dest string, content []byte) error {
	if err := path.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	if err := os.WriteFile(dest, content, Mode); err != nil {
		return dgErrors.NewWriteError(dest, "failed to write wrapper script", err)
	}
	if err := os.Chmod(dest, Mode); err != nil {
		return dgErrors.NewWriteError(dest, "failed to make wrapper script executable", err)
	}
	return nil
}

// Generate renders vars and writes the script to dest.
func Generate(dest string, vars Vars) error {
	content, err := Render(vars)
	if err != nil {
		return err
	}
	return Write(dest, content)
}

// shellQuote wraps s in single quotes for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
