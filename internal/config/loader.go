package config

import (
	"os"
	"slices"

	"gopkg.in/ini.v1"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
)

// SectionName is the section of the configuration file drushgen reads.
const SectionName = "drush"

// loadOptions selects the ConfigParser dialect: "=" or ":" separators,
// indented continuation lines, full-line "#" and ";" comments only, no
// backslash escapes, quotes kept verbatim. Section names are case-sensitive,
// option names are not.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreContinuation:         true,
	IgnoreInlineComment:        true,
	AllowPythonMultilineValues: true,
	PreserveSurroundedQuote:    true,
	KeyValueDelimiters:         "=:",
}

// LoadFile reads an INI-style configuration file and returns the values of
// its [drush] section as an override layer. Unknown keys are ignored and
// keys missing from the section fall back to [DEFAULT].
// A missing file or a file without the section is a *errors.ConfigError.
func LoadFile(filename string) (Overrides, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, dgErrors.NewMissingConfigError("unable to open configuration file " + filename).
				WithFile(filename)
		}
		return Overrides{}, dgErrors.NewConfigError("failed to open configuration file", err).WithFile(filename)
	}

	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return Overrides{}, dgErrors.NewConfigError("failed to parse configuration file", err).WithFile(filename)
	}

	section := findSection(file, SectionName)
	if section == nil {
		return Overrides{}, dgErrors.NewMissingConfigError("config file has no ["+SectionName+"] section").
			WithFile(filename).
			WithSection(SectionName).
			WithExample("[drush]\nbase-dir = /srv/example\nwww-dir = htdocs")
	}
	defaults := file.Section(ini.DefaultSection)

	var o Overrides
	for _, k := range Keys {
		if v, ok := lookup(section, defaults, k.Name); ok {
			*k.Field(&o) = v
		}
	}
	return o, nil
}

// findSection matches name exactly; [Drush] is not [drush].
func findSection(file *ini.File, name string) *ini.Section {
	if !slices.Contains(file.SectionStrings(), name) {
		return nil
	}
	return file.Section(name)
}

// lookup reads key from s, then from defaults. A repeated key keeps the
// last assignment.
func lookup(s, defaults *ini.Section, key string) (string, bool) {
	if s.HasKey(key) {
		return s.Key(key).String(), true
	}
	if defaults != nil && defaults.HasKey(key) {
		return defaults.Key(key).String(), true
	}
	return "", false
}
