// Package config holds the drushgen configuration record, its built-in
// defaults, the precedence merge of override layers, and normalization.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/terassyi/drushgen/internal/checksum"
	dgErrors "github.com/terassyi/drushgen/internal/errors"
	"github.com/terassyi/drushgen/internal/path"
)

// Built-in defaults. Relative paths resolve against the base directory.
const (
	DefaultDrushURL           = "http://ftp.drupal.org/files/projects/drush-7.x-4.5.tar.gz"
	DefaultDrushCommandURL    = "http://ftp.drupal.org/files/projects/drush_make-6.x-2.3.tar.gz"
	DefaultLibDir             = "lib"
	DefaultDrushDir           = DefaultLibDir + "/drush"
	DefaultDrushLocalCommands = DefaultLibDir + "/drush_commands"
	DefaultDrushWrapper       = "bin/drush"
	DefaultTmpDir             = "var/tmp"
	DefaultWWWDir             = "www"
	DefaultLogLevel           = "info"
)

// FetchMethod selects how archives are downloaded and unpacked.
type FetchMethod string

const (
	// FetchExternal shells out to wget and tar.
	FetchExternal FetchMethod = "external"
	// FetchBuiltin downloads over HTTP and extracts in-process.
	FetchBuiltin FetchMethod = "builtin"
)

// Config is the configuration record for one run.
type Config struct {
	BaseDir            string
	DrushURL           string
	DrushDir           string
	DrushLocalCommands string
	DrushCommandDirs   []string
	DrushCommands      []string
	DrushWrapper       string
	TmpDir             string
	WWWDir             string
	// PHP is an explicit PHP binary. Empty lets drush find one itself.
	PHP       string
	DrupalURI string

	FetchMethod   FetchMethod
	DrushChecksum string
	LogLevel      string
}

// Default returns the built-in configuration. The base directory is the
// current working directory, or empty if it cannot be determined.
func Default() *Config {
	cwd, _ := os.Getwd()
	return &Config{
		BaseDir:            cwd,
		DrushURL:           DefaultDrushURL,
		DrushDir:           DefaultDrushDir,
		DrushLocalCommands: DefaultDrushLocalCommands,
		DrushCommandDirs:   []string{DefaultDrushLocalCommands},
		DrushCommands:      []string{DefaultDrushCommandURL},
		DrushWrapper:       DefaultDrushWrapper,
		TmpDir:             DefaultTmpDir,
		WWWDir:             DefaultWWWDir,
		FetchMethod:        FetchExternal,
		LogLevel:           DefaultLogLevel,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.DrushCommandDirs = append([]string(nil), c.DrushCommandDirs...)
	out.DrushCommands = append([]string(nil), c.DrushCommands...)
	return &out
}

// DrushExecutable returns the path of the drush script inside DrushDir.
func (c *Config) DrushExecutable() string {
	return filepath.Join(c.DrushDir, "drush")
}

// DrushArchive returns the scratch path the main tool archive is fetched to.
func (c *Config) DrushArchive() string {
	return filepath.Join(c.TmpDir, path.DrushArchiveName)
}

// CommandArchive returns the scratch path command packages are fetched to.
func (c *Config) CommandArchive() string {
	return filepath.Join(c.TmpDir, path.CommandArchiveName)
}

// LockFile returns the run lock path.
func (c *Config) LockFile() string {
	return filepath.Join(c.TmpDir, path.LockFileName)
}

// Normalize validates c and rewrites it in place: the base directory becomes
// absolute, every path field is resolved against it and cleaned, list fields
// are split on whitespace, and DrushCommandDirs is deduplicated keeping the
// first occurrence. Normalizing twice yields the same result.
func (c *Config) Normalize() error {
	if c.BaseDir == "" {
		return dgErrors.NewMissingConfigError("undefined base dir").
			WithHint("Use the --base-dir option or set base-dir in the [drush] section.")
	}

	base, err := path.Abs(c.BaseDir)
	if err != nil {
		return dgErrors.NewInvalidConfigError(KeyBaseDir, "failed to resolve base dir", err)
	}
	c.BaseDir = base

	for _, p := range []*string{&c.DrushDir, &c.DrushWrapper, &c.DrushLocalCommands, &c.TmpDir, &c.WWWDir} {
		*p = path.Resolve(base, *p)
	}

	dirs := splitAll(c.DrushCommandDirs)
	for i, d := range dirs {
		dirs[i] = path.Resolve(base, d)
	}
	c.DrushCommandDirs = path.Dedup(dirs)

	c.DrushCommands = splitAll(c.DrushCommands)

	switch c.FetchMethod {
	case "":
		c.FetchMethod = FetchExternal
	case FetchExternal, FetchBuiltin:
	default:
		return dgErrors.NewInvalidConfigError(KeyFetchMethod, "unsupported fetch method: "+string(c.FetchMethod), nil).
			WithHint("Supported values: external, builtin.")
	}

	if c.DrushChecksum != "" {
		if _, _, err := checksum.Parse(c.DrushChecksum); err != nil {
			return dgErrors.NewInvalidConfigError(KeyDrushChecksum, "invalid drush checksum", err).
				WithExample("[drush]\ndrush-checksum = sha256:<hex digest>")
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return dgErrors.NewInvalidConfigError(KeyLogLevel, "unsupported log level: "+c.LogLevel, nil).
			WithHint("Supported values: debug, info, warn, error.")
	}

	return nil
}

// splitAll flattens entries that still hold whitespace-delimited lists.
func splitAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, path.SplitFields(item)...)
	}
	return out
}
