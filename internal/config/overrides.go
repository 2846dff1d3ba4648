package config

import (
	"github.com/terassyi/drushgen/internal/path"
)

// Configuration keys, as written in the [drush] section.
const (
	KeyBaseDir            = "base-dir"
	KeyDrushURL           = "drush-url"
	KeyDrushDir           = "drush-dir"
	KeyDrushLocalCommands = "drush-local-commands"
	KeyDrushCommandDirs   = "drush-command-dirs"
	KeyDrushCommands      = "drush-commands"
	KeyDrushWrapper       = "drush-wrapper"
	KeyTmpDir             = "tmp-dir"
	KeyWWWDir             = "www-dir"
	KeyPHP                = "php"
	KeyDrupalURI          = "drupal-uri"
	KeyFetchMethod        = "fetch-method"
	KeyDrushChecksum      = "drush-checksum"
	KeyLogLevel           = "log-level"
)

// Overrides is one layer of configuration values in raw string form.
// An empty string means the layer does not set that field. List fields
// hold whitespace-delimited values.
type Overrides struct {
	BaseDir            string
	DrushURL           string
	DrushDir           string
	DrushLocalCommands string
	DrushCommandDirs   string
	DrushCommands      string
	DrushWrapper       string
	TmpDir             string
	WWWDir             string
	PHP                string
	DrupalURI          string
	FetchMethod        string
	DrushChecksum      string
	LogLevel           string
}

// Key maps a configuration key to its field in an Overrides layer.
type Key struct {
	Name  string
	Field func(*Overrides) *string
}

// Keys lists every recognized configuration key.
var Keys = []Key{
	{KeyBaseDir, func(o *Overrides) *string { return &o.BaseDir }},
	{KeyDrushURL, func(o *Overrides) *string { return &o.DrushURL }},
	{KeyDrushDir, func(o *Overrides) *string { return &o.DrushDir }},
	{KeyDrushLocalCommands, func(o *Overrides) *string { return &o.DrushLocalCommands }},
	{KeyDrushCommandDirs, func(o *Overrides) *string { return &o.DrushCommandDirs }},
	{KeyDrushCommands, func(o *Overrides) *string { return &o.DrushCommands }},
	{KeyDrushWrapper, func(o *Overrides) *string { return &o.DrushWrapper }},
	{KeyTmpDir, func(o *Overrides) *string { return &o.TmpDir }},
	{KeyWWWDir, func(o *Overrides) *string { return &o.WWWDir }},
	{KeyPHP, func(o *Overrides) *string { return &o.PHP }},
	{KeyDrupalURI, func(o *Overrides) *string { return &o.DrupalURI }},
	{KeyFetchMethod, func(o *Overrides) *string { return &o.FetchMethod }},
	{KeyDrushChecksum, func(o *Overrides) *string { return &o.DrushChecksum }},
	{KeyLogLevel, func(o *Overrides) *string { return &o.LogLevel }},
}

// Merge applies layers on top of a copy of base, in order, so later layers
// take precedence. base is not modified.
func Merge(base *Config, layers ...Overrides) *Config {
	out := base.Clone()
	for _, l := range layers {
		setString(&out.BaseDir, l.BaseDir)
		setString(&out.DrushURL, l.DrushURL)
		setString(&out.DrushDir, l.DrushDir)
		setString(&out.DrushLocalCommands, l.DrushLocalCommands)
		setList(&out.DrushCommandDirs, l.DrushCommandDirs)
		setList(&out.DrushCommands, l.DrushCommands)
		setString(&out.DrushWrapper, l.DrushWrapper)
		setString(&out.TmpDir, l.TmpDir)
		setString(&out.WWWDir, l.WWWDir)
		setString(&out.PHP, l.PHP)
		setString(&out.DrupalURI, l.DrupalURI)
		if l.FetchMethod != "" {
			out.FetchMethod = FetchMethod(l.FetchMethod)
		}
		setString(&out.DrushChecksum, l.DrushChecksum)
		setString(&out.LogLevel, l.LogLevel)
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setList(dst *[]string, v string) {
	if fields := path.SplitFields(v); len(fields) > 0 {
		*dst = fields
	}
}
