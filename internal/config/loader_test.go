package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dgErrors "github.com/terassyi/drushgen/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "drush.cfg")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, `# project settings
[drush]
base-dir = /srv/site
drush-url = http://example.com/drush-7.x-4.5.tar.gz
drush-command-dirs = lib/drush_commands  /usr/share/drush/commands
drush-commands = http://example.com/a.tar.gz http://example.com/b.tar.gz
www-dir = htdocs
php = /usr/bin/php5
drupal-uri = http://site.local
fetch-method = builtin
unknown-key = ignored

[other]
www-dir = elsewhere
`)

	o, err := LoadFile(p)
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", o.BaseDir)
	assert.Equal(t, "http://example.com/drush-7.x-4.5.tar.gz", o.DrushURL)
	assert.Equal(t, []string{"lib/drush_commands", "/usr/share/drush/commands"}, strings.Fields(o.DrushCommandDirs))
	assert.Equal(t, []string{"http://example.com/a.tar.gz", "http://example.com/b.tar.gz"}, strings.Fields(o.DrushCommands))
	assert.Equal(t, "htdocs", o.WWWDir)
	assert.Equal(t, "/usr/bin/php5", o.PHP)
	assert.Equal(t, "http://site.local", o.DrupalURI)
	assert.Equal(t, "builtin", o.FetchMethod)
	assert.Empty(t, o.DrushDir)
	assert.Empty(t, o.TmpDir)
}

func TestLoadFile_LastValueWins(t *testing.T) {
	p := writeConfig(t, "[drush]\nwww-dir = first\nwww-dir = second\n")

	o, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", o.WWWDir)
}

func TestLoadFile_MissingSection(t *testing.T) {
	p := writeConfig(t, "[buildout]\nbase-dir = /x\n")

	_, err := LoadFile(p)

	var cfgErr *dgErrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, dgErrors.CodeConfigMissing, cfgErr.Base.Code)
	assert.Equal(t, SectionName, cfgErr.Section)
	assert.Equal(t, p, cfgErr.File)
}

func TestLoadFile_MissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope.cfg")

	_, err := LoadFile(p)

	var cfgErr *dgErrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, dgErrors.CodeConfigMissing, cfgErr.Base.Code)
	assert.Contains(t, err.Error(), "unable to open configuration file")
}

func TestLoadFile_ThenMerge(t *testing.T) {
	p := writeConfig(t, "[drush]\nbase-dir = /x\ndrush-command-dirs = a b  c\n")

	o, err := LoadFile(p)
	require.NoError(t, err)

	cfg := Merge(Default(), o, Overrides{BaseDir: "/y"})
	require.NoError(t, cfg.Normalize())

	assert.Equal(t, "/y", cfg.BaseDir)
	assert.Equal(t, []string{"/y/a", "/y/b", "/y/c"}, cfg.DrushCommandDirs)
}

func TestLoadFile_Dialect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		get     func(Overrides) string
		want    string
	}{
		{
			name:    "hash inside value",
			content: "[drush]\ndrupal-uri = http://site.local/#frag\n",
			get:     func(o Overrides) string { return o.DrupalURI },
			want:    "http://site.local/#frag",
		},
		{
			name:    "semicolon inside value",
			content: "[drush]\nphp = /opt/php;5\n",
			get:     func(o Overrides) string { return o.PHP },
			want:    "/opt/php;5",
		},
		{
			name:    "backslashes kept",
			content: "[drush]\nwww-dir = C:\\www\n",
			get:     func(o Overrides) string { return o.WWWDir },
			want:    `C:\www`,
		},
		{
			name:    "colon separator",
			content: "[drush]\nbase-dir: /x\n",
			get:     func(o Overrides) string { return o.BaseDir },
			want:    "/x",
		},
		{
			name:    "option names are case-insensitive",
			content: "[drush]\nWWW-Dir = htdocs\n",
			get:     func(o Overrides) string { return o.WWWDir },
			want:    "htdocs",
		},
		{
			name:    "DEFAULT fallback",
			content: "[DEFAULT]\nphp = /usr/bin/php7\n\n[drush]\nwww-dir = htdocs\n",
			get:     func(o Overrides) string { return o.PHP },
			want:    "/usr/bin/php7",
		},
		{
			name:    "comment lines skipped",
			content: "[drush]\n# www-dir = commented\n; www-dir = also commented\nwww-dir = htdocs\n",
			get:     func(o Overrides) string { return o.WWWDir },
			want:    "htdocs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := LoadFile(writeConfig(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.get(o))
		})
	}
}

func TestLoadFile_ContinuationLines(t *testing.T) {
	p := writeConfig(t, `[drush]
drush-commands =
    http://example.com/a.tar.gz
    http://example.com/b.tar.gz
drush-command-dirs = lib/drush_commands
    /usr/share/drush/commands
www-dir = htdocs
`)

	o, err := LoadFile(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://example.com/a.tar.gz", "http://example.com/b.tar.gz"}, strings.Fields(o.DrushCommands))
	assert.Equal(t, []string{"lib/drush_commands", "/usr/share/drush/commands"}, strings.Fields(o.DrushCommandDirs))
	assert.Equal(t, "htdocs", o.WWWDir)
}

func TestLoadFile_SectionNameIsCaseSensitive(t *testing.T) {
	p := writeConfig(t, "[Drush]\nbase-dir = /x\n")

	_, err := LoadFile(p)

	var cfgErr *dgErrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, dgErrors.CodeConfigMissing, cfgErr.Base.Code)
	assert.Equal(t, SectionName, cfgErr.Section)
}
