package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dgErrors "github.com/terassyi/drushgen/internal/errors"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		p    string
		want string
	}{
		{name: "relative", base: "/srv/site", p: "lib/drush", want: "/srv/site/lib/drush"},
		{name: "relative with dot segments", base: "/srv/site", p: "./lib/../bin/drush", want: "/srv/site/bin/drush"},
		{name: "absolute kept", base: "/srv/site", p: "/opt/drush", want: "/opt/drush"},
		{name: "absolute cleaned", base: "/srv/site", p: "/opt//drush/./x/..", want: "/opt/drush"},
		{name: "trailing slash", base: "/srv/site", p: "www/", want: "/srv/site/www"},
		{name: "escape base", base: "/srv/site", p: "../shared", want: "/srv/shared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.base, tt.p))
		})
	}
}

func TestResolve_Property(t *testing.T) {
	segment := rapid.StringMatching(`[a-z]{1,6}|\.|\.\.`)

	rapid.Check(t, func(t *rapid.T) {
		base := "/" + filepath.Join(rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 4).Draw(t, "base")...)
		parts := rapid.SliceOfN(segment, 1, 6).Draw(t, "parts")
		rel := filepath.Join(parts...)

		got := Resolve(base, rel)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, filepath.Clean(filepath.Join(base, rel)), got)

		// Resolving an already resolved path is a no-op.
		assert.Equal(t, got, Resolve("/elsewhere", got))
	})
}

func TestEnsureDir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b", "c")

		require.NoError(t, EnsureDir(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("existing directory is fine", func(t *testing.T) {
		dir := t.TempDir()

		require.NoError(t, EnsureDir(dir))
		require.NoError(t, EnsureDir(dir))
	})

	t.Run("existing file is a conflict", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "drush")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		err := EnsureDir(file)

		var fsErr *dgErrors.FilesystemError
		require.ErrorAs(t, err, &fsErr)
		assert.Equal(t, dgErrors.CodeNotDirectory, fsErr.Base.Code)
		assert.Equal(t, file, fsErr.Path)
	})
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitFields("a b  c"))
	assert.Equal(t, []string{"a", "b"}, SplitFields("  a\t\nb  "))
	assert.Empty(t, SplitFields("   "))
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Dedup([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Dedup(nil))
}

func TestDedup_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c", "d", "e"})).Draw(t, "items")

		got := Dedup(items)

		seen := map[string]bool{}
		for _, g := range got {
			assert.False(t, seen[g], "duplicate %q", g)
			seen[g] = true
		}
		for _, it := range items {
			assert.True(t, seen[it])
		}

		// First-occurrence order: each kept element's first index in items
		// must be increasing.
		last := -1
		for _, g := range got {
			idx := -1
			for i, it := range items {
				if it == g {
					idx = i
					break
				}
			}
			assert.Greater(t, idx, last)
			last = idx
		}
	})
}

func TestJoinSearchPath(t *testing.T) {
	assert.Equal(t, "/a:/b", JoinSearchPath([]string{"/a", "/b"}))
	assert.Equal(t, "", JoinSearchPath(nil))
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: home},
		{input: "~/site", want: filepath.Join(home, "site")},
		{input: "/srv/site", want: "/srv/site"},
		{input: "site", want: "site"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Expand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
