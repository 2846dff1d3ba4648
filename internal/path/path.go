// Package path resolves and prepares the filesystem locations drushgen
// installs into.
package path

import (
	"os"
	"path/filepath"
	"strings"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
)

// File names used inside the scratch directory.
const (
	DrushArchiveName   = "drush.tar.gz"
	CommandArchiveName = "drush_command.tar.gz"
	LockFileName       = "drushgen.lock"
)

// DirMode is the permission used for every directory drushgen creates.
const DirMode os.FileMode = 0755

// Resolve returns p as an absolute, cleaned path. Relative paths are
// joined onto base first; absolute paths are only cleaned.
func Resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

// Abs expands ~ and returns an absolute, cleaned form of p.
func Abs(p string) (string, error) {
	expanded, err := Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// Exists reports whether anything exists at p.
func Exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// EnsureDir creates p and its parents if missing. It returns a
// *errors.FilesystemError when p exists but is not a directory.
func EnsureDir(p string) error {
	info, err := os.Stat(p)
	switch {
	case err == nil:
		if !info.IsDir() {
			return dgErrors.NewNotDirectoryError(p)
		}
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(p, DirMode); err != nil {
			return dgErrors.NewWriteError(p, "failed to create directory", err)
		}
		return nil
	default:
		return dgErrors.NewWriteError(p, "failed to stat directory", err)
	}
}

// SplitFields splits a whitespace-delimited list. Runs of whitespace count
// as one separator and leading or trailing whitespace is ignored.
func SplitFields(s string) []string {
	return strings.Fields(s)
}

// Dedup removes repeated entries, keeping the first occurrence of each.
func Dedup(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

// JoinSearchPath joins directories with the separator drush expects for
// its --include option.
func JoinSearchPath(dirs []string) string {
	return strings.Join(dirs, ":")
}

// Expand expands ~ to the home directory.
func Expand(p string) (string, error) {
	if p == "" {
		return "", nil
	}

	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[2:]), nil
	}

	if p == "~" {
		return os.UserHomeDir()
	}

	return p, nil
}
