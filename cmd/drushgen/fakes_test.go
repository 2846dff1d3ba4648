package main

import (
	"context"
	"os"
	"path/filepath"
)

// fakeFetcher writes a placeholder archive instead of downloading.
type fakeFetcher struct {
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dest string) error {
	f.calls = append(f.calls, url)
	return os.WriteFile(dest, []byte("archive"), 0644)
}

// fakeExtractor leaves a marker named after the archive in the destination.
type fakeExtractor struct {
	dests []string
}

func (e *fakeExtractor) ExtractFile(_ context.Context, archive, dest string) error {
	e.dests = append(e.dests, dest)
	return os.WriteFile(filepath.Join(dest, filepath.Base(archive)+".extracted"), nil, 0644)
}

func writeConfigFile(dir, content string) string {
	p := filepath.Join(dir, "drushgen.ini")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		panic(err)
	}
	return p
}
