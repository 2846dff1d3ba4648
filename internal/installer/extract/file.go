package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/terassyi/drushgen/internal/installer/command"
)

// ArchiveExtractor unpacks an archive file into destDir, overwriting
// existing entries in place.
type ArchiveExtractor interface {
	ExtractFile(ctx context.Context, archivePath, destDir string) error
}

var (
	_ ArchiveExtractor = (*tarCommand)(nil)
	_ ArchiveExtractor = (*builtin)(nil)
)

type tarCommand struct {
	runner command.Runner
}

// NewTarCommand returns an ArchiveExtractor that runs `tar -xzf ARCHIVE -C DIR`.
func NewTarCommand(runner command.Runner) ArchiveExtractor {
	return &tarCommand{runner: runner}
}

func (t *tarCommand) ExtractFile(ctx context.Context, archivePath, destDir string) error {
	return t.runner.Run(ctx, "tar", "-xzf", archivePath, "-C", destDir)
}

type builtin struct {
	archiveType ArchiveType
}

// NewBuiltin returns an in-process ArchiveExtractor. An empty archiveType
// sniffs the format from the file header.
func NewBuiltin(archiveType ArchiveType) ArchiveExtractor {
	return &builtin{archiveType: archiveType}
}

func (b *builtin) ExtractFile(ctx context.Context, archivePath, destDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	archiveType := b.archiveType
	if archiveType == "" {
		if archiveType, err = sniffArchiveType(f); err != nil {
			return err
		}
	}

	ex, err := NewExtractor(archiveType)
	if err != nil {
		return err
	}

	if err := ex.Extract(f, destDir); err != nil {
		return fmt.Errorf("failed to extract %s: %w", archivePath, err)
	}
	return nil
}

var (
	xzMagic  = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
)

// sniffArchiveType reads the file header to pick an extractor, then rewinds.
// Headers that are neither xz nor zip are treated as tar.gz, the format
// drush packages ship in.
func sniffArchiveType(f io.ReadSeeker) (ArchiveType, error) {
	header := make([]byte, len(xzMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read archive header: %w", err)
	}
	header = header[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind archive: %w", err)
	}

	switch {
	case bytes.HasPrefix(header, xzMagic):
		return ArchiveTypeTarXz, nil
	case bytes.HasPrefix(header, zipMagic):
		return ArchiveTypeZip, nil
	default:
		return ArchiveTypeTarGz, nil
	}
}
