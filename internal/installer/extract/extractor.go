// Package extract unpacks downloaded archives into installation directories.
package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ArchiveType names an archive format the builtin extractor understands.
type ArchiveType string

const (
	ArchiveTypeTarGz ArchiveType = "tar.gz"
	ArchiveTypeTarXz ArchiveType = "tar.xz"
	ArchiveTypeZip   ArchiveType = "zip"
)

// Extractor unpacks an archive stream into destDir. Tar formats accept any
// io.Reader; zip needs an io.ReaderAt with a known size.
type Extractor interface {
	Extract(r io.Reader, destDir string) error
}

// NewExtractor returns the Extractor for archiveType.
func NewExtractor(archiveType ArchiveType) (Extractor, error) {
	switch archiveType {
	case ArchiveTypeTarGz:
		return tarExtractor{format: archiveType, decompress: gunzip}, nil
	case ArchiveTypeTarXz:
		return tarExtractor{format: archiveType, decompress: unxz}, nil
	case ArchiveTypeZip:
		return zipExtractor{}, nil
	}
	return nil, fmt.Errorf("unsupported archive type: %s", archiveType)
}

func gunzip(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return gr, nil
}

func unxz(r io.Reader) (io.ReadCloser, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}
	return io.NopCloser(xr), nil
}

type tarExtractor struct {
	format     ArchiveType
	decompress func(io.Reader) (io.ReadCloser, error)
}

// Extract unpacks directories, regular files and relative symlinks. Other
// entry types are skipped. Existing entries are overwritten in place.
func (e tarExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("unpacking archive", "format", e.format, "dest", destDir)

	stream, err := e.decompress(r)
	if err != nil {
		return err
	}
	defer stream.Close()

	u := unpacker{dest: destDir}
	tr := tar.NewReader(stream)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		target, err := u.target(hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			err = u.dir(target, os.FileMode(hdr.Mode))
		case tar.TypeReg:
			err = u.file(target, os.FileMode(hdr.Mode), tr)
		case tar.TypeSymlink:
			err = u.symlink(target, hdr.Name, hdr.Linkname)
		}
		if err != nil {
			return err
		}
	}
}

type zipExtractor struct{}

func (zipExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("unpacking archive", "format", ArchiveTypeZip, "dest", destDir)

	ra, ok := r.(io.ReaderAt)
	if !ok {
		return fmt.Errorf("zip extraction requires io.ReaderAt, got %T", r)
	}
	size, err := readerSize(r)
	if err != nil {
		return fmt.Errorf("failed to get reader size: %w", err)
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	u := unpacker{dest: destDir}
	for _, zf := range zr.File {
		if isOSMetadataPath(zf.Name) {
			continue
		}
		target, err := u.target(zf.Name)
		if err != nil {
			return err
		}
		if zf.FileInfo().IsDir() {
			if err := u.dir(target, zf.Mode()); err != nil {
				return err
			}
			continue
		}
		if err := u.zipFile(target, zf); err != nil {
			return err
		}
	}
	return nil
}

func readerSize(r io.Reader) (int64, error) {
	if f, ok := r.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	}
	if l, ok := r.(interface{ Len() int }); ok {
		return int64(l.Len()), nil
	}
	return 0, fmt.Errorf("cannot determine size for %T", r)
}

// unpacker writes archive entries below dest and refuses any entry whose
// path, or whose parent directory once symlinks are resolved, lands outside
// dest.
type unpacker struct {
	dest string
}

func (u unpacker) target(name string) (string, error) {
	target := filepath.Join(u.dest, name)
	if !isInsideDir(u.dest, target) {
		return "", fmt.Errorf("invalid file path: %s", name)
	}
	if err := u.checkParent(target); err != nil {
		return "", fmt.Errorf("invalid file path: %s: %w", name, err)
	}
	return target, nil
}

// checkParent resolves the directory that will hold target. A symlink
// unpacked by an earlier entry, or left on disk by a previous run, must not
// carry the write outside dest.
func (u unpacker) checkParent(target string) error {
	if filepath.Clean(target) == filepath.Clean(u.dest) {
		return nil
	}
	base, err := resolveExisting(u.dest)
	if err != nil {
		return err
	}
	parent, err := resolveExisting(filepath.Dir(target))
	if err != nil {
		return err
	}
	if !isInsideDir(base, parent) {
		return fmt.Errorf("parent directory resolves to %s, outside %s", parent, base)
	}
	return nil
}

func (u unpacker) dir(target string, mode os.FileMode) error {
	if err := os.MkdirAll(target, dirMode(mode)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

func (u unpacker) zipFile(target string, zf *zip.File) error {
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("failed to open file in archive: %w", err)
	}
	defer rc.Close()
	return u.file(target, zf.Mode(), rc)
}

func (u unpacker) file(target string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	// Never write through a symlink sitting where the file goes.
	if err := removeSymlink(target); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// symlink only accepts relative link targets that stay inside dest.
func (u unpacker) symlink(target, name, linkname string) error {
	if filepath.IsAbs(linkname) || !isInsideDir(u.dest, filepath.Join(filepath.Dir(target), linkname)) {
		return fmt.Errorf("invalid symlink target: %s -> %s", name, linkname)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if info, err := os.Lstat(target); err == nil && !info.IsDir() {
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("failed to replace existing entry: %w", err)
		}
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}

func removeSymlink(p string) error {
	info, err := os.Lstat(p)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("failed to replace symlink: %w", err)
	}
	return nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of p
// and appends the components that do not exist yet.
func resolveExisting(p string) (string, error) {
	cur := filepath.Clean(p)
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		if _, lerr := os.Lstat(cur); lerr == nil {
			return "", fmt.Errorf("dangling symlink: %s", cur)
		}
		up := filepath.Dir(cur)
		if up == cur {
			return p, nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = up
	}
}

// dirMode keeps directories traversable even if the archive recorded no
// permission bits for them.
func dirMode(m os.FileMode) os.FileMode {
	if m.Perm() == 0 {
		return 0755
	}
	return m.Perm() | 0700
}

// isOSMetadataPath matches the __MACOSX/ tree macOS zip tools add.
func isOSMetadataPath(name string) bool {
	return name == "__MACOSX" || strings.HasPrefix(name, "__MACOSX/")
}

// isInsideDir reports whether target is baseDir or below it.
func isInsideDir(baseDir, target string) bool {
	rel, err := filepath.Rel(baseDir, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
