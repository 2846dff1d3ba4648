// Package checksum verifies downloaded archives against "algorithm:hex" digests.
package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
)

// Algorithm is the digest prefix of a checksum setting.
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
)

var hashes = map[Algorithm]func() hash.Hash{
	AlgorithmSHA256: sha256.New,
	AlgorithmSHA512: sha512.New,
}

// Parse splits "algorithm:hex" and validates both halves. The digest must
// have the length the algorithm produces. Both halves are lowercased.
func Parse(value string) (Algorithm, string, error) {
	prefix, digest, ok := strings.Cut(value, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid checksum format: expected 'algorithm:hash', got %q", value)
	}

	algorithm := Algorithm(strings.ToLower(prefix))
	newHash, known := hashes[algorithm]
	if !known {
		return "", "", fmt.Errorf("unsupported hash algorithm: %s", prefix)
	}

	digest = strings.ToLower(digest)
	if _, err := hex.DecodeString(digest); err != nil || len(digest) != 2*newHash().Size() {
		return "", "", fmt.Errorf("invalid %s digest: %q", algorithm, digest)
	}
	return algorithm, digest, nil
}

// Digest hashes everything read from r and returns it hex-encoded.
func Digest(r io.Reader, algorithm Algorithm) (string, error) {
	newHash, ok := hashes[algorithm]
	if !ok {
		return "", fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}
	h := newHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func digestFile(filePath string, algorithm Algorithm) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Digest(f, algorithm)
}

// Verify checks filePath against value ("algorithm:hash"). A mismatch is
// reported as *errors.ChecksumError; the caller fills in resource and URL.
func Verify(filePath, value string) error {
	algorithm, expected, err := Parse(value)
	if err != nil {
		return err
	}

	actual, err := digestFile(filePath, algorithm)
	if err != nil {
		return err
	}

	if actual != expected {
		return dgErrors.NewChecksumError("", "",
			string(algorithm)+":"+expected,
			string(algorithm)+":"+actual)
	}

	return nil
}
