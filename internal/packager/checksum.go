package packager

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/harrison/submittal/internal/models"
)

// Checksum computes the hex digest of a file using the named algorithm
// (sha256, sha1, or md5), streaming so large plan sets do not load into
// memory.
func Checksum(path, algorithm string) (string, error) {
	var digest hash.Hash
	switch algorithm {
	case "sha256":
		digest = sha256.New()
	case "sha1":
		digest = sha1.New()
	case "md5":
		digest = md5.New()
	default:
		return "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(digest, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// FillChecksums computes and stores the checksum for every manifest entry,
// resolving relative paths against root. The validation engine leaves the
// checksum column empty; this is the collaborator that fills it.
func FillChecksums(entries []models.ManifestEntry, root, algorithm string) error {
	for i := range entries {
		sum, err := Checksum(filepath.Join(root, filepath.FromSlash(entries[i].RelativePath)), algorithm)
		if err != nil {
			return err
		}
		entries[i].Checksum = sum
		entries[i].ChecksumAlgorithm = algorithm
	}
	return nil
}
