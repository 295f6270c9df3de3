// Package packager turns a validated manifest into deliverables: checksums,
// the CSV manifest, package folder assignment, and the final ZIP archive.
package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/harrison/submittal/internal/models"
)

// ZipEntry pairs a source file on disk with its path inside the archive.
type ZipEntry struct {
	SourcePath  string
	ArchivePath string
}

// BuildZipEntries lays out the archive: every manifest entry at its assigned
// package path, then the generated artifacts. Generated files that were never
// produced are skipped silently.
func BuildZipEntries(entries []models.ManifestEntry, root string, generated []GeneratedFile) ([]ZipEntry, []GeneratedArtifact) {
	zipEntries := make([]ZipEntry, 0, len(entries)+len(generated))
	for _, entry := range entries {
		archivePath := entry.PackagePath
		if archivePath == "" {
			archivePath = entry.RelativePath
		}
		zipEntries = append(zipEntries, ZipEntry{
			SourcePath:  filepath.Join(root, filepath.FromSlash(entry.RelativePath)),
			ArchivePath: archivePath,
		})
	}

	var artifacts []GeneratedArtifact
	for _, gen := range generated {
		if _, err := os.Stat(gen.Path); err != nil {
			continue
		}
		zipEntries = append(zipEntries, ZipEntry{SourcePath: gen.Path, ArchivePath: gen.ArchivePath})
		artifacts = append(artifacts, GeneratedArtifact{Label: gen.Label, PackagePath: gen.ArchivePath})
	}
	return zipEntries, artifacts
}

// GeneratedFile is a generated output staged for inclusion in the archive.
type GeneratedFile struct {
	Path        string
	Label       string
	ArchivePath string
}

// CreateZip writes all entries into a deflate-compressed archive at zipPath.
func CreateZip(entries []ZipEntry, zipPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, entry := range entries {
		if err := addZipEntry(w, entry); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func addZipEntry(w *zip.Writer, entry ZipEntry) error {
	src, err := os.Open(entry.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", entry.SourcePath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", entry.SourcePath, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build header for %s: %w", entry.SourcePath, err)
	}
	header.Name = entry.ArchivePath
	header.Method = zip.Deflate

	dst, err := w.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", entry.ArchivePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", entry.ArchivePath, err)
	}
	return nil
}

// LockOutputDir takes an exclusive lock on the output directory so two
// packaging runs cannot interleave their generated files. The returned
// function releases the lock.
func LockOutputDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".submittal.lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output directory %s: %w", dir, err)
	}
	if !acquired {
		return nil, fmt.Errorf("output directory %s is locked by another packaging run", dir)
	}
	return func() { _ = lock.Unlock() }, nil
}
