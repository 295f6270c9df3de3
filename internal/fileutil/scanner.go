// Package fileutil enumerates candidate submittal files for validation,
// applying ignore rules and exclusions and returning a stable, sorted order.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one enumerated file.
type FileInfo struct {
	// Path is the absolute path on disk.
	Path string
	// RelPath is the forward-slash path relative to the scan root.
	RelPath string
	// Name is the base name.
	Name      string
	SizeBytes int64
	Modified  time.Time
}

// ScanOptions configures directory enumeration.
type ScanOptions struct {
	// IgnoreFile is an optional .spignore-style file of glob patterns, one
	// per line. Lines starting with '#' and blank lines are skipped.
	IgnoreFile string
	// Exclude lists paths (files or directory roots) to skip, e.g. the
	// config file and the output directory.
	Exclude []string
}

// ScanDirectory walks root recursively and returns every regular file that
// survives the ignore rules, sorted lexicographically by relative path.
// Enumeration order is a correctness input for the validators, so the sort is
// unconditional.
func ScanDirectory(root string, opts ScanOptions) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	ignore, err := loadIgnorePatterns(opts.IgnoreFile)
	if err != nil {
		return nil, err
	}

	exclude := make([]string, 0, len(opts.Exclude))
	for _, path := range opts.Exclude {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		exclude = append(exclude, abs)
	}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if isExcluded(abs, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, abs)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ignore.matches(rel) {
			return nil
		}

		stat, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Path:      abs,
			RelPath:   rel,
			Name:      d.Name(),
			SizeBytes: stat.Size(),
			Modified:  stat.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// ignorePatterns is a parsed .spignore file.
type ignorePatterns struct {
	patterns []string
}

// loadIgnorePatterns reads glob patterns from the given file. A missing or
// empty path yields an empty pattern set, not an error.
func loadIgnorePatterns(path string) (*ignorePatterns, error) {
	ig := &ignorePatterns{}
	if path == "" {
		return ig, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ig, nil
		}
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ig.patterns = append(ig.patterns, line)
	}
	return ig, nil
}

// matches reports whether the relative path matches any ignore pattern.
// Patterns match against the full relative path and against the base name,
// and a directory pattern like "drafts/" ignores everything beneath it.
func (ig *ignorePatterns) matches(relPath string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range ig.patterns {
		if strings.HasSuffix(pattern, "/") {
			prefix := strings.TrimSuffix(pattern, "/")
			if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
				return true
			}
			continue
		}
		if ok, err := filepath.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

func isExcluded(abs string, exclude []string) bool {
	for _, ex := range exclude {
		if abs == ex || strings.HasPrefix(abs, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
