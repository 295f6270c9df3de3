package packager

import (
	"path"
	"sort"
	"strings"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// FolderStats counts files and pages routed into one group.
type FolderStats struct {
	Files int
	Pages int
}

// GeneratedArtifact names a generated output and its location inside the
// package.
type GeneratedArtifact struct {
	Label       string
	PackagePath string
}

// Overview summarizes how the manifest maps onto the package layout. It
// feeds both the CSV summary blocks and the rendered report.
type Overview struct {
	Root              string
	TotalFiles        int
	TotalPages        int
	FolderSummary     map[string]FolderStats
	DisciplineSummary map[string]FolderStats
	ExtensionSummary  map[string]FolderStats
	Generated         []GeneratedArtifact
}

// BuildOverview aggregates manifest entries by package folder, discipline,
// and extension.
func BuildOverview(entries []models.ManifestEntry, packaging config.Packaging, rootFolder string, generated []GeneratedArtifact) *Overview {
	ov := &Overview{
		Root:              rootFolder,
		TotalFiles:        len(entries),
		FolderSummary:     make(map[string]FolderStats),
		DisciplineSummary: make(map[string]FolderStats),
		ExtensionSummary:  make(map[string]FolderStats),
		Generated:         generated,
	}

	for _, entry := range entries {
		ov.TotalPages += entry.Pages

		folder := folderFromPackagePath(entry, packaging.DefaultFolder)
		addStats(ov.FolderSummary, folder, entry.Pages)

		discipline := entry.Discipline
		if discipline == "" {
			discipline = "UNASSIGNED"
		}
		addStats(ov.DisciplineSummary, discipline, entry.Pages)

		ext := strings.ToLower(entry.Ext)
		if ext == "" {
			ext = strings.TrimPrefix(strings.ToLower(path.Ext(entry.RelativePath)), ".")
		}
		if ext == "" {
			ext = "unknown"
		}
		addStats(ov.ExtensionSummary, ext, entry.Pages)
	}

	return ov
}

// SortedKeys returns the keys of a summary map in sorted order for stable
// rendering.
func SortedKeys(summary map[string]FolderStats) []string {
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func addStats(summary map[string]FolderStats, key string, pages int) {
	stats := summary[key]
	stats.Files++
	stats.Pages += pages
	summary[key] = stats
}

// folderFromPackagePath extracts the folder component of an assigned package
// path ("root/folder/name.pdf"), falling back to the default folder when no
// package path has been assigned yet.
func folderFromPackagePath(entry models.ManifestEntry, defaultFolder string) string {
	if entry.PackagePath == "" {
		return defaultFolder
	}
	parts := strings.Split(entry.PackagePath, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return defaultFolder
}
