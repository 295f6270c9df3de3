package packager

import (
	"path"
	"strings"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// AssignPackagePaths routes every manifest entry into its package folder
// under rootFolder and records the resulting archive path on the entry.
func AssignPackagePaths(entries []models.ManifestEntry, packaging config.Packaging, rootFolder string) {
	for i := range entries {
		folder := matchFolder(&entries[i], packaging)
		target := rootFolder
		if folder != "" {
			target = path.Join(target, folder)
		}
		entries[i].PackagePath = path.Join(target, path.Base(entries[i].RelativePath))
	}
}

// matchFolder returns the first configured folder whose patterns or
// extensions match the entry, falling back to the default folder. Patterns
// match both the base name and the full relative path, lowercased.
func matchFolder(entry *models.ManifestEntry, packaging config.Packaging) string {
	fileName := strings.ToLower(path.Base(entry.RelativePath))
	relative := strings.ToLower(entry.RelativePath)
	ext := strings.ToLower(entry.Ext)
	if ext == "" {
		ext = strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	}

	for _, folder := range packaging.Folders {
		for _, pattern := range folder.Patterns {
			pattern = strings.ToLower(pattern)
			if ok, err := path.Match(pattern, fileName); err == nil && ok {
				return folder.Name
			}
			if ok, err := path.Match(pattern, relative); err == nil && ok {
				return folder.Name
			}
		}
		for _, folderExt := range folder.Extensions {
			if strings.ToLower(folderExt) == ext {
				return folder.Name
			}
		}
	}
	return packaging.DefaultFolder
}

// FolderForGenerated returns the folder that receives generated artifacts
// (manifest, checksums, report), defaulting to the packaging default folder.
func FolderForGenerated(packaging config.Packaging) string {
	for _, folder := range packaging.Folders {
		if folder.IncludeGenerated {
			return folder.Name
		}
	}
	return packaging.DefaultFolder
}

// FormatName expands the {des} and {stage} placeholders used by the zip and
// root folder name templates.
func FormatName(format, des, stage string) string {
	out := strings.ReplaceAll(format, "{des}", des)
	return strings.ReplaceAll(out, "{stage}", stage)
}
