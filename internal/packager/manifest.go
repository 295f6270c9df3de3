package packager

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/harrison/submittal/internal/models"
)

// manifestHeader is the column order of the manifest CSV. ReadManifestCSV
// depends on these names, so changes here must stay backward compatible.
var manifestHeader = []string{
	"relative_path",
	"size_bytes",
	"pages",
	"des",
	"stage",
	"discipline",
	"sheet_type",
	"sheet_start",
	"sheet_end",
	"ext",
	"checksum",
	"checksum_algorithm",
	"package_path",
	"source_modified_utc",
}

// WriteManifestCSV writes the manifest rows followed by the package summary
// blocks (folder, discipline, extension totals).
func WriteManifestCSV(entries []models.ManifestEntry, path string, overview *Overview) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(manifestHeader); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.RelativePath,
			strconv.FormatInt(entry.SizeBytes, 10),
			strconv.Itoa(entry.Pages),
			entry.Designation,
			entry.Stage,
			entry.Discipline,
			entry.SheetType,
			formatOptionalInt(entry.SheetStart),
			formatOptionalInt(entry.SheetEnd),
			entry.Ext,
			entry.Checksum,
			entry.ChecksumAlgorithm,
			entry.PackagePath,
			entry.SourceModified,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write manifest row: %w", err)
		}
	}

	blank := make([]string, 1)
	w.Write(blank)
	w.Write([]string{"package_root", overview.Root})
	w.Write(blank)
	w.Write([]string{"Folder", "Files", "Pages"})
	for _, folder := range SortedKeys(overview.FolderSummary) {
		stats := overview.FolderSummary[folder]
		w.Write([]string{folder, strconv.Itoa(stats.Files), strconv.Itoa(stats.Pages)})
	}
	w.Write([]string{"TOTAL", strconv.Itoa(overview.TotalFiles), strconv.Itoa(overview.TotalPages)})

	w.Write(blank)
	w.Write([]string{"Discipline", "Files", "Pages"})
	for _, discipline := range SortedKeys(overview.DisciplineSummary) {
		stats := overview.DisciplineSummary[discipline]
		w.Write([]string{discipline, strconv.Itoa(stats.Files), strconv.Itoa(stats.Pages)})
	}

	w.Write(blank)
	w.Write([]string{"Extension", "Files", "Pages"})
	for _, ext := range SortedKeys(overview.ExtensionSummary) {
		stats := overview.ExtensionSummary[ext]
		w.Write([]string{ext, strconv.Itoa(stats.Files), strconv.Itoa(stats.Pages)})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}
	return nil
}

// WriteChecksumsCSV writes one row per manifest entry with its digest.
func WriteChecksumsCSV(entries []models.ManifestEntry, path, algorithm string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checksum file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"algorithm", "checksum", "relative_path", "package_path"}); err != nil {
		return fmt.Errorf("failed to write checksum header: %w", err)
	}
	for _, entry := range entries {
		if err := w.Write([]string{algorithm, entry.Checksum, entry.RelativePath, entry.PackagePath}); err != nil {
			return fmt.Errorf("failed to write checksum row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush checksum file: %w", err)
	}
	return nil
}

// ReadManifestCSV loads manifest rows back from a previously written CSV,
// stopping at the summary blocks. Used to regenerate reports without
// revalidating.
func ReadManifestCSV(path string) ([]models.ManifestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	column := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		column[name] = i
	}
	field := func(row []string, name string) string {
		idx, ok := column[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var entries []models.ManifestEntry
	for _, row := range records[1:] {
		// The summary blocks begin after a blank row; a data row always has
		// a relative path and checksum.
		if field(row, "relative_path") == "" || field(row, "checksum") == "" {
			break
		}
		size, _ := strconv.ParseInt(field(row, "size_bytes"), 10, 64)
		pages, _ := strconv.Atoi(field(row, "pages"))
		entries = append(entries, models.ManifestEntry{
			RelativePath:      field(row, "relative_path"),
			SizeBytes:         size,
			Pages:             pages,
			Designation:       field(row, "des"),
			Stage:             field(row, "stage"),
			Discipline:        field(row, "discipline"),
			SheetType:         field(row, "sheet_type"),
			SheetStart:        parseOptionalInt(field(row, "sheet_start")),
			SheetEnd:          parseOptionalInt(field(row, "sheet_end")),
			Ext:               field(row, "ext"),
			Checksum:          field(row, "checksum"),
			ChecksumAlgorithm: field(row, "checksum_algorithm"),
			PackagePath:       field(row, "package_path"),
			SourceModified:    field(row, "source_modified_utc"),
		})
	}
	return entries, nil
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
