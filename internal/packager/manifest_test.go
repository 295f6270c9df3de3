package packager

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

func sampleEntries() []models.ManifestEntry {
	start, end := 1, 3
	single := 4
	return []models.ManifestEntry{
		{
			RelativePath:      "plans/1234567_Stage1_RD_PLAN_0001-0003.pdf",
			SizeBytes:         2048,
			Pages:             3,
			Checksum:          "abc123",
			ChecksumAlgorithm: "sha256",
			Designation:       "1234567",
			Stage:             "stage1",
			Discipline:        "RD",
			SheetType:         "PLAN",
			SheetStart:        &start,
			SheetEnd:          &end,
			Ext:               "pdf",
			PackagePath:       "1234567_Stage1_IDM/2_Plan_Set/1234567_Stage1_RD_PLAN_0001-0003.pdf",
			SourceModified:    "2026-08-30T12:00:00Z",
		},
		{
			RelativePath:      "plans/1234567_Stage1_GN_TITLE_0004.pdf",
			SizeBytes:         512,
			Pages:             1,
			Checksum:          "def456",
			ChecksumAlgorithm: "sha256",
			Designation:       "1234567",
			Stage:             "stage1",
			Discipline:        "GN",
			SheetType:         "TITLE",
			SheetStart:        &single,
			Ext:               "pdf",
			PackagePath:       "1234567_Stage1_IDM/2_Plan_Set/1234567_Stage1_GN_TITLE_0004.pdf",
			SourceModified:    "2026-08-30T12:00:00Z",
		},
	}
}

func TestManifestCSVRoundTrip(t *testing.T) {
	entries := sampleEntries()
	overview := BuildOverview(entries, config.DefaultPackaging(), "1234567_Stage1_IDM", nil)
	path := filepath.Join(t.TempDir(), "manifest.csv")

	require.NoError(t, WriteManifestCSV(entries, path, overview))

	loaded, err := ReadManifestCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, entries[0], loaded[0])
	assert.Equal(t, entries[1], loaded[1])
	// Summary rows never come back as entries; the blank separator stops the
	// reader.
	assert.Nil(t, loaded[1].SheetEnd)
}

func TestWriteManifestCSVIncludesSummaries(t *testing.T) {
	entries := sampleEntries()
	overview := BuildOverview(entries, config.DefaultPackaging(), "1234567_Stage1_IDM", nil)
	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, WriteManifestCSV(entries, path, overview))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "package_root,1234567_Stage1_IDM")
	assert.Contains(t, text, "TOTAL,2,4")
	assert.Contains(t, text, "RD,1,3")
	assert.Contains(t, text, "pdf,2,4")
}

func TestWriteChecksumsCSV(t *testing.T) {
	entries := sampleEntries()
	path := filepath.Join(t.TempDir(), "checksums.csv")
	require.NoError(t, WriteChecksumsCSV(entries, path, "sha256"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "algorithm,checksum,relative_path,package_path", lines[0])
	assert.Contains(t, lines[1], "sha256,abc123,plans/1234567_Stage1_RD_PLAN_0001-0003.pdf")
}

func TestReadManifestCSVMissing(t *testing.T) {
	_, err := ReadManifestCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestBuildOverview(t *testing.T) {
	entries := sampleEntries()
	generated := []GeneratedArtifact{{Label: "Manifest", PackagePath: "root/0_Admin/manifest.csv"}}

	ov := BuildOverview(entries, config.DefaultPackaging(), "1234567_Stage1_IDM", generated)

	assert.Equal(t, 2, ov.TotalFiles)
	assert.Equal(t, 4, ov.TotalPages)
	assert.Equal(t, FolderStats{Files: 2, Pages: 4}, ov.FolderSummary["2_Plan_Set"])
	assert.Equal(t, FolderStats{Files: 1, Pages: 3}, ov.DisciplineSummary["RD"])
	assert.Equal(t, FolderStats{Files: 1, Pages: 1}, ov.DisciplineSummary["GN"])
	assert.Equal(t, FolderStats{Files: 2, Pages: 4}, ov.ExtensionSummary["pdf"])
	assert.Equal(t, generated, ov.Generated)
}

func TestBuildOverviewUnassignedDiscipline(t *testing.T) {
	entries := []models.ManifestEntry{{RelativePath: "notes.txt", Pages: 0}}
	ov := BuildOverview(entries, config.DefaultPackaging(), "root", nil)
	assert.Equal(t, FolderStats{Files: 1}, ov.DisciplineSummary["UNASSIGNED"])
	assert.Equal(t, FolderStats{Files: 1}, ov.ExtensionSummary["txt"])
	// No package path assigned yet: counted under the default folder.
	assert.Equal(t, FolderStats{Files: 1}, ov.FolderSummary["2_Plan_Set"])
}

func TestSortedKeys(t *testing.T) {
	summary := map[string]FolderStats{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(summary))
}
