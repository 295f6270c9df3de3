package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
project:
  designation: "1234567"
  route: "SR 37"
  project_name: "Test Project"
  stage: Stage1
conventions:
  regex: '^(?P<des>\d{7})_(?P<stage>[A-Za-z0-9]+)_(?P<discipline>[A-Z]+)_(?P<sheet_type>[A-Za-z0-9]+)_(?P<sheet_range>[^.]+)\.(?P<ext>[A-Za-z0-9]+)$'
  stage_case_insensitive: true
  allowed_extensions: [pdf, docx]
stages:
  Stage1:
    required:
      - key: title_sheet
        pattern: "*TITLE*.pdf"
    discipline_codes: [RD, GN]
`

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "1234567", cfg.Project.Designation)
	assert.NotNil(t, cfg.Conventions.Compiled())
	assert.True(t, cfg.Conventions.ExtensionAllowed("PDF"))
	assert.False(t, cfg.Conventions.ExtensionAllowed("dwg"))

	// Defaults survive a document that does not mention them.
	assert.True(t, cfg.Checks.SheetNumbering.Enabled)
	assert.Equal(t, 4, cfg.Checks.SheetNumbering.Width)
	assert.Equal(t, "sha256", cfg.Packaging.ChecksumAlgo)
	assert.Equal(t, "2_Plan_Set", cfg.Packaging.DefaultFolder)
}

func TestParseNormalizesExtensions(t *testing.T) {
	yaml := `
conventions:
  regex: '^(?P<des>\d+)_(?P<stage>\w+)_(?P<discipline>\w+)_(?P<sheet_type>\w+)_(?P<sheet_range>\d+)\.(?P<ext>\w+)$'
  allowed_extensions: [".PDF", "Docx"]
stages:
  Stage1:
    required:
      - key: title
        pattern: "*TITLE*"
`
	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, []string{"pdf", "docx"}, cfg.Conventions.AllowedExtensions)
}

func TestValidateRejectsMissingNamedGroup(t *testing.T) {
	yaml := `
conventions:
  regex: '^(?P<des>\d+)_(?P<stage>\w+)\.(?P<ext>\w+)$'
stages:
  Stage1:
    required:
      - key: title
        pattern: "*TITLE*"
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing named group")
	assert.Contains(t, err.Error(), "discipline")
}

func TestValidateRejectsDuplicateRequirementKeys(t *testing.T) {
	yaml := validYAML + `
  Stage2:
    required:
      - key: title_sheet
        pattern: "*TITLE*"
    optional:
      - key: title_sheet
        pattern: "*COVER*"
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate requirement key")
}

func TestValidateRejectsUnknownChecksumAlgo(t *testing.T) {
	yaml := validYAML + `
packaging:
  checksum_algo: crc32
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum_algo")
}

func TestValidateRejectsBadExceptionRegex(t *testing.T) {
	_, err := Parse([]byte(`
conventions:
  regex: '^(?P<des>\d+)_(?P<stage>\w+)_(?P<discipline>\w+)_(?P<sheet_type>\w+)_(?P<sheet_range>\d+)\.(?P<ext>\w+)$'
  exceptions:
    - name: broken
      regex: '(['
stages:
  Stage1:
    required:
      - key: title
        pattern: "*TITLE*"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestResolveStage(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	key, stage, ok := cfg.ResolveStage("Stage1")
	require.True(t, ok)
	assert.Equal(t, "Stage1", key)
	assert.Len(t, stage.Required, 1)

	// Case-insensitive pass when the convention allows it.
	key, _, ok = cfg.ResolveStage("stage1")
	require.True(t, ok)
	assert.Equal(t, "Stage1", key)

	_, _, ok = cfg.ResolveStage("Stage9")
	assert.False(t, ok)

	_, _, ok = cfg.ResolveStage("")
	assert.False(t, ok)
}

func TestResolveStageCaseSensitive(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	cfg.Conventions.StageCaseInsensitive = false

	_, _, ok := cfg.ResolveStage("stage1")
	assert.False(t, ok)
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "submittal.yaml")

	require.NoError(t, Save(Example(), path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0000000", cfg.Project.Designation)
	assert.NotNil(t, cfg.Conventions.Compiled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
