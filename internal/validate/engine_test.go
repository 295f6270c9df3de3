package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/submittal/internal/config"
)

// fakeInspector serves canned page counts and text excerpts keyed by path.
type fakeInspector struct {
	pages map[string]int
	text  map[string]string
	fail  map[string]error
}

func (f *fakeInspector) Inspect(path string, maxPages int, withText bool) Inspection {
	if err, ok := f.fail[path]; ok {
		return Inspection{Err: err}
	}
	ins := Inspection{Pages: f.pages[path]}
	if withText {
		ins.Text = f.text[path]
	}
	return ins
}

func engineConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
project:
  designation: "1234567"
  stage: Stage1
conventions:
  regex: '^(?P<des>\d{7})_(?P<stage>[A-Za-z0-9]+)_(?P<discipline>[A-Za-z]+)_(?P<sheet_type>[A-Za-z0-9]+)_(?P<sheet_range>[^.]+)\.(?P<ext>[A-Za-z0-9]+)$'
  stage_case_insensitive: true
  allowed_extensions: [pdf, docx]
stages:
  Stage1:
    required:
      - key: title_sheet
        pattern: "*TITLE*.pdf"
    discipline_codes: [RD, GN]
checks:
  sheet_numbering:
    enabled: true
    width: 4
`))
	require.NoError(t, err)
	return cfg
}

func candidate(name string, size int64) Candidate {
	return Candidate{
		Path:      "/plans/" + name,
		RelPath:   name,
		Name:      name,
		SizeBytes: size,
		Modified:  "2026-08-30T12:00:00Z",
	}
}

func cleanCandidates() []Candidate {
	return []Candidate{
		candidate("1234567_Stage1_GN_TITLE_0001-0002.pdf", 100),
		candidate("1234567_Stage1_RD_PLAN_0003-0005.pdf", 200),
	}
}

func cleanInspector() *fakeInspector {
	return &fakeInspector{pages: map[string]int{
		"/plans/1234567_Stage1_GN_TITLE_0001-0002.pdf": 2,
		"/plans/1234567_Stage1_RD_PLAN_0003-0005.pdf":  3,
	}}
}

func TestRunCleanSubmission(t *testing.T) {
	cfg := engineConfig(t)

	result := Run(cleanCandidates(), cfg, "Stage1", cleanInspector(), Options{})

	assert.False(t, result.HasErrors(), "errors: %v", result.Errors)
	assert.False(t, result.HasWarnings(), "warnings: %v", result.Warnings)
	assert.Equal(t, 2, result.FileCount())
	assert.Equal(t, 5, result.TotalPages())

	entry := result.Manifest[0]
	assert.Equal(t, "1234567_Stage1_GN_TITLE_0001-0002.pdf", entry.RelativePath)
	assert.Equal(t, int64(100), entry.SizeBytes)
	assert.Equal(t, 2, entry.Pages)
	assert.Equal(t, "GN", entry.Discipline)
	assert.Equal(t, "sha256", entry.ChecksumAlgorithm)
	assert.Empty(t, entry.Checksum, "checksum is a packaging concern")
	assert.Equal(t, "2026-08-30T12:00:00Z", entry.SourceModified)
}

func TestRunStageTokenResolvesCaseInsensitively(t *testing.T) {
	cfg := engineConfig(t)

	result := Run(cleanCandidates(), cfg, "stage1", cleanInspector(), Options{})
	assert.False(t, result.HasErrors(), "errors: %v", result.Errors)
}

func TestRunTargetStageNotConfigured(t *testing.T) {
	cfg := engineConfig(t)

	result := Run(cleanCandidates(), cfg, "Stage9", cleanInspector(), Options{})
	require.True(t, result.HasErrors())
	last := result.Errors[len(result.Errors)-1]
	assert.Equal(t, "Stage 'Stage9' not defined in config", last.Text)

	// Batch validators never ran: no missing-artifact message despite the
	// required title sheet being configured only for Stage1.
	for _, msg := range result.Errors {
		assert.NotContains(t, msg.Text, "Missing required artifact")
	}
	// Per-file work still happened.
	assert.Equal(t, 2, result.FileCount())
}

func TestRunStructuralFailuresKeepMessagesDropRecords(t *testing.T) {
	cfg := engineConfig(t)
	candidates := []Candidate{
		candidate("bad name.pdf", 10),
		candidate("not-matching.pdf", 10),
	}

	result := Run(candidates, cfg, "Stage1", &fakeInspector{}, Options{})

	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0].Text, "Spaces are not allowed")
	assert.Contains(t, result.Errors[1].Text, "does not match convention regex")
	assert.Equal(t, "Missing required artifact: title_sheet", result.Errors[2].Text)
	assert.Zero(t, result.FileCount())
}

func TestRunUnconfiguredFileStageWarns(t *testing.T) {
	cfg := engineConfig(t)
	candidates := append(cleanCandidates(),
		candidate("1234567_Stage7_RD_PLAN_0006-0007.pdf", 50))

	result := Run(candidates, cfg, "Stage1", cleanInspector(), Options{})

	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0].Text,
		"Stage 'Stage7' in '1234567_Stage7_RD_PLAN_0006-0007.pdf' is not defined in configuration")
	// The file still lands in the manifest.
	assert.Equal(t, 3, result.FileCount())
	assert.False(t, result.HasErrors(), "errors: %v", result.Errors)
}

func TestRunStageMismatchError(t *testing.T) {
	cfg := engineConfig(t)
	cfg.Stages["Stage2"] = config.Stage{}
	candidates := append(cleanCandidates(),
		candidate("1234567_Stage2_RD_PLAN_0006-0007.pdf", 50))

	result := Run(candidates, cfg, "Stage1", cleanInspector(), Options{})

	require.True(t, result.HasErrors())
	found := false
	for _, msg := range result.Errors {
		if msg.Text == "File '/plans/1234567_Stage2_RD_PLAN_0006-0007.pdf' belongs to stage 'Stage2' but is being validated against stage 'Stage1'" {
			found = true
		}
	}
	assert.True(t, found, "errors: %v", result.Errors)
}

func TestRunPageReadFailureWarns(t *testing.T) {
	cfg := engineConfig(t)
	insp := cleanInspector()
	insp.fail = map[string]error{
		"/plans/1234567_Stage1_RD_PLAN_0003-0005.pdf": errors.New("truncated xref"),
	}

	result := Run(cleanCandidates(), cfg, "Stage1", insp, Options{})

	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0].Text, "Failed to read pages for 1234567_Stage1_RD_PLAN_0003-0005.pdf")
	// The unreadable file contributes zero pages but stays in the manifest.
	assert.Equal(t, 2, result.FileCount())
	assert.Equal(t, 2, result.TotalPages())
}

func TestRunKeywordScan(t *testing.T) {
	cfg := engineConfig(t)
	cfg.Checks.PDFTextScan = config.PDFTextScan{
		Enabled:            true,
		Pages:              3,
		RequireAllKeywords: true,
		KeywordsRequired:   []string{"STAGE 1", "PRELIMINARY"},
		KeywordsForbidden:  []string{"DRAFT"},
	}
	insp := cleanInspector()
	insp.text = map[string]string{
		"/plans/1234567_Stage1_GN_TITLE_0001-0002.pdf": "Stage 1 Preliminary Field Check",
		"/plans/1234567_Stage1_RD_PLAN_0003-0005.pdf":  "DRAFT - not for construction",
	}

	result := Run(cleanCandidates(), cfg, "Stage1", insp, Options{})

	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Text,
		"Forbidden keywords present in 1234567_Stage1_RD_PLAN_0003-0005.pdf: DRAFT")
}

func TestRunKeywordScanMissingKeywords(t *testing.T) {
	cfg := engineConfig(t)
	cfg.Checks.PDFTextScan = config.PDFTextScan{
		Enabled:            true,
		Pages:              3,
		RequireAllKeywords: true,
		KeywordsRequired:   []string{"STAGE 1", "PRELIMINARY"},
	}
	insp := cleanInspector()
	insp.text = map[string]string{
		"/plans/1234567_Stage1_GN_TITLE_0001-0002.pdf": "stage 1 title sheet",
	}

	result := Run(cleanCandidates(), cfg, "Stage1", insp, Options{})

	require.True(t, result.HasErrors())
	assert.Equal(t, "Missing required keywords across submission: PRELIMINARY",
		result.Errors[0].Text)
}

func TestRunKeywordScanAdvisoryMode(t *testing.T) {
	cfg := engineConfig(t)
	cfg.Checks.PDFTextScan = config.PDFTextScan{
		Enabled:          true,
		Pages:            3,
		KeywordsRequired: []string{"PRELIMINARY"},
	}

	result := Run(cleanCandidates(), cfg, "Stage1", cleanInspector(), Options{})

	assert.False(t, result.HasErrors(), "errors: %v", result.Errors)
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0].Text, "Missing required keywords")
}

func TestRunSheetLimits(t *testing.T) {
	cfg := engineConfig(t)
	cfg.Checks.SheetLimits = config.SheetLimits{MinTotalSheets: 10}

	result := Run(cleanCandidates(), cfg, "Stage1", cleanInspector(), Options{})
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0].Text, "Total sheets 5 below minimum 10")

	cfg.Checks.SheetLimits = config.SheetLimits{MaxTotalSheets: 4}
	result = Run(cleanCandidates(), cfg, "Stage1", cleanInspector(), Options{})
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Text, "Total sheets 5 exceeds maximum 4")
}

func TestRunStrictEscalatesWarnings(t *testing.T) {
	cfg := engineConfig(t)
	candidates := append(cleanCandidates(),
		candidate("1234567_Stage7_RD_PLAN_0006-0007.pdf", 50))

	relaxed := Run(candidates, cfg, "Stage1", cleanInspector(), Options{})
	strict := Run(candidates, cfg, "Stage1", cleanInspector(), Options{Strict: true})

	assert.False(t, relaxed.HasErrors())
	assert.True(t, relaxed.HasWarnings())

	assert.True(t, strict.HasErrors())
	assert.False(t, strict.HasWarnings())
	// Strict mode never produces fewer findings.
	assert.Equal(t,
		len(relaxed.Errors)+len(relaxed.Warnings),
		len(strict.Errors))
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := engineConfig(t)
	candidates := append(cleanCandidates(),
		candidate("1234567_Stage1_RD_PLAN_0004-0006.pdf", 50),
		candidate("1234567_Stage7_XX_MISC_0001.pdf", 50))

	first := Run(candidates, cfg, "Stage1", cleanInspector(), Options{Workers: 4})
	for i := 0; i < 5; i++ {
		again := Run(candidates, cfg, "Stage1", cleanInspector(), Options{Workers: 4})
		require.Equal(t, first, again)
	}
}

func TestRunNilInspector(t *testing.T) {
	cfg := engineConfig(t)

	result := Run(cleanCandidates(), cfg, "Stage1", nil, Options{})
	assert.False(t, result.HasErrors(), "errors: %v", result.Errors)
	assert.Equal(t, 0, result.TotalPages())
}
