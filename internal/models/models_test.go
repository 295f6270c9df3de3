package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendRoutesBySeverity(t *testing.T) {
	var r ValidationResult
	r.Append(
		Errorf("bad %s", "thing"),
		Warnf("odd %s", "thing"),
		ValidationMessage{Severity: SeverityInfo, Text: "fyi"},
	)

	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, "bad thing", r.Errors[0].Text)
	assert.True(t, r.HasErrors())
	assert.True(t, r.HasWarnings())
}

func TestEscalate(t *testing.T) {
	var r ValidationResult
	r.Append(Errorf("e1"), Warnf("w1"), Warnf("w2"))

	r.Escalate()
	assert.False(t, r.HasWarnings())
	assert.Len(t, r.Errors, 3)
	assert.Equal(t, "w1", r.Errors[1].Text)
	assert.Equal(t, "w2", r.Errors[2].Text)
	assert.Equal(t, SeverityError, r.Errors[1].Severity)

	// Escalating twice changes nothing.
	r.Escalate()
	assert.Len(t, r.Errors, 3)
}

func TestSheetCount(t *testing.T) {
	start, end := 4, 9
	assert.Equal(t, 0, (&ParsedFilename{}).SheetCount())
	assert.Equal(t, 1, (&ParsedFilename{SheetStart: &start}).SheetCount())
	assert.Equal(t, 6, (&ParsedFilename{SheetStart: &start, SheetEnd: &end}).SheetCount())
}

func TestTotalPages(t *testing.T) {
	r := ValidationResult{Manifest: []ManifestEntry{{Pages: 3}, {Pages: 7}}}
	assert.Equal(t, 10, r.TotalPages())
	assert.Equal(t, 2, r.FileCount())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
}
