package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/submittal/internal/models"
)

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"validate", "package", "report", "init-config", "history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestExitErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &ExitError{Code: ExitConfigError, Err: inner}

	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := &ExitError{Code: ExitWarnings}
	assert.Equal(t, "exit code 2", bare.Error())
}

func TestWriteSheetMap(t *testing.T) {
	s1, e1 := 1, 3
	s2 := 4
	entries := []models.ManifestEntry{
		{Discipline: "RD", SheetType: "PLAN", Pages: 3, SheetStart: &s1, SheetEnd: &e1},
		{Discipline: "RD", SheetType: "PLAN", Pages: 1, SheetStart: &s2},
		{Discipline: "", SheetType: "", Pages: 2},
	}
	path := filepath.Join(t.TempDir(), "map.json")

	require.NoError(t, writeSheetMap(entries, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]map[string]sheetMapEntry
	require.NoError(t, json.Unmarshal(data, &decoded))

	rd := decoded["RD"]["PLAN"]
	assert.Equal(t, 2, rd.Files)
	assert.Equal(t, 4, rd.Pages)
	assert.Equal(t, []string{"1-3", "4"}, rd.Sheets)

	other := decoded["UNASSIGNED"]["UNKNOWN"]
	assert.Equal(t, 1, other.Files)
	assert.Empty(t, other.Sheets)
}

func TestInitConfigWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "submittal.yaml")
	cmd := NewInitConfigCommand()
	cmd.SetArgs([]string{"--out", out})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "conventions:")

	// A second run without --force refuses to clobber the file.
	again := NewInitConfigCommand()
	again.SetArgs([]string{"--out", out})
	again.SilenceUsage = true
	again.SilenceErrors = true
	require.Error(t, again.Execute())
}

func TestInitConfigPreset(t *testing.T) {
	out := filepath.Join(t.TempDir(), "submittal.yaml")
	cmd := NewInitConfigCommand()
	cmd.SetArgs([]string{"--out", out, "--preset", "Stage2"})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "preset: Stage2")
}

func TestInitConfigUnknownPreset(t *testing.T) {
	cmd := NewInitConfigCommand()
	cmd.SetArgs([]string{"--out", filepath.Join(t.TempDir(), "x.yaml"), "--preset", "Stage9"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stage9")
}
