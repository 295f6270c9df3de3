// Package report renders human-readable validation output: an HTML report
// and a transmittal summary. Both are composed as markdown and converted
// with goldmark, so the same content is usable in terminals, editors, and
// browsers.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
	"github.com/harrison/submittal/internal/packager"
)

// Data carries everything a rendered report needs.
type Data struct {
	Project     config.Project
	Stage       string
	GeneratedAt string
	RunID       string
	Result      *models.ValidationResult
	Overview    *packager.Overview
}

// htmlShell wraps converted markdown in a minimal standalone page.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 60em; padding: 0 1em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.3em 0.6em; text-align: left; }
code { background: #f0f0f0; padding: 0 0.2em; }
</style>
</head>
<body>
%s</body>
</html>
`

// BuildReportMarkdown composes the validation report as markdown.
func BuildReportMarkdown(data Data) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report: %s %s\n\n", data.Project.Designation, data.Stage)
	fmt.Fprintf(&b, "- **Project:** %s (%s)\n", data.Project.ProjectName, data.Project.Route)
	fmt.Fprintf(&b, "- **Consultant:** %s\n", data.Project.Consultant)
	fmt.Fprintf(&b, "- **Generated:** %s\n", data.GeneratedAt)
	if data.RunID != "" {
		fmt.Fprintf(&b, "- **Run:** `%s`\n", data.RunID)
	}
	fmt.Fprintf(&b, "- **Files:** %d, **Pages:** %d\n\n", data.Result.FileCount(), data.Result.TotalPages())

	writeMessageSection(&b, "Errors", data.Result.Errors)
	writeMessageSection(&b, "Warnings", data.Result.Warnings)

	if data.Overview != nil {
		b.WriteString("## Package Layout\n\n")
		fmt.Fprintf(&b, "Package root: `%s`\n\n", data.Overview.Root)
		writeSummaryTable(&b, "Folder", data.Overview.FolderSummary)
		writeSummaryTable(&b, "Discipline", data.Overview.DisciplineSummary)
		writeSummaryTable(&b, "Extension", data.Overview.ExtensionSummary)

		if len(data.Overview.Generated) > 0 {
			b.WriteString("### Generated Artifacts\n\n")
			for _, gen := range data.Overview.Generated {
				fmt.Fprintf(&b, "- %s: `%s`\n", gen.Label, gen.PackagePath)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Manifest\n\n")
	b.WriteString("| File | Discipline | Sheets | Pages | Checksum |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, entry := range data.Result.Manifest {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | `%s` |\n",
			entry.RelativePath, orDash(entry.Discipline), sheetSpan(entry), entry.Pages, shortChecksum(entry.Checksum))
	}
	b.WriteString("\n")

	return b.String()
}

// BuildTransmittalMarkdown composes the transmittal letter summary.
func BuildTransmittalMarkdown(data Data) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Transmittal: %s %s\n\n", data.Project.Designation, data.Stage)
	fmt.Fprintf(&b, "Project: %s (%s)\n\n", data.Project.ProjectName, data.Project.Route)
	fmt.Fprintf(&b, "Submitted by %s, contact %s.\n\n", data.Project.Consultant, data.Project.Contact)
	fmt.Fprintf(&b, "This submission contains %d files totaling %d pages.\n\n",
		data.Result.FileCount(), data.Result.TotalPages())

	if data.Result.HasWarnings() {
		b.WriteString("## Advisory Notes\n\n")
		for _, msg := range data.Result.Warnings {
			fmt.Fprintf(&b, "- %s\n", msg.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Contents\n\n")
	for _, entry := range data.Result.Manifest {
		fmt.Fprintf(&b, "- %s (%d pages)\n", entry.RelativePath, entry.Pages)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generated %s\n", data.GeneratedAt)

	return b.String()
}

// WriteHTML converts markdown to a standalone HTML file.
func WriteHTML(markdown, title, path string) error {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	page := fmt.Sprintf(htmlShell, title, buf.String())
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteMarkdown writes raw markdown to disk.
func WriteMarkdown(markdown, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

func writeMessageSection(b *strings.Builder, title string, messages []models.ValidationMessage) {
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(messages))
	if len(messages) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	for _, msg := range messages {
		fmt.Fprintf(b, "- %s\n", msg.Text)
	}
	b.WriteString("\n")
}

func writeSummaryTable(b *strings.Builder, label string, summary map[string]packager.FolderStats) {
	if len(summary) == 0 {
		return
	}
	fmt.Fprintf(b, "| %s | Files | Pages |\n| --- | --- | --- |\n", label)
	for _, key := range packager.SortedKeys(summary) {
		stats := summary[key]
		fmt.Fprintf(b, "| %s | %d | %d |\n", key, stats.Files, stats.Pages)
	}
	b.WriteString("\n")
}

func sheetSpan(entry models.ManifestEntry) string {
	if entry.SheetStart == nil {
		return "-"
	}
	if entry.SheetEnd == nil {
		return fmt.Sprintf("%d", *entry.SheetStart)
	}
	return fmt.Sprintf("%d-%d", *entry.SheetStart, *entry.SheetEnd)
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	if sum == "" {
		return "-"
	}
	return sum
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
