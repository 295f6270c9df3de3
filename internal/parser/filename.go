// Package parser turns raw submittal filenames into structured records using
// the configured naming convention. Parsing is a pure function of the
// filename and the convention; every finding is reported as a classified
// issue rather than an error return, so a single bad filename never aborts a
// validation run.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
)

// IssueKind identifies the parse condition that produced an issue.
type IssueKind int

const (
	// KindSpaceNotAllowed means the filename contains a space and the
	// convention forbids spaces. Structural: no record is produced.
	KindSpaceNotAllowed IssueKind = iota
	// KindPatternMismatch means no convention regex matched. Structural: no
	// record is produced.
	KindPatternMismatch
	// KindExtensionNotAllowed means the captured extension is not in the
	// allowed set. The record is still produced.
	KindExtensionNotAllowed
	// KindNonNumericSheet means a sheet range component contains non-digit
	// characters. Numeric fields are left unset on the record.
	KindNonNumericSheet
	// KindSheetWidthMismatch means a sheet range component's digit length
	// differs from the configured width.
	KindSheetWidthMismatch
	// KindInvertedRange means the range start is greater than its end.
	KindInvertedRange
)

// String returns the identifier-style name of the issue kind.
func (k IssueKind) String() string {
	switch k {
	case KindSpaceNotAllowed:
		return "space_not_allowed"
	case KindPatternMismatch:
		return "pattern_mismatch"
	case KindExtensionNotAllowed:
		return "extension_not_allowed"
	case KindNonNumericSheet:
		return "non_numeric_sheet"
	case KindSheetWidthMismatch:
		return "sheet_width_mismatch"
	case KindInvertedRange:
		return "inverted_range"
	default:
		return "unknown"
	}
}

// Issue is a single parse finding.
type Issue struct {
	Kind     IssueKind
	Severity models.Severity
	Text     string
}

// Message converts the issue to a plain validation message.
func (i Issue) Message() models.ValidationMessage {
	return models.ValidationMessage{Severity: i.Severity, Text: i.Text}
}

// Messages converts a slice of issues to validation messages in order.
func Messages(issues []Issue) []models.ValidationMessage {
	out := make([]models.ValidationMessage, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message())
	}
	return out
}

func errorIssue(kind IssueKind, format string, args ...interface{}) Issue {
	return Issue{Kind: kind, Severity: models.SeverityError, Text: fmt.Sprintf(format, args...)}
}

// ParseFilename parses a file's base name against the naming convention and
// returns the structured record plus any findings. A nil record means the
// name failed structurally (spaces or no regex match); a non-nil record may
// still carry field-level issues.
//
// name must be a bare filename, not a path. sourcePath is stored on the
// record for reporting only.
func ParseFilename(sourcePath, name string, cfg *config.Config) (*models.ParsedFilename, []Issue) {
	conv := &cfg.Conventions

	if !conv.AllowSpaces && strings.Contains(name, " ") {
		return nil, []Issue{errorIssue(KindSpaceNotAllowed, "Spaces are not allowed in filename '%s'", name)}
	}

	groups := matchConvention(name, conv)
	if groups == nil {
		return nil, []Issue{errorIssue(KindPatternMismatch, "Filename '%s' does not match convention regex", name)}
	}

	parsed := &models.ParsedFilename{
		SourcePath:    sourcePath,
		Designation:   groups["des"],
		StageRaw:      groups["stage"],
		Discipline:    strings.ToUpper(groups["discipline"]),
		SheetType:     groups["sheet_type"],
		SheetRangeRaw: groups["sheet_range"],
		Ext:           strings.ToLower(groups["ext"]),
	}

	parsed.Stage = parsed.StageRaw
	if conv.StageCaseInsensitive {
		parsed.Stage = strings.ToLower(parsed.StageRaw)
	}

	var issues []Issue
	if parsed.Ext != "" && !conv.ExtensionAllowed(parsed.Ext) {
		issues = append(issues, errorIssue(KindExtensionNotAllowed, "Extension '%s' is not allowed", parsed.Ext))
	}

	if parsed.SheetRangeRaw != "" {
		start, end, rangeIssues := parseSheetRange(name, parsed.SheetRangeRaw, cfg.Checks.SheetNumbering)
		issues = append(issues, rangeIssues...)
		parsed.SheetStart = start
		parsed.SheetEnd = end
	}

	return parsed, issues
}

// matchConvention tries the primary regex and then each exception regex in
// declared order, returning the named groups of the first match or nil.
func matchConvention(name string, conv *config.Conventions) map[string]string {
	regexes := []*regexp.Regexp{conv.Compiled()}
	for i := range conv.Exceptions {
		regexes = append(regexes, conv.Exceptions[i].Compiled())
	}

	for _, re := range regexes {
		match := re.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		groups := make(map[string]string)
		for i, groupName := range re.SubexpNames() {
			if groupName != "" && i < len(match) {
				groups[groupName] = match[i]
			}
		}
		return groups
	}
	return nil
}

// parseSheetRange converts a raw range token into numeric start/end values.
// A bare number yields (start, nil); "start-end" yields both. Any non-digit
// component is reported and suppresses numeric derivation entirely, so
// downstream numbering checks never operate on garbage. Width mismatches are
// reported independently and do not suppress derivation.
func parseSheetRange(name, raw string, numbering config.SheetNumbering) (*int, *int, []Issue) {
	components := strings.SplitN(raw, "-", 2)

	var issues []Issue
	numeric := true
	values := make([]int, 0, 2)
	for _, component := range components {
		if !isAllDigits(component) {
			issues = append(issues, errorIssue(KindNonNumericSheet,
				"Sheet range component '%s' in '%s' is not numeric", component, name))
			numeric = false
			continue
		}
		if numbering.Enabled && numbering.Width > 0 && len(component) != numbering.Width {
			issues = append(issues, errorIssue(KindSheetWidthMismatch,
				"Sheet number '%s' in '%s' does not have the required width of %d digits", component, name, numbering.Width))
		}
		value, err := strconv.Atoi(component)
		if err != nil {
			// All-digit tokens of absurd length can still overflow.
			issues = append(issues, errorIssue(KindNonNumericSheet,
				"Sheet range component '%s' in '%s' is not numeric", component, name))
			numeric = false
			continue
		}
		values = append(values, value)
	}

	if !numeric {
		return nil, nil, issues
	}

	start := values[0]
	if len(values) == 1 {
		return &start, nil, issues
	}

	end := values[1]
	if start > end {
		issues = append(issues, errorIssue(KindInvertedRange,
			"Sheet range %s in '%s' is inverted (start > end)", raw, name))
	}
	return &start, &end, issues
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
