// Package models defines the shared data types produced and consumed by the
// validation pipeline: parsed filenames, manifest rows, and the severity
// classified message set returned to callers.
package models

import "fmt"

// Severity classifies a validation message.
type Severity int

const (
	// SeverityInfo is informational output that never affects exit status.
	SeverityInfo Severity = iota
	// SeverityWarning is advisory; strict mode escalates warnings to errors.
	SeverityWarning
	// SeverityError blocks packaging.
	SeverityError
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ValidationMessage is a single finding emitted by a validator.
// Messages are immutable values; ordering is insertion order.
type ValidationMessage struct {
	Severity Severity
	Text     string
}

// Errorf builds an error-severity message.
func Errorf(format string, args ...interface{}) ValidationMessage {
	return ValidationMessage{Severity: SeverityError, Text: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity message.
func Warnf(format string, args ...interface{}) ValidationMessage {
	return ValidationMessage{Severity: SeverityWarning, Text: fmt.Sprintf(format, args...)}
}

// ParsedFilename is the structured record extracted from a single filename.
// It is created once by the grammar matcher and immutable thereafter.
type ParsedFilename struct {
	// SourcePath is the original path the record was parsed from. Opaque
	// handle for reporting; never reparsed.
	SourcePath string

	Designation string
	// StageRaw preserves the stage token exactly as captured.
	StageRaw string
	// Stage is the normalized stage token (lowercased when the convention is
	// case-insensitive).
	Stage string
	// StageKey is the configured stage key the token resolved to, or empty
	// when the stage is not configured.
	StageKey   string
	Discipline string
	SheetType  string
	// SheetRangeRaw preserves the captured range token for reporting.
	SheetRangeRaw string
	// SheetStart and SheetEnd are nil when the range token is absent or
	// failed numeric parsing.
	SheetStart *int
	SheetEnd   *int
	Ext        string
}

// SheetCount derives the number of sheets covered by the parsed range.
// Returns 0 when no numeric range was extracted.
func (p *ParsedFilename) SheetCount() int {
	if p.SheetStart == nil {
		return 0
	}
	if p.SheetEnd == nil {
		return 1
	}
	return *p.SheetEnd - *p.SheetStart + 1
}

// ManifestEntry is one accepted file with its parsed metadata. The checksum
// and page count are filled in by the manifest builder.
type ManifestEntry struct {
	RelativePath      string
	SizeBytes         int64
	Pages             int
	Checksum          string
	ChecksumAlgorithm string
	Designation       string
	Stage             string
	Discipline        string
	SheetType         string
	SheetStart        *int
	SheetEnd          *int
	Ext               string
	// PackagePath is assigned by the packager when building the archive
	// layout; empty until then.
	PackagePath    string
	SourceModified string
}

// ValidationResult is the outcome of one validation run. It is mutated only
// through append operations during aggregation and treated as immutable once
// returned to callers.
type ValidationResult struct {
	Manifest []ManifestEntry
	Errors   []ValidationMessage
	Warnings []ValidationMessage
}

// Append routes messages into the error or warning list by severity.
// Info messages are dropped from the result; they are log output only.
func (r *ValidationResult) Append(messages ...ValidationMessage) {
	for _, msg := range messages {
		switch msg.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, msg)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, msg)
		}
	}
}

// HasErrors reports whether any error messages were collected.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any warning messages were collected.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Escalate moves every warning into the error list, preserving order, and
// clears the warning list. Used by strict mode. Calling it twice is a no-op.
func (r *ValidationResult) Escalate() {
	for _, warn := range r.Warnings {
		r.Errors = append(r.Errors, ValidationMessage{Severity: SeverityError, Text: warn.Text})
	}
	r.Warnings = nil
}

// FileCount returns the number of manifest entries.
func (r *ValidationResult) FileCount() int {
	return len(r.Manifest)
}

// TotalPages sums page counts across the manifest.
func (r *ValidationResult) TotalPages() int {
	total := 0
	for _, entry := range r.Manifest {
		total += entry.Pages
	}
	return total
}
