// Package cmd wires the submittal CLI: validation, packaging, reporting, and
// run history.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ExitError carries a process exit code through cobra's error return.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap exposes the wrapped error.
func (e *ExitError) Unwrap() error { return e.Err }

// Exit status codes. Validation warnings and errors get distinct codes so
// scripts can tell an advisory pass from a failed one.
const (
	ExitOK          = 0
	ExitWarnings    = 2
	ExitValidation  = 3
	ExitConfigError = 4
)

// NewRootCommand creates and returns the root cobra command for submittal
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submittal",
		Short: "Validate and package INDOT roadway plan submittals",
		Long: `Submittal validates a directory of engineering-plan files against a
configured naming convention and per-stage artifact checklist, then packages
conforming files into a labeled ZIP with manifest, checksums, and reports.

Exit codes: 0 clean, 2 warnings only, 3 validation errors, 4 configuration error.`,
		Version: Version,
		// main prints errors itself so exit-code errors stay quiet
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewPackageCommand())
	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewInitConfigCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
