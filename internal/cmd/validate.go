package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harrison/submittal/internal/models"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var in validationInputs
	var mapFile string

	cmd := &cobra.Command{
		Use:   "validate <directory>",
		Short: "Validate a submittal directory against the configured stage",
		Long: `Validate parses every filename in the directory against the naming
convention, checks the stage's required artifacts, discipline codes, forms,
and sheet numbering, and reports errors and warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(in.logLevel)

			_, stageKey, outcome, err := runValidation(args[0], in, log)
			if err != nil {
				return err
			}

			printMessages(log, outcome)

			if mapFile != "" {
				if err := writeSheetMap(outcome.Result.Manifest, mapFile); err != nil {
					return err
				}
				log.Infof("Sheet map written to %s", mapFile)
			}

			recordHistory(log, args[0], stageKey, in, outcome, false)

			code := exitCode(outcome)
			switch code {
			case ExitOK:
				log.Successf("Validation passed: %d files, %d pages",
					outcome.Result.FileCount(), outcome.Result.TotalPages())
			case ExitWarnings:
				log.Warnf("Validation passed with %d warning(s)", len(outcome.Result.Warnings))
			default:
				log.Errorf("Validation failed with %d error(s)", len(outcome.Result.Errors))
			}
			if code != ExitOK {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.configPath, "config", "c", "submittal.yaml", "Path to the project configuration file")
	cmd.Flags().StringVarP(&in.stage, "stage", "s", "", "Stage to validate against (defaults to project.stage)")
	cmd.Flags().StringVarP(&in.out, "out", "o", "submittal_output", "Output directory (excluded from scanning)")
	cmd.Flags().StringVar(&in.ignoreFile, "ignore-file", "", "Ignore-pattern file (default <directory>/.spignore)")
	cmd.Flags().StringVar(&in.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&in.strict, "strict", false, "Escalate warnings to errors")
	cmd.Flags().IntVar(&in.workers, "workers", 0, "Concurrent PDF inspections (0 = default)")
	cmd.Flags().BoolVar(&in.noHistory, "no-history", false, "Skip recording the run in the history database")
	cmd.Flags().BoolVar(&in.noScan, "no-scan", false, "Disable PDF keyword scanning for this run")
	cmd.Flags().StringVar(&mapFile, "map", "", "Write a discipline/sheet-type map to this JSON file")

	return cmd
}

// sheetMapEntry summarizes one sheet type within a discipline.
type sheetMapEntry struct {
	Files  int      `json:"files"`
	Pages  int      `json:"pages"`
	Sheets []string `json:"sheets"`
}

// writeSheetMap groups manifest entries by discipline then sheet type and
// writes the result as JSON. Files without a discipline group under
// "UNASSIGNED".
func writeSheetMap(entries []models.ManifestEntry, path string) error {
	byDiscipline := make(map[string]map[string]*sheetMapEntry)
	for _, entry := range entries {
		discipline := entry.Discipline
		if discipline == "" {
			discipline = "UNASSIGNED"
		}
		sheetType := entry.SheetType
		if sheetType == "" {
			sheetType = "UNKNOWN"
		}
		if byDiscipline[discipline] == nil {
			byDiscipline[discipline] = make(map[string]*sheetMapEntry)
		}
		group := byDiscipline[discipline][sheetType]
		if group == nil {
			group = &sheetMapEntry{}
			byDiscipline[discipline][sheetType] = group
		}
		group.Files++
		group.Pages += entry.Pages
		if entry.SheetStart != nil {
			span := fmt.Sprintf("%d", *entry.SheetStart)
			if entry.SheetEnd != nil {
				span = fmt.Sprintf("%d-%d", *entry.SheetStart, *entry.SheetEnd)
			}
			group.Sheets = append(group.Sheets, span)
		}
	}

	for _, sheetTypes := range byDiscipline {
		for _, group := range sheetTypes {
			sort.Strings(group.Sheets)
		}
	}

	data, err := json.MarshalIndent(byDiscipline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sheet map: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write sheet map: %w", err)
	}
	return nil
}
