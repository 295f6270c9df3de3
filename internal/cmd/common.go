package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/fileutil"
	"github.com/harrison/submittal/internal/history"
	"github.com/harrison/submittal/internal/logger"
	"github.com/harrison/submittal/internal/models"
	"github.com/harrison/submittal/internal/pdfinfo"
	"github.com/harrison/submittal/internal/validate"
)

// defaultIgnoreFile is looked up relative to the validation root when no
// --ignore-file is given.
const defaultIgnoreFile = ".spignore"

// historyDBName is the run-history database inside the output directory.
const historyDBName = "history.db"

// validationInputs are the shared flags of validate and package.
type validationInputs struct {
	configPath string
	stage      string
	out        string
	ignoreFile string
	logLevel   string
	strict     bool
	workers    int
	noHistory  bool
	noScan     bool
}

// validationOutcome wraps the engine result so command-level bookkeeping
// (scanned files, history run id) travels with it.
type validationOutcome struct {
	Result *models.ValidationResult
	Files  []fileutil.FileInfo
	RunID  string
}

// runValidation loads configuration, enumerates candidate files, and executes
// one validation pass. Configuration problems come back as ExitError with
// ExitConfigError so main can map them to exit code 4.
func runValidation(root string, in validationInputs, log *logger.ConsoleLogger) (*config.Config, string, *validationOutcome, error) {
	cfg, err := config.Load(in.configPath)
	if err != nil {
		return nil, "", nil, &ExitError{Code: ExitConfigError, Err: err}
	}
	if in.noScan {
		cfg.Checks.PDFTextScan.Enabled = false
	}

	stage := in.stage
	if stage == "" {
		stage = cfg.Project.Stage
	}
	if stage == "" {
		return nil, "", nil, &ExitError{Code: ExitConfigError,
			Err: fmt.Errorf("no stage given: pass --stage or set project.stage in the config")}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	ignoreFile := in.ignoreFile
	if ignoreFile == "" {
		ignoreFile = filepath.Join(absRoot, defaultIgnoreFile)
	}

	files, err := fileutil.ScanDirectory(absRoot, fileutil.ScanOptions{
		IgnoreFile: ignoreFile,
		Exclude:    []string{in.configPath, in.out},
	})
	if err != nil {
		return nil, "", nil, err
	}
	log.Debugf("Found %d candidate files under %s", len(files), absRoot)

	candidates := make([]validate.Candidate, len(files))
	for i, f := range files {
		candidates[i] = validate.Candidate{
			Path:      f.Path,
			RelPath:   f.RelPath,
			Name:      f.Name,
			SizeBytes: f.SizeBytes,
			Modified:  f.Modified.Format("2006-01-02T15:04:05Z"),
		}
	}

	result := validate.Run(candidates, cfg, stage, pdfinfo.NewService(), validate.Options{
		Strict:  in.strict,
		Workers: in.workers,
	})

	stageKey, _, ok := cfg.ResolveStage(stage)
	if !ok {
		stageKey = stage
	}

	return cfg, stageKey, &validationOutcome{Result: result, Files: files}, nil
}

// printMessages writes every finding through the logger, errors before
// warnings, each list in its aggregated order.
func printMessages(log *logger.ConsoleLogger, outcome *validationOutcome) {
	for _, msg := range outcome.Result.Errors {
		log.Errorf("%s", msg.Text)
	}
	for _, msg := range outcome.Result.Warnings {
		log.Warnf("%s", msg.Text)
	}
}

// recordHistory appends the run to the local history database. History is
// best effort: a failure is logged, never fatal.
func recordHistory(log *logger.ConsoleLogger, root, stage string, in validationInputs, outcome *validationOutcome, packaged bool) {
	if in.noHistory {
		return
	}
	store, err := history.NewStore(filepath.Join(in.out, historyDBName))
	if err != nil {
		log.Warnf("Could not open history database: %v", err)
		return
	}
	defer store.Close()

	runID, err := store.RecordRun(context.Background(), history.Run{
		Root:     root,
		Stage:    stage,
		Strict:   in.strict,
		Files:    outcome.Result.FileCount(),
		Pages:    outcome.Result.TotalPages(),
		Errors:   len(outcome.Result.Errors),
		Warnings: len(outcome.Result.Warnings),
		Packaged: packaged,
	})
	if err != nil {
		log.Warnf("Could not record run history: %v", err)
		return
	}
	outcome.RunID = runID
}

// exitCode maps a finished validation to the process exit status.
func exitCode(outcome *validationOutcome) int {
	if outcome.Result.HasErrors() {
		return ExitValidation
	}
	if outcome.Result.HasWarnings() {
		return ExitWarnings
	}
	return ExitOK
}

func newLogger(level string) *logger.ConsoleLogger {
	return logger.New(os.Stdout, level)
}
