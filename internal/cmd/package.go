package cmd

import (
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/submittal/internal/packager"
	"github.com/harrison/submittal/internal/report"
)

// NewPackageCommand creates the package command
func NewPackageCommand() *cobra.Command {
	var in validationInputs
	var skipZip bool

	cmd := &cobra.Command{
		Use:   "package <directory>",
		Short: "Validate and package a submittal into a labeled ZIP",
		Long: `Package runs a full validation pass and, when no errors are found,
assembles the deliverable: checksums, CSV manifest, transmittal summary,
HTML report, and a ZIP laid out per the configured package folders.

Packaging refuses to run when validation reports errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(in.logLevel)

			cfg, stageKey, outcome, err := runValidation(args[0], in, log)
			if err != nil {
				return err
			}

			printMessages(log, outcome)

			if outcome.Result.HasErrors() {
				log.Errorf("Refusing to package: validation failed with %d error(s)",
					len(outcome.Result.Errors))
				return &ExitError{Code: ExitValidation}
			}

			unlock, err := packager.LockOutputDir(in.out)
			if err != nil {
				return err
			}
			defer unlock()

			des := cfg.Project.Designation
			rootFolder := packager.FormatName(cfg.Packaging.RootFolderFormat, des, stageKey)
			zipName := packager.FormatName(cfg.Packaging.ZipNameFormat, des, stageKey)

			log.Infof("Computing %s checksums for %d files", cfg.Packaging.ChecksumAlgo,
				outcome.Result.FileCount())
			if err := packager.FillChecksums(outcome.Result.Manifest, args[0], cfg.Packaging.ChecksumAlgo); err != nil {
				return err
			}
			packager.AssignPackagePaths(outcome.Result.Manifest, cfg.Packaging, rootFolder)

			// Generated artifacts go to the output directory on disk and into
			// the admin folder of the archive.
			genFolder := packager.FolderForGenerated(cfg.Packaging)
			generated := []packager.GeneratedFile{
				{Path: filepath.Join(in.out, "manifest.csv"), Label: "Manifest",
					ArchivePath: path.Join(rootFolder, genFolder, "manifest.csv")},
				{Path: filepath.Join(in.out, "transmittal.md"), Label: "Transmittal",
					ArchivePath: path.Join(rootFolder, genFolder, "transmittal.md")},
				{Path: filepath.Join(in.out, "report.html"), Label: "Validation report",
					ArchivePath: path.Join(rootFolder, genFolder, "report.html")},
			}
			if cfg.Packaging.IncludeChecksums {
				generated = append(generated, packager.GeneratedFile{
					Path: filepath.Join(in.out, "checksums.csv"), Label: "Checksums",
					ArchivePath: path.Join(rootFolder, genFolder, "checksums.csv")})
			}

			planned := make([]packager.GeneratedArtifact, len(generated))
			for i, gen := range generated {
				planned[i] = packager.GeneratedArtifact{Label: gen.Label, PackagePath: gen.ArchivePath}
			}
			overview := packager.BuildOverview(outcome.Result.Manifest, cfg.Packaging, rootFolder, planned)

			if err := packager.WriteManifestCSV(outcome.Result.Manifest,
				filepath.Join(in.out, "manifest.csv"), overview); err != nil {
				return err
			}
			if cfg.Packaging.IncludeChecksums {
				if err := packager.WriteChecksumsCSV(outcome.Result.Manifest,
					filepath.Join(in.out, "checksums.csv"), cfg.Packaging.ChecksumAlgo); err != nil {
					return err
				}
			}

			recordHistory(log, args[0], stageKey, in, outcome, true)

			data := report.Data{
				Project:     cfg.Project,
				Stage:       stageKey,
				GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
				RunID:       outcome.RunID,
				Result:      outcome.Result,
				Overview:    overview,
			}
			if err := report.WriteMarkdown(report.BuildTransmittalMarkdown(data),
				filepath.Join(in.out, "transmittal.md")); err != nil {
				return err
			}
			if err := report.WriteHTML(report.BuildReportMarkdown(data),
				"Validation Report "+des+" "+stageKey,
				filepath.Join(in.out, "report.html")); err != nil {
				return err
			}

			if !skipZip {
				zipEntries, _ := packager.BuildZipEntries(outcome.Result.Manifest, args[0], generated)
				zipPath := filepath.Join(in.out, zipName)
				log.Infof("Writing archive %s (%d entries)", zipPath, len(zipEntries))
				if err := packager.CreateZip(zipEntries, zipPath); err != nil {
					return err
				}
			}

			log.Successf("Packaged %d files (%d pages) into %s",
				outcome.Result.FileCount(), outcome.Result.TotalPages(), in.out)
			if outcome.Result.HasWarnings() {
				return &ExitError{Code: ExitWarnings}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.configPath, "config", "c", "submittal.yaml", "Path to the project configuration file")
	cmd.Flags().StringVarP(&in.stage, "stage", "s", "", "Stage to package (defaults to project.stage)")
	cmd.Flags().StringVarP(&in.out, "out", "o", "submittal_output", "Output directory for generated files and the ZIP")
	cmd.Flags().StringVar(&in.ignoreFile, "ignore-file", "", "Ignore-pattern file (default <directory>/.spignore)")
	cmd.Flags().StringVar(&in.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&in.strict, "strict", false, "Escalate warnings to errors (errors block packaging)")
	cmd.Flags().IntVar(&in.workers, "workers", 0, "Concurrent PDF inspections (0 = default)")
	cmd.Flags().BoolVar(&in.noHistory, "no-history", false, "Skip recording the run in the history database")
	cmd.Flags().BoolVar(&in.noScan, "no-scan", false, "Disable PDF keyword scanning for this run")
	cmd.Flags().BoolVar(&skipZip, "skip-zip", false, "Generate manifest and reports without creating the ZIP")

	return cmd
}
