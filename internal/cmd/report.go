package cmd

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/submittal/internal/config"
	"github.com/harrison/submittal/internal/models"
	"github.com/harrison/submittal/internal/packager"
	"github.com/harrison/submittal/internal/report"
)

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	var configPath string
	var out string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Regenerate the HTML report from a previously written manifest",
		Long: `Report rebuilds the HTML validation report from the manifest.csv in the
output directory, without rescanning or revalidating the source files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(logLevel)

			cfg, err := config.Load(configPath)
			if err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}

			entries, err := packager.ReadManifestCSV(filepath.Join(out, "manifest.csv"))
			if err != nil {
				return err
			}

			stage := cfg.Project.Stage
			if len(entries) > 0 && entries[0].Stage != "" {
				stage = entries[0].Stage
			}
			rootFolder := packager.FormatName(cfg.Packaging.RootFolderFormat,
				cfg.Project.Designation, stage)

			data := report.Data{
				Project:     cfg.Project,
				Stage:       stage,
				GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
				Result:      &models.ValidationResult{Manifest: entries},
				Overview:    packager.BuildOverview(entries, cfg.Packaging, rootFolder, nil),
			}

			target := filepath.Join(out, "report.html")
			if err := report.WriteHTML(report.BuildReportMarkdown(data),
				"Validation Report "+cfg.Project.Designation+" "+stage, target); err != nil {
				return err
			}
			log.Successf("Report regenerated at %s (%d files)", target, len(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "submittal.yaml", "Path to the project configuration file")
	cmd.Flags().StringVarP(&out, "out", "o", "submittal_output", "Output directory containing manifest.csv")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}
