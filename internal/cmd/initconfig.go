package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/submittal/internal/config"
)

// NewInitConfigCommand creates the init-config command
func NewInitConfigCommand() *cobra.Command {
	var out string
	var force bool
	var preset string

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a starter configuration file",
		Long: `Init-config writes an example submittal.yaml with the standard naming
convention, a starter stage, and the default package layout. Use --preset to
seed the stage from an IDM checklist preset instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger("info")

			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", out)
			}

			cfg := config.Example()
			if preset != "" {
				available := config.AvailablePresets()
				found := false
				for _, name := range available {
					if name == preset {
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("unknown preset %q (available: %s)",
						preset, strings.Join(available, ", "))
				}
				cfg.Stages = map[string]config.Stage{
					preset: {Preset: preset},
				}
				cfg.Project.Stage = preset
			}

			if err := config.Save(cfg, out); err != nil {
				return err
			}
			log.Successf("Wrote starter configuration to %s", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "submittal.yaml", "Where to write the configuration")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&preset, "preset", "", "Seed the stage from an IDM preset (e.g. Stage1)")

	return cmd
}
