package cmd

import (
	"fmt"

	"github.com/iptc-tools/pmdchecker/internal/check"
	"github.com/iptc-tools/pmdchecker/internal/config"
	"github.com/iptc-tools/pmdchecker/internal/exif"
	"github.com/iptc-tools/pmdchecker/internal/guide"
	"github.com/iptc-tools/pmdchecker/internal/pmd"
	"github.com/iptc-tools/pmdchecker/internal/runner"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var configPath string
	var filesDir string
	var compareValues bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report IPTC properties missing from test images",
		Long: `Check extracts the metadata of every image in the test directory and
compares it against the reference document. Properties present in the
reference but absent from an image are reported; with --compare-values,
changed property values are reported as well.

Results are written per image to the results directory and appended to the
shared run log. Checked images are moved to the backup directory.`,
		Example: `  # Report missing properties for all images in the workspace
  pmdchecker check

  # Also report values differing from the reference
  pmdchecker check --compare-values

  # Use another workspace and check four images at a time
  pmdchecker check --files ./campaign-2024 --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if filesDir != "" {
				cfg.FilesDir = filesDir
			}

			g, err := guide.Load(cfg.CheckGuidePath())
			if err != nil {
				return fmt.Errorf("failed to load property guide: %w", err)
			}
			ref, err := pmd.LoadFile(cfg.ReferencePath())
			if err != nil {
				return fmt.Errorf("failed to load reference document: %w", err)
			}

			opts := check.Options{Mode: check.ModeDivergence, CompareValues: compareValues}
			r := runner.New(cfg, g, ref, exif.NewTool(cfg.ExiftoolPath), opts, concurrency)
			return r.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	cmd.Flags().StringVar(&filesDir, "files", "", "Workspace directory (overrides the configured one)")
	cmd.Flags().BoolVar(&compareValues, "compare-values", false, "Also report property values that differ from the reference")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of images to process in parallel")

	return cmd
}
