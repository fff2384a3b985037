package cmd

import (
	"fmt"

	"github.com/iptc-tools/pmdchecker/internal/check"
	"github.com/iptc-tools/pmdchecker/internal/config"
	"github.com/iptc-tools/pmdchecker/internal/exif"
	"github.com/iptc-tools/pmdchecker/internal/guide"
	"github.com/iptc-tools/pmdchecker/internal/runner"
	"github.com/spf13/cobra"
)

func newInvestigateCmd() *cobra.Command {
	var configPath string
	var filesDir string
	var writeParquet bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "investigate",
		Short: "Inventory every IPTC property of test images",
		Long: `Investigate walks the full property set of the technical guide and writes
one classified row per property for every image: User Guide topic, sort
order, property names per nesting level, IIM and XMP presence, and whether
the IIM and XMP values are in sync.

Rows are written as CSV per image; --parquet additionally writes the same
rows as a Parquet file for downstream tooling.`,
		Example: `  # Inventory all images in the workspace
  pmdchecker investigate

  # Also produce Parquet output
  pmdchecker investigate --parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if filesDir != "" {
				cfg.FilesDir = filesDir
			}
			if cfg.TechGuide == "" {
				return fmt.Errorf("investigate requires a technical guide, none configured")
			}

			g, err := guide.Load(cfg.InventoryGuidePath())
			if err != nil {
				return fmt.Errorf("failed to load technical guide: %w", err)
			}
			if g.TopProperties() == nil {
				return check.ErrNoInventoryGuide
			}

			opts := check.Options{Mode: check.ModeInventory}
			r := runner.New(cfg, g, nil, exif.NewTool(cfg.ExiftoolPath), opts, concurrency)
			r.WriteParquet(writeParquet)
			return r.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	cmd.Flags().StringVar(&filesDir, "files", "", "Workspace directory (overrides the configured one)")
	cmd.Flags().BoolVar(&writeParquet, "parquet", false, "Also write inventory rows as Parquet")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of images to process in parallel")

	return cmd
}
