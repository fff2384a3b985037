package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "pmdchecker",
		Short: "Checks photo files for IPTC Photo Metadata properties",
		Long: `pmdchecker validates the IPTC Photo Metadata embedded in image files.

Metadata is extracted with ExifTool and compared against a canonical
reference document that carries every property of the standard. The check
mode reports properties missing from an image (and optionally changed
values); the investigate mode inventories every known property with its
IIM/XMP presence and value synchronization.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newInvestigateCmd())

	return cmd
}
