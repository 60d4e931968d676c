package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "media-tidy",
	Short: "A tool for managing video file metadata",
	Long: `media-tidy maintains a catalog of video files with editable metadata.
It scans directories into the catalog, groups entries into originals and their
derivative edits, auto-formats canonical file names from metadata, and runs an
interactive batch editor whose saved changes are logged and can be undone.`,

	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var catalogPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the catalog file (defaults to the configured location)")
}
