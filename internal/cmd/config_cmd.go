package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediashelf/media-tidy/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	Long: `Print the configuration file location and the active settings,
defaults filled in. With --init the resolved configuration is written
out so it can be edited.`,
	Args: cobra.NoArgs,
	RunE: runConfigCommand,
}

var configInit bool

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the resolved configuration to disk")
	rootCmd.AddCommand(configCmd)
}

func runConfigCommand(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if configInit {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	catPath := catalogPath
	if catPath == "" {
		if catPath, err = cfg.ResolveCatalogPath(); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Config:  %s\nCatalog: %s\n%s\n", path, catPath, out)
	return nil
}
