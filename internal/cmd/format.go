package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediashelf/media-tidy/internal/core"
)

var formatCmd = &cobra.Command{
	Use:   "format [ids...]",
	Short: "Auto-format canonical file names from metadata",
	Long: `Build a canonical file name for each entity from its metadata: display
name, season, episode, year, resolution and channel, joined with underscores
and keeping the current extension.

Without --apply the renames are previewed only. With --apply they run through
an edit session so every rename lands in the operation log and can be undone.
Entities with no metadata or an already canonical name are skipped.`,
	RunE: runFormatCommand,
}

var formatApply bool

func init() {
	formatCmd.Flags().BoolVar(&formatApply, "apply", false, "Apply the renames instead of previewing them")
	rootCmd.AddCommand(formatCmd)
}

func runFormatCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	session, err := sessionFor(cat, args)
	if err != nil {
		return err
	}

	var formatted, canonical, noMetadata int
	for _, e := range session.Entities() {
		name, err := core.FormatName(e)
		switch {
		case errors.Is(err, core.ErrAlreadyFormatted):
			canonical++
			continue
		case errors.Is(err, core.ErrNoMetadata):
			noMetadata++
			fmt.Printf("  ? %s (no metadata)\n", e.Name)
			continue
		case err != nil:
			session.Close(false)
			return err
		}
		fmt.Printf("  %s -> %s\n", e.Name, name)
		session.SetField(e.ID, core.FieldName, name)
		formatted++
	}

	if formatted == 0 {
		session.Close(false)
		fmt.Printf("Nothing to format (%d already canonical, %d without metadata).\n", canonical, noMetadata)
		return nil
	}
	if !formatApply {
		session.Close(false)
		fmt.Printf("%d rename(s) pending. Re-run with --apply to write them to the catalog.\n", formatted)
		return nil
	}

	cs := session.CompileChangeSet()
	applied, err := applyAndLog(cat, cs, "format")
	if err != nil {
		session.Close(false)
		return err
	}
	session.Close(true)
	fmt.Printf("Applied %d rename(s) (%d already canonical, %d without metadata).\n", applied, canonical, noMetadata)
	return nil
}
