package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mediashelf/media-tidy/internal/core"
	editui "github.com/mediashelf/media-tidy/internal/tui/edit"
)

var editCmd = &cobra.Command{
	Use:   "edit [ids...]",
	Short: "Edit entity metadata in an interactive batch session",
	Long: `Open the interactive editor over the given entities, or the whole catalog
when no IDs are given. Saving compiles the pending edits into a change-set,
applies it to the catalog and records a log session for undo; quitting
without saving discards everything.`,
	RunE: runEditCommand,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEditCommand(cmd *cobra.Command, args []string) error {
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

	model := editui.New(session, func(cs core.ChangeSet) (int, error) {
		return applyAndLog(cat, cs, "edit")
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*editui.Model); ok && m.Saved() >= 0 {
		fmt.Printf("Applied %d field change(s).\n", m.Saved())
		return nil
	}
	fmt.Println("No changes applied.")
	return nil
}
