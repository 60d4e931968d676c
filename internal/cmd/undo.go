package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediashelf/media-tidy/internal/log"
)

var undoCmd = &cobra.Command{
	Use:   "undo [session-id]",
	Short: "Undo a logged edit session",
	Long: `Revert the field updates recorded by a previous command. Without
arguments the most recent session is undone; pass a session ID (see
--list) to undo an older one. Changes whose entity has since left the
catalog are skipped and reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndoCommand,
}

var undoListOnly bool

func init() {
	undoCmd.Flags().BoolVar(&undoListOnly, "list", false, "List recent sessions instead of undoing")
	rootCmd.AddCommand(undoCmd)
}

// undoSessionFn is stubbed in tests.
var undoSessionFn = log.UndoSession

func runUndoCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if undoListOnly {
		return printSessionList()
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	var session *log.LogSession
	if len(args) == 1 {
		session, err = findSessionByID(args[0])
	} else {
		session, _, err = log.FindLatestSession()
	}
	if err != nil {
		return err
	}

	reverted, skipped, err := undoSessionFn(session, cat)
	if err != nil {
		return err
	}
	fmt.Printf("Reverted %d change(s) from session %s.\n", reverted, session.Metadata.SessionID)
	if skipped > 0 {
		fmt.Printf("Skipped %d change(s) whose entity is no longer in the catalog.\n", skipped)
	}
	return nil
}

func printSessionList() error {
	summaries, err := log.GetSessionSummaries()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No operation sessions found.")
		return nil
	}
	for _, s := range summaries {
		meta := s.Session.Metadata
		fmt.Printf("%s  %-12s %-14s %d op(s)\n",
			meta.SessionID, strings.Join(meta.CommandArgs, " "), s.RelativeTime, meta.TotalOps)
	}
	return nil
}

func findSessionByID(id string) (*log.LogSession, error) {
	summaries, err := log.GetSessionSummaries()
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		if s.Session.Metadata.SessionID == id {
			return s.Session, nil
		}
	}
	return nil, fmt.Errorf("session %s not found", id)
}
