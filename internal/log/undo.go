package log

import (
	"fmt"
	"time"

	"github.com/mediashelf/media-tidy/internal/catalog"
)

// SessionChanges converts a logged session back into catalog field changes,
// in the order they were applied.
func SessionChanges(session *LogSession) []catalog.FieldChange {
	changes := make([]catalog.FieldChange, 0, len(session.Operations))
	for _, op := range session.Operations {
		changes = append(changes, catalog.FieldChange{
			EntityID: op.EntityID,
			Field:    op.Field,
			Old:      op.OldValue,
			New:      op.NewValue,
		})
	}
	return changes
}

// UndoSession reverts every operation of a logged session against the
// catalog, newest first, and saves the catalog when anything was reverted.
// Entities that have left the catalog since the session ran are skipped and
// reported.
func UndoSession(session *LogSession, cat *catalog.Catalog) (reverted int, skipped int, err error) {
	r, missing := cat.RevertChanges(SessionChanges(session))
	if r > 0 {
		if err := cat.Save(); err != nil {
			return r, len(missing), fmt.Errorf("failed to save reverted catalog: %w", err)
		}
	}
	return r, len(missing), nil
}

// SessionSummary is a display-oriented view of a logged session.
type SessionSummary struct {
	Session      *LogSession
	Path         string
	RelativeTime string
}

// GetSessionSummaries lists recent sessions for the undo picker.
func GetSessionSummaries() ([]SessionSummary, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, f := range files {
		session, err := ReadSession(f)
		if err != nil {
			continue
		}
		summaries = append(summaries, SessionSummary{
			Session:      session,
			Path:         f,
			RelativeTime: relativeTime(session.Metadata.Timestamp),
		})
	}

	// Newest first.
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	return summaries, nil
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
