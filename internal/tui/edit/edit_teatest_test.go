package edit

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/mediashelf/media-tidy/internal/core"
)

func startEditTestModel(t *testing.T, m *Model) *teatest.TestModel {
	t.Helper()
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))
	t.Cleanup(func() {
		_ = tm.Quit()
	})
	return tm
}

func TestEditorRendersAndQuits(t *testing.T) {
	session := testSession()
	m := New(session, func(core.ChangeSet) (int, error) { return 0, nil })
	tm := startEditTestModel(t, m)

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("alpha.mp4"))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(25*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

func TestEditorDiscardFlow(t *testing.T) {
	session := testSession()
	session.SetField(1, core.FieldChannel, "Netflix")
	m := New(session, func(core.ChangeSet) (int, error) { return 0, nil })
	tm := startEditTestModel(t, m)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Discard pending edits?"))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(25*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if session.State() != core.SessionClosed {
		t.Error("session not closed after discard")
	}
}
