package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mediashelf/media-tidy/internal/core"
)

func TestSessionLifecycle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Initialize(true, 30)

	StartSession("edit", []string{"1", "2"})
	LogFieldUpdate(1, core.FieldChannel, "HBO", "Netflix")
	LogFieldUpdate(1, core.FieldName, "a.mp4", "b.mp4")
	LogFieldUpdate(2, core.FieldYear, "", "2021")
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	session, path, err := FindLatestSession()
	if err != nil {
		t.Fatalf("FindLatestSession() error = %v", err)
	}
	if path == "" {
		t.Error("FindLatestSession() path is empty")
	}
	if got := session.Metadata.TotalOps; got != 3 {
		t.Errorf("TotalOps = %d, want 3", got)
	}
	if got := session.Metadata.Entities; got != 2 {
		t.Errorf("Entities = %d, want 2", got)
	}
	if got := session.Metadata.Renames; got != 1 {
		t.Errorf("Renames = %d, want 1", got)
	}
	if got := session.Operations[1].Type; got != OpRename {
		t.Errorf("name update logged as %q, want %q", got, OpRename)
	}
}

func TestEmptySessionNotWritten(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Initialize(true, 30)

	StartSession("edit", nil)
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ReadSessions() = %d sessions, want 0", len(sessions))
	}
}

func TestLoggingDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Initialize(false, 30)
	defer Initialize(true, 0)

	StartSession("edit", nil)
	LogFieldUpdate(1, core.FieldChannel, "a", "b")
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ReadSessions() = %d sessions with logging disabled, want 0", len(sessions))
	}
}

func TestReadSessionsLimitAndOrder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Initialize(true, 30)

	for _, id := range []string{"20240101_000000_000", "20240102_000000_000", "20240103_000000_000"} {
		session := &LogSession{
			Metadata:   SessionMetadata{SessionID: id, Timestamp: time.Now()},
			Operations: []OperationLog{{EntityID: 1, Field: core.FieldChannel}},
		}
		if err := WriteSession(session); err != nil {
			t.Fatalf("WriteSession(%s) error = %v", id, err)
		}
	}

	sessions, err := ReadSessions(2)
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ReadSessions(2) = %d sessions, want 2", len(sessions))
	}
	if got := sessions[0].Metadata.SessionID; got != "20240103_000000_000" {
		t.Errorf("newest session = %q, want %q", got, "20240103_000000_000")
	}
}

func TestCleanupOldLogs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Initialize(true, 0)

	session := &LogSession{
		Metadata:   SessionMetadata{SessionID: "20200101_000000_000", Timestamp: time.Now()},
		Operations: []OperationLog{{EntityID: 1, Field: core.FieldChannel}},
	}
	if err := WriteSession(session); err != nil {
		t.Fatalf("WriteSession() error = %v", err)
	}

	logDir, err := LogDir()
	if err != nil {
		t.Fatalf("LogDir() error = %v", err)
	}
	path := filepath.Join(logDir, "20200101_000000_000.json")
	old := time.Now().AddDate(0, 0, -60)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	Initialize(true, 30)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("stale log file survived cleanup: %v", err)
	}
}
