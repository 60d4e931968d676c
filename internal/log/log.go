package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mediashelf/media-tidy/internal/core"
)

type OperationType string

const (
	OpFieldUpdate OperationType = "field_update"
	OpRename      OperationType = "rename"
)

// OperationLog records one applied field delta. Rename operations are field
// updates of the file name; they get their own type so summaries can count
// them separately.
type OperationLog struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      OperationType `json:"type"`
	EntityID  int           `json:"entity_id"`
	Field     core.Field    `json:"field"`
	OldValue  string        `json:"old_value"`
	NewValue  string        `json:"new_value"`
}

type SessionMetadata struct {
	CommandArgs []string  `json:"command_args"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	TotalOps    int       `json:"total_operations"`
	Entities    int       `json:"entities_changed"`
	Renames     int       `json:"renames"`
}

type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

// Global singleton session manager, one session per command invocation.
var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = true
)

// Initialize sets up the logging system and prunes logs past retention.
func Initialize(enabled bool, retentionDays int) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	loggingEnabled = enabled
	if enabled {
		if err := cleanupOldLogs(retentionDays); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to clean up old logs: %v\n", err)
		}
	}
}

// StartSession initializes a new logging session.
func StartSession(command string, args []string) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return
	}

	now := time.Now()
	sessionID := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000)
	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			Timestamp:   now,
			SessionID:   sessionID,
		},
		Operations: []OperationLog{},
	}
}

// EndSession saves the current session to disk. Sessions without operations
// are dropped rather than written.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	session := currentSession
	currentSession = nil
	if len(session.Operations) == 0 {
		return nil
	}

	updateStats(session)
	return WriteSession(session)
}

// LogFieldUpdate logs one applied field change.
func LogFieldUpdate(entityID int, field core.Field, oldValue, newValue string) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	opType := OpFieldUpdate
	if field == core.FieldName {
		opType = OpRename
	}
	op := OperationLog{
		ID:        fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Operations)),
		Timestamp: time.Now(),
		Type:      opType,
		EntityID:  entityID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
	}
	currentSession.Operations = append(currentSession.Operations, op)
}

func updateStats(session *LogSession) {
	entities := map[int]bool{}
	renames := 0
	for _, op := range session.Operations {
		entities[op.EntityID] = true
		if op.Type == OpRename {
			renames++
		}
	}
	session.Metadata.TotalOps = len(session.Operations)
	session.Metadata.Entities = len(entities)
	session.Metadata.Renames = renames
}

// LogDir returns the log directory, creating it when missing.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	logDir := filepath.Join(homeDir, ".media-tidy", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return logDir, nil
}

// WriteSession writes one session file named after its timestamp.
func WriteSession(session *LogSession) error {
	if session == nil {
		return nil
	}
	logDir, err := LogDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	path := filepath.Join(logDir, session.Metadata.SessionID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

// ReadSession loads one session file.
func ReadSession(path string) (*LogSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// ReadSessions returns up to limit sessions, newest first. limit <= 0 means
// all sessions.
func ReadSessions(limit int) ([]*LogSession, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	// File names embed the session timestamp; reverse-sorting yields newest
	// first.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*LogSession, 0, len(files))
	for _, f := range files {
		session, err := ReadSession(f)
		if err != nil {
			continue // skip corrupt log files
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// FindLatestSession returns the most recent session and its file path.
func FindLatestSession() (*LogSession, string, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("no sessions found")
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	session, err := ReadSession(files[0])
	if err != nil {
		return nil, "", err
	}
	return session, files[0], nil
}

func sessionFiles() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	logDir := filepath.Join(homeDir, ".media-tidy", "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	return files, nil
}

// cleanupOldLogs removes session files older than retentionDays.
func cleanupOldLogs(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	files, err := sessionFiles()
	if err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(f)
		}
	}
	return nil
}
