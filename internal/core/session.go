package core

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// SessionState tracks the lifecycle of an EditSession.
type SessionState int

const (
	SessionEmpty  SessionState = iota // no entities loaded
	SessionOpen                       // snapshots captured, edits accumulating
	SessionClosed                     // terminal; committed or discarded
)

// ChangeSet is the minimal set of field deltas to submit, grouped by entity.
// Values are trimmed strings, except season and year which are coerced to
// int, or nil when the text does not parse as an integer.
type ChangeSet map[int]map[Field]any

// EditSession owns a working batch of entities plus pristine snapshots of
// their field values, and accumulates per-field diffs as the user edits. An
// edit entry exists if and only if the live value differs from the pristine
// value, so the compiled change-set is always minimal.
//
// Operations referencing an entity ID outside the session are silent no-ops:
// the surrounding UI can race entity removal against input events, and that
// race is benign.
//
// One mutex covers every operation. SetField's delete-when-clean bookkeeping
// and CompileChangeSet's read must observe a consistent edit map.
type EditSession struct {
	mu        sync.Mutex
	state     SessionState
	committed bool
	entities  map[int]*Entity
	pristine  map[int]map[Field]string
	edits     map[int]map[Field]string
}

// NewEditSession returns a session in the Empty state.
func NewEditSession() *EditSession {
	return &EditSession{
		entities: make(map[int]*Entity),
		pristine: make(map[int]map[Field]string),
		edits:    make(map[int]map[Field]string),
	}
}

// Open loads a batch of entities and captures one pristine snapshot per
// entity. Any pending edits from a previous batch are dropped; callers gate
// reopening over unsaved edits behind a confirmation using HasPendingEdits.
func (s *EditSession) Open(entities []*Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities = make(map[int]*Entity, len(entities))
	s.pristine = make(map[int]map[Field]string, len(entities))
	s.edits = make(map[int]map[Field]string)
	for _, e := range entities {
		s.entities[e.ID] = e
		s.pristine[e.ID] = e.snapshot()
	}
	s.state = SessionOpen
}

// State returns the session's lifecycle state.
func (s *EditSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Entity returns the working copy for id, or nil when not in the session.
func (s *EditSession) Entity(id int) *Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities[id]
}

// Entities returns the working copies in ID order.
func (s *EditSession) Entities() []*Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Pristine returns the snapshot value of field f for entity id.
func (s *EditSession) Pristine(id int, f Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pristine[id][f]
}

// SetField records an edit of field f on entity id. The raw value is
// trimmed and compared against the pristine snapshot: re-entering the
// original value deletes the edit entry (and the entity's whole edit map
// once its last entry goes), a different value upserts it. Returns whether
// the entity still has any pending edits, for dirty-indicator toggling.
func (s *EditSession) SetField(id int, f Field, raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFieldLocked(id, f, raw)
}

func (s *EditSession) setFieldLocked(id int, f Field, raw string) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}

	value := strings.TrimSpace(raw)
	e.SetFieldValue(f, value)

	if value == s.pristine[id][f] {
		if m, ok := s.edits[id]; ok {
			delete(m, f)
			if len(m) == 0 {
				delete(s.edits, id)
			}
		}
	} else {
		m, ok := s.edits[id]
		if !ok {
			m = make(map[Field]string)
			s.edits[id] = m
		}
		m[f] = value
	}
	return len(s.edits[id]) > 0
}

// UndoEntity restores every field of entity id to its pristine value and
// drops all of its edits. Other entities are untouched.
func (s *EditSession) UndoEntity(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[id]
	if !ok {
		return
	}
	for f, v := range s.pristine[id] {
		e.SetFieldValue(f, v)
	}
	delete(s.edits, id)
}

// ApplyToMany sets every non-empty field in values on each listed entity.
// Empty fields are left untouched everywhere (union-apply, not overwrite).
// Returns the number of entities that received at least one real change; an
// entity whose values already match contributes nothing to the count.
func (s *EditSession) ApplyToMany(ids []int, values map[Field]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, id := range ids {
		e, ok := s.entities[id]
		if !ok {
			continue
		}
		changed := false
		for f, v := range values {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if e.FieldValue(f) != strings.TrimSpace(v) {
				changed = true
			}
			s.setFieldLocked(id, f, v)
		}
		if changed {
			applied++
		}
	}
	return applied
}

// EntityDirty reports whether entity id has pending edits.
func (s *EditSession) EntityDirty(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits[id]) > 0
}

// Committed reports whether a closed session ended in a commit.
func (s *EditSession) Committed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == SessionClosed && s.committed
}

// HasPendingEdits reports whether any entity has pending edits.
func (s *EditSession) HasPendingEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits) > 0
}

// CompileChangeSet derives the change-set from the current edits. It is a
// pure read: compiling twice without intervening edits yields equal results,
// and the returned maps are detached from session state.
func (s *EditSession) CompileChangeSet() ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := make(ChangeSet, len(s.edits))
	for id, fields := range s.edits {
		m := make(map[Field]any, len(fields))
		for f, v := range fields {
			if numericFields[f] {
				if n, err := strconv.Atoi(v); err == nil {
					m[f] = n
				} else {
					m[f] = nil
				}
			} else {
				m[f] = v
			}
		}
		cs[id] = m
	}
	return cs
}

// Close transitions the session to its terminal state. Discarding pending
// edits is the caller's decision to confirm; the session just forgets them.
func (s *EditSession) Close(commit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = commit
	s.state = SessionClosed
	s.entities = make(map[int]*Entity)
	s.pristine = make(map[int]map[Field]string)
	s.edits = make(map[int]map[Field]string)
}
