package edit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mediashelf/media-tidy/internal/core"
	"github.com/mediashelf/media-tidy/internal/tui/theme"
)

// SaveFunc applies a compiled change-set to the backing store and returns
// the number of field changes that took effect. The model never touches the
// catalog directly; the command wires this in.
type SaveFunc func(core.ChangeSet) (int, error)

// Model is the interactive batch metadata editor. The left pane lists the
// session's entities with dirty markers; the right pane shows the selected
// entity's fields. All edits flow through the EditSession so pristine
// tracking, undo and change-set compilation behave exactly like they do for
// non-interactive commands.
type Model struct {
	session *core.EditSession
	save    SaveFunc
	theme   theme.Theme

	entities []*core.Entity
	cursor   int // selected entity
	fieldIdx int // selected field

	input   textinput.Model
	editing bool

	confirmingQuit bool
	status         string
	statusIsErr    bool
	saved          int // applied change count after save, -1 before
	width, height  int
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) { m.theme = th }
}

// New creates an editor over an open session. save is invoked when the user
// commits the batch.
func New(session *core.EditSession, save SaveFunc, opts ...Option) *Model {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 40

	m := &Model{
		session:  session,
		save:     save,
		theme:    theme.Default(),
		entities: session.Entities(),
		input:    input,
		saved:    -1,
		width:    100,
		height:   30,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Saved returns how many field changes a committed session applied, or -1
// when the session was not saved.
func (m *Model) Saved() int {
	return m.saved
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitInput()
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmingQuit {
		switch msg.String() {
		case "y", "Y":
			m.session.Close(false)
			return m, tea.Quit
		default:
			m.confirmingQuit = false
			return m, nil
		}
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entities)-1 {
			m.cursor++
		}
	case "tab", "right", "l":
		m.fieldIdx = (m.fieldIdx + 1) % len(core.EditableFields)
	case "shift+tab", "left", "h":
		m.fieldIdx = (m.fieldIdx - 1 + len(core.EditableFields)) % len(core.EditableFields)
	case "enter":
		m.startEditing()
	case "u":
		if e := m.current(); e != nil {
			m.session.UndoEntity(e.ID)
			m.setStatus(fmt.Sprintf("reverted %s", e.Name), false)
		}
	case "f":
		m.autoformatCurrent()
	case "a":
		m.applyFieldToAll()
	case "s":
		return m.saveSession()
	case "q", "esc", "ctrl+c":
		if m.session.HasPendingEdits() {
			m.confirmingQuit = true
			return m, nil
		}
		m.session.Close(false)
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) current() *core.Entity {
	if m.cursor < 0 || m.cursor >= len(m.entities) {
		return nil
	}
	return m.entities[m.cursor]
}

func (m *Model) startEditing() {
	e := m.current()
	if e == nil {
		return
	}
	m.editing = true
	m.input.SetValue(e.FieldValue(core.EditableFields[m.fieldIdx]))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) commitInput() {
	e := m.current()
	if e == nil {
		return
	}
	field := core.EditableFields[m.fieldIdx]
	dirty := m.session.SetField(e.ID, field, m.input.Value())
	m.editing = false
	m.input.Blur()
	if dirty {
		m.setStatus(fmt.Sprintf("%s updated", field), false)
	} else {
		m.setStatus("back to original value", false)
	}
}

func (m *Model) autoformatCurrent() {
	e := m.current()
	if e == nil {
		return
	}
	name, err := core.FormatName(e)
	switch {
	case errors.Is(err, core.ErrAlreadyFormatted):
		m.setStatus("already formatted", false)
	case errors.Is(err, core.ErrNoMetadata):
		m.setStatus("no metadata to format from", true)
	case err != nil:
		m.setStatus(err.Error(), true)
	default:
		m.session.SetField(e.ID, core.FieldName, name)
		m.setStatus(fmt.Sprintf("formatted to %s", name), false)
	}
}

// applyFieldToAll copies the selected field's value on the current entity to
// every entity in the batch.
func (m *Model) applyFieldToAll() {
	e := m.current()
	if e == nil {
		return
	}
	field := core.EditableFields[m.fieldIdx]
	if field == core.FieldName {
		m.setStatus("file names cannot be batch-applied", true)
		return
	}
	value := e.FieldValue(field)
	if strings.TrimSpace(value) == "" {
		m.setStatus("nothing to apply", true)
		return
	}

	ids := make([]int, 0, len(m.entities))
	for _, other := range m.entities {
		ids = append(ids, other.ID)
	}
	n := m.session.ApplyToMany(ids, map[core.Field]string{field: value})
	m.setStatus(fmt.Sprintf("applied %s to %d entities", field, n), false)
}

func (m *Model) saveSession() (tea.Model, tea.Cmd) {
	cs := m.session.CompileChangeSet()
	if len(cs) == 0 {
		m.setStatus("no pending edits", false)
		return m, nil
	}
	applied, err := m.save(cs)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.session.Close(true)
	m.saved = applied
	return m, tea.Quit
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusIsErr = isErr
}

func (m *Model) View() string {
	if m.confirmingQuit {
		return m.theme.HeaderStyle().Render("media-tidy edit") + "\n\n" +
			m.theme.ErrorStyle().Render("Discard pending edits? (y/N)") + "\n"
	}

	header := m.theme.HeaderStyle().Render("media-tidy edit")
	list := m.renderList()
	fields := m.renderFields()
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, fields)

	status := m.status
	if status == "" {
		status = "↑/↓ entity · tab field · enter edit · u undo · f format · a apply-all · s save · q quit"
	}
	statusStyle := m.theme.StatusBarStyle()
	if m.statusIsErr {
		statusStyle = m.theme.ErrorStyle().Padding(0, 1)
	}

	return strings.Join([]string{header, body, statusStyle.Render(status)}, "\n")
}

func (m *Model) renderList() string {
	nameWidth := m.width/2 - 6
	if nameWidth < 16 {
		nameWidth = 16
	}

	var b strings.Builder
	for i, e := range m.entities {
		marker := "  "
		if m.session.EntityDirty(e.ID) {
			marker = m.theme.DirtyStyle().Render("● ")
		}
		name := runewidth.Truncate(e.Name, nameWidth, "…")
		line := marker + name
		if i == m.cursor {
			line = m.theme.SelectedStyle().Render("> ") + marker + name
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return m.theme.PanelStyle().Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderFields() string {
	e := m.current()
	if e == nil {
		return m.theme.PanelStyle().Padding(0, 1).Render(m.theme.MutedStyle().Render("no entities"))
	}

	var b strings.Builder
	for i, f := range core.EditableFields {
		label := fmt.Sprintf("%-13s", f)
		value := e.FieldValue(f)
		if value != m.session.Pristine(e.ID, f) {
			label = m.theme.DirtyStyle().Render(label)
		}
		if i == m.fieldIdx {
			if m.editing {
				b.WriteString(m.theme.SelectedStyle().Render(label) + " " + m.input.View() + "\n")
				continue
			}
			b.WriteString(m.theme.SelectedStyle().Render(label+" "+value) + "\n")
			continue
		}
		b.WriteString(label + " " + value + "\n")
	}
	return m.theme.PanelStyle().Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}
