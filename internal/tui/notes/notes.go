// Package notes is the interactive surface: a live-updating list of the
// signed-in user's notes beside a markdown editor and preview.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NEXN0/cirrus/internal/editor"
	"github.com/NEXN0/cirrus/internal/note"
	"github.com/NEXN0/cirrus/internal/session"
	"github.com/NEXN0/cirrus/internal/state"
)

const updateBuffer = 16

type notesUpdatedMsg struct {
	notes []note.Note
}

type saveResultMsg struct {
	title string
	err   error
}

type deleteResultMsg struct {
	title string
	err   error
}

type importResultMsg struct {
	imported *note.Note
	err      error
}

type NoteListModel struct {
	list         list.Model
	keys         *listKeyMap
	delegateKeys *delegateKeyMap
	state        *state.State
	pane         *editPane
	importInput  textinput.Model
	updates      chan []note.Note
	preview      string
	width        int
	height       int
	editing      bool
	confirming   bool
	importing    bool
}

func NewNoteListModel(s *state.State) *NoteListModel {
	dkeys := newDelegateKeyMap()
	lkeys := newListKeyMap()
	delegate := newItemDelegate(dkeys)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Notes"
	l.Styles.Title = titleStyle

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			lkeys.openNote,
			lkeys.create,
			lkeys.importFile,
		}
	}
	l.AdditionalFullHelpKeys = lkeys.fullHelp

	in := textinput.New()
	in.Placeholder = "/path/to/file.md"
	in.Prompt = "> "

	return &NoteListModel{
		state:        s,
		list:         l,
		keys:         lkeys,
		delegateKeys: dkeys,
		pane:         newEditPane(),
		importInput:  in,
		updates:      make(chan []note.Note, updateBuffer),
	}
}

// Enqueue hands a fresh note set to the UI loop. Delivery never blocks the
// subscription; under backpressure the oldest pending set is dropped since
// every push carries the complete state.
func (m *NoteListModel) Enqueue(notes []note.Note) {
	for {
		select {
		case m.updates <- notes:
			return
		default:
			select {
			case <-m.updates:
			default:
			}
		}
	}
}

func waitForNotes(ch <-chan []note.Note) tea.Cmd {
	return func() tea.Msg {
		notes, ok := <-ch
		if !ok {
			return nil
		}
		return notesUpdatedMsg{notes: notes}
	}
}

func (m *NoteListModel) Init() tea.Cmd {
	return waitForNotes(m.updates)
}

func (m *NoteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize((msg.Width-h)/2, msg.Height-v)
		m.pane.setSize((msg.Width-h)/2, msg.Height-v)

	case notesUpdatedMsg:
		cmds = append(cmds, m.list.SetItems(toListItems(msg.notes)), waitForNotes(m.updates))
		m.handlePreview()
		return m, tea.Batch(cmds...)

	case saveResultMsg:
		m.list.NewStatusMessage(statusStyle(saveStatus(msg)))
		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Error deleting note: %v", msg.err)))
		} else {
			m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Deleted %q", msg.title)))
		}
		return m, nil

	case importResultMsg:
		if msg.err != nil {
			m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Import failed: %v", msg.err)))
			return m, nil
		}
		m.list.NewStatusMessage(statusStyle(fmt.Sprintf("Imported %q", msg.imported.DisplayTitle())))
		// The imported note opens for editing right away.
		m.state.Editor.Select(*msg.imported)
		m.editing = true
		return m, m.pane.load(m.state.Editor.Title(), m.state.Editor.Content())

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case m.confirming:
			return m.handleConfirmUpdate(msg)
		case m.importing:
			return m.handleImportUpdate(msg)
		case m.editing:
			return m.handleEditUpdate(msg)
		default:
			if model, cmd, handled := m.handleDefaultUpdate(msg); handled {
				return model, cmd
			}
		}
	}

	nl, cmd := m.list.Update(msg)
	m.list = nl
	cmds = append(cmds, cmd)

	m.handlePreview()
	return m, tea.Batch(cmds...)
}

func (m *NoteListModel) handleDefaultUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.openNote):
		if i, ok := m.list.SelectedItem().(ListItem); ok {
			m.state.Editor.Select(i.Note())
			m.editing = true
			return m, m.pane.load(m.state.Editor.Title(), m.state.Editor.Content()), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.create):
		m.state.Editor.NewNote()
		m.editing = true
		return m, m.pane.load("", ""), true

	case key.Matches(msg, m.keys.remove):
		if _, ok := m.list.SelectedItem().(ListItem); ok {
			m.confirming = true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.importFile):
		m.importing = true
		m.importInput.SetValue("")
		return m, m.importInput.Focus(), true

	case key.Matches(msg, m.keys.toggleHelpMenu):
		m.list.SetShowHelp(!m.list.ShowHelp())
		return m, nil, true

	case key.Matches(msg, m.keys.toggleStatusBar):
		m.list.SetShowStatusBar(!m.list.ShowStatusBar())
		return m, nil, true
	}

	return m, nil, false
}

func (m *NoteListModel) handleEditUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.exitAltView):
		m.editing = false
		m.pane.blur()
		m.handlePreview()
		return m, nil

	case key.Matches(msg, m.keys.cycleFocus):
		return m, m.pane.cycleFocus()

	case key.Matches(msg, m.keys.save):
		return m, m.saveNote()
	}

	cmd := m.pane.update(msg)
	m.state.Editor.SetTitle(m.pane.title.Value())
	m.state.Editor.SetContent(m.pane.content.Value())
	return m, cmd
}

func (m *NoteListModel) handleConfirmUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		if i, ok := m.list.SelectedItem().(ListItem); ok {
			return m, m.deleteNote(i.Note())
		}
		return m, nil
	case "n", "N", "esc":
		m.confirming = false
		m.list.NewStatusMessage(statusStyle("Delete cancelled"))
		return m, nil
	}
	return m, nil
}

func (m *NoteListModel) handleImportUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.exitAltView) {
		m.importing = false
		m.importInput.Blur()
		return m, nil
	}

	if key.Matches(msg, m.keys.submitAltView) {
		path := strings.TrimSpace(m.importInput.Value())
		m.importing = false
		m.importInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.importFile(path)
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m *NoteListModel) saveNote() tea.Cmd {
	return func() tea.Msg {
		saved, err := m.state.Editor.Save(context.Background())
		if err != nil {
			return saveResultMsg{err: err}
		}
		return saveResultMsg{title: saved.DisplayTitle()}
	}
}

func (m *NoteListModel) deleteNote(n note.Note) tea.Cmd {
	return func() tea.Msg {
		err := m.state.Repo.Delete(context.Background(), n.StringID())
		return deleteResultMsg{title: n.DisplayTitle(), err: err}
	}
}

func (m *NoteListModel) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		id := m.state.Session.Current()
		if id == nil {
			return importResultMsg{err: session.ErrNotSignedIn}
		}
		imported, err := m.state.Importer.ImportFile(context.Background(), id.ID, path)
		if err != nil {
			return importResultMsg{err: err}
		}
		return importResultMsg{imported: imported}
	}
}

func saveStatus(msg saveResultMsg) string {
	switch {
	case msg.err == nil:
		return fmt.Sprintf("Saved %q", msg.title)
	case errors.Is(msg.err, session.ErrNotSignedIn):
		return "Sign in first: cirrus auth login"
	default:
		var valErr *editor.ValidationError
		if errors.As(msg.err, &valErr) {
			return "Note is empty, nothing to save"
		}
		return fmt.Sprintf("Error saving note: %v", msg.err)
	}
}

func (m *NoteListModel) handlePreview() {
	if m.editing {
		m.preview = renderMarkdown(m.pane.content.Value(), m.width/2)
		return
	}
	if i, ok := m.list.SelectedItem().(ListItem); ok {
		m.preview = renderMarkdown(i.Note().Content, m.width/2)
	} else {
		m.preview = ""
	}
}

func (m *NoteListModel) View() string {
	left := listStyle.Width(m.width / 2).Render(m.list.View())

	if m.editing {
		header := "New note"
		if m.state.Editor.ID() != "" {
			header = "Editing"
		}
		if m.state.Editor.Dirty() {
			header += dirtyStyle.Render(" *")
		}
		right := previewStyle.Render(
			lipgloss.NewStyle().
				Height(m.list.Height()).
				MaxHeight(m.list.Height()).
				Render(m.pane.view(header)),
		)
		return appStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	}

	if m.confirming {
		title := ""
		if i, ok := m.list.SelectedItem().(ListItem); ok {
			title = i.Title()
		}
		prompt := textPromptStyle.Render(
			lipgloss.NewStyle().
				Height(m.list.Height()).
				MaxHeight(m.list.Height()).
				Padding(0, 2).
				Render(fmt.Sprintf("%s\n\n%s", titleStyle.Render(fmt.Sprintf("Delete %q?", title)), helpStyle.Render("y to delete, n to keep"))),
		)
		return appStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, prompt))
	}

	if m.importing {
		prompt := textPromptStyle.Render(
			lipgloss.NewStyle().
				Height(m.list.Height()).
				MaxHeight(m.list.Height()).
				Padding(0, 2).
				Render(fmt.Sprintf("%s\n\n%s\n\n%s", titleStyle.Render("Import a file"), m.importInput.View(), helpStyle.Render("markdown and text become the note body, anything else is uploaded"))),
		)
		return appStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, prompt))
	}

	preview := previewStyle.Render(
		lipgloss.NewStyle().
			Height(m.list.Height()).
			MaxHeight(m.list.Height()).
			MaxWidth(800).
			Render(fmt.Sprintf("%s\n%s", titleStyle.Render("Preview"), m.preview)),
	)
	return appStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, preview))
}

func Run(s *state.State) error {
	m := NewNoteListModel(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.WatchNotes(ctx, m.Enqueue)

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		if strings.Contains(err.Error(), "resource temporarily unavailable") {
			os.Exit(0)
		} else {
			log.Fatalf("Error running program: %v", err)
		}
	}

	return nil
}
