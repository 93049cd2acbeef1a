package notes

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editFocus int

const (
	focusTitle editFocus = iota
	focusContent
)

// editPane holds the two input widgets of the writing surface. The buffers
// of record are in the editor; this only renders and collects keystrokes.
type editPane struct {
	title   textinput.Model
	content textarea.Model
	focus   editFocus
}

func newEditPane() *editPane {
	t := textinput.New()
	t.Placeholder = "Title"
	t.CharLimit = 256
	t.Prompt = "# "

	c := textarea.New()
	c.Placeholder = "Write your note..."
	c.CharLimit = 0

	return &editPane{title: t, content: c}
}

func (p *editPane) load(title, content string) tea.Cmd {
	p.title.SetValue(title)
	p.content.SetValue(content)
	return p.setFocus(focusTitle)
}

func (p *editPane) setFocus(f editFocus) tea.Cmd {
	p.focus = f
	if f == focusTitle {
		p.content.Blur()
		return p.title.Focus()
	}
	p.title.Blur()
	return p.content.Focus()
}

func (p *editPane) cycleFocus() tea.Cmd {
	if p.focus == focusTitle {
		return p.setFocus(focusContent)
	}
	return p.setFocus(focusTitle)
}

func (p *editPane) blur() {
	p.title.Blur()
	p.content.Blur()
}

func (p *editPane) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	p.title, cmd = p.title.Update(msg)
	cmds = append(cmds, cmd)
	p.content, cmd = p.content.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (p *editPane) setSize(width, height int) {
	p.title.Width = width - 4
	p.content.SetWidth(width)
	if height > 4 {
		p.content.SetHeight(height - 4)
	}
}

func (p *editPane) view(header string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(header),
		p.title.View(),
		"",
		p.content.View(),
	)
}
