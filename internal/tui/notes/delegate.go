package notes

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type delegateKeyMap struct {
	yank key.Binding
}

func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		yank: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy content"),
		),
	}
}

func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = selectedItemStyle
	d.Styles.SelectedDesc = selectedItemStyle

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		i, ok := m.SelectedItem().(ListItem)
		if !ok {
			return nil
		}

		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, keys.yank) {
				if err := clipboard.WriteAll(i.note.Content); err != nil {
					return m.NewStatusMessage(statusStyle("Failed to copy content to clipboard"))
				}
				return m.NewStatusMessage(statusStyle(fmt.Sprintf("Copied %q to clipboard", i.Title())))
			}
		}

		return nil
	}

	d.ShortHelpFunc = func() []key.Binding {
		return []key.Binding{keys.yank}
	}
	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{{keys.yank}}
	}

	return d
}
