package notes

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	openNote        key.Binding
	create          key.Binding
	remove          key.Binding
	importFile      key.Binding
	yank            key.Binding
	save            key.Binding
	exitAltView     key.Binding
	submitAltView   key.Binding
	cycleFocus      key.Binding
	toggleHelpMenu  key.Binding
	toggleStatusBar key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		openNote: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		create: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "new note"),
		),
		remove: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		importFile: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import file"),
		),
		yank: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy content"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		exitAltView: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
		submitAltView: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit"),
		),
		cycleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch field"),
		),
		toggleHelpMenu: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle help"),
		),
		toggleStatusBar: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle status"),
		),
	}
}

func (m listKeyMap) fullHelp() []key.Binding {
	return []key.Binding{
		m.openNote,
		m.create,
		m.remove,
		m.importFile,
		m.yank,
		m.save,
		m.exitAltView,
		m.toggleHelpMenu,
		m.toggleStatusBar,
	}
}
