package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/NEXN0/cirrus/internal/note"
)

type ListItem struct {
	note note.Note
}

func (i ListItem) Title() string {
	return i.note.DisplayTitle()
}

func (i ListItem) Description() string {
	description := ""

	if !i.note.Modified().IsZero() {
		description += fmt.Sprintf("Modified: %s", i.note.Modified().Local().Format("2006-01-02 15:04"))
	}
	if i.note.ImportedFromFile {
		if description != "" {
			description += " "
		}
		description += fmt.Sprintf("[imported: %s]", i.note.FileName)
	}
	if description == "" {
		description = "No activity yet"
	}

	return description
}

func (i ListItem) FilterValue() string {
	parts := []string{i.note.DisplayTitle(), i.note.Content}
	if i.note.FileName != "" {
		parts = append(parts, i.note.FileName)
	}
	return strings.Join(parts, " ")
}

func (i ListItem) Note() note.Note {
	return i.note
}

func toListItems(notes []note.Note) []list.Item {
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, ListItem{note: n})
	}
	return items
}
