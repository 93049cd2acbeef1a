// Package fzf provides fuzzy selection over the user's notes with a styled
// markdown preview.
package fzf

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/NEXN0/cirrus/internal/note"
)

// FuzzyFinder encapsulates the fuzzy finder functionality
type FuzzyFinder struct {
	Header string
	notes  []note.Note
}

func NewFuzzyFinder(header string) *FuzzyFinder {
	return &FuzzyFinder{Header: header}
}

// Run selects one note and returns it. An aborted selection is an error.
func (f *FuzzyFinder) Run(notes []note.Note, query string) (*note.Note, error) {
	f.notes = notes

	idx, err := f.find(query)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(f.notes) {
		return nil, fmt.Errorf("no note selected")
	}

	selected := f.notes[idx]
	return &selected, nil
}

func (f *FuzzyFinder) find(query string) (int, error) {
	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}

	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}

	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	return fuzzyfinder.Find(f.notes, func(i int) string {
		n := &f.notes[i]
		if n.ImportedFromFile {
			return fmt.Sprintf("%s [from %s]", n.DisplayTitle(), n.FileName)
		}
		return n.DisplayTitle()
	}, options...)
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i < 0 || i >= len(f.notes) {
		return ""
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(w),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(f.notes[i].Content)
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
