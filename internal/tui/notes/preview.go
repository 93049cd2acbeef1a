package notes

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const previewWordWrap = 100

// renderMarkdown styles note content for the preview pane.
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return helpStyle.Render("Nothing to preview yet.")
	}

	wrap := previewWordWrap
	if width > 0 && width < wrap {
		wrap = width
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return content
	}

	markdown, err := r.Render(content)
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
