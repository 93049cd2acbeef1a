package tui

import "github.com/charmbracelet/lipgloss"

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle  = focusedStyle.Copy()
	noStyle      = lipgloss.NewStyle()
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	focusedButton = focusedStyle.Copy().Render("[ Submit ]")
	blurredButton = blurredStyle.Copy().Render("[ Submit ]")
)
