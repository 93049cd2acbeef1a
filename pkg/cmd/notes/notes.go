package notes

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
	"github.com/NEXN0/cirrus/internal/tui/notes"
)

func NewCmdNotes(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"n"},
		Short:   "Browse and edit your notes interactively.",
		Long: heredoc.Doc(`
			Open the notes interface: a live list of your notes beside a markdown
			editor and preview. Changes made elsewhere appear as they happen.
		`),
		Example: heredoc.Doc(`
			cirrus notes
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(s)
		},
	}

	return cmd
}

func run(s *state.State) error {
	return notes.Run(s)
}
