package root

import (
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/constants"
	"github.com/NEXN0/cirrus/internal/state"
	"github.com/NEXN0/cirrus/pkg/cmd/auth"
	"github.com/NEXN0/cirrus/pkg/cmd/export"
	"github.com/NEXN0/cirrus/pkg/cmd/importfile"
	"github.com/NEXN0/cirrus/pkg/cmd/new"
	"github.com/NEXN0/cirrus/pkg/cmd/notes"
	"github.com/NEXN0/cirrus/pkg/cmd/pick"
	"github.com/NEXN0/cirrus/pkg/cmd/rm"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "cirrus",
		Version: constants.Version,
		Short:   "Your notes, synced live, edited in the terminal.",
		Long: `A note-taking client backed by a live-synced database. Notes written
  here appear on your other devices as you type, and theirs appear here.

  cirrus auth login
  cirrus notes
  `,
		// Opening the notes interface is the default action.
		RunE: notes.NewCmdNotes(s).RunE,
	}

	cmd.AddCommand(
		auth.NewCmdAuth(s),
		notes.NewCmdNotes(s),
		new.NewCmdNew(s),
		rm.NewCmdRm(s),
		importfile.NewCmdImport(s),
		export.NewCmdExport(s),
		pick.NewCmdPick(s),
	)

	return cmd, nil
}
