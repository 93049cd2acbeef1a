package new

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdNew(s *state.State) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:     "new [title]",
		Aliases: []string{"c"},
		Short:   "Create a note from the command line",
		Long: heredoc.Doc(`
			Create a note without opening the interface. The title is taken from
			the arguments; a blank title becomes "Untitled". Timestamps are
			assigned by the server.
		`),
		Example: heredoc.Doc(`
			cirrus new "Q3 Plan"
			cirrus new "Standup" --content "- follow up on the release"
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := s.Session.Current()
			if id == nil {
				return fmt.Errorf("not signed in; run: cirrus auth login")
			}

			title := strings.Join(args, " ")
			n, err := s.Repo.Create(context.Background(), id.ID, title, content, nil)
			if err != nil {
				return err
			}

			color.Green("Created %q", n.DisplayTitle())
			fmt.Println(n.StringID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "note body")

	return cmd
}
