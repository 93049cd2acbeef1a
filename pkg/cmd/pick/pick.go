package pick

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/fzf"
	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdPick(s *state.State) *cobra.Command {
	var yank bool

	cmd := &cobra.Command{
		Use:     "pick [query]",
		Aliases: []string{"p", "f"},
		Short:   "Fuzzy-find a note and print it",
		Long: heredoc.Doc(`
			Fuzzy-search your notes by title with a live preview. The selected
			note's content is printed, or copied with --yank.
		`),
		Example: heredoc.Doc(`
			cirrus pick
			cirrus pick plan --yank
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := s.Session.Current()
			if id == nil {
				return fmt.Errorf("not signed in; run: cirrus auth login")
			}

			notes, err := s.Repo.List(context.Background(), id.ID)
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Println("No notes yet.")
				return nil
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			finder := fzf.NewFuzzyFinder("Pick a note")
			n, err := finder.Run(notes, query)
			if err != nil {
				return err
			}

			if yank {
				if err := clipboard.WriteAll(n.Content); err != nil {
					return err
				}
				fmt.Printf("Copied %q to clipboard\n", n.DisplayTitle())
				return nil
			}

			fmt.Println(n.Content)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yank, "yank", "y", false, "copy the content to the clipboard instead of printing")

	return cmd
}
