package rm

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdRm(s *state.State) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note by id",
		Long: heredoc.Doc(`
			Delete the note with the given record id. Deleting a note that is
			already gone is not an error.
		`),
		Example: heredoc.Doc(`
			cirrus rm note:8j2f0a
			cirrus rm --force note:8j2f0a
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.Session.Current() == nil {
				return fmt.Errorf("not signed in; run: cirrus auth login")
			}

			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s? [y/N]: ", args[0])
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return err
				}
				if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := s.Repo.Delete(context.Background(), args[0]); err != nil {
				return err
			}

			color.Green("Deleted %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}
