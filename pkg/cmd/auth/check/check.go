package check

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdCheck(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show the current session",
		Long: heredoc.Doc(`
			Report whether a session is active and which identity it belongs to.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := s.Session.Current()
			if id == nil {
				color.Yellow("Not signed in.")
				fmt.Println("Run: cirrus auth login")
				return nil
			}

			color.Green("Signed in.")
			if id.Email != "" {
				fmt.Printf("Email: %s\n", id.Email)
			}
			fmt.Printf("User:  %s\n", id.ID)
			return nil
		},
	}

	return cmd
}
