package register

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
	"github.com/NEXN0/cirrus/pkg/cmd/auth/tui"
)

func NewCmdRegister(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"r"},
		Short:   "Create a new account",
		Long: heredoc.Doc(`
			Create an account with an email and password and sign in with it.
			Passwords shorter than 8 characters are rejected.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.Session.Current() != nil {
				fmt.Println(
					"You are already signed in. Run the logout command first if you'd like to change users.",
				)
				return nil
			}
			return tui.Register(s)
		},
	}

	return cmd
}
