package logout

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdLogout(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of your account",
		Long: heredoc.Doc(`
			Invalidate the current session and clear the stored token. The local
			token is cleared even when the server cannot be reached.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Session.SignOut(context.Background()); err != nil {
				fmt.Printf("Signed out locally; server sign-out failed: %v\n", err)
				return nil
			}
			fmt.Println("Successfully signed out.")
			return nil
		},
	}

	return cmd
}
