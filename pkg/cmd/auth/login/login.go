package login

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/NEXN0/cirrus/internal/state"
	"github.com/NEXN0/cirrus/pkg/cmd/auth/tui"
)

func NewCmdLogin(s *state.State) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "login",
		Aliases: []string{"l"},
		Short:   "Sign in to your account",
		Long: heredoc.Doc(`
			Sign in with your email and password. The session token is stored in
			the config file so later commands resume the session automatically.
		`),
		Example: heredoc.Doc(`
			cirrus auth login
			cirrus auth login --plain
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.Session.Current() != nil {
				fmt.Println(
					"You are already signed in. Run the logout command first if you'd like to change users.",
				)
				return nil
			}

			if plain {
				return loginPlain(s)
			}
			return tui.Login(s)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "prompt on stdin instead of the interactive form")

	return cmd
}

// loginPlain is the fallback for terminals where the form cannot run. The
// password is read with echo disabled.
func loginPlain(s *state.State) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	id, err := s.Session.SignIn(context.Background(), strings.TrimSpace(email), string(password))
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", id.Email)
	return nil
}
