package auth

import (
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
	"github.com/NEXN0/cirrus/pkg/cmd/auth/check"
	"github.com/NEXN0/cirrus/pkg/cmd/auth/login"
	"github.com/NEXN0/cirrus/pkg/cmd/auth/logout"
	"github.com/NEXN0/cirrus/pkg/cmd/auth/register"
)

func NewCmdAuth(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"a"},
		Short:   "Manage your account session.",
	}

	cmd.AddCommand(register.NewCmdRegister(s))
	cmd.AddCommand(login.NewCmdLogin(s))
	cmd.AddCommand(logout.NewCmdLogout(s))
	cmd.AddCommand(check.NewCmdCheck(s))

	return cmd
}
