package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	exp "github.com/NEXN0/cirrus/internal/export"
	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdExport(s *state.State) *cobra.Command {
	var dir string
	var noCommit bool

	cmd := &cobra.Command{
		Use:     "export",
		Aliases: []string{"e"},
		Short:   "Export your notes to markdown files",
		Long: heredoc.Doc(`
			Write every note to a directory as markdown with YAML frontmatter
			and snapshot the result as a git commit. Running it again commits
			only what changed.
		`),
		Example: heredoc.Doc(`
			cirrus export
			cirrus export --dir ~/backups/notes --no-commit
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

			target := dir
			if target == "" {
				target = s.Exports
			}

			e := exp.New(target, s.Logger)
			paths, err := e.Export(notes)
			if err != nil {
				return err
			}
			color.Green("Exported %d notes to %s", len(paths), target)

			if noCommit {
				return nil
			}

			msg := fmt.Sprintf("export %s", time.Now().Format("2006-01-02 15:04"))
			hash, err := e.Commit(msg)
			if err != nil {
				if errors.Is(err, git.ErrEmptyCommit) {
					fmt.Println("Nothing changed since the last export.")
					return nil
				}
				return err
			}
			fmt.Printf("Committed as %s\n", hash[:8])
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "target directory (defaults to the configured export dir)")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "write files without committing")

	return cmd
}
