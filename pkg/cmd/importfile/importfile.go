package importfile

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NEXN0/cirrus/internal/state"
)

func NewCmdImport(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import <path>...",
		Aliases: []string{"i"},
		Short:   "Import files as notes",
		Long: heredoc.Doc(`
			Import local files. Markdown and plain text become the note body,
			with the title taken from the first heading or the filename. Other
			files are uploaded to blob storage and referenced from a new note.
		`),
		Example: heredoc.Doc(`
			cirrus import plan.md
			cirrus import notes.txt diagram.png
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := s.Session.Current()
			if id == nil {
				return fmt.Errorf("not signed in; run: cirrus auth login")
			}

			for _, path := range args {
				n, err := s.Importer.ImportFile(context.Background(), id.ID, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				color.Green("Imported %q", n.DisplayTitle())
				if n.FileURL != "" {
					fmt.Printf("  uploaded to %s\n", n.FileURL)
				}
			}
			return nil
		},
	}

	return cmd
}
