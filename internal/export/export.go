// Package export writes notes out as markdown files with YAML frontmatter
// and records each export as a commit in a local git repository.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/NEXN0/cirrus/internal/note"
)

type frontmatter struct {
	ID        string    `yaml:"id,omitempty"`
	Title     string    `yaml:"title"`
	CreatedAt time.Time `yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `yaml:"updatedAt,omitempty"`
	FileName  string    `yaml:"fileName,omitempty"`
	FileURL   string    `yaml:"fileUrl,omitempty"`
}

type Exporter struct {
	dir string
	log zerolog.Logger
}

func New(dir string, log zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, log: log}
}

// Export writes every note to the target directory, one markdown file each,
// and returns the written paths. Title collisions are disambiguated with the
// record key.
func (e *Exporter) Export(notes []note.Note) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	taken := make(map[string]bool)
	paths := make([]string, 0, len(notes))
	for i := range notes {
		n := &notes[i]

		name := slugify(n.DisplayTitle())
		if taken[name] {
			name = fmt.Sprintf("%s-%s", name, recordKey(n.StringID()))
		}
		taken[name] = true

		path := filepath.Join(e.dir, name+".md")
		data, err := render(n)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", n.DisplayTitle(), err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	e.log.Info().Int("count", len(paths)).Str("dir", e.dir).Msg("notes exported")
	return paths, nil
}

// Commit snapshots the export directory. The repository is initialized on
// first use. An export with no changes returns git's ErrEmptyCommit.
func (e *Exporter) Commit(message string) (string, error) {
	repo, err := git.PlainOpen(e.dir)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.PlainInit(e.dir, false)
	}
	if err != nil {
		return "", fmt.Errorf("open export repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", err
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "cirrus",
			Email: "cirrus@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", err
	}

	e.log.Info().Str("commit", hash.String()).Msg("export committed")
	return hash.String(), nil
}

func render(n *note.Note) ([]byte, error) {
	fm := frontmatter{
		ID:        n.StringID(),
		Title:     n.DisplayTitle(),
		CreatedAt: n.CreatedAt.Time,
		UpdatedAt: n.UpdatedAt.Time,
		FileName:  n.FileName,
		FileURL:   n.FileURL,
	}

	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "note"
	}
	return s
}

func recordKey(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}
