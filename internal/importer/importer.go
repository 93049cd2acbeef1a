// Package importer turns local files into notes. Text-like files become the
// note body; anything else is uploaded to blob storage and referenced.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/NEXN0/cirrus/internal/note"
)

// DefaultFileTitle is the last-resort title for uploaded binary files.
const DefaultFileTitle = "Imported File"

var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

type creator interface {
	Create(ctx context.Context, ownerID, title, content string, extra map[string]any) (*note.Note, error)
}

type uploader interface {
	Upload(ctx context.Context, ownerID, fileName, contentType string, body io.Reader) (string, error)
}

// ImportError reports which stage of an import failed.
type ImportError struct {
	Stage string
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Stage, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type Importer struct {
	store creator
	blobs uploader
	log   zerolog.Logger
}

func New(store creator, blobs uploader, log zerolog.Logger) *Importer {
	return &Importer{store: store, blobs: blobs, log: log}
}

// ImportFile reads the file at path and imports it for the given owner.
func (im *Importer) ImportFile(ctx context.Context, ownerID, path string) (*note.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImportError{Stage: "read", Err: err}
	}
	return im.Import(ctx, ownerID, filepath.Base(path), data)
}

// Import classifies the payload by extension-derived MIME type. Text-like
// files become the note body directly; everything else is uploaded first and
// only then recorded, so a failed upload never leaves a dangling note.
func (im *Importer) Import(ctx context.Context, ownerID, fileName string, data []byte) (*note.Note, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	mtype := mediaType(ext)

	if strings.HasPrefix(mtype, "text/") || textExtensions[ext] {
		return im.importText(ctx, ownerID, fileName, mtype, data)
	}
	return im.importBinary(ctx, ownerID, fileName, mtype, data)
}

func (im *Importer) importText(ctx context.Context, ownerID, fileName, mtype string, data []byte) (*note.Note, error) {
	if mtype == "" {
		mtype = "text/plain"
	}

	content := string(data)
	title := TitleFor(fileName, content)

	n, err := im.store.Create(ctx, ownerID, title, content, note.Attachment{
		FileName:         fileName,
		FileType:         mtype,
		ImportedFromFile: true,
	}.Fields())
	if err != nil {
		return nil, &ImportError{Stage: "create", Err: err}
	}

	im.log.Info().Str("file", fileName).Str("id", n.StringID()).Msg("text file imported")
	return n, nil
}

func (im *Importer) importBinary(ctx context.Context, ownerID, fileName, mtype string, data []byte) (*note.Note, error) {
	if mtype == "" {
		mtype = "application/octet-stream"
	}

	url, err := im.blobs.Upload(ctx, ownerID, fileName, mtype, bytes.NewReader(data))
	if err != nil {
		return nil, &ImportError{Stage: "upload", Err: err}
	}

	title := stem(fileName)
	if title == "" {
		title = DefaultFileTitle
	}
	content := fmt.Sprintf("Imported file: %s\n\nDownload link: %s\n", fileName, url)

	n, err := im.store.Create(ctx, ownerID, title, content, note.Attachment{
		FileName:         fileName,
		FileType:         mtype,
		FileURL:          url,
		ImportedFromFile: true,
	}.Fields())
	if err != nil {
		return nil, &ImportError{Stage: "create", Err: err}
	}

	im.log.Info().Str("file", fileName).Str("id", n.StringID()).Msg("file uploaded and recorded")
	return n, nil
}

// TitleFor picks a title for imported text: the first top-level markdown
// heading, then the filename without its extension, then the default.
func TitleFor(fileName, content string) string {
	if h := firstHeading([]byte(content)); h != "" {
		return h
	}
	if s := stem(fileName); s != "" {
		return s
	}
	return note.DefaultImportTitle
}

func firstHeading(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(string(h.Text(src)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func stem(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

func mediaType(ext string) string {
	mtype := mime.TypeByExtension(ext)
	if i := strings.IndexByte(mtype, ';'); i >= 0 {
		mtype = mtype[:i]
	}
	return strings.TrimSpace(mtype)
}
