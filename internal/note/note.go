// Package note defines the persisted note entity and the defaults applied to
// it. Every fallback value lives here so callers never invent their own.
package note

import (
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

const (
	// DefaultTitle is used whenever a note is saved without a title.
	DefaultTitle = "Untitled"

	// DefaultImportTitle is the last-resort title for imported files.
	DefaultImportTitle = "Imported Note"
)

// Note is a single note document. The field names are fixed: they are shared
// with other clients of the same collection.
type Note struct {
	ID        *models.RecordID      `json:"id,omitempty"`
	Title     string                `json:"title"`
	Content   string                `json:"content"`
	OwnerID   string                `json:"userId"`
	CreatedAt models.CustomDateTime `json:"createdAt,omitempty"`
	UpdatedAt models.CustomDateTime `json:"updatedAt,omitempty"`

	FileName         string `json:"fileName,omitempty"`
	FileType         string `json:"fileType,omitempty"`
	FileURL          string `json:"fileUrl,omitempty"`
	ImportedFromFile bool   `json:"importedFromFile,omitempty"`
}

// Attachment describes where an imported note came from. It is merged into
// the document as extra fields on creation.
type Attachment struct {
	FileName         string
	FileType         string
	FileURL          string
	ImportedFromFile bool
}

// Fields flattens the attachment into document fields, skipping unset values.
func (a Attachment) Fields() map[string]any {
	fields := map[string]any{}
	if a.FileName != "" {
		fields["fileName"] = a.FileName
	}
	if a.FileType != "" {
		fields["fileType"] = a.FileType
	}
	if a.FileURL != "" {
		fields["fileUrl"] = a.FileURL
	}
	if a.ImportedFromFile {
		fields["importedFromFile"] = true
	}
	return fields
}

// NormalizeTitle trims the given title and substitutes the default when
// nothing is left.
func NormalizeTitle(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return DefaultTitle
	}
	return t
}

// IsEmpty reports whether a save of the given buffers would persist nothing.
func IsEmpty(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}

// StringID returns the record id in table:id form, or "" when unset.
func (n *Note) StringID() string {
	if n.ID == nil {
		return ""
	}
	return n.ID.String()
}

// DisplayTitle returns the title to render in lists.
func (n *Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return DefaultTitle
	}
	return n.Title
}

// Modified returns the last-modified time, falling back to the creation time
// when the server has not populated updatedAt yet.
func (n *Note) Modified() time.Time {
	if !n.UpdatedAt.IsZero() {
		return n.UpdatedAt.Time
	}
	return n.CreatedAt.Time
}
