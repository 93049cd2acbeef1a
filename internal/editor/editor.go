// Package editor tracks the buffers of the note being written and decides,
// on save, whether a record is created or rewritten.
package editor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/NEXN0/cirrus/internal/note"
	"github.com/NEXN0/cirrus/internal/session"
)

// Phase is the editor's position in its lifecycle.
type Phase int

const (
	// PhaseEmpty holds no note and no meaningful input.
	PhaseEmpty Phase = iota
	// PhaseDirtyNew holds unsaved input with no backing record.
	PhaseDirtyNew
	// PhaseSaved mirrors a persisted record exactly.
	PhaseSaved
	// PhaseDirtyExisting holds unsaved edits over a persisted record.
	PhaseDirtyExisting
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseDirtyNew:
		return "dirty-new"
	case PhaseSaved:
		return "saved"
	case PhaseDirtyExisting:
		return "dirty-existing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ValidationError rejects a save before it reaches the store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type store interface {
	Create(ctx context.Context, ownerID, title, content string, extra map[string]any) (*note.Note, error)
	Upsert(ctx context.Context, id, ownerID, title, content string) (*note.Note, error)
	Delete(ctx context.Context, id string) error
}

type identitySource interface {
	Current() *session.Identity
}

// Editor is the single writing surface. Selecting another note discards
// whatever is unsaved; the caller is expected to confirm first.
type Editor struct {
	store   store
	session identitySource
	log     zerolog.Logger

	phase   Phase
	id      string
	title   string
	content string

	savedTitle   string
	savedContent string
}

func New(store store, session identitySource, log zerolog.Logger) *Editor {
	return &Editor{store: store, session: session, log: log}
}

func (e *Editor) Phase() Phase    { return e.phase }
func (e *Editor) ID() string      { return e.id }
func (e *Editor) Title() string   { return e.title }
func (e *Editor) Content() string { return e.content }

// Dirty reports whether the buffers differ from what is persisted.
func (e *Editor) Dirty() bool {
	return e.phase == PhaseDirtyNew || e.phase == PhaseDirtyExisting
}

// NewNote clears the editor for fresh input, dropping unsaved edits.
func (e *Editor) NewNote() {
	e.phase = PhaseEmpty
	e.id = ""
	e.title = ""
	e.content = ""
	e.savedTitle = ""
	e.savedContent = ""
}

// Select loads a persisted note into the buffers, dropping unsaved edits.
func (e *Editor) Select(n note.Note) {
	e.phase = PhaseSaved
	e.id = n.StringID()
	e.title = n.Title
	e.content = n.Content
	e.savedTitle = n.Title
	e.savedContent = n.Content
}

func (e *Editor) SetTitle(title string) {
	e.title = title
	e.markDirty()
}

func (e *Editor) SetContent(content string) {
	e.content = content
	e.markDirty()
}

// markDirty rederives the phase from the buffers. A buffer written back to
// its last-saved value counts as clean, so cursor traffic over an unchanged
// note never marks it dirty.
func (e *Editor) markDirty() {
	if e.id == "" {
		if note.IsEmpty(e.title, e.content) {
			e.phase = PhaseEmpty
		} else {
			e.phase = PhaseDirtyNew
		}
		return
	}
	if e.title == e.savedTitle && e.content == e.savedContent {
		e.phase = PhaseSaved
	} else {
		e.phase = PhaseDirtyExisting
	}
}

// Save persists the buffers. A first save creates the record and the editor
// adopts its id; later saves rewrite the same record. Saving nothing is
// rejected before any round-trip.
func (e *Editor) Save(ctx context.Context) (*note.Note, error) {
	id := e.session.Current()
	if id == nil {
		return nil, session.ErrNotSignedIn
	}
	if note.IsEmpty(e.title, e.content) {
		return nil, &ValidationError{Reason: "nothing to save"}
	}

	var (
		saved *note.Note
		err   error
	)
	if e.id == "" {
		saved, err = e.store.Create(ctx, id.ID, e.title, e.content, nil)
	} else {
		saved, err = e.store.Upsert(ctx, e.id, id.ID, e.title, e.content)
	}
	if err != nil {
		return nil, err
	}

	e.phase = PhaseSaved
	e.id = saved.StringID()
	e.title = saved.Title
	e.savedTitle = saved.Title
	e.savedContent = e.content
	e.log.Debug().Str("id", e.id).Msg("editor saved")
	return saved, nil
}

// Delete removes the loaded note and resets the editor. With no backing
// record the buffers are simply cleared.
func (e *Editor) Delete(ctx context.Context) error {
	if e.id == "" {
		e.NewNote()
		return nil
	}
	if e.session.Current() == nil {
		return session.ErrNotSignedIn
	}

	if err := e.store.Delete(ctx, e.id); err != nil {
		return err
	}
	e.NewNote()
	return nil
}
