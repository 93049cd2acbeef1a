package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/NEXN0/cirrus/internal/note"
	"github.com/NEXN0/cirrus/internal/session"
)

func recordID(id string) *models.RecordID {
	table, key, _ := strings.Cut(id, ":")
	rid := models.NewRecordID(table, key)
	return &rid
}

type fakeStore struct {
	creates int
	upserts int
	deletes []string

	nextID string
	err    error
}

func (f *fakeStore) Create(_ context.Context, ownerID, title, content string, _ map[string]any) (*note.Note, error) {
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	return &note.Note{ID: recordID(f.nextID), Title: note.NormalizeTitle(title), Content: content, OwnerID: ownerID}, nil
}

func (f *fakeStore) Upsert(_ context.Context, id, ownerID, title, content string) (*note.Note, error) {
	f.upserts++
	if f.err != nil {
		return nil, f.err
	}
	rid := recordID(id)
	return &note.Note{ID: rid, Title: note.NormalizeTitle(title), Content: content, OwnerID: ownerID}, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.err
}

type fakeIdentity struct {
	id *session.Identity
}

func (f *fakeIdentity) Current() *session.Identity {
	return f.id
}

func signedIn() *fakeIdentity {
	return &fakeIdentity{id: &session.Identity{ID: "user:alice", Email: "alice@example.com"}}
}

func newTestEditor(store *fakeStore, ids identitySource) *Editor {
	return New(store, ids, zerolog.Nop())
}

func savedNote(id, title, content string) note.Note {
	return note.Note{ID: recordID(id), Title: title, Content: content, OwnerID: "user:alice"}
}

func TestTypingMovesEmptyToDirtyNew(t *testing.T) {
	e := newTestEditor(&fakeStore{}, signedIn())

	if e.Phase() != PhaseEmpty {
		t.Fatalf("phase = %v, want %v", e.Phase(), PhaseEmpty)
	}

	e.SetContent("first words")
	if e.Phase() != PhaseDirtyNew {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseDirtyNew)
	}

	e.SetContent("  ")
	if e.Phase() != PhaseEmpty {
		t.Errorf("phase after clearing = %v, want %v", e.Phase(), PhaseEmpty)
	}
}

func TestEditingSavedNoteMarksDirtyExisting(t *testing.T) {
	e := newTestEditor(&fakeStore{}, signedIn())

	e.Select(savedNote("note:a", "Plan", "body"))
	if e.Phase() != PhaseSaved {
		t.Fatalf("phase = %v, want %v", e.Phase(), PhaseSaved)
	}

	e.SetTitle("Plan v2")
	if e.Phase() != PhaseDirtyExisting {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseDirtyExisting)
	}
	if !e.Dirty() {
		t.Error("Dirty() = false, want true")
	}
}

func TestRewritingSavedValuesStaysSaved(t *testing.T) {
	e := newTestEditor(&fakeStore{}, signedIn())

	e.Select(savedNote("note:a", "Plan", "body"))
	e.SetTitle("Plan")
	e.SetContent("body")

	if e.Phase() != PhaseSaved {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseSaved)
	}
	if e.Dirty() {
		t.Error("Dirty() = true, want false")
	}
}

func TestRevertingEditRestoresSaved(t *testing.T) {
	e := newTestEditor(&fakeStore{}, signedIn())

	e.Select(savedNote("note:a", "Plan", "body"))
	e.SetTitle("Plan v2")
	if e.Phase() != PhaseDirtyExisting {
		t.Fatalf("phase = %v, want %v", e.Phase(), PhaseDirtyExisting)
	}

	e.SetTitle("Plan")
	if e.Phase() != PhaseSaved {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseSaved)
	}
}

func TestSaveRequiresIdentity(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, &fakeIdentity{})
	e.SetContent("words")

	if _, err := e.Save(context.Background()); !errors.Is(err, session.ErrNotSignedIn) {
		t.Fatalf("Save() error = %v, want %v", err, session.ErrNotSignedIn)
	}
	if store.creates != 0 {
		t.Errorf("creates = %d, want 0", store.creates)
	}
}

func TestSaveRejectsEmptyBuffers(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, signedIn())

	_, err := e.Save(context.Background())

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Save() error = %v, want ValidationError", err)
	}
	if store.creates != 0 || store.upserts != 0 {
		t.Error("empty save must not reach the store")
	}
}

func TestFirstSaveCreatesAndAdoptsID(t *testing.T) {
	store := &fakeStore{nextID: "note:fresh"}
	e := newTestEditor(store, signedIn())

	e.SetTitle("Plan")
	e.SetContent("body")

	saved, err := e.Save(context.Background())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.creates != 1 {
		t.Fatalf("creates = %d, want 1", store.creates)
	}
	if e.ID() != saved.StringID() {
		t.Errorf("editor id = %q, want %q", e.ID(), saved.StringID())
	}
	if e.Phase() != PhaseSaved {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseSaved)
	}
}

func TestSecondSaveRewritesSameRecord(t *testing.T) {
	store := &fakeStore{nextID: "note:fresh"}
	e := newTestEditor(store, signedIn())

	e.SetContent("body")
	if _, err := e.Save(context.Background()); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	e.SetContent("body, extended")
	if _, err := e.Save(context.Background()); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if store.creates != 1 || store.upserts != 1 {
		t.Errorf("creates = %d, upserts = %d, want 1 and 1", store.creates, store.upserts)
	}
}

func TestSelectDiscardsUnsavedEdits(t *testing.T) {
	e := newTestEditor(&fakeStore{}, signedIn())

	e.SetContent("unsaved draft")
	e.Select(savedNote("note:a", "Plan", "body"))

	if e.Content() != "body" {
		t.Errorf("content = %q, want %q", e.Content(), "body")
	}
	if e.Phase() != PhaseSaved {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseSaved)
	}
}

func TestDeleteWithoutRecordJustResets(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, signedIn())

	e.SetContent("scratch")
	if err := e.Delete(context.Background()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.deletes) != 0 {
		t.Errorf("deletes = %v, want none", store.deletes)
	}
	if e.Phase() != PhaseEmpty {
		t.Errorf("phase = %v, want %v", e.Phase(), PhaseEmpty)
	}
}

func TestDeleteRemovesRecordAndResets(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, signedIn())

	e.Select(savedNote("note:a", "Plan", "body"))
	if err := e.Delete(context.Background()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "note:a" {
		t.Errorf("deletes = %v, want [note:a]", store.deletes)
	}
	if e.Phase() != PhaseEmpty || e.ID() != "" {
		t.Errorf("editor not reset: phase=%v id=%q", e.Phase(), e.ID())
	}
}
