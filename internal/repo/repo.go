// Package repo persists notes in SurrealDB and streams changes back
// through live queries.
package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/NEXN0/cirrus/internal/note"
)

// Action is the kind of change a live event reports.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
)

// Event is a single decoded live-query notification.
type Event struct {
	Action Action
	Note   note.Note
}

// dataSource is the slice of the SurrealDB connection the repository needs.
// Query results are already flattened to the first statement's rows.
type dataSource interface {
	Query(ctx context.Context, sql string, vars map[string]any) ([]note.Note, error)
	Live(ctx context.Context, table string) (string, error)
	Notifications(liveID string) (<-chan Event, error)
	Kill(ctx context.Context, liveID string) error
}

// Repository owns note persistence for the signed-in user. At most one live
// subscription is active at a time; replacing it starts the new feed before
// the old one is killed so no window goes unobserved.
type Repository struct {
	src   dataSource
	table string
	log   zerolog.Logger

	gen    atomic.Uint64
	mu     sync.Mutex
	active *subscription
	pushMu sync.Mutex
}

func New(src dataSource, table string, log zerolog.Logger) *Repository {
	return &Repository{src: src, table: table, log: log}
}

// Create inserts a note with server-assigned timestamps. Only fields in
// extra's fixed attachment vocabulary are carried beyond title and content.
func (r *Repository) Create(ctx context.Context, ownerID, title, content string, extra map[string]any) (*note.Note, error) {
	assignments := []string{
		"title = $title",
		"content = $content",
		"userId = $owner",
		"createdAt = time::now()",
		"updatedAt = time::now()",
	}
	vars := map[string]any{
		"tb":      r.table,
		"title":   note.NormalizeTitle(title),
		"content": content,
		"owner":   ownerID,
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		assignments = append(assignments, fmt.Sprintf("%s = $f_%s", k, k))
		vars["f_"+k] = extra[k]
	}

	sql := "CREATE type::table($tb) SET " + strings.Join(assignments, ", ")
	rows, err := r.src.Query(ctx, sql, vars)
	if err != nil {
		return nil, classify("create note", err)
	}
	if len(rows) == 0 {
		return nil, storeErr("create note", CodeUnknown, fmt.Errorf("no record returned"))
	}

	created := rows[0]
	r.log.Debug().Str("id", created.StringID()).Msg("note created")
	return &created, nil
}

// Upsert writes title and content to an existing note, or materializes the
// record when it is gone. createdAt survives across the merge; updatedAt is
// always reassigned by the server.
func (r *Repository) Upsert(ctx context.Context, id, ownerID, title, content string) (*note.Note, error) {
	sql := `UPSERT type::record($id) SET
		title = $title,
		content = $content,
		userId = $owner,
		createdAt = createdAt ?? time::now(),
		updatedAt = time::now()`
	rows, err := r.src.Query(ctx, sql, map[string]any{
		"id":      id,
		"title":   note.NormalizeTitle(title),
		"content": content,
		"owner":   ownerID,
	})
	if err != nil {
		return nil, classify("save note", err)
	}
	if len(rows) == 0 {
		return nil, storeErr("save note", CodeUnknown, fmt.Errorf("no record returned"))
	}

	saved := rows[0]
	r.log.Debug().Str("id", saved.StringID()).Msg("note saved")
	return &saved, nil
}

// Delete removes a note. Deleting a record that is already gone succeeds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.src.Query(ctx, "DELETE type::record($id)", map[string]any{"id": id})
	if err != nil {
		return classify("delete note", err)
	}
	r.log.Debug().Str("id", id).Msg("note deleted")
	return nil
}

// List fetches the owner's notes once, most recently updated first.
func (r *Repository) List(ctx context.Context, ownerID string) ([]note.Note, error) {
	sql := "SELECT * FROM type::table($tb) WHERE userId = $owner ORDER BY updatedAt DESC"
	rows, err := r.src.Query(ctx, sql, map[string]any{
		"tb":    r.table,
		"owner": ownerID,
	})
	if err != nil {
		return nil, classify("list notes", err)
	}
	return rows, nil
}
