package repo

import (
	"context"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/NEXN0/cirrus/internal/note"
)

// SurrealSource adapts a SurrealDB connection to the repository's data
// source contract.
type SurrealSource struct {
	db *surrealdb.DB
}

var _ dataSource = (*SurrealSource)(nil)

func NewSurrealSource(db *surrealdb.DB) *SurrealSource {
	return &SurrealSource{db: db}
}

func (s *SurrealSource) Query(ctx context.Context, sql string, vars map[string]any) ([]note.Note, error) {
	res, err := surrealdb.Query[[]note.Note](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}
	return (*res)[0].Result, nil
}

func (s *SurrealSource) Live(ctx context.Context, table string) (string, error) {
	id, err := surrealdb.Live(ctx, s.db, models.Table(table), false)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Notifications decodes the driver's raw live feed into events. The raw
// channel closes when the live query is killed, which closes the returned
// channel in turn.
func (s *SurrealSource) Notifications(liveID string) (<-chan Event, error) {
	raw, err := s.db.LiveNotifications(liveID)
	if err != nil {
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for n := range raw {
			ev, ok := eventFromNotification(n)
			if !ok {
				continue
			}
			out <- ev
		}
	}()
	return out, nil
}

func (s *SurrealSource) Kill(ctx context.Context, liveID string) error {
	return surrealdb.Kill(ctx, s.db, liveID)
}

func eventFromNotification(n connection.Notification) (Event, bool) {
	var action Action
	switch n.Action {
	case connection.CreateAction:
		action = ActionCreate
	case connection.UpdateAction:
		action = ActionUpdate
	case connection.DeleteAction:
		action = ActionDelete
	default:
		return Event{}, false
	}

	record, ok := n.Result.(map[string]any)
	if !ok {
		return Event{}, false
	}
	return Event{Action: action, Note: noteFromRecord(record)}, true
}

// noteFromRecord lifts a live-query record into a note. Live results arrive
// as map[string]any with the id as a concrete RecordID.
func noteFromRecord(record map[string]any) note.Note {
	var n note.Note
	if id, ok := record["id"].(models.RecordID); ok {
		n.ID = &id
	}
	if v, ok := record["title"].(string); ok {
		n.Title = v
	}
	if v, ok := record["content"].(string); ok {
		n.Content = v
	}
	if v, ok := record["userId"].(string); ok {
		n.OwnerID = v
	}
	n.CreatedAt = datetimeField(record["createdAt"])
	n.UpdatedAt = datetimeField(record["updatedAt"])
	if v, ok := record["fileName"].(string); ok {
		n.FileName = v
	}
	if v, ok := record["fileType"].(string); ok {
		n.FileType = v
	}
	if v, ok := record["fileUrl"].(string); ok {
		n.FileURL = v
	}
	if v, ok := record["importedFromFile"].(bool); ok {
		n.ImportedFromFile = v
	}
	return n
}

func datetimeField(v any) models.CustomDateTime {
	switch t := v.(type) {
	case models.CustomDateTime:
		return t
	case time.Time:
		return models.CustomDateTime{Time: t}
	default:
		return models.CustomDateTime{}
	}
}
