package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/NEXN0/cirrus/internal/note"
)

type queryCall struct {
	sql  string
	vars map[string]any
}

type fakeSource struct {
	mu      sync.Mutex
	queries []queryCall
	queryFn func(sql string, vars map[string]any) ([]note.Note, error)
	liveSeq int
	feeds   map[string]chan Event
	ops     []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{feeds: make(map[string]chan Event)}
}

func (f *fakeSource) Query(_ context.Context, sql string, vars map[string]any) ([]note.Note, error) {
	f.mu.Lock()
	f.queries = append(f.queries, queryCall{sql: sql, vars: vars})
	fn := f.queryFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(sql, vars)
}

func (f *fakeSource) Live(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liveSeq++
	id := fmt.Sprintf("live-%d", f.liveSeq)
	f.feeds[id] = make(chan Event, 16)
	f.ops = append(f.ops, "live:"+id)
	return id, nil
}

func (f *fakeSource) Notifications(liveID string) (<-chan Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.feeds[liveID]
	if !ok {
		return nil, errors.New("unknown live query")
	}
	return ch, nil
}

func (f *fakeSource) Kill(_ context.Context, liveID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "kill:"+liveID)
	if ch, ok := f.feeds[liveID]; ok {
		close(ch)
		delete(f.feeds, liveID)
	}
	return nil
}

func (f *fakeSource) feed(liveID string) chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feeds[liveID]
}

func (f *fakeSource) lastQuery() queryCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

type pushCollector struct {
	mu   sync.Mutex
	sets [][]note.Note
}

func (c *pushCollector) push(notes []note.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = append(c.sets, notes)
}

func (c *pushCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}

func (c *pushCollector) last() []note.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sets) == 0 {
		return nil
	}
	return c.sets[len(c.sets)-1]
}

func testNote(id, owner, title string, modified time.Time) note.Note {
	rid := models.NewRecordID("note", id)
	return note.Note{
		ID:        &rid,
		Title:     title,
		OwnerID:   owner,
		UpdatedAt: models.CustomDateTime{Time: modified},
	}
}

func titles(notes []note.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestCreateAssignsServerTimestamps(t *testing.T) {
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return []note.Note{testNote("a", "user:alice", "First", time.Now())}, nil
	}
	r := New(src, "note", zerolog.Nop())

	created, err := r.Create(context.Background(), "user:alice", "First", "body", nil)
	require.NoError(t, err)
	assert.Equal(t, "First", created.Title)

	call := src.lastQuery()
	assert.Contains(t, call.sql, "createdAt = time::now()")
	assert.Contains(t, call.sql, "updatedAt = time::now()")
	assert.Equal(t, "user:alice", call.vars["owner"])
	assert.Equal(t, "First", call.vars["title"])
}

func TestCreateDefaultsBlankTitle(t *testing.T) {
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return []note.Note{testNote("a", "user:alice", note.DefaultTitle, time.Now())}, nil
	}
	r := New(src, "note", zerolog.Nop())

	_, err := r.Create(context.Background(), "user:alice", "   ", "body", nil)
	require.NoError(t, err)
	assert.Equal(t, note.DefaultTitle, src.lastQuery().vars["title"])
}

func TestCreateCarriesAttachmentFields(t *testing.T) {
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return []note.Note{testNote("a", "user:alice", "diagram.png", time.Now())}, nil
	}
	r := New(src, "note", zerolog.Nop())

	extra := note.Attachment{
		FileName:         "diagram.png",
		FileType:         "image/png",
		FileURL:          "https://blob.example/uploads/x",
		ImportedFromFile: true,
	}.Fields()

	_, err := r.Create(context.Background(), "user:alice", "diagram.png", "", extra)
	require.NoError(t, err)

	call := src.lastQuery()
	assert.Contains(t, call.sql, "fileName = $f_fileName")
	assert.Contains(t, call.sql, "importedFromFile = $f_importedFromFile")
	assert.Equal(t, "image/png", call.vars["f_fileType"])
	assert.Equal(t, true, call.vars["f_importedFromFile"])
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return []note.Note{testNote("a", "user:alice", "Renamed", time.Now())}, nil
	}
	r := New(src, "note", zerolog.Nop())

	saved, err := r.Upsert(context.Background(), "note:a", "user:alice", "Renamed", "body")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", saved.Title)

	call := src.lastQuery()
	assert.Contains(t, call.sql, "createdAt = createdAt ?? time::now()")
	assert.Contains(t, call.sql, "updatedAt = time::now()")
	assert.Equal(t, "note:a", call.vars["id"])
}

func TestDeleteIsIdempotent(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())

	require.NoError(t, r.Delete(context.Background(), "note:gone"))
	require.NoError(t, r.Delete(context.Background(), "note:gone"))
}

func TestDeleteClassifiesNetworkFailure(t *testing.T) {
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return nil, errors.New("websocket: close 1006")
	}
	r := New(src, "note", zerolog.Nop())

	err := r.Delete(context.Background(), "note:a")
	var repoErr *Error
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, CodeNetwork, repoErr.Code)
}

func TestListScopesToOwner(t *testing.T) {
	src := newFakeSource()
	src.queryFn = func(sql string, _ map[string]any) ([]note.Note, error) {
		if !strings.Contains(sql, "WHERE userId = $owner") {
			return nil, errors.New("missing owner filter")
		}
		return []note.Note{testNote("a", "user:alice", "Mine", time.Now())}, nil
	}
	r := New(src, "note", zerolog.Nop())

	notes, err := r.List(context.Background(), "user:alice")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "user:alice", src.lastQuery().vars["owner"])
}

func TestSubscribePushesInitialOrderedSnapshot(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return []note.Note{
			testNote("old", "user:alice", "Old", base),
			testNote("new", "user:alice", "New", base.Add(time.Hour)),
		}, nil
	}
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))
	require.Equal(t, 1, col.count())
	assert.Equal(t, []string{"New", "Old"}, titles(col.last()))
}

func TestSubscribeAppliesLiveEvents(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))
	feed := src.feed("live-1")
	require.NotNil(t, feed)

	feed <- Event{Action: ActionCreate, Note: testNote("a", "user:alice", "Drafted", base)}
	require.Eventually(t, func() bool { return col.count() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Drafted"}, titles(col.last()))

	feed <- Event{Action: ActionUpdate, Note: testNote("a", "user:alice", "Polished", base.Add(time.Minute))}
	require.Eventually(t, func() bool { return col.count() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Polished"}, titles(col.last()))

	feed <- Event{Action: ActionDelete, Note: testNote("a", "user:alice", "Polished", base.Add(time.Minute))}
	require.Eventually(t, func() bool { return col.count() >= 4 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, col.last())
}

func TestSubscribeIgnoresForeignOwners(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))
	feed := src.feed("live-1")

	feed <- Event{Action: ActionCreate, Note: testNote("x", "user:mallory", "Theirs", time.Now())}
	require.Eventually(t, func() bool { return col.count() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, col.last())
}

func TestSubscribeOrdersTiesByID(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := newFakeSource()
	src.queryFn = func(_ string, _ map[string]any) ([]note.Note, error) {
		return []note.Note{
			testNote("b", "user:alice", "Second", at),
			testNote("a", "user:alice", "First", at),
		}, nil
	}
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))
	assert.Equal(t, []string{"First", "Second"}, titles(col.last()))
}

func TestResubscribeReplacesThenCleansUp(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))
	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))

	src.mu.Lock()
	ops := append([]string(nil), src.ops...)
	src.mu.Unlock()
	assert.Equal(t, []string{"live:live-1", "live:live-2", "kill:live-1"}, ops)
}

func TestFailedResubscribeKeepsCurrentFeed(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	first := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", first.push, nil))
	require.Equal(t, 1, first.count())

	src.mu.Lock()
	src.queryFn = func(string, map[string]any) ([]note.Note, error) {
		return nil, errors.New("query timeout")
	}
	src.mu.Unlock()

	second := &pushCollector{}
	require.Error(t, r.Subscribe(context.Background(), "user:alice", second.push, nil))

	src.mu.Lock()
	ops := append([]string(nil), src.ops...)
	src.mu.Unlock()
	assert.NotContains(t, ops, "kill:live-1", "the feed in use must survive a failed replacement")
	assert.Contains(t, ops, "kill:live-2", "the half-built feed must be torn down")

	// The surviving subscription still delivers.
	src.feed("live-1") <- Event{Action: ActionCreate, Note: testNote("n", "user:alice", "Fresh", time.Now())}
	require.Eventually(t, func() bool {
		return first.count() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestStaleFeedDeliveriesAreDropped(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())

	first := &pushCollector{}
	require.NoError(t, r.Subscribe(context.Background(), "user:alice", first.push, nil))
	staleFeed := src.feed("live-1")
	require.NotNil(t, staleFeed)

	// Hold the stale channel open across the replacement so a late
	// delivery can still be attempted.
	src.mu.Lock()
	delete(src.feeds, "live-1")
	src.mu.Unlock()

	second := &pushCollector{}
	require.NoError(t, r.Subscribe(context.Background(), "user:alice", second.push, nil))

	staleFeed <- Event{Action: ActionCreate, Note: testNote("late", "user:alice", "Late", time.Now())}
	close(staleFeed)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, first.count(), "stale subscription must not deliver after replacement")
	require.Equal(t, 1, second.count())
	assert.Empty(t, second.last())
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, nil))
	require.NoError(t, r.Unsubscribe(context.Background()))

	src.mu.Lock()
	ops := append([]string(nil), src.ops...)
	src.mu.Unlock()
	assert.Contains(t, ops, "kill:live-1")

	require.NoError(t, r.Unsubscribe(context.Background()), "tearing down twice is harmless")
}

func TestFeedTerminationReportsError(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	var mu sync.Mutex
	var reported []error
	onErr := func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, onErr))
	feed := src.feed("live-1")
	require.NotNil(t, feed)

	// Server drops the live query without a kill from our side.
	src.mu.Lock()
	delete(src.feeds, "live-1")
	src.mu.Unlock()
	close(feed)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	var repoErr *Error
	require.ErrorAs(t, reported[0], &repoErr)
	assert.Equal(t, CodeNetwork, repoErr.Code)
	mu.Unlock()
}

func TestUnsubscribedFeedClosureIsSilent(t *testing.T) {
	src := newFakeSource()
	r := New(src, "note", zerolog.Nop())
	col := &pushCollector{}

	called := false
	var mu sync.Mutex
	onErr := func(error) {
		mu.Lock()
		called = true
		mu.Unlock()
	}

	require.NoError(t, r.Subscribe(context.Background(), "user:alice", col.push, onErr))
	require.NoError(t, r.Unsubscribe(context.Background()))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.False(t, called, "a deliberate teardown is not an error")
	mu.Unlock()
}
