package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/NEXN0/cirrus/internal/note"
)

type subscription struct {
	gen    uint64
	liveID string
	owner  string

	mu       sync.Mutex
	snapshot map[string]note.Note
}

// Subscribe opens a live feed over the owner's notes and calls push with the
// full ordered set after the initial load and after every change. A previous
// subscription is replaced: the new feed is opened first, then the old one is
// killed. Pushes from a replaced subscription are dropped. If establishing
// the new feed fails, the previous subscription stays intact. If the feed
// terminates while still current, onErr is called once; the repository does
// not retry.
func (r *Repository) Subscribe(ctx context.Context, ownerID string, push func([]note.Note), onErr func(error)) error {
	liveID, err := r.src.Live(ctx, r.table)
	if err != nil {
		return classify("subscribe", err)
	}

	events, err := r.src.Notifications(liveID)
	if err != nil {
		_ = r.src.Kill(ctx, liveID)
		return classify("subscribe", err)
	}

	sub := &subscription{
		liveID:   liveID,
		owner:    ownerID,
		snapshot: make(map[string]note.Note),
	}

	initial, err := r.List(ctx, ownerID)
	if err != nil {
		_ = r.src.Kill(ctx, liveID)
		return err
	}
	sub.mu.Lock()
	for _, n := range initial {
		sub.snapshot[n.StringID()] = n
	}
	sub.mu.Unlock()

	// The new feed is established; only now does the old one stop counting.
	sub.gen = r.gen.Add(1)

	r.mu.Lock()
	old := r.active
	r.active = sub
	r.mu.Unlock()

	if old != nil {
		if err := r.src.Kill(ctx, old.liveID); err != nil {
			r.log.Warn().Err(err).Str("live_id", old.liveID).Msg("failed to kill replaced live query")
		}
	}

	r.push(sub, push)

	go func() {
		for ev := range events {
			sub.apply(ev)
			r.push(sub, push)
		}
		if r.gen.Load() == sub.gen {
			r.log.Warn().Str("live_id", liveID).Msg("live feed terminated")
			if onErr != nil {
				onErr(storeErr("subscribe", CodeNetwork, errFeedClosed))
			}
			return
		}
		r.log.Debug().Str("live_id", liveID).Msg("live feed closed")
	}()

	return nil
}

// Unsubscribe tears down the active feed, if any. Late deliveries from the
// torn-down feed are dropped.
func (r *Repository) Unsubscribe(ctx context.Context) error {
	r.gen.Add(1)

	r.mu.Lock()
	old := r.active
	r.active = nil
	r.mu.Unlock()

	if old == nil {
		return nil
	}
	if err := r.src.Kill(ctx, old.liveID); err != nil {
		return classify("unsubscribe", err)
	}
	return nil
}

// push delivers the subscription's ordered snapshot unless the subscription
// has been replaced since. Deliveries are serialized.
func (r *Repository) push(sub *subscription, fn func([]note.Note)) {
	r.pushMu.Lock()
	defer r.pushMu.Unlock()

	if r.gen.Load() != sub.gen {
		return
	}
	fn(sub.ordered())
}

func (s *subscription) apply(ev Event) {
	id := ev.Note.StringID()
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Action {
	case ActionDelete:
		delete(s.snapshot, id)
	case ActionCreate, ActionUpdate:
		if ev.Note.OwnerID != s.owner {
			return
		}
		s.snapshot[id] = ev.Note
	}
}

// ordered returns the snapshot sorted by last modification, newest first,
// with ties broken by record id for a stable presentation.
func (s *subscription) ordered() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]note.Note, 0, len(s.snapshot))
	for _, n := range s.snapshot {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Modified(), out[j].Modified()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].StringID() < out[j].StringID()
	})
	return out
}
