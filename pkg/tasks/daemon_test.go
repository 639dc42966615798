package tasks

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock drives the daemon loop manually.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	ch  chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ch: make(chan time.Time)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Tick(d time.Duration) <-chan time.Time { return f.ch }

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	f.mu.Unlock()
	f.ch <- now
}

// recorder collects notified task slugs.
type recorder struct {
	mu    sync.Mutex
	slugs []string
}

func (r *recorder) notify(ctx context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slugs = append(r.slugs, t.Slug)
	return nil
}

func (r *recorder) notified() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.slugs...)
}

func TestDaemonNotifiesDueTaskOnce(t *testing.T) {
	store := newTestStore(t)
	store.Add(&Task{Title: "Call Dana", Due: "2026-08-30"})
	store.Add(&Task{Title: "Later", Due: "2026-12-01"})

	rec := &recorder{}
	d := NewDaemon(DaemonConfig{
		Clock:  newFakeClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)),
		Store:  store,
		State:  NewMemoryStateStore(),
		Notify: rec.notify,
		Once:   true,
	})
	if err := d.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := rec.notified()
	if len(got) != 1 || got[0] != "call-dana" {
		t.Errorf("notified = %v", got)
	}
}

func TestDaemonDoesNotRepeatSameDay(t *testing.T) {
	store := newTestStore(t)
	store.Add(&Task{Title: "Call Dana", Due: "2026-08-30"})

	clock := newFakeClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))
	rec := &recorder{}
	d := NewDaemon(DaemonConfig{
		Clock:  clock,
		Store:  store,
		State:  NewMemoryStateStore(),
		Notify: rec.notify,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// First tick fires on start; two more ticks the same day are quiet.
	clock.advance(time.Minute)
	clock.advance(time.Minute)

	// Next day it fires again.
	clock.advance(24 * time.Hour)

	cancel()
	<-done

	got := rec.notified()
	if len(got) != 2 {
		t.Errorf("notified %d times: %v", len(got), got)
	}
}

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/daemon-state.json"
	store := NewFileStateStore(path)

	s, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.LastNotified) != 0 {
		t.Errorf("fresh state not empty: %+v", s)
	}

	s.LastNotified["call-dana"] = "2026-08-31"
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LastNotified["call-dana"] != "2026-08-31" {
		t.Errorf("got %+v", loaded)
	}
}
