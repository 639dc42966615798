package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
	_ "time/tzdata" // embedded timezone database for minimal systems
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
	Tick(d time.Duration) <-chan time.Time
}

// SystemClock uses the real system clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                       { return time.Now() }
func (SystemClock) Tick(d time.Duration) <-chan time.Time { return time.Tick(d) }

// Notifier delivers a due-task notification. Provided by the caller
// (cmd/prospect prints to the terminal).
type Notifier func(ctx context.Context, t *Task) error

// State tracks the last date (YYYY-MM-DD) each task was notified, so a
// task surfaces once per day until it is done.
type State struct {
	LastNotified map[string]string `json:"last_notified"`
}

// StateStore abstracts state persistence.
type StateStore interface {
	Load() (*State, error)
	Save(s *State) error
}

// DaemonConfig holds all dependencies for the due-check loop.
type DaemonConfig struct {
	Clock    Clock      // defaults to SystemClock
	Store    *Store     // task storage
	State    StateStore // notification state persistence
	Notify   Notifier   // notification delivery
	Logger   io.Writer  // log output (os.Stderr in prod)
	Once     bool       // single evaluation pass, then exit
}

// Daemon evaluates task due dates and fires notifications.
type Daemon struct {
	cfg     DaemonConfig
	stateMu sync.Mutex // serializes state load, modify, save
}

// NewDaemon creates a daemon with the given config.
func NewDaemon(cfg DaemonConfig) *Daemon {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = io.Discard
	}
	return &Daemon{cfg: cfg}
}

// Run blocks until ctx is cancelled, ticking every minute. If
// DaemonConfig.Once, performs one evaluation pass and returns.
func (d *Daemon) Run(ctx context.Context) error {
	// Run one tick immediately on start.
	d.tick(ctx)

	if d.cfg.Once {
		return nil
	}

	ch := d.cfg.Clock.Tick(1 * time.Minute)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			d.tick(ctx)
		}
	}
}

func (d *Daemon) tick(ctx context.Context) {
	now := d.cfg.Clock.Now()

	due, err := d.cfg.Store.Due(now)
	if err != nil {
		fmt.Fprintf(d.cfg.Logger, "error loading tasks: %v\n", err)
		return
	}

	state, err := d.cfg.State.Load()
	if err != nil {
		fmt.Fprintf(d.cfg.Logger, "error loading daemon state: %v\n", err)
		return
	}

	today := now.Format("2006-01-02")
	for _, t := range due {
		if state.LastNotified[t.Slug] == today {
			continue
		}

		if err := d.cfg.Notify(ctx, t); err != nil {
			fmt.Fprintf(d.cfg.Logger, "notifying for task %q failed: %v\n", t.Slug, err)
			continue // retry next tick
		}

		d.stateMu.Lock()
		current, err := d.cfg.State.Load()
		if err != nil {
			d.stateMu.Unlock()
			fmt.Fprintf(d.cfg.Logger, "error reloading daemon state: %v\n", err)
			return
		}
		current.LastNotified[t.Slug] = today
		if err := d.cfg.State.Save(current); err != nil {
			fmt.Fprintf(d.cfg.Logger, "error saving daemon state: %v\n", err)
		}
		d.stateMu.Unlock()
	}
}

// --- FileStateStore ---

// FileStateStore persists daemon state to a JSON file.
type FileStateStore struct {
	path string
}

// NewFileStateStore creates a FileStateStore at the given path.
func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

// Load reads the state file. Returns empty state if the file doesn't
// exist.
func (f *FileStateStore) Load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{LastNotified: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	if s.LastNotified == nil {
		s.LastNotified = make(map[string]string)
	}
	return &s, nil
}

// Save writes the state file atomically via temp+rename.
func (f *FileStateStore) Save(s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "daemon-state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming state file: %w", err)
	}
	return nil
}

// --- MemoryStateStore ---

// MemoryStateStore is an in-memory StateStore for testing.
type MemoryStateStore struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		state: &State{LastNotified: make(map[string]string)},
	}
}

// Load returns a copy of the current state.
func (m *MemoryStateStore) Load() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := &State{LastNotified: make(map[string]string)}
	for k, v := range m.state.LastNotified {
		cp.LastNotified[k] = v
	}
	return cp, nil
}

// Save replaces the stored state with a copy.
func (m *MemoryStateStore) Save(s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := &State{LastNotified: make(map[string]string)}
	for k, v := range s.LastNotified {
		cp.LastNotified[k] = v
	}
	m.state = cp
	return nil
}
