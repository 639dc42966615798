// Package tasks provides the follow-up task store and the due-check
// daemon. Tasks are YAML files; the daemon ticks every minute and
// surfaces tasks whose due date has arrived.
package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jcadam/prospector/pkg/slug"
	"gopkg.in/yaml.v3"
)

// Task is a single follow-up item, optionally linked to a contact.
type Task struct {
	Title       string `yaml:"title"`
	ContactSlug string `yaml:"contact,omitempty"`
	Due         string `yaml:"due,omitempty"` // YYYY-MM-DD
	Done        bool   `yaml:"done,omitempty"`
	Notes       string `yaml:"notes,omitempty"`
	Added       string `yaml:"added,omitempty"` // YYYY-MM-DD

	// Slug is the filename the task was loaded from. Not serialized.
	Slug string `yaml:"-"`
}

// Overdue reports whether the task's due date is on or before the given
// day and the task is still open. Tasks without a due date are never
// overdue.
func (t *Task) Overdue(now time.Time) bool {
	if t.Done || t.Due == "" {
		return false
	}
	due, err := time.Parse("2006-01-02", t.Due)
	if err != nil {
		return false
	}
	today, _ := time.Parse("2006-01-02", now.Format("2006-01-02"))
	return !due.After(today)
}

// Store manages tasks as individual YAML files in a directory.
type Store struct {
	dir string
}

// NewStore creates a task store rooted at dir, creating the directory if
// needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Add writes a task to disk. The filename is derived from the title via
// slug.Sanitize; an incrementing suffix (-2, -3, ...) avoids collisions.
func (s *Store) Add(t *Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Due != "" {
		if _, err := time.Parse("2006-01-02", t.Due); err != nil {
			return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", t.Due)
		}
	}
	if t.Added == "" {
		t.Added = time.Now().Format("2006-01-02")
	}

	base := slug.Sanitize(t.Title)
	filename := base + ".yaml"
	path := filepath.Join(s.dir, filename)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s-%d.yaml", base, i)
		path = filepath.Join(s.dir, filename)
	}
	t.Slug = strings.TrimSuffix(filename, ".yaml")

	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling task: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Get reads a task by its slug.
func (s *Store) Get(slugName string) (*Task, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, slugName+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading task %q: %w", slugName, err)
	}
	var t Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing task %q: %w", slugName, err)
	}
	t.Slug = slugName
	return &t, nil
}

// List returns all tasks sorted by due date (undated last), then title.
func (s *Store) List() ([]*Task, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		t, err := s.Get(strings.TrimSuffix(f.Name(), ".yaml"))
		if err != nil {
			continue
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.Due == "" && b.Due != "":
			return false
		case a.Due != "" && b.Due == "":
			return true
		case a.Due != b.Due:
			return a.Due < b.Due
		}
		return a.Title < b.Title
	})
	return tasks, nil
}

// Due returns open tasks whose due date is on or before now, soonest
// first.
func (s *Store) Due(now time.Time) ([]*Task, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var due []*Task
	for _, t := range all {
		if t.Overdue(now) {
			due = append(due, t)
		}
	}
	return due, nil
}

// MarkDone marks a task complete and rewrites its file.
func (s *Store) MarkDone(slugName string) error {
	t, err := s.Get(slugName)
	if err != nil {
		return err
	}
	t.Done = true
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling task: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, slugName+".yaml"), data, 0o644)
}

// Remove deletes a task by slug.
func (s *Store) Remove(slugName string) error {
	path := filepath.Join(s.dir, slugName+".yaml")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing task %q: %w", slugName, err)
	}
	return nil
}
