// Package history provides the per-contact interaction ledger. Entries
// are stored as markdown files with YAML front matter under one
// directory per contact slug. The ledger never leaves the local machine.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry types for the interaction ledger.
const (
	TypeNote       = "note"
	TypeTranscript = "transcript"
	TypeEmail      = "email"
)

// Entry is a single interaction recorded against a contact.
type Entry struct {
	ID        string
	Type      string // note | transcript | email
	Subject   string
	Timestamp time.Time
	Content   string
}

// Context is the slice of a contact's history that feeds draft
// generation: the latest call transcript plus recent notes.
type Context struct {
	Transcript string
	Notes      string
}

// Ledger manages interaction history stored on disk.
type Ledger struct {
	root string
	mu   sync.Mutex
}

// NewLedger creates a ledger rooted at the given directory.
func NewLedger(root string) (*Ledger, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &Ledger{root: root}, nil
}

// Append writes an entry under the contact's directory. If a file with
// the same timestamp and type already exists, an incrementing index
// (-2, -3, etc.) is appended to avoid collisions.
func (l *Ledger) Append(contactSlug string, e Entry) error {
	if contactSlug == "" {
		return fmt.Errorf("contact slug is required")
	}
	if e.Type != TypeNote && e.Type != TypeTranscript && e.Type != TypeEmail {
		return fmt.Errorf("unknown entry type %q", e.Type)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(l.root, contactSlug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating contact history directory: %w", err)
	}

	ts := e.Timestamp.Format("2006-01-02T150405")
	filename := fmt.Sprintf("%s-%s.md", ts, e.Type)
	path := filepath.Join(dir, filename)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s-%s-%d.md", ts, e.Type, i)
		path = filepath.Join(dir, filename)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("type: %s\n", e.Type))
	if e.Subject != "" {
		b.WriteString(fmt.Sprintf("subject: %q\n", e.Subject))
	}
	b.WriteString(fmt.Sprintf("timestamp: %s\n", e.Timestamp.Format(time.RFC3339)))
	b.WriteString("---\n\n")
	b.WriteString(e.Content)

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// List returns a contact's entries, newest first, up to limit. If limit
// <= 0, all entries are returned. A contact with no history yields nil.
func (l *Ledger) List(contactSlug string, limit int) ([]Entry, error) {
	dir := filepath.Join(l.root, contactSlug)
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, parseEntry(string(data), f.Name()))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// maxContextNotes bounds how many recent notes feed the recipient
// context.
const maxContextNotes = 5

// Latest gathers a contact's generation context: the most recent call
// transcript and the most recent notes joined newest first.
func (l *Ledger) Latest(contactSlug string) (*Context, error) {
	entries, err := l.List(contactSlug, 0)
	if err != nil {
		return nil, err
	}

	hc := &Context{}
	var notes []string
	for _, e := range entries {
		switch e.Type {
		case TypeTranscript:
			if hc.Transcript == "" {
				hc.Transcript = e.Content
			}
		case TypeNote:
			if len(notes) < maxContextNotes {
				notes = append(notes, e.Content)
			}
		}
	}
	hc.Notes = strings.Join(notes, "\n\n")
	return hc, nil
}

// Search returns entries matching query (case-insensitive substring)
// across all contacts, newest first. The ID of a returned entry is
// "<contact-slug>/<filename>".
func (l *Ledger) Search(query string) ([]Entry, error) {
	query = strings.ToLower(query)
	var entries []Entry

	contacts, err := os.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, c := range contacts {
		if !c.IsDir() {
			continue
		}
		dir := filepath.Join(l.root, c.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, f.Name()))
			if err != nil {
				continue
			}
			if strings.Contains(strings.ToLower(string(data)), query) {
				e := parseEntry(string(data), f.Name())
				e.ID = c.Name() + "/" + f.Name()
				entries = append(entries, e)
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}

// parseEntry extracts an Entry from raw file content and filename.
func parseEntry(raw, filename string) Entry {
	e := Entry{ID: filename}

	if strings.HasPrefix(raw, "---\n") {
		end := strings.Index(raw[4:], "---\n")
		if end >= 0 {
			front := raw[4 : 4+end]
			e.Content = strings.TrimSpace(raw[4+end+4:])

			for _, line := range strings.Split(front, "\n") {
				key, val, ok := strings.Cut(line, ": ")
				if !ok {
					continue
				}
				val = strings.TrimSpace(val)
				val = strings.Trim(val, `"`)
				switch key {
				case "type":
					e.Type = val
				case "subject":
					e.Subject = val
				case "timestamp":
					if t, err := time.Parse(time.RFC3339, val); err == nil {
						e.Timestamp = t
					}
				}
			}
		} else {
			// No closing marker; treat the entire file as content.
			e.Content = strings.TrimSpace(raw[4:])
		}
	}

	return e
}
