// Package cache provides a file-based TTL caching decorator for the
// remote directory.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/directory"
)

// CachedDirectory wraps a directory source with file-based collection
// caching. Cache files are stored under cacheDir/directory/ and are
// plain JSON, inspectable with cat.
type CachedDirectory struct {
	inner directory.Source
	dir   string
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedDirectory wraps a directory source with TTL-based caching.
// A ttl of 0 disables caching entirely.
func NewCachedDirectory(inner directory.Source, cacheDir string, ttlSeconds int) *CachedDirectory {
	return &CachedDirectory{
		inner: inner,
		dir:   filepath.Join(cacheDir, "directory"),
		ttl:   time.Duration(ttlSeconds) * time.Second,
		now:   time.Now,
	}
}

// SetClock replaces the time source (used in tests).
func (c *CachedDirectory) SetClock(now func() time.Time) { c.now = now }

// FetchContacts returns the cached contacts collection if fresh, fetching
// and re-caching on miss or expiry.
func (c *CachedDirectory) FetchContacts(ctx context.Context) ([]crm.Contact, error) {
	var contacts []crm.Contact
	if c.readCache("contacts.json", &contacts) {
		return contacts, nil
	}
	contacts, err := c.inner.FetchContacts(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache("contacts.json", contacts)
	return contacts, nil
}

// FetchAccounts returns the cached accounts collection if fresh, fetching
// and re-caching on miss or expiry.
func (c *CachedDirectory) FetchAccounts(ctx context.Context) ([]crm.Account, error) {
	var accounts []crm.Account
	if c.readCache("accounts.json", &accounts) {
		return accounts, nil
	}
	accounts, err := c.inner.FetchAccounts(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache("accounts.json", accounts)
	return accounts, nil
}

// Invalidate removes all cached collections so the next fetch goes to the
// wire.
func (c *CachedDirectory) Invalidate() {
	os.Remove(filepath.Join(c.dir, "contacts.json"))
	os.Remove(filepath.Join(c.dir, "accounts.json"))
}

// cacheEntry is the JSON format stored on disk.
type cacheEntry struct {
	Timestamp  time.Time       `json:"timestamp"`
	TTLSeconds int             `json:"ttl_seconds"`
	Records    json.RawMessage `json:"records"`
}

func (c *CachedDirectory) readCache(name string, out any) bool {
	if c.ttl <= 0 {
		return false
	}
	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupted cache file: delete and treat as miss.
		os.Remove(path)
		return false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		return false
	}
	if err := json.Unmarshal(entry.Records, out); err != nil {
		os.Remove(path)
		return false
	}
	return true
}

func (c *CachedDirectory) writeCache(name string, records any) {
	if c.ttl <= 0 {
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return // best-effort
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	entry := cacheEntry{
		Timestamp:  c.now(),
		TTLSeconds: int(c.ttl.Seconds()),
		Records:    raw,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(c.dir, name), data, 0o644)
}
