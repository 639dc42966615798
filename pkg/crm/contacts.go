// Package crm provides YAML-file-per-record contact and account stores
// with CRUD, ranked search, and recipient resolution. CRM data never
// leaves the local machine except through explicit sync.
package crm

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

// Contact represents a single person in the CRM. JSON tags match the
// remote directory's document shape.
type Contact struct {
	ID        string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string   `yaml:"name" json:"name"`
	FirstName string   `yaml:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string   `yaml:"last_name,omitempty" json:"last_name,omitempty"`
	Email     string   `yaml:"email,omitempty" json:"email,omitempty"`
	Company   string   `yaml:"company,omitempty" json:"company,omitempty"`
	Title     string   `yaml:"title,omitempty" json:"title,omitempty"`
	Phone     string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	AccountID string   `yaml:"account_id,omitempty" json:"account_id,omitempty"`
	Tags      []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Notes     string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	Added     string   `yaml:"added,omitempty" json:"added,omitempty"` // YYYY-MM-DD
}

// First returns the contact's first name, deriving it from Name when the
// explicit field is empty.
func (c *Contact) First() string {
	if c.FirstName != "" {
		return c.FirstName
	}
	fields := strings.Fields(c.Name)
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Last returns the contact's last name, deriving it from Name when the
// explicit field is empty.
func (c *Contact) Last() string {
	if c.LastName != "" {
		return c.LastName
	}
	fields := strings.Fields(c.Name)
	if len(fields) > 1 {
		return fields[len(fields)-1]
	}
	return ""
}

// ContactStore manages contacts as individual YAML files in a directory.
type ContactStore struct {
	dir string
}

// NewContactStore creates a ContactStore rooted at dir, creating the
// directory if needed.
func NewContactStore(dir string) (*ContactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating contacts directory: %w", err)
	}
	return &ContactStore{dir: dir}, nil
}

// Add writes a contact to disk. The filename is derived from the contact's
// name via slug.Sanitize. If a file with that name already exists, an
// incrementing suffix (-2, -3, ...) is appended.
func (s *ContactStore) Add(c *Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contact name is required")
	}

	if c.Added == "" {
		c.Added = time.Now().Format("2006-01-02")
	}

	base := slug.Sanitize(c.Name)
	filename := base + ".yaml"
	path := filepath.Join(s.dir, filename)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s-%d.yaml", base, i)
		path = filepath.Join(s.dir, filename)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling contact: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Put writes a contact under its exact slug, overwriting any existing
// record. Used by sync to keep remote records stable across pulls.
func (s *ContactStore) Put(slugName string, c *Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contact name is required")
	}
	if c.Added == "" {
		c.Added = time.Now().Format("2006-01-02")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling contact: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, slugName+".yaml"), data, 0o644)
}

// Get reads a contact by its slug (filename without .yaml extension).
func (s *ContactStore) Get(slugName string) (*Contact, error) {
	path := filepath.Join(s.dir, slugName+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contact %q: %w", slugName, err)
	}
	var c Contact
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing contact %q: %w", slugName, err)
	}
	return &c, nil
}

// List returns all contacts sorted alphabetically by name.
func (s *ContactStore) List() ([]*Contact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	var contacts []*Contact
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var c Contact
		if err := yaml.Unmarshal(data, &c); err != nil {
			continue
		}
		contacts = append(contacts, &c)
	}

	sort.Slice(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})

	return contacts, nil
}

// Remove deletes a contact file by slug.
func (s *ContactStore) Remove(slugName string) error {
	path := filepath.Join(s.dir, slugName+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("contact %q not found", slugName)
	}
	return os.Remove(path)
}

// Count returns the number of contacts in the store.
func (s *ContactStore) Count() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			count++
		}
	}
	return count
}

// SlugFor returns the slug for a contact or account name.
func SlugFor(name string) string {
	return slug.Sanitize(name)
}
