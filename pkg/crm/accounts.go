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

// EnergyFacts holds the structured energy-account data attached to an
// account. These fields are the only source for fact injection during
// draft formatting; the model's own text never is.
type EnergyFacts struct {
	Usage       string `yaml:"usage,omitempty" json:"usage,omitempty"`               // e.g. "480,000 kWh/yr"
	Supplier    string `yaml:"supplier,omitempty" json:"supplier,omitempty"`         // current supplier name
	CurrentRate string `yaml:"current_rate,omitempty" json:"current_rate,omitempty"` // $/kWh, e.g. "0.062"
	ContractEnd string `yaml:"contract_end,omitempty" json:"contract_end,omitempty"` // YYYY-MM-DD or free text
}

// Empty reports whether no energy fact is set.
func (e EnergyFacts) Empty() bool {
	return e.Supplier == "" && e.CurrentRate == "" && e.ContractEnd == ""
}

// Account represents a company the user sells into.
type Account struct {
	ID       string      `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string      `yaml:"name" json:"name"`
	Industry string      `yaml:"industry,omitempty" json:"industry,omitempty"`
	Domain   string      `yaml:"domain,omitempty" json:"domain,omitempty"`   // bare email domain, e.g. "acme.com"
	Website  string      `yaml:"website,omitempty" json:"website,omitempty"` // full URL; host is used for matching
	City     string      `yaml:"city,omitempty" json:"city,omitempty"`
	State    string      `yaml:"state,omitempty" json:"state,omitempty"`
	Energy   EnergyFacts `yaml:"energy,omitempty" json:"energy,omitempty"`
	Notes    string      `yaml:"notes,omitempty" json:"notes,omitempty"`
	Added    string      `yaml:"added,omitempty" json:"added,omitempty"` // YYYY-MM-DD
}

// AccountStore manages accounts as individual YAML files in a directory.
type AccountStore struct {
	dir string
}

// NewAccountStore creates an AccountStore rooted at dir, creating the
// directory if needed.
func NewAccountStore(dir string) (*AccountStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating accounts directory: %w", err)
	}
	return &AccountStore{dir: dir}, nil
}

// Add writes an account to disk, deriving the filename from the account
// name with an incrementing suffix on collision.
func (s *AccountStore) Add(a *Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("account name is required")
	}

	if a.Added == "" {
		a.Added = time.Now().Format("2006-01-02")
	}

	base := slug.Sanitize(a.Name)
	filename := base + ".yaml"
	path := filepath.Join(s.dir, filename)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s-%d.yaml", base, i)
		path = filepath.Join(s.dir, filename)
	}

	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling account: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Put writes an account under its exact slug, overwriting any existing
// record.
func (s *AccountStore) Put(slugName string, a *Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("account name is required")
	}
	if a.Added == "" {
		a.Added = time.Now().Format("2006-01-02")
	}
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling account: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, slugName+".yaml"), data, 0o644)
}

// Get reads an account by its slug.
func (s *AccountStore) Get(slugName string) (*Account, error) {
	path := filepath.Join(s.dir, slugName+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading account %q: %w", slugName, err)
	}
	var a Account
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing account %q: %w", slugName, err)
	}
	return &a, nil
}

// List returns all accounts sorted alphabetically by name.
func (s *AccountStore) List() ([]*Account, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	var accounts []*Account
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var a Account
		if err := yaml.Unmarshal(data, &a); err != nil {
			continue
		}
		accounts = append(accounts, &a)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i].Name) < strings.ToLower(accounts[j].Name)
	})

	return accounts, nil
}

// Remove deletes an account file by slug.
func (s *AccountStore) Remove(slugName string) error {
	path := filepath.Join(s.dir, slugName+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("account %q not found", slugName)
	}
	return os.Remove(path)
}

// Count returns the number of accounts in the store.
func (s *AccountStore) Count() int {
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
